// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gate

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// DefaultPoolWorkers is the default CPU worker count for assembly steps.
const DefaultPoolWorkers = 10

// Pool is a fixed-size worker pool for CPU-bound transform steps.
//
// # Description
//
// The retrieval path hands merge, prune, aggregation and layout work to
// the pool so request dispatch never runs them inline. Tasks complete in
// no particular order. A panicking task is recovered inside its worker
// and surfaced to the submitter as an error carrying the stack; the
// worker itself keeps serving.
//
// # Thread Safety
//
// Submit from any goroutine. Close exactly once, after all submitters
// have stopped.
type Pool struct {
	tasks chan poolTask
	wg    sync.WaitGroup

	closeOnce sync.Once
}

type poolTask struct {
	fn   func() error
	done chan error
}

// NewPool starts workers goroutines. Non-positive counts fall back to
// DefaultPoolWorkers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultPoolWorkers
	}
	p := &Pool{tasks: make(chan poolTask)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task.done <- runTask(task.fn)
	}
}

func runTask(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 8192)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("pool task panicked: %v\n%s", r, buf[:n])
		}
	}()
	return fn()
}

// Do submits fn and waits for it to finish. If ctx ends before a worker
// picks the task up, Do returns the context error and the task never
// runs. If ctx ends while the task is already running, the task runs to
// completion but Do returns the context error.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	select {
	case p.tasks <- poolTask{fn: fn, done: done}:
	case <-ctx.Done():
		return fmt.Errorf("submitting pool task: %w", ctx.Err())
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("awaiting pool task: %w", ctx.Err())
	}
}

// Close stops the workers after in-flight tasks drain. Safe to call more
// than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
