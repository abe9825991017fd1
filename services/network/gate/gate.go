// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gate bounds the service's resource usage: a weighted semaphore
// caps concurrent database round trips, a fixed worker pool absorbs
// CPU-bound assembly work, and an atomic counter tracks in-flight
// retrieval requests for backpressure visibility.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrAcquireTimeout is returned when a database slot cannot be acquired
// within the configured wait. Callers fail the request rather than queue
// indefinitely behind a saturated store.
var ErrAcquireTimeout = errors.New("timed out acquiring database slot")

// DefaultDBPermits is the default ceiling on concurrent store queries.
// The store's connection pool must be at least this large.
const DefaultDBPermits = 15

// DefaultAcquireTimeout bounds the wait for a database slot.
const DefaultAcquireTimeout = 10 * time.Second

// Gate is the shared concurrency limiter for the retrieval pipeline.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
type Gate struct {
	sem     *semaphore.Weighted
	timeout time.Duration
	active  atomic.Int64
}

// New builds a Gate with the given permit count and acquisition timeout.
// Non-positive arguments fall back to the defaults.
func New(permits int64, timeout time.Duration) *Gate {
	if permits <= 0 {
		permits = DefaultDBPermits
	}
	if timeout <= 0 {
		timeout = DefaultAcquireTimeout
	}
	return &Gate{sem: semaphore.NewWeighted(permits), timeout: timeout}
}

// AcquireDB claims one database slot, waiting at most the configured
// timeout. On success it returns a release function that is safe to call
// exactly once from any path, including deferred cleanup after a panic.
func (g *Gate) AcquireDB(ctx context.Context) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.sem.Acquire(waitCtx, 1); err != nil {
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w after %s", ErrAcquireTimeout, g.timeout)
		}
		return nil, fmt.Errorf("acquiring database slot: %w", err)
	}

	var once sync.Once
	return func() {
		once.Do(func() { g.sem.Release(1) })
	}, nil
}

// BeginRequest increments the live request counter.
func (g *Gate) BeginRequest() {
	g.active.Add(1)
}

// EndRequest decrements the live request counter.
func (g *Gate) EndRequest() {
	g.active.Add(-1)
}

// Active returns the number of retrieval requests currently in flight.
// Read-only to every component except the retrieval entry points.
func (g *Gate) Active() int64 {
	return g.active.Load()
}
