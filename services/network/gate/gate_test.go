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
	"errors"
	"testing"
	"time"
)

func TestAcquireDBGrantsUpToPermits(t *testing.T) {
	g := New(2, 50*time.Millisecond)
	ctx := context.Background()

	r1, err := g.AcquireDB(ctx)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	r2, err := g.AcquireDB(ctx)
	if err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}

	if _, err := g.AcquireDB(ctx); !errors.Is(err, ErrAcquireTimeout) {
		t.Errorf("third acquire error = %v, want ErrAcquireTimeout", err)
	}

	r1()
	r3, err := g.AcquireDB(ctx)
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	r3()
	r2()
}

func TestAcquireDBReleaseIsIdempotent(t *testing.T) {
	g := New(1, 50*time.Millisecond)
	release, err := g.AcquireDB(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	release()
	release() // second call must not over-release

	r, err := g.AcquireDB(context.Background())
	if err != nil {
		t.Fatalf("acquire after double release failed: %v", err)
	}
	r()
	// With a single permit, a double release would have allowed two
	// concurrent holders. Verify the ceiling still holds.
	hold, err := g.AcquireDB(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if _, err := g.AcquireDB(context.Background()); !errors.Is(err, ErrAcquireTimeout) {
		t.Errorf("ceiling broken after double release: err = %v", err)
	}
	hold()
}

func TestAcquireDBCanceledCaller(t *testing.T) {
	g := New(1, time.Second)
	hold, err := g.AcquireDB(context.Background())
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer hold()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.AcquireDB(ctx); errors.Is(err, ErrAcquireTimeout) || err == nil {
		t.Errorf("canceled caller: err = %v, want context error, not timeout", err)
	}
}

func TestActiveCounter(t *testing.T) {
	g := New(1, time.Second)
	if g.Active() != 0 {
		t.Fatalf("initial Active() = %d, want 0", g.Active())
	}
	g.BeginRequest()
	g.BeginRequest()
	if g.Active() != 2 {
		t.Errorf("Active() = %d, want 2", g.Active())
	}
	g.EndRequest()
	if g.Active() != 1 {
		t.Errorf("Active() = %d, want 1", g.Active())
	}
	g.EndRequest()
	if g.Active() != 0 {
		t.Errorf("Active() = %d, want 0", g.Active())
	}
}

func TestPoolRunsTasks(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	results := make(chan int, 100)
	for i := 0; i < 100; i++ {
		i := i
		if err := p.Do(context.Background(), func() error {
			results <- i
			return nil
		}); err != nil {
			t.Fatalf("Do(%d) failed: %v", i, err)
		}
	}
	close(results)

	seen := make(map[int]bool)
	for v := range results {
		seen[v] = true
	}
	if len(seen) != 100 {
		t.Errorf("saw %d distinct results, want 100", len(seen))
	}
}

func TestPoolPropagatesTaskError(t *testing.T) {
	p := NewPool(1)
	defer p.Close()

	sentinel := errors.New("boom")
	err := p.Do(context.Background(), func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("Do error = %v, want sentinel", err)
	}
}

func TestPoolRecoversPanickingTask(t *testing.T) {
	p := NewPool(1)
	defer p.Close()

	err := p.Do(context.Background(), func() error { panic("kaboom") })
	if err == nil {
		t.Fatal("Do returned nil for a panicking task")
	}

	// The worker must survive the panic and keep serving.
	if err := p.Do(context.Background(), func() error { return nil }); err != nil {
		t.Errorf("pool dead after panic: %v", err)
	}
}

func TestPoolHonorsContext(t *testing.T) {
	p := NewPool(1)
	defer p.Close()

	started := make(chan struct{})
	blocker := make(chan struct{})
	go func() {
		_ = p.Do(context.Background(), func() error {
			close(started)
			<-blocker
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Do(ctx, func() error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do with blocked pool: err = %v, want deadline exceeded", err)
	}
	close(blocker)
}
