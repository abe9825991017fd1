// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the background sweep removes expired
// entries. LRU eviction only fires on overflow; the sweep keeps expired
// entries from lingering in an under-capacity cache.
const DefaultSweepInterval = 300 * time.Second

// Sweeper periodically expires cache entries in the background.
//
// # Thread Safety
//
// Start and Stop are safe to call from any goroutine. Start is a no-op
// while already running; Stop is a no-op while stopped.
type Sweeper struct {
	cache    *FilterOptionCache
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	running bool
	done    chan struct{}
	stopped sync.WaitGroup
}

// NewSweeper builds a sweeper for the given cache. A non-positive
// interval falls back to DefaultSweepInterval.
func NewSweeper(c *FilterOptionCache, interval time.Duration, log *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{cache: c, interval: interval, log: log}
}

// Start launches the sweep loop.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.done = make(chan struct{})
	s.stopped.Add(1)

	go s.run(s.done)
	s.log.Info("cache sweeper started", "interval", s.interval.String())
}

func (s *Sweeper) run(done chan struct{}) {
	defer s.stopped.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.cache.Sweep(); removed > 0 {
				s.log.Info("cache sweep removed expired entries", "removed", removed)
			}
		case <-done:
			return
		}
	}
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()

	s.stopped.Wait()
	s.log.Info("cache sweeper stopped")
}
