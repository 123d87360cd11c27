// Copyright (C) 2020-2026 Aurum Ledger Foundation.
// This file is part of go-aurum
//
// go-aurum is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-aurum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-aurum.  If not, see <https://www.gnu.org/licenses/>.

// Package sclock provides a process-scoped seconds clock: a single
// sampling goroutine publishes a coarse wall-clock reading once per second
// to registered waiters, each under its own lock. Exactly one sampler runs
// per Service; the process-wide Default service is initialized on first
// use and joined by Stop on teardown.
package sclock

import (
	"sync"
	"time"

	"github.com/algorand/go-deadlock"
)

// Service samples the wall clock on a fixed interval and caches the result.
type Service struct {
	mu      deadlock.Mutex
	now     time.Time
	waiters map[*Handle]struct{}

	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// A Handle is a scoped registration of a waiter callback. Releasing the
// handle detaches the callback; release order determines destruction order.
type Handle struct {
	mu  deadlock.Mutex
	svc *Service
	fn  func(time.Time)
}

var (
	defaultService *Service
	defaultOnce    sync.Once
)

// Default returns the process-wide seconds clock, starting its sampler on
// first use.
func Default() *Service {
	defaultOnce.Do(func() {
		defaultService = MakeService(time.Second)
	})
	return defaultService
}

// MakeService creates a Service sampling on the given interval and starts
// its sampling goroutine.
func MakeService(interval time.Duration) *Service {
	s := &Service{
		now:      time.Now().UTC(),
		waiters:  make(map[*Handle]struct{}),
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.sampler()
	return s
}

// Now returns the most recent sample. The reading is coarse: it lags the
// wall clock by up to one sampling interval.
func (s *Service) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Register attaches a waiter invoked with each new sample.
func (s *Service) Register(fn func(time.Time)) *Handle {
	h := &Handle{svc: s, fn: fn}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiters[h] = struct{}{}
	return h
}

// Release detaches the waiter. It is safe to call more than once. Once
// Release returns, the callback will not be invoked again.
func (h *Handle) Release() {
	if h.svc == nil {
		return
	}
	h.svc.mu.Lock()
	delete(h.svc.waiters, h)
	h.svc.mu.Unlock()

	h.mu.Lock()
	h.fn = nil
	h.mu.Unlock()
	h.svc = nil
}

// Stop terminates the sampling goroutine and joins it.
func (s *Service) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Service) sampler() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
		case <-s.stop:
			return
		}

		now := time.Now().UTC()
		s.mu.Lock()
		s.now = now
		handles := make([]*Handle, 0, len(s.waiters))
		for h := range s.waiters {
			handles = append(handles, h)
		}
		s.mu.Unlock()

		for _, h := range handles {
			h.mu.Lock()
			if h.fn != nil {
				h.fn(now)
			}
			h.mu.Unlock()
		}
	}
}
