// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package concurrency

import (
	"context"
	"sync"
)

// Semaphore is a counting semaphore with a resizable limit. Waiters are
// released in FIFO order, both on Release and on Resize growing the limit.
type Semaphore struct {
	mu      sync.Mutex
	limit   int
	running int
	waiters []chan struct{}
}

// NewSemaphore creates a Semaphore that admits up to limit concurrent
// holders. A non-positive limit behaves as a limit of zero (every
// acquisition blocks until Resize raises it).
func NewSemaphore(limit int) *Semaphore {
	if limit < 0 {
		limit = 0
	}

	return &Semaphore{limit: limit}
}

// TryAcquire acquires a slot without blocking. It returns true if a slot was
// available.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running >= s.limit {
		return false
	}
	s.running++

	return true
}

// Acquire blocks until a slot is available or ctx is done. It returns true
// on acquisition, false if ctx expired first.
func (s *Semaphore) Acquire(ctx context.Context) bool {
	s.mu.Lock()
	if s.running < s.limit {
		s.running++
		s.mu.Unlock()

		return true
	}

	ch := make(chan struct{})
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()

	select {
	case <-ch:
		return true
	case <-ctx.Done():
		s.dequeueWaiter(ch)

		return false
	}
}

func (s *Semaphore) dequeueWaiter(ch chan struct{}) {
	s.mu.Lock()

	for i, w := range s.waiters {
		if w == ch {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
			s.mu.Unlock()

			return
		}
	}
	s.mu.Unlock()

	// Already handed a slot concurrently with ctx expiring: honor it by
	// releasing the slot back rather than leaking it.
	select {
	case <-ch:
		s.Release()
	default:
	}
}

// Release returns a slot. If a waiter is queued, the slot is handed
// directly to the oldest waiter (FIFO); otherwise the running count drops
// and the slot becomes available to the next TryAcquire/Acquire caller.
func (s *Semaphore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.waiters) == 0 {
		if s.running > 0 {
			s.running--
		}

		return
	}

	next := s.waiters[0]
	s.waiters = s.waiters[1:]
	close(next) // running stays the same: the slot transfers to next.
}

// Resize changes the limit. Growing the limit releases
// min(newLimit-current, len(waiters)) queued waiters in FIFO order.
// Shrinking the limit takes effect passively as running holders release;
// Resize never revokes a slot already held.
func (s *Semaphore) Resize(newLimit int) {
	if newLimit < 0 {
		newLimit = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.limit = newLimit

	for s.running < s.limit && len(s.waiters) > 0 {
		next := s.waiters[0]
		s.waiters = s.waiters[1:]
		s.running++
		close(next)
	}
}

// Len returns the number of currently held slots.
func (s *Semaphore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// Waiting returns the number of goroutines currently blocked in Acquire.
func (s *Semaphore) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.waiters)
}
