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

// Signal lets goroutines wait for an external wake-up, either one at a time
// (Notify) or all at once (NotifyAll).
//
// The zero value is ready to use.
type Signal struct {
	mu      sync.Mutex
	waiters []chan struct{}
}

// Wait blocks until Notify or NotifyAll wakes this waiter, or ctx is done.
// It returns true if woken, false if ctx expired first.
func (s *Signal) Wait(ctx context.Context) bool {
	ch := make(chan struct{})

	s.mu.Lock()
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

func (s *Signal) dequeueWaiter(ch chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.waiters {
		if w == ch {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)

			return
		}
	}
}

// Notify wakes exactly one waiter (the oldest queued), if any.
func (s *Signal) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.waiters) == 0 {
		return
	}

	next := s.waiters[0]
	s.waiters = s.waiters[1:]
	close(next)
}

// NotifyAll wakes every currently queued waiter.
func (s *Signal) NotifyAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.waiters {
		close(w)
	}
	s.waiters = nil
}

// Waiting returns the number of goroutines currently blocked in Wait.
func (s *Signal) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.waiters)
}
