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

// Mutex is an exclusive lock with fair (FIFO) handoff on release: the next
// waiter in line is woken and granted ownership atomically, rather than
// racing newcomers for the lock (no barging).
//
// The zero value is a ready-to-use, unlocked Mutex.
type Mutex struct {
	mu      sync.Mutex
	locked  bool
	waiters []chan struct{}
}

// TryLock acquires the mutex without blocking. It returns true if the lock
// was acquired, false if it is currently held.
func (m *Mutex) TryLock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locked {
		return false
	}
	m.locked = true

	return true
}

// Lock blocks until the mutex is acquired or ctx is done. It returns true on
// acquisition, false if ctx expired first. A waiter that times out is
// de-queued; remaining waiters keep their FIFO order.
func (m *Mutex) Lock(ctx context.Context) bool {
	m.mu.Lock()
	if !m.locked {
		m.locked = true
		m.mu.Unlock()

		return true
	}

	ch := make(chan struct{})
	m.waiters = append(m.waiters, ch)
	m.mu.Unlock()

	select {
	case <-ch:
		// Handed off: we now own the lock.
		return true
	case <-ctx.Done():
		m.dequeueWaiter(ch)

		return false
	}
}

// dequeueWaiter removes ch from the waiter list unless it has already been
// handed the lock (in which case the handoff must be honored to avoid
// leaving the mutex locked with no owner).
func (m *Mutex) dequeueWaiter(ch chan struct{}) {
	m.mu.Lock()

	for i, w := range m.waiters {
		if w == ch {
			m.waiters = append(m.waiters[:i], m.waiters[i+1:]...)
			m.mu.Unlock()

			return
		}
	}
	m.mu.Unlock()

	// Not found: it was already popped and signaled by Unlock concurrently
	// with our ctx.Done() firing. Honor the handoff so the lock is not
	// stuck in the locked state with no owner.
	select {
	case <-ch:
		m.Unlock()
	default:
	}
}

// Unlock releases the mutex. If a waiter is queued, ownership is handed
// directly to it (the waiter's Lock call returns true without the mutex
// ever appearing unlocked to a third party); otherwise the mutex becomes
// free.
func (m *Mutex) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.waiters) == 0 {
		m.locked = false

		return
	}

	next := m.waiters[0]
	m.waiters = m.waiters[1:]
	close(next) // locked stays true: ownership transfers to next directly.
}
