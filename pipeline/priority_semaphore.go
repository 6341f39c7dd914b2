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

package pipeline

import (
	"container/heap"
	"context"
	"sync"
)

// boundedSemaphore is a counting semaphore whose waiters are released in
// descending-priority, FIFO-within-priority order. A plain FIFO
// acquisition (the LOAD_SHEDDING and PriorityFixed case collapse to the
// same structure) is simply every caller using priority 0.
type boundedSemaphore struct {
	mu        sync.Mutex
	limit     int
	running   int
	waiters   priorityQueue
	seq       int64
	onSuspend func()
}

func newBoundedSemaphore(limit int) *boundedSemaphore {
	if limit < 0 {
		limit = 0
	}

	return &boundedSemaphore{limit: limit}
}

// acquire blocks until a slot is available or ctx is done, admitting the
// caller in priority order (higher first, FIFO within a tier) relative to
// other waiters. It returns false if ctx expired first.
func (s *boundedSemaphore) acquire(ctx context.Context, priority int) bool {
	s.mu.Lock()
	if s.running < s.limit {
		s.running++
		s.mu.Unlock()

		return true
	}

	w := &priorityWaiter{priority: priority, seq: s.seq, ch: make(chan struct{})}
	s.seq++
	heap.Push(&s.waiters, w)
	onSuspend := s.onSuspend
	s.mu.Unlock()

	if onSuspend != nil {
		onSuspend()
	}

	select {
	case <-w.ch:
		return true
	case <-ctx.Done():
		s.dequeue(w)

		return false
	}
}

func (s *boundedSemaphore) dequeue(w *priorityWaiter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.index >= 0 && w.index < len(s.waiters) && s.waiters[w.index] == w {
		heap.Remove(&s.waiters, w.index)

		return
	}

	// Already handed a slot concurrently with ctx expiring: give it back.
	select {
	case <-w.ch:
		s.releaseLocked()
	default:
	}
}

// release returns a slot, handing it directly to the highest-priority
// waiter if any are queued.
func (s *boundedSemaphore) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

func (s *boundedSemaphore) releaseLocked() {
	if len(s.waiters) == 0 {
		if s.running > 0 {
			s.running--
		}

		return
	}

	next := heap.Pop(&s.waiters).(*priorityWaiter)
	close(next.ch) // running stays the same: the slot transfers to next.
}

// resize changes the limit, admitting queued waiters (highest priority
// first) as slots free up.
func (s *boundedSemaphore) resize(newLimit int) {
	if newLimit < 0 {
		newLimit = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.limit = newLimit
	for s.running < s.limit && len(s.waiters) > 0 {
		next := heap.Pop(&s.waiters).(*priorityWaiter)
		s.running++
		close(next.ch)
	}
}

// setSuspendHook registers fn to be called, outside the semaphore's lock,
// each time a caller must block awaiting a slot.
func (s *boundedSemaphore) setSuspendHook(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSuspend = fn
}

func (s *boundedSemaphore) waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.waiters)
}

// priorityWaiter is one blocked acquire call.
type priorityWaiter struct {
	priority int
	seq      int64
	ch       chan struct{}
	index    int
}

// priorityQueue implements container/heap.Interface, ordering by
// descending priority and, within a tier, ascending seq (FIFO).
type priorityQueue []*priorityWaiter

func (q priorityQueue) Len() int { return len(q) }

func (q priorityQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}

	return q[i].seq < q[j].seq
}

func (q priorityQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *priorityQueue) Push(x any) {
	w := x.(*priorityWaiter)
	w.index = len(*q)
	*q = append(*q, w)
}

func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	w := old[n-1]
	old[n-1] = nil
	w.index = -1
	*q = old[:n-1]

	return w
}
