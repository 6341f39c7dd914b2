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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSemaphore_TryAcquire(t *testing.T) {
	s := NewSemaphore(2)

	require.True(t, s.TryAcquire())
	require.True(t, s.TryAcquire())
	require.False(t, s.TryAcquire())
	require.Equal(t, 2, s.Len())

	s.Release()
	require.True(t, s.TryAcquire())
}

func TestSemaphore_AcquireTimesOut(t *testing.T) {
	s := NewSemaphore(1)
	require.True(t, s.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.False(t, s.Acquire(ctx))
	require.Equal(t, 0, s.Waiting())
}

// TestSemaphore_ResizeReleasesExactlyMinWaiters verifies the boundary
// behavior from spec.md §8: resize from N to M >= N + waiting releases
// exactly min(M-N, waiting) waiters in FIFO order.
func TestSemaphore_ResizeReleasesExactlyMinWaiters(t *testing.T) {
	s := NewSemaphore(1)
	require.True(t, s.TryAcquire()) // running=1, limit=1

	const waiters = 5
	acquired := make(chan int, waiters)

	for i := range waiters {
		go func(i int) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if s.Acquire(ctx) {
				acquired <- i
			}
		}(i)
	}

	// Give goroutines time to enqueue.
	deadline := time.Now().Add(time.Second)
	for s.Waiting() < waiters && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, waiters, s.Waiting())

	// Grow the limit by 3: exactly 3 waiters should be released.
	s.Resize(4)

	released := 0
	timeout := time.After(200 * time.Millisecond)
loop:
	for {
		select {
		case <-acquired:
			released++
		case <-timeout:
			break loop
		}
	}

	require.Equal(t, 3, released)
	require.Equal(t, 2, s.Waiting())
}

func TestSemaphore_ShrinkIsPassive(t *testing.T) {
	s := NewSemaphore(3)
	require.True(t, s.TryAcquire())
	require.True(t, s.TryAcquire())
	require.True(t, s.TryAcquire())

	s.Resize(1) // Does not revoke already-held slots.
	require.Equal(t, 3, s.Len())

	s.Release()
	s.Release()
	require.False(t, s.TryAcquire()) // limit=1, running=1 already
}
