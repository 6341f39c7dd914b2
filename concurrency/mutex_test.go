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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutex_TryLock(t *testing.T) {
	var m Mutex

	require.True(t, m.TryLock())
	require.False(t, m.TryLock())
	m.Unlock()
	require.True(t, m.TryLock())
}

func TestMutex_LockBlocksUntilUnlock(t *testing.T) {
	var m Mutex
	require.True(t, m.TryLock())

	done := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.True(t, m.Lock(ctx))
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("lock acquired before release")
	case <-time.After(20 * time.Millisecond):
	}

	m.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock never handed off")
	}
}

func TestMutex_LockTimesOut(t *testing.T) {
	var m Mutex
	require.True(t, m.TryLock())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.False(t, m.Lock(ctx))
}

func TestMutex_FIFOHandoff(t *testing.T) {
	var m Mutex
	require.True(t, m.TryLock())

	const n = 5
	order := make([]int, 0, n)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if m.Lock(ctx) {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				m.Unlock()
			}
		}(i)
		time.Sleep(5 * time.Millisecond) // Ensure enqueue order matches i.
	}

	m.Unlock() // Release the initial TryLock to start the chain.
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}
