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

func TestSignal_NotifyWakesOne(t *testing.T) {
	var s Signal
	woken := make(chan int, 2)

	for i := range 2 {
		go func(i int) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if s.Wait(ctx) {
				woken <- i
			}
		}(i)
	}

	deadline := time.Now().Add(time.Second)
	for s.Waiting() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	s.Notify()

	select {
	case <-woken:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("no waiter woken")
	}

	require.Equal(t, 1, s.Waiting())
}

func TestSignal_NotifyAllWakesEveryone(t *testing.T) {
	var s Signal
	const n = 4
	woken := make(chan struct{}, n)

	for range n {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if s.Wait(ctx) {
				woken <- struct{}{}
			}
		}()
	}

	deadline := time.Now().Add(time.Second)
	for s.Waiting() < n && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	s.NotifyAll()

	for range n {
		select {
		case <-woken:
		case <-time.After(time.Second):
			t.Fatal("not all waiters woken")
		}
	}
}

func TestSignal_WaitTimesOut(t *testing.T) {
	var s Signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.False(t, s.Wait(ctx))
	require.Equal(t, 0, s.Waiting())
}
