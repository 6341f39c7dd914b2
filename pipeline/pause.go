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

import "sync"

// pausableState tracks whether a Pipeline currently admits new operations
// at DEQUEUE, and how many operations are in flight so Stop can drain.
//
// On Pause, new operations are shed immediately with SERVICE_UNAVAILABLE
// rather than entering the stage chain — the "alternate shedding
// terminal" from the core design, swapped back out on Resume. Stop stops
// admitting entirely (operations arriving afterwards are shed the same
// way) and waits for every operation already admitted to finish.
type pausableState struct {
	mu      sync.RWMutex
	paused  bool
	stopped bool
	wg      sync.WaitGroup
}

// enter attempts to admit one operation. It returns false if the
// pipeline is paused or stopped, in which case the caller must shed the
// operation without running any stage.
func (s *pausableState) enter() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped || s.paused {
		return false
	}

	s.wg.Add(1)

	return true
}

// leave records that an admitted operation has finished processing.
func (s *pausableState) leave() { s.wg.Done() }

// Pause stops admitting new operations; in-flight operations continue.
func (s *pausableState) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// Resume restores normal admission.
func (s *pausableState) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
}

// Stop permanently stops admission and blocks until every admitted
// operation has finished.
func (s *pausableState) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.wg.Wait()
}

// Pause stops the pipeline from admitting new operations at DEQUEUE;
// already-admitted operations continue to COMPLETE.
func (p *Pipeline) Pause() { p.state.Pause() }

// Resume restores normal admission after Pause.
func (p *Pipeline) Resume() { p.state.Resume() }

// Stop permanently stops admission and waits for all in-flight
// operations to reach a terminal state.
func (p *Pipeline) Stop() { p.state.Stop() }
