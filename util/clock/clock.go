// Copyright 2017 Google LLC. All Rights Reserved.
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

// Package clock lets latency metrics be driven by a fake clock in tests.
package clock

import (
	"sync"
	"time"
)

// System reads the real wall clock.
var System TimeSource = systemTimeSource{}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

// SecondsSince returns the seconds elapsed between t and ts.Now().
func SecondsSince(ts TimeSource, t time.Time) float64 {
	return ts.Now().Sub(t).Seconds()
}

type systemTimeSource struct{}

func (systemTimeSource) Now() time.Time {
	return time.Now()
}

// FakeTimeSource reports a time that only moves when told to. For tests.
type FakeTimeSource struct {
	mu   sync.RWMutex
	now  time.Time
	step time.Duration
}

// NewFake returns a FakeTimeSource stopped at t.
func NewFake(t time.Time) *FakeTimeSource {
	return &FakeTimeSource{now: t}
}

// NewTicking returns a FakeTimeSource starting at t that advances by step
// after every call to Now, so each timed operation appears to take exactly
// step.
func NewTicking(t time.Time, step time.Duration) *FakeTimeSource {
	return &FakeTimeSource{now: t, step: step}
}

// Now returns the fake time, then advances it by the ticking step if any.
func (f *FakeTimeSource) Now() time.Time {
	if f.step == 0 {
		f.mu.RLock()
		defer f.mu.RUnlock()
		return f.now
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now
	f.now = f.now.Add(f.step)
	return now
}

// Set moves the fake time to t.
func (f *FakeTimeSource) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// Advance moves the fake time forward by d.
func (f *FakeTimeSource) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
