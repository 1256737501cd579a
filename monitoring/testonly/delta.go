// Copyright 2018 Google LLC. All Rights Reserved.
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

package testonly

import (
	"fmt"
	"strings"

	"github.com/merkleproof/merkleproof/monitoring"
)

// CounterSnapshot remembers counter values so a test can assert on how much
// they moved. Package-level metrics are shared between tests, so absolute
// values are rarely useful.
type CounterSnapshot struct {
	c      monitoring.Counter
	values map[string]float64
}

// NewCounterSnapshot returns an empty snapshot of c.
func NewCounterSnapshot(c monitoring.Counter) CounterSnapshot {
	return CounterSnapshot{c: c, values: make(map[string]float64)}
}

// Record stores the current value of the counter for labels.
func (s CounterSnapshot) Record(labels ...string) CounterSnapshot {
	s.values[strings.Join(labels, "|")] = s.c.Value(labels...)
	return s
}

// Delta returns how far the counter for labels moved since Record.
func (s CounterSnapshot) Delta(labels ...string) float64 {
	old, ok := s.values[strings.Join(labels, "|")]
	if !ok {
		panic(fmt.Sprintf("no snapshot recorded for labels %v", labels))
	}
	return s.c.Value(labels...) - old
}

// HistogramSnapshot is CounterSnapshot for the observation count of a
// Histogram.
type HistogramSnapshot struct {
	h      monitoring.Histogram
	counts map[string]uint64
}

// NewHistogramSnapshot returns an empty snapshot of h.
func NewHistogramSnapshot(h monitoring.Histogram) HistogramSnapshot {
	return HistogramSnapshot{h: h, counts: make(map[string]uint64)}
}

// Record stores the current observation count for labels.
func (s HistogramSnapshot) Record(labels ...string) HistogramSnapshot {
	s.counts[strings.Join(labels, "|")], _ = s.h.Info(labels...)
	return s
}

// Delta returns how many observations were made for labels since Record.
func (s HistogramSnapshot) Delta(labels ...string) uint64 {
	old, ok := s.counts[strings.Join(labels, "|")]
	if !ok {
		panic(fmt.Sprintf("no snapshot recorded for labels %v", labels))
	}
	count, _ := s.h.Info(labels...)
	return count - old
}
