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

// Package testonly holds conformance checks for MetricFactory
// implementations and helpers for asserting on metric changes.
package testonly

import (
	"testing"

	"github.com/merkleproof/merkleproof/monitoring"
)

type labelCase struct {
	suffix     string
	labelNames []string
	labelVals  []string
}

var labelCases = []labelCase{
	{suffix: "0"},
	{suffix: "1", labelNames: []string{"store"}, labelVals: []string{"memory"}},
	{suffix: "2", labelNames: []string{"store", "result"}, labelVals: []string{"memory", "ok"}},
}

// bogus returns a label set one longer than the metric expects.
func (lc labelCase) bogus() []string {
	return append(append([]string(nil), lc.labelVals...), "bogus")
}

// TestCounter checks a Counter produced by factory. Each call creates
// metrics named test_counter{0,1,2}, so it can only run once per factory
// that registers globally.
func TestCounter(t *testing.T, factory monitoring.MetricFactory) {
	t.Helper()
	for _, lc := range labelCases {
		name := "test_counter" + lc.suffix
		c := factory.NewCounter(name, "Test only", lc.labelNames...)
		for _, step := range []struct {
			apply func()
			want  float64
		}{
			{apply: func() {}, want: 0},
			{apply: func() { c.Inc(lc.labelVals...) }, want: 1},
			{apply: func() { c.Add(2.5, lc.labelVals...) }, want: 3.5},
			// Mismatched label counts are dropped.
			{apply: func() { c.Inc(lc.bogus()...); c.Add(10, lc.bogus()...) }, want: 3.5},
		} {
			step.apply()
			if got := c.Value(lc.labelVals...); got != step.want {
				t.Errorf("%s%v.Value(): got %v, want %v", name, lc.labelVals, got, step.want)
			}
		}
		if got := c.Value(lc.bogus()...); got != 0 {
			t.Errorf("%s%v.Value(): got %v, want 0", name, lc.bogus(), got)
		}
	}
}

// TestGauge checks a Gauge produced by factory.
func TestGauge(t *testing.T, factory monitoring.MetricFactory) {
	t.Helper()
	for _, lc := range labelCases {
		name := "test_gauge" + lc.suffix
		g := factory.NewGauge(name, "Test only", lc.labelNames...)
		for _, step := range []struct {
			apply func()
			want  float64
		}{
			{apply: func() {}, want: 0},
			{apply: func() { g.Inc(lc.labelVals...) }, want: 1},
			{apply: func() { g.Dec(lc.labelVals...) }, want: 0},
			{apply: func() { g.Add(2.5, lc.labelVals...) }, want: 2.5},
			{apply: func() { g.Set(42, lc.labelVals...) }, want: 42},
			{apply: func() {
				g.Add(10, lc.bogus()...)
				g.Inc(lc.bogus()...)
				g.Dec(lc.bogus()...)
				g.Set(120, lc.bogus()...)
			}, want: 42},
		} {
			step.apply()
			if got := g.Value(lc.labelVals...); got != step.want {
				t.Errorf("%s%v.Value(): got %v, want %v", name, lc.labelVals, got, step.want)
			}
		}
		if got := g.Value(lc.bogus()...); got != 0 {
			t.Errorf("%s%v.Value(): got %v, want 0", name, lc.bogus(), got)
		}
	}
}

// TestHistogram checks a Histogram produced by factory.
func TestHistogram(t *testing.T, factory monitoring.MetricFactory) {
	t.Helper()
	for _, lc := range labelCases {
		name := "test_histogram" + lc.suffix
		h := factory.NewHistogram(name, "Test only", lc.labelNames...)
		checkInfo(t, name, h, lc.labelVals, 0, 0)
		for _, v := range []float64{1, 2, 3} {
			h.Observe(v, lc.labelVals...)
		}
		checkInfo(t, name, h, lc.labelVals, 3, 6)

		h.Observe(100, lc.bogus()...)
		h.Observe(200, lc.bogus()...)
		checkInfo(t, name, h, lc.bogus(), 0, 0)
		checkInfo(t, name, h, lc.labelVals, 3, 6)
	}
}

func checkInfo(t *testing.T, name string, h monitoring.Histogram, labelVals []string, wantCount uint64, wantSum float64) {
	t.Helper()
	if gotCount, gotSum := h.Info(labelVals...); gotCount != wantCount || gotSum != wantSum {
		t.Errorf("%s%v.Info(): got %v,%v, want %v,%v", name, labelVals, gotCount, gotSum, wantCount, wantSum)
	}
}
