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

// Package monitoring holds the metric abstractions used by the prover and
// the root stores. Concrete factories live in sub-packages, and an inert
// factory is provided here for binaries and tests that export nothing.
package monitoring

// MetricFactory creates named metrics. Implementations may register the
// metric globally, so a given name should only be created once per process.
type MetricFactory interface {
	NewCounter(name, help string, labelNames ...string) Counter
	NewGauge(name, help string, labelNames ...string) Gauge
	NewHistogram(name, help string, labelNames ...string) Histogram
	NewHistogramWithBuckets(name, help string, buckets []float64, labelNames ...string) Histogram
}

// Counter only goes up: proofs built, verifications attempted.
type Counter interface {
	Inc(labelVals ...string)
	Add(val float64, labelVals ...string)
	Value(labelVals ...string) float64
}

// Gauge tracks a value that moves both ways, such as the size of the
// dataset currently being served.
type Gauge interface {
	Inc(labelVals ...string)
	Dec(labelVals ...string)
	Add(val float64, labelVals ...string)
	Set(val float64, labelVals ...string)
	// Value is mostly of use to tests.
	Value(labelVals ...string) float64
}

// Histogram tracks a distribution of observations.
type Histogram interface {
	Observe(val float64, labelVals ...string)
	// Info returns the observation count and sum for a set of labels.
	Info(labelVals ...string) (uint64, float64)
}
