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

package monitoring

// LatencyBuckets returns histogram upper bounds for latencies measured in
// seconds. Proof work is CPU bound and fast, so the range starts at 10µs and
// grows by half each step to roughly 50 seconds.
func LatencyBuckets() []float64 {
	return ExpBuckets(0.00001, 1.5, 39)
}

// LinearBuckets returns count upper bounds starting at start and spaced by
// width. It returns nil if count is zero or width is not positive.
func LinearBuckets(start, width float64, count uint) []float64 {
	if count == 0 || width <= 0 {
		return nil
	}
	r := make([]float64, count)
	for i := range r {
		r[i] = start + float64(i)*width
	}
	return r
}

// ProofLengthBuckets returns one bucket per possible proof length for
// datasets of up to 2^64 leaves.
func ProofLengthBuckets() []float64 {
	return LinearBuckets(0, 1, 65)
}

// ExpBuckets returns the specified number of histogram buckets with
// exponentially increasing thresholds. The thresholds vary between base and
// base * mult^(buckets-1).
func ExpBuckets(base, mult float64, buckets uint) []float64 {
	r := make([]float64, buckets)
	for i, exp := uint(0), base; i < buckets; i, exp = i+1, exp*mult {
		r[i] = exp
	}
	return r
}
