// Copyright 2026 Google LLC. All Rights Reserved.
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

package rootstore

import (
	"context"
	"sync"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/bundle"
	"github.com/merkleproof/merkleproof/merkle"
	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/util/clock"
	"k8s.io/klog/v2"
)

const (
	resultLabel   = "result"
	resultValid   = "valid"
	resultInvalid = "invalid"
	resultError   = "error"
)

var (
	once           sync.Once
	rootsSet       monitoring.Counter
	rootReadErrors monitoring.Counter
	verifications  monitoring.Counter
	verifyLatency  monitoring.Histogram
)

func createMetrics(mf monitoring.MetricFactory) {
	if mf == nil {
		mf = monitoring.InertMetricFactory{}
	}
	rootsSet = mf.NewCounter("rootstore_roots_set", "Number of roots published")
	rootReadErrors = mf.NewCounter("rootstore_read_errors", "Number of failed root reads, excluding missing roots")
	verifications = mf.NewCounter("rootstore_verifications", "Number of proof verifications by outcome", resultLabel)
	verifyLatency = mf.NewHistogram("rootstore_verify_latency_seconds", "Time taken to check a proof, including the root read")
}

// Verifier keeps published roots in a Storage and checks proofs against
// them.
type Verifier struct {
	s  Storage
	ts clock.TimeSource
}

// NewVerifier returns a Verifier over s. Metrics are registered with mf on
// the first call only.
func NewVerifier(s Storage, mf monitoring.MetricFactory) *Verifier {
	once.Do(func() { createMetrics(mf) })
	return &Verifier{s: s, ts: clock.System}
}

// SetRoot publishes root under name, replacing the previous one.
func (v *Verifier) SetRoot(ctx context.Context, name string, root uint256.Int) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if err := v.s.WriteRoot(ctx, name, root); err != nil {
		return Wrap(err, "write", name)
	}
	rootsSet.Inc()
	klog.V(1).Infof("Published root %q = %s", name, root.Hex())
	return nil
}

// GetRoot returns the root published under name. It fails with
// codes.NotFound if nothing was published.
func (v *Verifier) GetRoot(ctx context.Context, name string) (uint256.Int, error) {
	if err := CheckName(name); err != nil {
		return uint256.Int{}, err
	}
	root, err := v.s.ReadRoot(ctx, name)
	if err != nil {
		if !IsNotFound(err) {
			rootReadErrors.Inc()
		}
		return uint256.Int{}, Wrap(err, "read", name)
	}
	return root, nil
}

// VerifyProof reports whether proof leads from leaf to the root published
// under name. A proof that does not verify is not an error; errors come
// only from reading the root.
func (v *Verifier) VerifyProof(ctx context.Context, name string, leaf uint256.Int, proof []uint256.Int) (bool, error) {
	start := v.ts.Now()
	defer func() { verifyLatency.Observe(clock.SecondsSince(v.ts, start)) }()

	root, err := v.GetRoot(ctx, name)
	if err != nil {
		verifications.Inc(resultError)
		return false, err
	}
	if !merkle.VerifyInclusion(root, leaf, proof) {
		verifications.Inc(resultInvalid)
		klog.V(2).Infof("Proof for leaf %s does not lead to root %q", leaf.Hex(), name)
		return false, nil
	}
	verifications.Inc(resultValid)
	return true, nil
}

// VerifyBundle checks b's leaf and path against the root published under
// name. The root carried inside the bundle is ignored.
func (v *Verifier) VerifyBundle(ctx context.Context, name string, b *bundle.Bundle) (bool, error) {
	return v.VerifyProof(ctx, name, b.Leaf, b.Path)
}

// Close closes the underlying storage.
func (v *Verifier) Close() error {
	return v.s.Close()
}
