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

// Package prover serves inclusion proofs for a fixed dataset.
package prover

import (
	"context"
	"sync"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/bundle"
	"github.com/merkleproof/merkleproof/merkle"
	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/util/clock"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	once          sync.Once
	datasetLeaves monitoring.Gauge
	proofsBuilt   monitoring.Counter
	proofErrors   monitoring.Counter
	proofLatency  monitoring.Histogram
	proofLength   monitoring.Histogram
)

func createMetrics(mf monitoring.MetricFactory) {
	if mf == nil {
		mf = monitoring.InertMetricFactory{}
	}
	datasetLeaves = mf.NewGauge("prover_dataset_leaves", "Number of leaves in the most recently loaded dataset")
	proofsBuilt = mf.NewCounter("prover_proofs_built", "Number of inclusion proofs built")
	proofErrors = mf.NewCounter("prover_proof_errors", "Number of proof requests rejected")
	proofLatency = mf.NewHistogram("prover_proof_latency_seconds", "Time taken to build one inclusion proof")
	proofLength = mf.NewHistogramWithBuckets("prover_proof_length", "Number of siblings in built proofs", monitoring.ProofLengthBuckets())
}

// Prover holds an immutable snapshot of a dataset together with every layer
// of its tree, so proofs are read off rather than recomputed.
type Prover struct {
	// layers[0] is a private copy of the leaves, the last layer holds the root.
	layers [][]uint256.Int
	// index maps a leaf value to the first position it occurs at.
	index map[uint256.Int]int
	ts    clock.TimeSource
}

// New snapshots leaves and builds their tree. The caller may reuse the slice
// afterwards. Metrics are registered with mf on the first call only.
func New(leaves []uint256.Int, mf monitoring.MetricFactory) (*Prover, error) {
	once.Do(func() { createMetrics(mf) })
	if len(leaves) == 0 {
		return nil, merkle.InvalidArgument("leaves", "no leaves to build a tree from")
	}

	layer := append([]uint256.Int(nil), leaves...)
	layers := [][]uint256.Int{layer}
	for len(layer) > 1 {
		var err error
		if layer, err = merkle.NextLayer(layer); err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}

	index := make(map[uint256.Int]int, len(leaves))
	for i := len(leaves) - 1; i >= 0; i-- {
		index[leaves[i]] = i
	}

	p := &Prover{layers: layers, index: index, ts: clock.System}
	datasetLeaves.Set(float64(len(leaves)))
	root := p.Root()
	klog.V(1).Infof("Built tree over %d leaves, %d layers, root %s", len(leaves), len(layers), root.Hex())
	return p, nil
}

// Root returns the root of the tree.
func (p *Prover) Root() uint256.Int {
	return p.layers[len(p.layers)-1][0]
}

// Size returns the number of leaves.
func (p *Prover) Size() int {
	return len(p.layers[0])
}

// Leaves returns a copy of the leaves.
func (p *Prover) Leaves() []uint256.Int {
	return append([]uint256.Int(nil), p.layers[0]...)
}

// Leaf returns the leaf at index.
func (p *Prover) Leaf(index int) (uint256.Int, error) {
	if err := p.checkIndex(index); err != nil {
		return uint256.Int{}, err
	}
	return p.layers[0][index], nil
}

// IndexOf returns the first position holding leaf.
func (p *Prover) IndexOf(leaf uint256.Int) (int, bool) {
	i, ok := p.index[leaf]
	return i, ok
}

func (p *Prover) checkIndex(index int) error {
	if index < 0 || index >= p.Size() {
		return merkle.InvalidArgument("index", "leaf index %d out of range [0, %d)", index, p.Size())
	}
	return nil
}

// Proof returns the inclusion proof for the leaf at index. It matches
// merkle.InclusionProof over the same leaves.
func (p *Prover) Proof(index int) ([]uint256.Int, error) {
	if err := p.checkIndex(index); err != nil {
		proofErrors.Inc()
		return nil, err
	}
	start := p.ts.Now()
	proof := make([]uint256.Int, 0, len(p.layers)-1)
	node := index
	for _, layer := range p.layers[:len(p.layers)-1] {
		if sibling := node ^ 1; sibling < len(layer) {
			proof = append(proof, layer[sibling])
		} else {
			proof = append(proof, merkle.Empty)
		}
		node >>= 1
	}
	proofsBuilt.Inc()
	proofLength.Observe(float64(len(proof)))
	proofLatency.Observe(clock.SecondsSince(p.ts, start))
	return proof, nil
}

// Bundle returns a self-contained proof for the leaf at index.
func (p *Prover) Bundle(index int) (*bundle.Bundle, error) {
	proof, err := p.Proof(index)
	if err != nil {
		return nil, err
	}
	return &bundle.Bundle{
		Root:  p.Root(),
		Index: uint64(index),
		Leaf:  p.layers[0][index],
		Path:  proof,
	}, nil
}

// AllProofs returns the proof of every leaf, in leaf order, building up to
// limit proofs concurrently. A limit of zero or less means no limit. It
// stops early and returns ctx's error if ctx is done.
func (p *Prover) AllProofs(ctx context.Context, limit int) ([][]uint256.Int, error) {
	proofs := make([][]uint256.Int, p.Size())
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range proofs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			proof, err := p.Proof(i)
			if err != nil {
				return err
			}
			proofs[i] = proof
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The loop may have stopped before any goroutine saw the cancellation.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return proofs, nil
}
