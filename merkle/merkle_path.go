// Copyright 2016 Google LLC. All Rights Reserved.
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

package merkle

import (
	"math/bits"

	"github.com/holiman/uint256"
)

// ProofLength returns the number of siblings in an inclusion proof for a tree
// of the given size, i.e. ceil(log2(size)) for size > 1, and 0 otherwise.
func ProofLength(size int) int {
	if size <= 1 {
		return 0
	}
	return bits.Len(uint(size - 1))
}

// InclusionProof returns the sibling values needed to recompute the root from
// leaves[index], ordered from the leaf level up to the level just below the
// root.
//
// Where the tracked node is the unpaired last entry of an odd-length layer
// its sibling is the padding value Empty, and Empty is recorded in the proof.
func InclusionProof(leaves []uint256.Int, index int) ([]uint256.Int, error) {
	if len(leaves) == 0 {
		return nil, InvalidArgument("leaves", "no leaves to build a proof from")
	}
	if index < 0 || index >= len(leaves) {
		return nil, InvalidArgument("index", "leaf index %d out of range [0, %d)", index, len(leaves))
	}

	proof := make([]uint256.Int, 0, ProofLength(len(leaves)))
	layer := leaves
	for node := index; len(layer) > 1; node >>= 1 {
		// node^1 is node-1 for a right child and node+1 for a left child.
		if sibling := node ^ 1; sibling < len(layer) {
			proof = append(proof, layer[sibling])
		} else {
			proof = append(proof, Empty)
		}

		var err error
		if layer, err = NextLayer(layer); err != nil {
			return nil, err
		}
	}
	return proof, nil
}
