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
	"fmt"

	"github.com/holiman/uint256"
)

// RootMismatchError occurs when an inclusion proof fails.
type RootMismatchError struct {
	ExpectedRoot   uint256.Int
	CalculatedRoot uint256.Int
}

func (e RootMismatchError) Error() string {
	return fmt.Sprintf("calculated root %#x does not match expected root %#x", e.CalculatedRoot.Bytes32(), e.ExpectedRoot.Bytes32())
}

// RootFromInclusionProof calculates the root implied by leaf and proof.
func RootFromInclusionProof(leaf uint256.Int, proof []uint256.Int) uint256.Int {
	hash := leaf
	for _, sibling := range proof {
		hash = PairHash(sibling, hash)
	}
	return hash
}

// VerifyInclusion reports whether proof shows leaf to be included in the tree
// with the given root. Any mismatch, including a proof of the wrong length,
// yields false.
func VerifyInclusion(root, leaf uint256.Int, proof []uint256.Int) bool {
	calc := RootFromInclusionProof(leaf, proof)
	return calc.Eq(&root)
}

// CheckInclusion is like VerifyInclusion but returns a RootMismatchError
// describing both roots when the proof does not verify.
func CheckInclusion(root, leaf uint256.Int, proof []uint256.Int) error {
	calc := RootFromInclusionProof(leaf, proof)
	if !calc.Eq(&root) {
		return RootMismatchError{
			ExpectedRoot:   root,
			CalculatedRoot: calc,
		}
	}
	return nil
}
