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

// Package merkle builds binary Merkle commitments over 256-bit leaf values,
// and produces and verifies inclusion proofs against the resulting root.
//
// Parent nodes are formed with PairHash, which is symmetric in its two
// arguments. Inclusion proofs therefore carry only sibling values and no
// left/right markers; the leaf position is needed to build a proof but not to
// verify one.
package merkle

import (
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// HashSize is the size in bytes of every value in the tree.
const HashSize = 32

// Empty is the value used to pad a layer of odd length. A zero leaf cannot
// be told apart from padding.
var Empty uint256.Int

// PairHash returns keccak256(a XOR b), with the XOR encoded as 32 big-endian
// bytes and the digest read back as a big-endian 256-bit integer.
//
// PairHash(a, b) == PairHash(b, a) for all a, b.
func PairHash(a, b uint256.Int) uint256.Int {
	var x uint256.Int
	x.Xor(&a, &b)
	buf := x.Bytes32()

	h := sha3.NewLegacyKeccak256()
	h.Write(buf[:])

	var out uint256.Int
	out.SetBytes32(h.Sum(nil))
	return out
}
