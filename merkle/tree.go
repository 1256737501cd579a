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

package merkle

import (
	"github.com/holiman/uint256"
)

// NextLayer returns the layer above the given one. Entry i of the result is
// PairHash(layer[2i], layer[2i+1]); an odd-length layer is paired as if a
// single Empty value were appended to it. The input slice is not modified.
func NextLayer(layer []uint256.Int) ([]uint256.Int, error) {
	if len(layer) == 0 {
		return nil, InvalidArgument("layer", "cannot reduce an empty layer")
	}
	next := make([]uint256.Int, (len(layer)+1)/2)
	for i := range next {
		right := Empty
		if r := 2*i + 1; r < len(layer) {
			right = layer[r]
		}
		next[i] = PairHash(layer[2*i], right)
	}
	return next, nil
}

// Root returns the root of the tree built over leaves. A single leaf is its
// own root.
func Root(leaves []uint256.Int) (uint256.Int, error) {
	if len(leaves) == 0 {
		return uint256.Int{}, InvalidArgument("leaves", "no leaves to build a tree from")
	}
	layer := leaves
	for len(layer) > 1 {
		var err error
		if layer, err = NextLayer(layer); err != nil {
			return uint256.Int{}, err
		}
	}
	return layer[0], nil
}
