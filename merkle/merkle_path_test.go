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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/merkle/testonly"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestProofLength(t *testing.T) {
	for _, tc := range []struct {
		size, want int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {16, 4}, {17, 5}, {1 << 20, 20}, {1<<20 + 1, 21},
	} {
		if got := ProofLength(tc.size); got != tc.want {
			t.Errorf("ProofLength(%d): got %d, want %d", tc.size, got, tc.want)
		}
	}
}

func TestInclusionProof(t *testing.T) {
	leaves := testonly.LeafValues()
	for i, want := range testonly.InclusionProofs() {
		t.Run(fmt.Sprintf("leaf:%d", i), func(t *testing.T) {
			got, err := InclusionProof(leaves, i)
			if err != nil {
				t.Fatalf("InclusionProof: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("InclusionProof diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInclusionProofKeepsPadding(t *testing.T) {
	leaves := testonly.LeafValues()
	proof, err := InclusionProof(leaves, 8)
	if err != nil {
		t.Fatalf("InclusionProof: %v", err)
	}
	if got, want := len(proof), 4; got != want {
		t.Fatalf("len(proof): got %d, want %d", got, want)
	}
	for level := 0; level < 3; level++ {
		if !proof[level].IsZero() {
			t.Errorf("proof[%d]: got %s, want padding value 0", level, proof[level].Hex())
		}
	}
	if !VerifyInclusion(testonly.RootHash(), leaves[8], proof) {
		t.Error("VerifyInclusion(leaf 8) = false, want true")
	}
	// Dropping the padding siblings must break the proof.
	if VerifyInclusion(testonly.RootHash(), leaves[8], proof[3:]) {
		t.Error("VerifyInclusion with padding removed = true, want false")
	}
}

func TestInclusionProofSingleLeaf(t *testing.T) {
	proof, err := InclusionProof([]uint256.Int{mv("42")}, 0)
	if err != nil {
		t.Fatalf("InclusionProof: %v", err)
	}
	if len(proof) != 0 {
		t.Errorf("InclusionProof of single leaf: got %d siblings, want 0", len(proof))
	}
}

func TestInclusionProofErrors(t *testing.T) {
	leaves := testonly.LeafValues()
	for _, tc := range []struct {
		desc      string
		leaves    []uint256.Int
		index     int
		wantField string
	}{
		{desc: "no leaves", leaves: nil, index: 0, wantField: "leaves"},
		{desc: "negative index", leaves: leaves, index: -1, wantField: "index"},
		{desc: "index == size", leaves: leaves, index: len(leaves), wantField: "index"},
		{desc: "index > size", leaves: leaves, index: 100, wantField: "index"},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			proof, err := InclusionProof(tc.leaves, tc.index)
			if got, want := status.Code(err), codes.InvalidArgument; got != want {
				t.Fatalf("InclusionProof: got code %v (err %v), want %v", got, err, want)
			}
			if proof != nil {
				t.Errorf("InclusionProof: got proof %v on error, want nil", proof)
			}
			if got := ViolatedField(err); got != tc.wantField {
				t.Errorf("ViolatedField: got %q, want %q", got, tc.wantField)
			}
		})
	}
}

func TestInclusionProofLengths(t *testing.T) {
	for n := 1; n <= 40; n++ {
		leaves := genLeaves(n)
		for i := 0; i < n; i++ {
			proof, err := InclusionProof(leaves, i)
			if err != nil {
				t.Fatalf("InclusionProof(%d, %d): %v", n, i, err)
			}
			if got, want := len(proof), ProofLength(n); got != want {
				t.Errorf("len(InclusionProof(%d, %d)): got %d, want %d", n, i, got, want)
			}
		}
	}
}

func TestInclusionProofDoesNotModifyInput(t *testing.T) {
	leaves := testonly.LeafValues()
	orig := append([]uint256.Int(nil), leaves...)
	for i := range leaves {
		if _, err := InclusionProof(leaves, i); err != nil {
			t.Fatalf("InclusionProof(%d): %v", i, err)
		}
	}
	if diff := cmp.Diff(orig, leaves); diff != "" {
		t.Errorf("InclusionProof modified leaves (-want +got):\n%s", diff)
	}
}
