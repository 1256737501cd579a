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
	"testing"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/merkle/testonly"
)

var mv = testonly.MustValue

// keccak256 of 32 zero bytes.
const zeroWordHash = "290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563"

func TestPairHash(t *testing.T) {
	for _, tc := range []struct {
		desc string
		a, b uint256.Int
		want uint256.Int
	}{
		{desc: "zeros", a: mv("0"), b: mv("0"), want: mv(zeroWordHash)},
		{desc: "equal operands", a: mv("0bad0010"), b: mv("0bad0010"), want: mv(zeroWordHash)},
		{desc: "one two", a: mv("1"), b: mv("2"), want: mv("c2575a0e9e593c00f959f8c92f12db2869c3395a3b0502d05e2516446f71f85b")},
		{desc: "first pair", a: mv("0bad0010"), b: mv("60a70020"), want: mv("82a60eaafff4d2e4d8b3fcef6353610c612c422871cd8afeeb8395cfb8bdd3a2")},
		{desc: "with empty", a: mv("060d0091"), b: Empty, want: mv("3465142152602dadd9b04b179c0c435f8676c0a6a0f39d5056f5bb543c50e806")},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			if got := PairHash(tc.a, tc.b); !got.Eq(&tc.want) {
				t.Errorf("PairHash(%s, %s): got %s, want %s", tc.a.Hex(), tc.b.Hex(), got.Hex(), tc.want.Hex())
			}
		})
	}
}

func TestPairHashSymmetric(t *testing.T) {
	vals := append(testonly.LeafValues(), Empty, mv("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"))
	for _, a := range vals {
		for _, b := range vals {
			ab, ba := PairHash(a, b), PairHash(b, a)
			if !ab.Eq(&ba) {
				t.Errorf("PairHash(%s, %s) = %s, but reversed = %s", a.Hex(), b.Hex(), ab.Hex(), ba.Hex())
			}
		}
	}
}

func TestPairHashDeterministic(t *testing.T) {
	a, b := mv("dead0040"), mv("ca110050")
	first := PairHash(a, b)
	for i := 0; i < 10; i++ {
		if got := PairHash(a, b); !got.Eq(&first) {
			t.Fatalf("PairHash call %d: got %s, want %s", i, got.Hex(), first.Hex())
		}
	}
}

// Operands are combined with XOR before hashing, so distinct pairs with the
// same XOR hash to the same parent.
func TestPairHashXorCollision(t *testing.T) {
	p, q := PairHash(mv("1"), mv("2")), PairHash(mv("3"), Empty)
	if !p.Eq(&q) {
		t.Errorf("PairHash(1, 2) = %s, PairHash(3, 0) = %s; want equal", p.Hex(), q.Hex())
	}
}
