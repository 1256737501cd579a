// Copyright 2022 Google LLC. All Rights Reserved.
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

// Package testonly contains code and data for testing Merkle trees.
package testonly

import (
	"math/big"

	"github.com/holiman/uint256"
)

// MustValue parses a hex string (with or without a 0x prefix) into a 256-bit
// value, and panics on failure.
func MustValue(h string) uint256.Int {
	if len(h) >= 2 && h[0] == '0' && (h[1] == 'x' || h[1] == 'X') {
		h = h[2:]
	}
	b, ok := new(big.Int).SetString(h, 16)
	if !ok {
		panic("bad hex value " + h)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		panic("value overflows 256 bits: " + h)
	}
	return *v
}

func values(hs ...string) []uint256.Int {
	r := make([]uint256.Int, len(hs))
	for i, h := range hs {
		r[i] = MustValue(h)
	}
	return r
}

// LeafValues returns the nine-leaf dataset of packed user-id/amount pairs.
func LeafValues() []uint256.Int {
	return values(
		"0bad0010",
		"60a70020",
		"beef0030",
		"dead0040",
		"ca110050",
		"0e660060",
		"face0070",
		"bad00080",
		"060d0091",
	)
}

// LayerHashes returns every layer above the leaves for a tree built from
// LeafValues(), from the first reduction up to the root.
func LayerHashes() [][]uint256.Int {
	return [][]uint256.Int{
		values(
			"82a60eaafff4d2e4d8b3fcef6353610c612c422871cd8afeeb8395cfb8bdd3a2",
			"52a377608981641c772575d8f818f005a6f78759252dd2a5019f32e1e6cb5e0e",
			"ff5844e15018629b3257e5a3d84a6c300b0f6c1da17e622f4f2306bc666273e4",
			"9c35a3982125b800d45661e38af7bbc06a8f8e42fd288bd79d8e03c654bd72e1",
			"3465142152602dadd9b04b179c0c435f8676c0a6a0f39d5056f5bb543c50e806",
		),
		values(
			"f83ef698193afe7b533b7adfa40150636c814442e4dff5cc3479c313a465e4a8",
			"03482292f4b2b3dc59b3704c5c185d2bfe9f95091cef0c0604db4ed2894da01a",
			"b917ae5b020f9ad8f5d1242921d9826972b131ac17aae2f71a0164e2db425556",
		),
		values(
			"e8cc4e23858ab83422fbd3732e42447ab43c8771a868c9b070f03832c75206fd",
			"83d572ca004c7f7a9de9a77618d8ed9e0093fbed6de515d044ef2031029b76c3",
		),
		values(
			"5c692bad209aa30a3e8b71ad10c90abdf6227dec6a3be9e3042db875b08cc753",
		),
	}
}

// RootHash returns the root of the tree built from LeafValues().
func RootHash() uint256.Int {
	return MustValue("5c692bad209aa30a3e8b71ad10c90abdf6227dec6a3be9e3042db875b08cc753")
}

// InclusionProofs returns the inclusion proof for every leaf of
// LeafValues(), indexed by leaf position.
func InclusionProofs() [][]uint256.Int {
	return [][]uint256.Int{
		values("60a70020",
			"52a377608981641c772575d8f818f005a6f78759252dd2a5019f32e1e6cb5e0e",
			"03482292f4b2b3dc59b3704c5c185d2bfe9f95091cef0c0604db4ed2894da01a",
			"83d572ca004c7f7a9de9a77618d8ed9e0093fbed6de515d044ef2031029b76c3"),
		values("0bad0010",
			"52a377608981641c772575d8f818f005a6f78759252dd2a5019f32e1e6cb5e0e",
			"03482292f4b2b3dc59b3704c5c185d2bfe9f95091cef0c0604db4ed2894da01a",
			"83d572ca004c7f7a9de9a77618d8ed9e0093fbed6de515d044ef2031029b76c3"),
		values("dead0040",
			"82a60eaafff4d2e4d8b3fcef6353610c612c422871cd8afeeb8395cfb8bdd3a2",
			"03482292f4b2b3dc59b3704c5c185d2bfe9f95091cef0c0604db4ed2894da01a",
			"83d572ca004c7f7a9de9a77618d8ed9e0093fbed6de515d044ef2031029b76c3"),
		values("beef0030",
			"82a60eaafff4d2e4d8b3fcef6353610c612c422871cd8afeeb8395cfb8bdd3a2",
			"03482292f4b2b3dc59b3704c5c185d2bfe9f95091cef0c0604db4ed2894da01a",
			"83d572ca004c7f7a9de9a77618d8ed9e0093fbed6de515d044ef2031029b76c3"),
		values("0e660060",
			"9c35a3982125b800d45661e38af7bbc06a8f8e42fd288bd79d8e03c654bd72e1",
			"f83ef698193afe7b533b7adfa40150636c814442e4dff5cc3479c313a465e4a8",
			"83d572ca004c7f7a9de9a77618d8ed9e0093fbed6de515d044ef2031029b76c3"),
		values("ca110050",
			"9c35a3982125b800d45661e38af7bbc06a8f8e42fd288bd79d8e03c654bd72e1",
			"f83ef698193afe7b533b7adfa40150636c814442e4dff5cc3479c313a465e4a8",
			"83d572ca004c7f7a9de9a77618d8ed9e0093fbed6de515d044ef2031029b76c3"),
		values("bad00080",
			"ff5844e15018629b3257e5a3d84a6c300b0f6c1da17e622f4f2306bc666273e4",
			"f83ef698193afe7b533b7adfa40150636c814442e4dff5cc3479c313a465e4a8",
			"83d572ca004c7f7a9de9a77618d8ed9e0093fbed6de515d044ef2031029b76c3"),
		values("face0070",
			"ff5844e15018629b3257e5a3d84a6c300b0f6c1da17e622f4f2306bc666273e4",
			"f83ef698193afe7b533b7adfa40150636c814442e4dff5cc3479c313a465e4a8",
			"83d572ca004c7f7a9de9a77618d8ed9e0093fbed6de515d044ef2031029b76c3"),
		// The last leaf is unpaired on three layers in a row.
		values("0", "0", "0",
			"e8cc4e23858ab83422fbd3732e42447ab43c8771a868c9b070f03832c75206fd"),
	}
}
