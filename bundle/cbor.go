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

package bundle

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/merkle"
)

type cborBundle struct {
	Root  []byte   `cbor:"1,keyasint"`
	Index uint64   `cbor:"2,keyasint"`
	Leaf  []byte   `cbor:"3,keyasint"`
	Path  [][]byte `cbor:"4,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Sprintf("cbor EncMode: %v", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		MaxArrayElements:  256,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(fmt.Sprintf("cbor DecMode: %v", err))
	}
}

func encodeCBOR(b *Bundle) ([]byte, error) {
	w := cborBundle{
		Root:  valueBytes(b.Root),
		Index: b.Index,
		Leaf:  valueBytes(b.Leaf),
		Path:  make([][]byte, len(b.Path)),
	}
	for i, p := range b.Path {
		w.Path[i] = valueBytes(p)
	}
	return encMode.Marshal(w)
}

func decodeCBOR(data []byte) (*Bundle, error) {
	var w cborBundle
	if err := decMode.Unmarshal(data, &w); err != nil {
		return nil, merkle.InvalidArgument("bundle", "malformed CBOR bundle: %v", err)
	}
	b := &Bundle{Index: w.Index}
	var err error
	if b.Root, err = valueFromBytes("root", w.Root); err != nil {
		return nil, err
	}
	if b.Leaf, err = valueFromBytes("leaf", w.Leaf); err != nil {
		return nil, err
	}
	b.Path = make([]uint256.Int, 0, len(w.Path))
	for _, raw := range w.Path {
		v, err := valueFromBytes("path", raw)
		if err != nil {
			return nil, err
		}
		b.Path = append(b.Path, v)
	}
	return b, nil
}
