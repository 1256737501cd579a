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

// Package bundle holds self-contained inclusion proofs: everything a
// verifier needs to check one leaf against a published root, with stable
// CBOR and JSON encodings.
package bundle

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/merkle"
)

// MaxPathLength bounds the number of siblings in a decoded bundle. A tree
// with 2^64 leaves needs 64.
const MaxPathLength = 64

// Format names a bundle encoding.
type Format string

const (
	// CBOR is deterministic (core deterministic encoding, RFC 8949 §4.2.1)
	// with small integer map keys.
	CBOR Format = "cbor"
	// JSON writes values as 0x-prefixed, zero-padded hex strings.
	JSON Format = "json"
)

// ParseFormat accepts a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case CBOR, JSON:
		return f, nil
	}
	return "", merkle.InvalidArgument("format", "unknown bundle format %q, want %q or %q", s, CBOR, JSON)
}

// Bundle is an inclusion proof for the leaf at Index under Root.
type Bundle struct {
	Root  uint256.Int
	Index uint64
	Leaf  uint256.Int
	Path  []uint256.Int
}

// Verify reports whether the bundle's path leads from Leaf to Root.
func (b *Bundle) Verify() bool {
	return merkle.VerifyInclusion(b.Root, b.Leaf, b.Path)
}

// VerifyAgainst is Verify against a root from elsewhere, such as a root
// store, rather than the one carried in the bundle.
func (b *Bundle) VerifyAgainst(root uint256.Int) bool {
	return merkle.VerifyInclusion(root, b.Leaf, b.Path)
}

// Check is Verify returning merkle.RootMismatchError on failure.
func (b *Bundle) Check() error {
	return merkle.CheckInclusion(b.Root, b.Leaf, b.Path)
}

// validate checks the structural constraints a decoded bundle must meet.
func (b *Bundle) validate() error {
	if len(b.Path) > MaxPathLength {
		return merkle.InvalidArgument("path", "path has %d siblings, at most %d allowed", len(b.Path), MaxPathLength)
	}
	if len(b.Path) < MaxPathLength && b.Index>>uint(len(b.Path)) != 0 {
		return merkle.InvalidArgument("index", "index %d cannot be reached with a path of %d siblings", b.Index, len(b.Path))
	}
	return nil
}

// Encode serializes b in format f.
func Encode(b *Bundle, f Format) ([]byte, error) {
	switch f {
	case CBOR:
		return encodeCBOR(b)
	case JSON:
		return encodeJSON(b)
	}
	return nil, fmt.Errorf("unknown bundle format %q", f)
}

// Decode parses data written by Encode with the same format. Values must be
// exactly 32 bytes wide.
func Decode(data []byte, f Format) (*Bundle, error) {
	var (
		b   *Bundle
		err error
	)
	switch f {
	case CBOR:
		b, err = decodeCBOR(data)
	case JSON:
		b, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("unknown bundle format %q", f)
	}
	if err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func valueFromBytes(field string, raw []byte) (uint256.Int, error) {
	if len(raw) != merkle.HashSize {
		return uint256.Int{}, merkle.InvalidArgument(field, "%s is %d bytes, want %d", field, len(raw), merkle.HashSize)
	}
	var v uint256.Int
	v.SetBytes32(raw)
	return v, nil
}

func valueBytes(v uint256.Int) []byte {
	b := v.Bytes32()
	return b[:]
}
