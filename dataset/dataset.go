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

// Package dataset reads and writes the leaf values a Merkle commitment is
// built over.
//
// A leaf is an opaque 256-bit value. The stock dataset packs a 16-bit user
// id and a 16-bit token amount into the low 32 bits of each leaf, which
// keeps the value cheap to decode for an on-chain verifier.
package dataset

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/merkle"
)

// Entry is one user balance.
type Entry struct {
	User   uint16 `yaml:"user"`
	Amount uint16 `yaml:"amount"`
}

// Pack returns the leaf value for e: user id in bits 16-31, amount in bits
// 0-15.
func (e Entry) Pack() uint256.Int {
	return Pack(e.User, e.Amount)
}

// String renders the entry the way the leaf is usually written, e.g.
// 0x0bad:0x0010.
func (e Entry) String() string {
	return fmt.Sprintf("%#04x:%#04x", e.User, e.Amount)
}

// Pack packs a user id and amount into a leaf value.
func Pack(user, amount uint16) uint256.Int {
	var v uint256.Int
	v.SetUint64(uint64(user)<<16 | uint64(amount))
	return v
}

// Unpack splits a packed leaf back into its user id and amount. Values that
// do not fit in 32 bits were not produced by Pack and are rejected.
func Unpack(v uint256.Int) (Entry, error) {
	if v.BitLen() > 32 {
		return Entry{}, merkle.InvalidArgument("leaf", "leaf %s does not hold a packed entry", FormatLeaf(v))
	}
	u := v.Uint64()
	return Entry{User: uint16(u >> 16), Amount: uint16(u)}, nil
}

// Sample returns the nine-entry balance sheet used by the demo driver.
func Sample() []uint256.Int {
	entries := []Entry{
		{0x0BAD, 0x0010},
		{0x60A7, 0x0020},
		{0xBEEF, 0x0030},
		{0xDEAD, 0x0040},
		{0xCA11, 0x0050},
		{0x0E66, 0x0060},
		{0xFACE, 0x0070},
		{0xBAD0, 0x0080},
		{0x060D, 0x0091},
	}
	return PackAll(entries)
}

// PackAll packs every entry, preserving order.
func PackAll(entries []Entry) []uint256.Int {
	leaves := make([]uint256.Int, len(entries))
	for i, e := range entries {
		leaves[i] = e.Pack()
	}
	return leaves
}

// ParseLeaf parses a leaf written in decimal or, with a 0x prefix, in hex.
// Underscores between hex digits are allowed. Decimal input is always base
// ten, so leading zeros do not switch to octal and 0b or 0o prefixes are
// rejected. Negative values and values wider than 256 bits are rejected.
func ParseLeaf(s string) (uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uint256.Int{}, merkle.InvalidArgument("leaf", "empty leaf value")
	}
	var (
		b  *big.Int
		ok bool
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		// Base 0 only for the prefixed form: it reads hex and allows
		// digit separators.
		b, ok = new(big.Int).SetString(s, 0)
	} else {
		b, ok = new(big.Int).SetString(s, 10)
	}
	if !ok {
		return uint256.Int{}, merkle.InvalidArgument("leaf", "cannot parse leaf %q", s)
	}
	if b.Sign() < 0 {
		return uint256.Int{}, merkle.InvalidArgument("leaf", "leaf %q is negative", s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return uint256.Int{}, merkle.InvalidArgument("leaf", "leaf %q is wider than 256 bits", s)
	}
	return *v, nil
}

// ParseLeaves parses each string with ParseLeaf.
func ParseLeaves(ss []string) ([]uint256.Int, error) {
	leaves := make([]uint256.Int, 0, len(ss))
	for i, s := range ss {
		v, err := ParseLeaf(s)
		if err != nil {
			return nil, fmt.Errorf("leaf %d: %w", i, err)
		}
		leaves = append(leaves, v)
	}
	return leaves, nil
}

// FormatLeaf renders v as 0x followed by 64 hex digits.
func FormatLeaf(v uint256.Int) string {
	b := v.Bytes32()
	return fmt.Sprintf("%#x", b[:])
}

// FormatLeaves applies FormatLeaf to every value.
func FormatLeaves(vs []uint256.Int) []string {
	r := make([]string, len(vs))
	for i, v := range vs {
		r[i] = FormatLeaf(v)
	}
	return r
}
