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
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/merkle"
)

type jsonBundle struct {
	Root  string   `json:"root"`
	Index uint64   `json:"index"`
	Leaf  string   `json:"leaf"`
	Path  []string `json:"path"`
}

func encodeJSON(b *Bundle) ([]byte, error) {
	w := jsonBundle{
		Root:  hexValue(b.Root),
		Index: b.Index,
		Leaf:  hexValue(b.Leaf),
		Path:  make([]string, len(b.Path)),
	}
	for i, p := range b.Path {
		w.Path[i] = hexValue(p)
	}
	return json.MarshalIndent(w, "", "  ")
}

func decodeJSON(data []byte) (*Bundle, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var w jsonBundle
	if err := dec.Decode(&w); err != nil {
		return nil, merkle.InvalidArgument("bundle", "malformed JSON bundle: %v", err)
	}
	b := &Bundle{Index: w.Index}
	var err error
	if b.Root, err = parseHexValue("root", w.Root); err != nil {
		return nil, err
	}
	if b.Leaf, err = parseHexValue("leaf", w.Leaf); err != nil {
		return nil, err
	}
	b.Path = make([]uint256.Int, 0, len(w.Path))
	for _, s := range w.Path {
		v, err := parseHexValue("path", s)
		if err != nil {
			return nil, err
		}
		b.Path = append(b.Path, v)
	}
	return b, nil
}

func hexValue(v uint256.Int) string {
	return fmt.Sprintf("%#x", valueBytes(v))
}

func parseHexValue(field, s string) (uint256.Int, error) {
	if !strings.HasPrefix(s, "0x") {
		return uint256.Int{}, merkle.InvalidArgument(field, "%s %q lacks the 0x prefix", field, s)
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return uint256.Int{}, merkle.InvalidArgument(field, "%s %q is not hex: %v", field, s, err)
	}
	return valueFromBytes(field, raw)
}
