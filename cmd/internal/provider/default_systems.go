// Copyright 2017 Google LLC. All Rights Reserved.
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

// Package provider links the root store backends into a binary and picks
// the default one. Build tags of the form no<backend> leave a backend out.
package provider

import (
	"slices"

	"github.com/merkleproof/merkleproof/rootstore"

	_ "github.com/merkleproof/merkleproof/rootstore/memory" // always available
)

// DefaultRootStore names the backend used when --root_store is not set.
var DefaultRootStore string

func init() {
	DefaultRootStore = defaultOf(rootstore.Providers(), "memory")
}

func defaultOf(providers []string, preferred string) string {
	if len(providers) == 0 || slices.Contains(providers, preferred) {
		return preferred
	}
	providers = slices.Clone(providers)
	slices.Sort(providers)
	return providers[0]
}
