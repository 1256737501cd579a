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

package dataset

import (
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/merkle"
	"gopkg.in/yaml.v2"
	"k8s.io/klog/v2"
)

// File is the YAML layout of a dataset. Exactly one of Leaves and Entries
// may be set:
//
//	leaves:
//	  - 0x0BAD0010
//	  - 1621557280
//
// or
//
//	entries:
//	  - {user: 0x0BAD, amount: 0x10}
type File struct {
	Leaves  []string `yaml:"leaves,omitempty"`
	Entries []Entry  `yaml:"entries,omitempty"`
}

// Parse decodes a YAML dataset. Unknown keys are an error.
func Parse(data []byte) ([]uint256.Int, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, merkle.InvalidArgument("dataset", "malformed dataset: %v", err)
	}
	switch {
	case len(f.Leaves) > 0 && len(f.Entries) > 0:
		return nil, merkle.InvalidArgument("dataset", "dataset sets both leaves and entries")
	case len(f.Entries) > 0:
		return PackAll(f.Entries), nil
	case len(f.Leaves) > 0:
		return ParseLeaves(f.Leaves)
	}
	return nil, merkle.InvalidArgument("leaves", "dataset has no leaves")
}

// Load reads and parses the dataset at path.
func Load(path string) ([]uint256.Int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	leaves, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	klog.V(1).Infof("Loaded %d leaves from %s", len(leaves), path)
	return leaves, nil
}

// Marshal encodes leaves as a YAML dataset using the hex leaf form.
func Marshal(leaves []uint256.Int) ([]byte, error) {
	return yaml.Marshal(File{Leaves: FormatLeaves(leaves)})
}
