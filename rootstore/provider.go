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

package rootstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/merkleproof/merkleproof/monitoring"
)

// NewStorageFunc creates a Storage. Backends register one from init.
type NewStorageFunc func(monitoring.MetricFactory) (Storage, error)

var (
	spMu     sync.RWMutex
	spByName = make(map[string]NewStorageFunc)
)

// RegisterStorage makes a backend available to NewStorage under name.
func RegisterStorage(name string, f NewStorageFunc) error {
	spMu.Lock()
	defer spMu.Unlock()

	if _, exists := spByName[name]; exists {
		return fmt.Errorf("root storage %q already registered", name)
	}
	spByName[name] = f
	return nil
}

// NewStorage returns a Storage from the backend registered under name.
func NewStorage(name string, mf monitoring.MetricFactory) (Storage, error) {
	spMu.RLock()
	f := spByName[name]
	spMu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("no root storage named %q, have %v", name, Providers())
	}
	return f(mf)
}

// Providers returns the sorted names of all registered backends.
func Providers() []string {
	spMu.RLock()
	defer spMu.RUnlock()

	r := make([]string, 0, len(spByName))
	for k := range spByName {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}
