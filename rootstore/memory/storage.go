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

// Package memory provides a process-local root store, registered as
// "memory". Roots do not survive a restart.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/btree"
	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/rootstore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"k8s.io/klog/v2"
)

const degree = 8

func init() {
	if err := rootstore.RegisterStorage("memory", func(monitoring.MetricFactory) (rootstore.Storage, error) {
		return New(), nil
	}); err != nil {
		klog.Fatalf("Failed to register root storage memory: %v", err)
	}
}

// entry is a btree.Item ordered by name.
type entry struct {
	name string
	root uint256.Int
}

func (e *entry) Less(than btree.Item) bool {
	return e.name < than.(*entry).name
}

// Storage keeps roots in a B-tree ordered by name.
type Storage struct {
	mu     sync.RWMutex
	tree   *btree.BTree
	closed bool
}

// New returns an empty Storage.
func New() *Storage {
	return &Storage{tree: btree.New(degree)}
}

func (s *Storage) checkOpen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return status.FromContextError(err).Err()
	}
	if s.closed {
		return status.Error(codes.FailedPrecondition, "memory root storage is closed")
	}
	return nil
}

// ReadRoot implements rootstore.Storage.
func (s *Storage) ReadRoot(ctx context.Context, name string) (uint256.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(ctx); err != nil {
		return uint256.Int{}, err
	}
	item := s.tree.Get(&entry{name: name})
	if item == nil {
		return uint256.Int{}, rootstore.NotFound(name)
	}
	return item.(*entry).root, nil
}

// WriteRoot implements rootstore.Storage.
func (s *Storage) WriteRoot(ctx context.Context, name string, root uint256.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	s.tree.ReplaceOrInsert(&entry{name: name, root: root})
	return nil
}

// Names returns, in order, the names of all stored roots that start with
// prefix.
func (s *Storage) Names(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	s.tree.AscendGreaterOrEqual(&entry{name: prefix}, func(i btree.Item) bool {
		e := i.(*entry)
		if !strings.HasPrefix(e.name, prefix) {
			return false
		}
		names = append(names, e.name)
		return true
	})
	return names
}

// Len returns the number of stored roots.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// Close implements rootstore.Storage. Later calls fail with
// codes.FailedPrecondition.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
