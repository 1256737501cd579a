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

// Package testonly holds a behavioural test suite every rootstore.Storage
// implementation must pass.
package testonly

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/holiman/uint256"
	mtestonly "github.com/merkleproof/merkleproof/merkle/testonly"
	"github.com/merkleproof/merkleproof/rootstore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StorageFactory returns a fresh, empty Storage. The suite closes it.
type StorageFactory func(t *testing.T) rootstore.Storage

// RunStorageTests runs every conformance test against storages made by f.
func RunStorageTests(t *testing.T, f StorageFactory) {
	for name, test := range map[string]func(*testing.T, rootstore.Storage){
		"ReadMissing":       testReadMissing,
		"WriteRead":         testWriteRead,
		"Overwrite":         testOverwrite,
		"IndependentNames":  testIndependentNames,
		"ExtremeValues":     testExtremeValues,
		"LongName":          testLongName,
		"ConcurrentWriters": testConcurrentWriters,
	} {
		test := test
		t.Run(name, func(t *testing.T) {
			s := f(t)
			defer func() {
				if err := s.Close(); err != nil {
					t.Errorf("Close(): %v", err)
				}
			}()
			test(t, s)
		})
	}
}

func mustRead(ctx context.Context, t *testing.T, s rootstore.Storage, name string) uint256.Int {
	t.Helper()
	got, err := s.ReadRoot(ctx, name)
	if err != nil {
		t.Fatalf("ReadRoot(%q): %v", name, err)
	}
	return got
}

func mustWrite(ctx context.Context, t *testing.T, s rootstore.Storage, name string, root uint256.Int) {
	t.Helper()
	if err := s.WriteRoot(ctx, name, root); err != nil {
		t.Fatalf("WriteRoot(%q): %v", name, err)
	}
}

func checkRoot(t *testing.T, name string, got, want uint256.Int) {
	t.Helper()
	if !got.Eq(&want) {
		t.Errorf("ReadRoot(%q): got %s, want %s", name, got.Hex(), want.Hex())
	}
}

func testReadMissing(t *testing.T, s rootstore.Storage) {
	_, err := s.ReadRoot(context.Background(), "missing")
	if got, want := status.Code(err), codes.NotFound; got != want {
		t.Errorf("ReadRoot(missing): got code %v (err %v), want %v", got, err, want)
	}
}

func testWriteRead(t *testing.T, s rootstore.Storage) {
	ctx := context.Background()
	root := mtestonly.RootHash()
	mustWrite(ctx, t, s, "balances", root)
	checkRoot(t, "balances", mustRead(ctx, t, s, "balances"), root)
}

func testOverwrite(t *testing.T, s rootstore.Storage) {
	ctx := context.Background()
	first, second := mtestonly.MustValue("1"), mtestonly.RootHash()
	mustWrite(ctx, t, s, "balances", first)
	mustWrite(ctx, t, s, "balances", second)
	checkRoot(t, "balances", mustRead(ctx, t, s, "balances"), second)
}

func testIndependentNames(t *testing.T, s rootstore.Storage) {
	ctx := context.Background()
	roots := map[string]uint256.Int{
		"a":     mtestonly.MustValue("a"),
		"a/b":   mtestonly.MustValue("ab"),
		"b":     mtestonly.MustValue("b"),
		"ünï":   mtestonly.MustValue("c0de"),
		"a b c": mtestonly.MustValue("abc"),
	}
	for name, root := range roots {
		mustWrite(ctx, t, s, name, root)
	}
	for name, root := range roots {
		checkRoot(t, name, mustRead(ctx, t, s, name), root)
	}
	if _, err := s.ReadRoot(ctx, "a/"); status.Code(err) != codes.NotFound {
		t.Errorf("ReadRoot(a/): got %v, want NotFound", err)
	}
}

func testExtremeValues(t *testing.T, s rootstore.Storage) {
	ctx := context.Background()
	for name, root := range map[string]uint256.Int{
		"zero": {},
		"max":  mtestonly.MustValue("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
		"high": mtestonly.MustValue("8000000000000000000000000000000000000000000000000000000000000000"),
	} {
		mustWrite(ctx, t, s, name, root)
		checkRoot(t, name, mustRead(ctx, t, s, name), root)
	}
}

func testLongName(t *testing.T, s rootstore.Storage) {
	ctx := context.Background()
	name := make([]byte, rootstore.MaxNameLength)
	for i := range name {
		name[i] = 'a' + byte(i%26)
	}
	mustWrite(ctx, t, s, string(name), mtestonly.RootHash())
	checkRoot(t, "long", mustRead(ctx, t, s, string(name)), mtestonly.RootHash())
}

func testConcurrentWriters(t *testing.T, s rootstore.Storage) {
	ctx := context.Background()
	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var root uint256.Int
			root.SetUint64(uint64(i + 1))
			if err := s.WriteRoot(ctx, fmt.Sprintf("root-%d", i), root); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("WriteRoot: %v", err)
	}
	for i := 0; i < writers; i++ {
		name := fmt.Sprintf("root-%d", i)
		var want uint256.Int
		want.SetUint64(uint64(i + 1))
		checkRoot(t, name, mustRead(ctx, t, s, name), want)
	}
}
