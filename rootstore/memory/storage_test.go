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

package memory

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/rootstore"
	"github.com/merkleproof/merkleproof/rootstore/testonly"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStorage(t *testing.T) {
	testonly.RunStorageTests(t, func(*testing.T) rootstore.Storage { return New() })
}

func TestRegistered(t *testing.T) {
	s, err := rootstore.NewStorage("memory", nil)
	if err != nil {
		t.Fatalf("NewStorage(memory): %v", err)
	}
	if _, ok := s.(*Storage); !ok {
		t.Errorf("NewStorage(memory): got %T, want *Storage", s)
	}
}

func TestNames(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, name := range []string{"prod/b", "dev/a", "prod/a", "prodx", "dev/b"} {
		if err := s.WriteRoot(ctx, name, *uint256.NewInt(1)); err != nil {
			t.Fatalf("WriteRoot(%q): %v", name, err)
		}
	}
	if got, want := s.Len(), 5; got != want {
		t.Errorf("Len(): got %d, want %d", got, want)
	}
	for _, tc := range []struct {
		prefix string
		want   []string
	}{
		{prefix: "prod/", want: []string{"prod/a", "prod/b"}},
		{prefix: "prod", want: []string{"prod/a", "prod/b", "prodx"}},
		{prefix: "", want: []string{"dev/a", "dev/b", "prod/a", "prod/b", "prodx"}},
		{prefix: "test", want: nil},
	} {
		if diff := cmp.Diff(tc.want, s.Names(tc.prefix)); diff != "" {
			t.Errorf("Names(%q) diff (-want +got):\n%s", tc.prefix, diff)
		}
	}
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}
	if err := s.WriteRoot(ctx, "a", uint256.Int{}); status.Code(err) != codes.FailedPrecondition {
		t.Errorf("WriteRoot after Close: got %v, want FailedPrecondition", err)
	}
	if _, err := s.ReadRoot(ctx, "a"); status.Code(err) != codes.FailedPrecondition {
		t.Errorf("ReadRoot after Close: got %v, want FailedPrecondition", err)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().ReadRoot(ctx, "a"); status.Code(err) != codes.Canceled {
		t.Errorf("ReadRoot(cancelled ctx): got %v, want Canceled", err)
	}
}
