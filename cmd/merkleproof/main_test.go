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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/bundle"
	"github.com/merkleproof/merkleproof/dataset"
	"github.com/merkleproof/merkleproof/merkle/testonly"
	"github.com/merkleproof/merkleproof/monitoring"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func defaultOptions() options {
	return options{index: 5, bundleFormat: "cbor", concurrency: 4, rootStore: "memory"}
}

func runToString(t *testing.T, opts options) (string, error) {
	t.Helper()
	var sb strings.Builder
	err := run(context.Background(), &sb, opts, monitoring.InertMetricFactory{})
	return sb.String(), err
}

func TestRunSample(t *testing.T) {
	got, err := runToString(t, defaultOptions())
	if err != nil {
		t.Fatalf("run(): %v", err)
	}
	want := strings.Join([]string{
		"Merkle Root: 0x5c692bad209aa30a3e8b71ad10c90abdf6227dec6a3be9e3042db875b08cc753",
		"Merkle proof for item 5: " + formatProof(testonly.InclusionProofs()[5]),
		"Should be true (good proof): true",
		"Should be false (bad proof): false",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("run() output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAllProofs(t *testing.T) {
	opts := defaultOptions()
	opts.allProofs = true
	got, err := runToString(t, opts)
	if err != nil {
		t.Fatalf("run(): %v", err)
	}
	for i, proof := range testonly.InclusionProofs() {
		line := fmt.Sprintf("Merkle proof for item %d: %s\n", i, formatProof(proof))
		if !strings.Contains(got, line) {
			t.Errorf("run() output lacks %q", line)
		}
	}
}

func TestRunNoBadItem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaves.yaml")
	data, err := dataset.Marshal([]uint256.Int{*uint256.NewInt(1), *uint256.NewInt(2)})
	if err != nil {
		t.Fatalf("Marshal(): %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	opts := defaultOptions()
	opts.leavesFile = path
	opts.index = 1

	got, err := runToString(t, opts)
	if err != nil {
		t.Fatalf("run(): %v", err)
	}
	if !strings.Contains(got, "Should be true (good proof): true") {
		t.Errorf("run() output lacks the good proof line:\n%s", got)
	}
	if strings.Contains(got, "bad proof") {
		t.Errorf("run() printed a bad proof with no item 3:\n%s", got)
	}
}

func TestRunWritesBundle(t *testing.T) {
	for _, format := range []bundle.Format{bundle.CBOR, bundle.JSON} {
		t.Run(string(format), func(t *testing.T) {
			opts := defaultOptions()
			opts.bundleFormat = string(format)
			opts.bundleOut = filepath.Join(t.TempDir(), "proof."+string(format))
			if _, err := runToString(t, opts); err != nil {
				t.Fatalf("run(): %v", err)
			}
			data, err := os.ReadFile(opts.bundleOut)
			if err != nil {
				t.Fatalf("ReadFile(): %v", err)
			}
			b, err := bundle.Decode(data, format)
			if err != nil {
				t.Fatalf("Decode(): %v", err)
			}
			if b.Index != 5 || !b.Verify() {
				t.Errorf("bundle: index %d, verifies %v, want index 5 verifying", b.Index, b.Verify())
			}
			if want := testonly.RootHash(); !b.Root.Eq(&want) {
				t.Errorf("bundle root: got %s, want %s", b.Root.Hex(), want.Hex())
			}
		})
	}
}

func TestRunPublishesRoot(t *testing.T) {
	opts := defaultOptions()
	opts.rootName = "airdrop"
	got, err := runToString(t, opts)
	if err != nil {
		t.Fatalf("run(): %v", err)
	}
	if want := `Published root "airdrop" to memory store, proof for item 5 verifies: true`; !strings.Contains(got, want) {
		t.Errorf("run() output lacks %q:\n%s", want, got)
	}
}

func TestRunErrors(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		modify func(*options)
		want   codes.Code
	}{
		{desc: "index-too-large", modify: func(o *options) { o.index = 9 }, want: codes.InvalidArgument},
		{desc: "negative-index", modify: func(o *options) { o.index = -1 }, want: codes.InvalidArgument},
		{desc: "bad-format", modify: func(o *options) { o.bundleFormat = "xml" }, want: codes.InvalidArgument},
		{desc: "bad-root-name", modify: func(o *options) { o.rootName = strings.Repeat("n", 256) }, want: codes.InvalidArgument},
		{desc: "unknown-store", modify: func(o *options) { o.rootName = "r"; o.rootStore = "carrier-pigeon" }, want: codes.Unknown},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			opts := defaultOptions()
			tc.modify(&opts)
			_, err := runToString(t, opts)
			if err == nil {
				t.Fatal("run(): got nil error")
			}
			if got := status.Code(err); got != tc.want {
				t.Errorf("run(): got code %v (%v), want %v", got, err, tc.want)
			}
		})
	}
}
