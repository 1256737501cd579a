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

package rootstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/merkle"
	"github.com/merkleproof/merkleproof/merkle/testonly"
	"github.com/merkleproof/merkleproof/monitoring"
	mtestonly "github.com/merkleproof/merkleproof/monitoring/testonly"
	"github.com/merkleproof/merkleproof/util/clock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestSetRoot(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	s := NewMockStorage(ctrl)
	v := NewVerifier(s, monitoring.InertMetricFactory{})
	root := testonly.RootHash()
	snap := mtestonly.NewCounterSnapshot(rootsSet).Record()

	s.EXPECT().WriteRoot(gomock.Any(), "balances", root).Return(nil)
	if err := v.SetRoot(ctx, "balances", root); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}

	s.EXPECT().WriteRoot(gomock.Any(), "balances", root).Return(status.Error(codes.Aborted, "deadlock"))
	err := v.SetRoot(ctx, "balances", root)
	if got, want := status.Code(err), codes.Aborted; got != want {
		t.Errorf("SetRoot(storage aborted): got %v, want %v", err, want)
	}

	// No storage call is expected for a bad name.
	if err := v.SetRoot(ctx, "", root); merkle.ViolatedField(err) != "name" {
		t.Errorf("SetRoot(empty name): got %v, want name violation", err)
	}
	if got, want := snap.Delta(), 1.0; got != want {
		t.Errorf("roots set moved by %v, want %v", got, want)
	}
}

func TestGetRoot(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	s := NewMockStorage(ctrl)
	v := NewVerifier(s, nil)
	errSnap := mtestonly.NewCounterSnapshot(rootReadErrors).Record()

	want := testonly.RootHash()
	s.EXPECT().ReadRoot(gomock.Any(), "balances").Return(want, nil)
	got, err := v.GetRoot(ctx, "balances")
	if err != nil {
		t.Fatalf("GetRoot: %v", err)
	}
	if !got.Eq(&want) {
		t.Errorf("GetRoot: got %s, want %s", got.Hex(), want.Hex())
	}

	s.EXPECT().ReadRoot(gomock.Any(), "missing").Return(uint256.Int{}, NotFound("missing"))
	if _, err := v.GetRoot(ctx, "missing"); !IsNotFound(err) {
		t.Errorf("GetRoot(missing): got %v, want NotFound", err)
	}

	backendErr := errors.New("connection reset")
	s.EXPECT().ReadRoot(gomock.Any(), "flaky").Return(uint256.Int{}, backendErr)
	_, err = v.GetRoot(ctx, "flaky")
	if !errors.Is(err, backendErr) {
		t.Errorf("GetRoot(flaky): got %v, want wrapped %v", err, backendErr)
	}
	if got, want := err.Error(), `read root "flaky": connection reset`; got != want {
		t.Errorf("GetRoot(flaky) message: got %q, want %q", got, want)
	}

	if got, want := errSnap.Delta(), 1.0; got != want {
		t.Errorf("read errors moved by %v, want %v", got, want)
	}
}

func TestVerifyProof(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	s := NewMockStorage(ctrl)
	v := NewVerifier(s, nil)
	v.ts = clock.NewTicking(time.Unix(0, 0), time.Millisecond)
	s.EXPECT().ReadRoot(gomock.Any(), "balances").AnyTimes().Return(testonly.RootHash(), nil)

	results := mtestonly.NewCounterSnapshot(verifications)
	for _, r := range []string{resultValid, resultInvalid, resultError} {
		results.Record(r)
	}
	_, latencyBefore := verifyLatency.Info()

	leaves := testonly.LeafValues()
	proof := testonly.InclusionProofs()[5]
	for _, tc := range []struct {
		desc string
		leaf uint256.Int
		want bool
	}{
		{desc: "good proof", leaf: leaves[5], want: true},
		{desc: "tampered leaf", leaf: *new(uint256.Int).Xor(&leaves[5], uint256.NewInt(2)), want: false},
		{desc: "other leaf", leaf: leaves[5^2], want: false},
	} {
		got, err := v.VerifyProof(ctx, "balances", tc.leaf, proof)
		if err != nil {
			t.Fatalf("%s: VerifyProof: %v", tc.desc, err)
		}
		if got != tc.want {
			t.Errorf("%s: VerifyProof = %v, want %v", tc.desc, got, tc.want)
		}
	}

	s.EXPECT().ReadRoot(gomock.Any(), "missing").Return(uint256.Int{}, NotFound("missing"))
	ok, err := v.VerifyProof(ctx, "missing", leaves[5], proof)
	if ok || !IsNotFound(err) {
		t.Errorf("VerifyProof(missing root): got %v, %v, want false, NotFound", ok, err)
	}

	if got, want := results.Delta(resultValid), 1.0; got != want {
		t.Errorf("valid verifications moved by %v, want %v", got, want)
	}
	if got, want := results.Delta(resultInvalid), 2.0; got != want {
		t.Errorf("invalid verifications moved by %v, want %v", got, want)
	}
	if got, want := results.Delta(resultError), 1.0; got != want {
		t.Errorf("failed verifications moved by %v, want %v", got, want)
	}
	_, latencyAfter := verifyLatency.Info()
	if got, want := latencyAfter-latencyBefore, 4*0.001; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("latency sum moved by %v, want %v", got, want)
	}
}

func TestClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := NewMockStorage(ctrl)
	s.EXPECT().Close().Return(nil)
	if err := NewVerifier(s, nil).Close(); err != nil {
		t.Errorf("Close(): %v", err)
	}
}
