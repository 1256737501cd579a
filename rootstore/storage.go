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

// Package rootstore publishes Merkle roots under a name and checks
// inclusion proofs against them, the way an on-chain verifier contract
// would. Persistence is delegated to a Storage chosen by name from the
// registered backends in the sub-packages.
package rootstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/merkle"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MaxNameLength is the longest root name any backend has to hold.
const MaxNameLength = 255

// Storage persists roots by name. Implementations must be safe for
// concurrent use.
type Storage interface {
	// ReadRoot returns the root stored under name, or a codes.NotFound
	// error if there is none.
	ReadRoot(ctx context.Context, name string) (uint256.Int, error)
	// WriteRoot stores root under name, replacing any previous root.
	WriteRoot(ctx context.Context, name string, root uint256.Int) error
	// Close releases the resources held by the storage.
	Close() error
}

// ErrNoRoot is wrapped by the NotFound errors backends return.
var ErrNoRoot = errors.New("no root stored")

// NotFound returns the error backends report for a missing root.
func NotFound(name string) error {
	return status.Errorf(codes.NotFound, "%v under %q", ErrNoRoot, name)
}

// IsNotFound reports whether err means no root is stored.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// CheckName rejects names that are empty or longer than MaxNameLength.
func CheckName(name string) error {
	switch {
	case name == "":
		return merkle.InvalidArgument("name", "root name is empty")
	case len(name) > MaxNameLength:
		return merkle.InvalidArgument("name", "root name is %d bytes, at most %d allowed", len(name), MaxNameLength)
	}
	return nil
}

// EncodeRoot returns the 32 byte big-endian form backends store.
func EncodeRoot(root uint256.Int) []byte {
	b := root.Bytes32()
	return b[:]
}

// DecodeRoot parses a value written by EncodeRoot. A value of the wrong
// width means the stored data is corrupt.
func DecodeRoot(name string, b []byte) (uint256.Int, error) {
	if len(b) != merkle.HashSize {
		return uint256.Int{}, status.Errorf(codes.DataLoss, "root %q is stored as %d bytes, want %d", name, len(b), merkle.HashSize)
	}
	var root uint256.Int
	root.SetBytes32(b)
	return root, nil
}

// Wrap annotates a backend error with the operation and root name, keeping
// status codes visible to status.Code. The Verifier applies it once, so
// backends return their errors unannotated.
func Wrap(err error, op, name string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s root %q: %w", op, name, err)
}
