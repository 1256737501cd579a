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

package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis"
	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/rootstore"
	"github.com/merkleproof/merkleproof/rootstore/testdb"
	"github.com/merkleproof/merkleproof/rootstore/testonly"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeClient is an in-process stand-in for a Redis server.
type fakeClient struct {
	mu     sync.Mutex
	data   map[string]string
	ctx    context.Context
	getErr error
	closed bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string]string)}
}

func (f *fakeClient) WithContext(ctx context.Context) Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctx = ctx
	return f
}

func (f *fakeClient) Get(key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeClient) Set(key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestStorageFake(t *testing.T) {
	testonly.RunStorageTests(t, func(t *testing.T) rootstore.Storage {
		return New(newFakeClient(), "test/", monitoring.InertMetricFactory{})
	})
}

func TestKeyPrefix(t *testing.T) {
	ctx := context.Background()
	c := newFakeClient()
	s := New(c, "roots/", nil)
	if err := s.WriteRoot(ctx, "airdrop", *uint256.NewInt(7)); err != nil {
		t.Fatalf("WriteRoot(): %v", err)
	}
	v, ok := c.data["roots/airdrop"]
	if !ok {
		t.Fatalf("key roots/airdrop not written, have %v", c.data)
	}
	if got, want := len(v), 32; got != want {
		t.Errorf("stored value is %d bytes, want %d", got, want)
	}
	if c.ctx != ctx {
		t.Error("WriteRoot did not pass its context to the client")
	}
	if err := s.Close(); err != nil || !c.closed {
		t.Errorf("Close(): %v, client closed=%v", err, c.closed)
	}
}

func TestReadRootErrors(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		desc   string
		stored string
		getErr error
		want   codes.Code
	}{
		{desc: "missing", want: codes.NotFound},
		{desc: "short-value", stored: "abc", want: codes.DataLoss},
		{desc: "server-down", getErr: errors.New("dial tcp: connection refused"), want: codes.Unavailable},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			c := newFakeClient()
			if tc.stored != "" {
				c.data["p/r"] = tc.stored
			}
			c.getErr = tc.getErr
			s := New(c, "p/", nil)
			before := readFailures.Value()
			_, err := s.ReadRoot(ctx, "r")
			if got := status.Code(err); got != tc.want {
				t.Errorf("ReadRoot(): got %v (%v), want %v", got, err, tc.want)
			}
			if tc.getErr != nil {
				if got := readFailures.Value() - before; got != 1 {
					t.Errorf("read failures moved by %v, want 1", got)
				}
			}
		})
	}
}

func TestReadRootCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newFakeClient()
	c.getErr = context.Canceled
	s := New(c, "p/", nil)
	if _, err := s.ReadRoot(ctx, "r"); status.Code(err) != codes.Canceled {
		t.Errorf("ReadRoot(): got %v, want code Canceled", err)
	}
}

func TestStorageRedis(t *testing.T) {
	testdb.SkipIfNoRedis(t)
	testonly.RunStorageTests(t, func(t *testing.T) rootstore.Storage {
		c := redis.NewClient(&redis.Options{Addr: testdb.RedisAddr()})
		return New(c, testdb.UniquePrefix(), nil)
	})
}
