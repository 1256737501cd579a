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

// Package etcd stores roots as etcd keys, registered as "etcd".
package etcd

import (
	"context"
	"errors"
	"flag"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/rootstore"
	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc/status"
	"k8s.io/klog/v2"
)

var (
	etcdServers = flag.String("etcd_servers", "", "A comma-separated list of etcd servers holding roots")
	rootPrefix  = flag.String("etcd_root_prefix", "/merkleproof/roots/", "Prefix for every etcd key holding a root")
)

func init() {
	if err := rootstore.RegisterStorage("etcd", newFromFlags); err != nil {
		klog.Fatalf("Failed to register root storage etcd: %v", err)
	}
}

func newFromFlags(monitoring.MetricFactory) (rootstore.Storage, error) {
	client, err := NewClient(*etcdServers)
	if err != nil {
		return nil, err
	}
	return New(client.KV, *rootPrefix, client.Close), nil
}

// NewClient returns an etcd client for servers, a comma-separated list of
// etcd server URIs.
func NewClient(servers string) (*clientv3.Client, error) {
	if servers == "" {
		return nil, errors.New("etcd root storage needs --etcd_servers")
	}
	return clientv3.New(clientv3.Config{
		Endpoints:   strings.Split(servers, ","),
		DialTimeout: 5 * time.Second,
	})
}

// Storage is a rootstore.Storage backed by an etcd key space.
type Storage struct {
	kv     clientv3.KV
	prefix string
	close  func() error
}

// New returns a Storage that keeps roots in kv under keys starting with
// prefix. closeFn, if not nil, is called by Close.
func New(kv clientv3.KV, prefix string, closeFn func() error) *Storage {
	return &Storage{kv: kv, prefix: prefix, close: closeFn}
}

func (s *Storage) key(name string) string {
	return s.prefix + name
}

// ReadRoot implements rootstore.Storage.
func (s *Storage) ReadRoot(ctx context.Context, name string) (uint256.Int, error) {
	resp, err := s.kv.Get(ctx, s.key(name))
	if err != nil {
		return uint256.Int{}, toStatus(ctx, err)
	}
	if len(resp.Kvs) == 0 {
		return uint256.Int{}, rootstore.NotFound(name)
	}
	return rootstore.DecodeRoot(name, resp.Kvs[0].Value)
}

// WriteRoot implements rootstore.Storage.
func (s *Storage) WriteRoot(ctx context.Context, name string, root uint256.Int) error {
	if _, err := s.kv.Put(ctx, s.key(name), string(rootstore.EncodeRoot(root))); err != nil {
		return toStatus(ctx, err)
	}
	return nil
}

// Close implements rootstore.Storage.
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// etcd client errors already carry gRPC codes; only context errors need
// converting.
func toStatus(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return status.FromContextError(ctxErr).Err()
	}
	return err
}
