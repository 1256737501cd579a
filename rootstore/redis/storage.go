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

// Package redis stores roots in Redis, registered as "redis". Each root is
// a plain string key holding the 32 byte big-endian value.
package redis

import (
	"context"
	"errors"
	"flag"
	"sync"
	"time"

	"github.com/go-redis/redis"
	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/rootstore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"k8s.io/klog/v2"
)

var (
	redisAddr     = flag.String("redis_addr", "localhost:6379", "Address of the Redis server holding roots")
	redisPassword = flag.String("redis_password", "", "Password for the Redis server")
	redisDB       = flag.Int("redis_db", 0, "Redis logical database number")
	keyPrefix     = flag.String("redis_key_prefix", "merkleproof/roots/", "Prefix for every Redis key holding a root")

	once         sync.Once
	readFailures monitoring.Counter
)

func init() {
	if err := rootstore.RegisterStorage("redis", newFromFlags); err != nil {
		klog.Fatalf("Failed to register root storage redis: %v", err)
	}
}

func createMetrics(mf monitoring.MetricFactory) {
	if mf == nil {
		mf = monitoring.InertMetricFactory{}
	}
	readFailures = mf.NewCounter("redis_root_read_failures", "Number of Redis reads that failed for a reason other than a missing key")
}

func newFromFlags(mf monitoring.MetricFactory) (rootstore.Storage, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     *redisAddr,
		Password: *redisPassword,
		DB:       *redisDB,
	})
	klog.V(1).Infof("Using Redis root storage at %s db %d", *redisAddr, *redisDB)
	return New(c, *keyPrefix, mf), nil
}

// Client is the subset of the go-redis client API the storage uses.
type Client interface {
	Get(key string) *redis.StringCmd
	Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// Storage is a rootstore.Storage backed by Redis.
type Storage struct {
	c      Client
	prefix string
}

// New returns a Storage that keeps roots in c under keys starting with
// prefix. The Storage owns c and closes it on Close.
func New(c Client, prefix string, mf monitoring.MetricFactory) *Storage {
	once.Do(func() { createMetrics(mf) })
	return &Storage{c: c, prefix: prefix}
}

func (s *Storage) key(name string) string {
	return s.prefix + name
}

// ReadRoot implements rootstore.Storage.
func (s *Storage) ReadRoot(ctx context.Context, name string) (uint256.Int, error) {
	b, err := withClientContext(ctx, s.c).Get(s.key(name)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return uint256.Int{}, rootstore.NotFound(name)
	case err != nil:
		readFailures.Inc()
		return uint256.Int{}, toStatus(ctx, err)
	}
	return rootstore.DecodeRoot(name, b)
}

// WriteRoot implements rootstore.Storage.
func (s *Storage) WriteRoot(ctx context.Context, name string, root uint256.Int) error {
	// A zero expiration keeps the key forever.
	if err := withClientContext(ctx, s.c).Set(s.key(name), rootstore.EncodeRoot(root), 0).Err(); err != nil {
		return toStatus(ctx, err)
	}
	return nil
}

// Close implements rootstore.Storage.
func (s *Storage) Close() error {
	return s.c.Close()
}

// toStatus reports a context error with its own code and anything else as
// Unavailable, since go-redis only fails on transport problems for GET and
// SET.
func toStatus(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return status.FromContextError(ctxErr).Err()
	}
	return status.Errorf(codes.Unavailable, "redis: %v", err)
}

// Each go-redis client type has a WithContext method returning its own
// concrete type, so it cannot be part of the Client interface. Dispatch on
// the concrete types instead.
func withClientContext(ctx context.Context, client Client) Client {
	type withContextable interface {
		WithContext(context.Context) Client
	}

	switch c := client.(type) {
	case *redis.Client:
		return c.WithContext(ctx)
	case *redis.ClusterClient:
		return c.WithContext(ctx)
	case *redis.Ring:
		return c.WithContext(ctx)
	case withContextable:
		return c.WithContext(ctx)
	}
	return client
}
