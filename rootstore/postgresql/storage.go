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

// Package postgresql stores roots in a PostgreSQL table, registered as
// "postgresql".
package postgresql

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/rootstore"
	"github.com/merkleproof/merkleproof/util/clock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"k8s.io/klog/v2"
)

// Schema creates the table the storage reads and writes.
const Schema = `CREATE TABLE IF NOT EXISTS roots(
  name       VARCHAR(255) NOT NULL PRIMARY KEY,
  root       BYTEA NOT NULL CHECK (octet_length(root) = 32),
  updated_at BIGINT NOT NULL
)`

const (
	selectRootSQL = "SELECT root FROM roots WHERE name = $1"
	upsertRootSQL = `INSERT INTO roots(name, root, updated_at) VALUES($1, $2, $3)
  ON CONFLICT (name) DO UPDATE SET root = EXCLUDED.root, updated_at = EXCLUDED.updated_at`
)

var (
	once          sync.Once
	queryLatency  monitoring.Histogram
	queryFailures monitoring.Counter
)

func createMetrics(mf monitoring.MetricFactory) {
	if mf == nil {
		mf = monitoring.InertMetricFactory{}
	}
	queryLatency = mf.NewHistogram("postgresql_root_query_latency_seconds", "Latency of root queries in seconds", "op")
	queryFailures = mf.NewCounter("postgresql_root_query_failures", "Number of failed root queries", "op")
}

// OpenDB returns a connection pool for dbURL.
func OpenDB(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		// Don't log uri as it could contain credentials.
		klog.Warningf("Could not open PostgreSQL database, check config: %s", err)
		return nil, err
	}
	return db, nil
}

// CreateTables runs Schema against db.
func CreateTables(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, Schema)
	return err
}

// pgToGRPC converts the PostgreSQL errors a caller can act on into gRPC
// status errors. Anything else is returned unchanged.
func pgToGRPC(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgerrcode.SerializationFailure, pgErr.Code == pgerrcode.DeadlockDetected:
		return status.Errorf(codes.Aborted, "PostgreSQL: %v", pgErr)
	case pgErr.Code == pgerrcode.StringDataRightTruncationDataException, pgErr.Code == pgerrcode.CheckViolation:
		return status.Errorf(codes.InvalidArgument, "PostgreSQL: %v", pgErr)
	case pgerrcode.IsConnectionException(pgErr.Code):
		return status.Errorf(codes.Unavailable, "PostgreSQL: %v", pgErr)
	}
	return err
}

// Storage is a rootstore.Storage backed by a PostgreSQL table.
type Storage struct {
	db *pgxpool.Pool
	ts clock.TimeSource
}

// New returns a Storage using db, which must already hold the roots table.
func New(db *pgxpool.Pool, mf monitoring.MetricFactory) *Storage {
	once.Do(func() { createMetrics(mf) })
	return &Storage{db: db, ts: clock.System}
}

func (s *Storage) observe(op string, start time.Time, err error) {
	queryLatency.Observe(clock.SecondsSince(s.ts, start), op)
	if err != nil && !rootstore.IsNotFound(err) {
		queryFailures.Inc(op)
	}
}

// ReadRoot implements rootstore.Storage.
func (s *Storage) ReadRoot(ctx context.Context, name string) (_ uint256.Int, err error) {
	defer func(start time.Time) { s.observe("read", start, err) }(s.ts.Now())

	var b []byte
	if err := s.db.QueryRow(ctx, selectRootSQL, name).Scan(&b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uint256.Int{}, rootstore.NotFound(name)
		}
		return uint256.Int{}, pgToGRPC(err)
	}
	return rootstore.DecodeRoot(name, b)
}

// WriteRoot implements rootstore.Storage.
func (s *Storage) WriteRoot(ctx context.Context, name string, root uint256.Int) (err error) {
	now := s.ts.Now()
	defer func(start time.Time) { s.observe("write", start, err) }(now)

	if _, err := s.db.Exec(ctx, upsertRootSQL, name, rootstore.EncodeRoot(root), now.UnixNano()); err != nil {
		return pgToGRPC(err)
	}
	return nil
}

// Close implements rootstore.Storage.
func (s *Storage) Close() error {
	s.db.Close()
	return nil
}
