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

// Package mysql stores roots in a MySQL table, registered as "mysql".
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/rootstore"
	"github.com/merkleproof/merkleproof/util/clock"
	"k8s.io/klog/v2"
)

// Schema creates the table the storage reads and writes.
const Schema = `CREATE TABLE IF NOT EXISTS Roots(
  Name      VARBINARY(255) NOT NULL,
  Root      BINARY(32) NOT NULL,
  UpdatedAt BIGINT NOT NULL,
  PRIMARY KEY(Name)
)`

const (
	selectRootSQL = "SELECT Root FROM Roots WHERE Name = ?"
	upsertRootSQL = `INSERT INTO Roots(Name, Root, UpdatedAt) VALUES(?, ?, ?)
  ON DUPLICATE KEY UPDATE Root = VALUES(Root), UpdatedAt = VALUES(UpdatedAt)`
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
	queryLatency = mf.NewHistogram("mysql_root_query_latency_seconds", "Latency of root queries in seconds", "op")
	queryFailures = mf.NewCounter("mysql_root_query_failures", "Number of failed root queries", "op")
}

// OpenDB opens a database handle and puts the session into strict mode, so
// oversized values are rejected rather than truncated.
func OpenDB(dbURL string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dbURL)
	if err != nil {
		// Don't log uri as it could contain credentials.
		klog.Warningf("Could not open MySQL database, check config: %s", err)
		return nil, err
	}
	if _, err := db.ExecContext(context.TODO(), "SET sql_mode = 'STRICT_ALL_TABLES'"); err != nil {
		klog.Warningf("Failed to set strict mode on mysql db: %s", err)
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateTables runs Schema against db.
func CreateTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}

// Storage is a rootstore.Storage backed by a MySQL table.
type Storage struct {
	db *sql.DB
	ts clock.TimeSource
}

// New returns a Storage using db, which must already hold the Roots table.
func New(db *sql.DB, mf monitoring.MetricFactory) *Storage {
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
	switch err := s.db.QueryRowContext(ctx, selectRootSQL, name).Scan(&b); {
	case errors.Is(err, sql.ErrNoRows):
		return uint256.Int{}, rootstore.NotFound(name)
	case err != nil:
		return uint256.Int{}, mysqlToGRPC(err)
	}
	return rootstore.DecodeRoot(name, b)
}

// WriteRoot implements rootstore.Storage.
func (s *Storage) WriteRoot(ctx context.Context, name string, root uint256.Int) (err error) {
	now := s.ts.Now()
	defer func(start time.Time) { s.observe("write", start, err) }(now)

	if _, err := s.db.ExecContext(ctx, upsertRootSQL, name, rootstore.EncodeRoot(root), now.UnixNano()); err != nil {
		return mysqlToGRPC(err)
	}
	return nil
}

// Close implements rootstore.Storage.
func (s *Storage) Close() error {
	return s.db.Close()
}
