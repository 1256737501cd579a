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

// Package testdb creates throwaway databases for root store tests, and
// reports whether the databases are reachable at all so tests can skip.
//
// Locations come from environment variables rather than flags, so that a
// single `go test ./...` can be pointed at real databases without every
// test binary having to define the flags.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis"
	"github.com/jackc/pgx/v5/pgxpool"
	"k8s.io/klog/v2"

	_ "github.com/go-sql-driver/mysql" // mysql driver
)

const (
	// MySQLURIEnv names the variable holding the test MySQL URI. The value
	// must end with a slash so a database name can be appended.
	MySQLURIEnv = "TEST_MYSQL_URI"
	// PostgreSQLURIEnv names the variable holding the test PostgreSQL URI.
	PostgreSQLURIEnv = "TEST_POSTGRESQL_URI"
	// RedisAddrEnv names the variable holding the test Redis address.
	RedisAddrEnv = "TEST_REDIS_ADDR"

	defaultMySQLURI      = "root@tcp(127.0.0.1)/"
	defaultPostgreSQLURI = "postgresql:///postgres?host=localhost&user=postgres&password=postgres"
	defaultRedisAddr     = "localhost:6379"

	pingTimeout = 2 * time.Second
)

func envOr(name, def string) string {
	if e := os.Getenv(name); len(e) > 0 {
		return e
	}
	return def
}

func uniqueName() string {
	return fmt.Sprintf("mp_%v", time.Now().UnixNano())
}

// MySQLAvailable reports whether the test MySQL server answers.
func MySQLAvailable() bool {
	db, err := sql.Open("mysql", envOr(MySQLURIEnv, defaultMySQLURI))
	if err != nil {
		klog.Infof("sql.Open(): %v", err)
		return false
	}
	defer db.Close()
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		klog.Infof("MySQL Ping(): %v", err)
		return false
	}
	return true
}

// NewMySQLDB creates a randomly named, empty MySQL database and returns a
// handle to it along with a function that drops it.
func NewMySQLDB(ctx context.Context) (*sql.DB, func(context.Context), error) {
	uri := envOr(MySQLURIEnv, defaultMySQLURI)
	admin, err := sql.Open("mysql", uri)
	if err != nil {
		return nil, nil, err
	}

	name := uniqueName()
	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+name); err != nil {
		admin.Close()
		return nil, nil, fmt.Errorf("CREATE DATABASE %s: %v", name, err)
	}
	db, err := sql.Open("mysql", uri+name)
	if err != nil {
		admin.Close()
		return nil, nil, err
	}
	// The handle under test may already be closed by the time done runs,
	// so the database is dropped through the admin connection.
	done := func(ctx context.Context) {
		db.Close()
		if _, err := admin.ExecContext(ctx, "DROP DATABASE "+name); err != nil {
			klog.Warningf("Failed to drop test database %q: %v", name, err)
		}
		admin.Close()
	}
	return db, done, db.PingContext(ctx)
}

func postgresqlURI(dbName string) string {
	uri := envOr(PostgreSQLURIEnv, defaultPostgreSQLURI)
	if dbName == "" {
		return uri
	}
	// postgresql:///<db>?<params>
	if s := strings.SplitN(uri, "?", 2); len(s) == 2 {
		if i := strings.LastIndex(s[0], "/"); i >= 0 {
			return s[0][:i+1] + dbName + "?" + s[1]
		}
	}
	return uri
}

// PostgreSQLAvailable reports whether the test PostgreSQL server answers.
func PostgreSQLAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	pool, err := pgxpool.New(ctx, postgresqlURI(""))
	if err != nil {
		klog.Infof("pgxpool.New(): %v", err)
		return false
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		klog.Infof("PostgreSQL Ping(): %v", err)
		return false
	}
	return true
}

// NewPostgreSQLDB creates a randomly named, empty PostgreSQL database and
// returns a pool connected to it along with a function that drops it.
func NewPostgreSQLDB(ctx context.Context) (*pgxpool.Pool, func(context.Context), error) {
	admin, err := pgxpool.New(ctx, postgresqlURI(""))
	if err != nil {
		return nil, nil, err
	}
	name := uniqueName()
	if _, err := admin.Exec(ctx, "CREATE DATABASE "+name); err != nil {
		admin.Close()
		return nil, nil, fmt.Errorf("CREATE DATABASE %s: %v", name, err)
	}
	pool, err := pgxpool.New(ctx, postgresqlURI(name))
	if err != nil {
		admin.Close()
		return nil, nil, err
	}
	done := func(ctx context.Context) {
		pool.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE "+name); err != nil {
			klog.Warningf("Failed to drop test database %q: %v", name, err)
		}
		admin.Close()
	}
	return pool, done, pool.Ping(ctx)
}

// RedisAddr returns the address of the test Redis server.
func RedisAddr() string {
	return envOr(RedisAddrEnv, defaultRedisAddr)
}

// RedisAvailable reports whether the test Redis server answers.
func RedisAvailable() bool {
	c := redis.NewClient(&redis.Options{Addr: RedisAddr(), DialTimeout: pingTimeout})
	defer c.Close()
	if err := c.Ping().Err(); err != nil {
		klog.Infof("Redis PING: %v", err)
		return false
	}
	return true
}

// UniquePrefix returns a key prefix no other test run uses.
func UniquePrefix() string {
	return uniqueName() + "/"
}

// SkipIfNoMySQL skips t unless the test MySQL server is reachable.
func SkipIfNoMySQL(t testing.TB) {
	t.Helper()
	if !MySQLAvailable() {
		t.Skip("MySQL not available, skipping test")
	}
}

// SkipIfNoPostgreSQL skips t unless the test PostgreSQL server is reachable.
func SkipIfNoPostgreSQL(t testing.TB) {
	t.Helper()
	if !PostgreSQLAvailable() {
		t.Skip("PostgreSQL not available, skipping test")
	}
}

// SkipIfNoRedis skips t unless the test Redis server is reachable.
func SkipIfNoRedis(t testing.TB) {
	t.Helper()
	if !RedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}
}
