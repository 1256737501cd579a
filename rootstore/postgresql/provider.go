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

package postgresql

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/rootstore"
	"k8s.io/klog/v2"
)

var (
	postgreSQLURI        = flag.String("postgresql_uri", "postgresql:///defaultdb?host=localhost&user=test", "Connection URI for the PostgreSQL root database")
	postgresqlTLSCA      = flag.String("postgresql_tls_ca", "", "Path to the CA certificate file for PostgreSQL TLS connection")
	postgresqlVerifyFull = flag.Bool("postgresql_verify_full", false, "Enable full TLS verification for PostgreSQL (sslmode=verify-full). If false, only sslmode=verify-ca is used.")
	createTables         = flag.Bool("postgresql_create_tables", false, "Create the roots table on startup if it does not exist")
)

func init() {
	if err := rootstore.RegisterStorage("postgresql", newFromFlags); err != nil {
		klog.Fatalf("Failed to register root storage postgresql: %v", err)
	}
}

func newFromFlags(mf monitoring.MetricFactory) (rootstore.Storage, error) {
	uri, err := withTLS(*postgreSQLURI, *postgresqlTLSCA, *postgresqlVerifyFull)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	db, err := OpenDB(ctx, uri)
	if err != nil {
		return nil, err
	}
	if *createTables {
		if err := CreateTables(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return New(db, mf), nil
}

// withTLS adds the sslrootcert and sslmode parameters for caFile to uri.
func withTLS(uri, caFile string, verifyFull bool) (string, error) {
	if caFile == "" {
		return uri, nil
	}
	if _, err := os.Stat(caFile); err != nil {
		return "", fmt.Errorf("postgresql CA file error: %w", err)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid postgresql URI: %w", err)
	}
	q := u.Query()
	q.Set("sslrootcert", caFile)
	if verifyFull {
		q.Set("sslmode", "verify-full")
	} else if q.Get("sslmode") == "" {
		q.Set("sslmode", "verify-ca")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
