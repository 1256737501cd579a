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

package serverutil_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/merkleproof/merkleproof/cmd/internal/serverutil"
	"github.com/prometheus/client_golang/prometheus"

	_ "net/http/pprof"
)

func httpGet(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := http.Get(url) //nolint:gosec
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func start(t *testing.T, m *serverutil.Main) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Serve(ctx, lis)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("Serve(): %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Errorf("timeout waiting for server shutdown")
		}
	})
	return fmt.Sprintf("http://%s", lis.Addr())
}

func TestHTTPServerDoesNotExposeDefaultServeMux(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "roots_published", Help: "Test only"})
	reg.MustRegister(c)
	c.Inc()

	baseURL := start(t, &serverutil.Main{Gatherer: reg})

	if got, body := httpGet(t, baseURL+"/healthz"); got != http.StatusOK || body != "ok" {
		t.Errorf("/healthz: got %d %q, want 200 ok", got, body)
	}
	got, body := httpGet(t, baseURL+"/metrics")
	if got != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", got)
	}
	if !strings.Contains(body, "roots_published 1") {
		t.Errorf("/metrics body lacks roots_published: %s", body)
	}
	if got, _ := httpGet(t, baseURL+"/debug/pprof/"); got != http.StatusNotFound {
		t.Errorf("expected 404 from /debug/pprof/, got %d", got)
	}
}

func TestUnhealthy(t *testing.T) {
	baseURL := start(t, &serverutil.Main{
		Gatherer:  prometheus.NewRegistry(),
		IsHealthy: func(context.Context) error { return errors.New("root store unreachable") },
	})
	if got, body := httpGet(t, baseURL+"/healthz"); got != http.StatusServiceUnavailable || body != "root store unreachable" {
		t.Errorf("/healthz: got %d %q, want 503 with the health error", got, body)
	}
}

func TestRunBadEndpoint(t *testing.T) {
	m := &serverutil.Main{HTTPEndpoint: "not-an-address"}
	if err := m.Run(context.Background()); err == nil {
		t.Error("Run(not-an-address): got nil error")
	}
}
