// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kstat-exporter/pkg/measurement"
	"github.com/NVIDIA/kstat-exporter/pkg/serializer"
)

type staticSource struct {
	snap atomic.Pointer[measurement.Snapshot]
}

func newStaticSource(snap *measurement.Snapshot) *staticSource {
	s := &staticSource{}
	s.snap.Store(snap)
	return s
}

func (s *staticSource) Load() *measurement.Snapshot { return s.snap.Load() }

func sampleSnapshot() *measurement.Snapshot {
	return &measurement.Snapshot{
		Generation: 4,
		CapturedAt: time.Now(),
		Samples: []measurement.Sample{
			measurement.NewSample("snmp_tcp", measurement.Integer(372), measurement.L("key", "PassiveOpens")),
			measurement.NewSample("meminfo_bytes", measurement.Float(33612759040), measurement.L("key", "MemTotal")),
		},
		Outcomes: []measurement.Outcome{
			{Source: "snmp", Status: measurement.StatusOK, Samples: 1},
			{Source: "meminfo", Status: measurement.StatusOK, Samples: 1},
		},
	}
}

func newTestServer(snap *measurement.Snapshot) *Server {
	return New(NewConfig(), newStaticSource(snap))
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestNew(t *testing.T) {
	s := New(nil, newStaticSource(measurement.EmptySnapshot()))
	require.NotNil(t, s)
	assert.NotNil(t, s.config)
	assert.NotNil(t, s.httpServer)
	assert.NotNil(t, s.rateLimiter)
	assert.False(t, s.Ready())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(sampleSnapshot())
	rec := do(t, s.Handler(), http.MethodGet, RouteMetrics)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, serializer.ExpositionContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "4", rec.Header().Get("X-Snapshot-Generation"))
	assert.Equal(t,
		"snmp_tcp{key=\"PassiveOpens\"} 372\nmeminfo_bytes{key=\"MemTotal\"} 3.361275904e+10\n",
		rec.Body.String())
}

func TestMetricsEndpoint_BeforeFirstPass(t *testing.T) {
	s := newTestServer(measurement.EmptySnapshot())
	rec := do(t, s.Handler(), http.MethodGet, RouteMetrics)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "0", rec.Header().Get("X-Snapshot-Generation"))
}

func TestMetricsEndpoint_AllSourcesFailed(t *testing.T) {
	snap := &measurement.Snapshot{
		Generation: 9,
		Outcomes: []measurement.Outcome{
			{Source: "disk", Status: measurement.StatusFailed, Reason: "gone"},
		},
	}
	rec := do(t, newTestServer(snap).Handler(), http.MethodGet, RouteMetrics)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestMetricsEndpoint_MethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(sampleSnapshot()).Handler(), http.MethodPost, RouteMetrics)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}

func TestMetricsEndpoint_NotRateLimited(t *testing.T) {
	cfg := NewConfig()
	cfg.RateLimit = 0
	cfg.RateLimitBurst = 0
	s := New(cfg, newStaticSource(sampleSnapshot()))

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, do(t, s.Handler(), http.MethodGet, RouteMetrics).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(t, s.Handler(), http.MethodGet, RouteStatus).Code)
}

func TestMetricsEndpoint_ConcurrentScrapesDuringPublish(t *testing.T) {
	src := newStaticSource(sampleSnapshot())
	s := New(NewConfig(), src)
	want := serializer.RenderExposition(sampleSnapshot())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rec := do(t, s.Handler(), http.MethodGet, RouteMetrics)
				if rec.Body.String() != want {
					t.Errorf("unexpected body %q", rec.Body.String())
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		src.snap.Store(sampleSnapshot())
	}
	wg.Wait()
}

func TestHealthEndpoint(t *testing.T) {
	rec := do(t, newTestServer(nil).Handler(), http.MethodGet, RouteHealth)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = do(t, newTestServer(nil).Handler(), http.MethodPost, RouteHealth)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReadyEndpoint(t *testing.T) {
	s := newTestServer(measurement.EmptySnapshot())

	tests := []struct {
		name           string
		ready          bool
		expectedStatus int
		expectedState  string
	}{
		{name: "not ready", ready: false, expectedStatus: http.StatusServiceUnavailable, expectedState: "not_ready"},
		{name: "ready", ready: true, expectedStatus: http.StatusOK, expectedState: "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetReady(tt.ready)
			rec := do(t, s.Handler(), http.MethodGet, RouteReady)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedState, resp.Status)
		})
	}
}

func TestStatusEndpoint(t *testing.T) {
	s := newTestServer(sampleSnapshot())
	s.SetReady(true)
	rec := do(t, s.Handler(), http.MethodGet, RouteStatus)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DefaultAPIVersion, rec.Header().Get("X-API-Version"))

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Ready)
	assert.Equal(t, uint64(4), resp.Generation)
	assert.Equal(t, 2, resp.Samples)
	assert.Len(t, resp.Outcomes, 2)
	assert.NotNil(t, resp.CapturedAt)
}

func TestStatusEndpoint_Empty(t *testing.T) {
	rec := do(t, newTestServer(measurement.EmptySnapshot()).Handler(), http.MethodGet, RouteStatus)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"outcomes":[]`)
	assert.NotContains(t, rec.Body.String(), "capturedAt")
}

func TestInternalMetricsEndpoint(t *testing.T) {
	s := newTestServer(sampleSnapshot())
	// generate at least one instrumented request
	do(t, s.Handler(), http.MethodGet, RouteMetrics)

	rec := do(t, s.Handler(), http.MethodGet, RouteInternalMetrics)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kstat_exporter_http_requests_total")
}

func TestDefaultRootHandler(t *testing.T) {
	rec := do(t, newTestServer(nil).Handler(), http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Name   string   `json:"name"`
		Routes []string `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "kstat-exporter", resp.Name)
	assert.Contains(t, resp.Routes, "GET /metrics")
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestServer(nil).Handler(), http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrCodeNotFound, resp.Code)
	assert.NotEmpty(t, resp.RequestID)
}

func TestGracefulShutdown(t *testing.T) {
	s := newTestServer(sampleSnapshot())
	s.SetReady(true)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + RouteMetrics
	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get(url) //nolint:noctx // test
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 5*time.Second, 10*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "snmp_tcp"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.Ready())
}

func TestStart_InvalidAddress(t *testing.T) {
	cfg := NewConfig()
	cfg.Address = "256.0.0.1:bad"
	err := New(cfg, newStaticSource(nil)).Start(context.Background())
	assert.Error(t, err)
}
