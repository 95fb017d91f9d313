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
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NVIDIA/kstat-exporter/pkg/measurement"
	"github.com/NVIDIA/kstat-exporter/pkg/serializer"
)

// Route paths.
const (
	RouteMetrics         = "/metrics"
	RouteHealth          = "/health"
	RouteReady           = "/ready"
	RouteInternalMetrics = "/internal/metrics"
	RouteStatus          = "/v1/status"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Default handler
	mux.HandleFunc("/", s.withMiddleware("/", s.handleDefault))

	// Scrape endpoint (no rate limiting)
	mux.HandleFunc(RouteMetrics, s.withScrapeMiddleware(RouteMetrics, s.handleMetrics))

	// System endpoints (no middleware)
	mux.HandleFunc(RouteHealth, s.handleHealth)
	mux.HandleFunc(RouteReady, s.handleReady)

	// Introspection endpoints with middleware
	mux.HandleFunc(RouteInternalMetrics, s.withMiddleware(RouteInternalMetrics, promhttp.Handler().ServeHTTP))
	mux.HandleFunc(RouteStatus, s.withMiddleware(RouteStatus, s.handleStatus))

	return mux
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}

// handleMetrics renders the current snapshot. It always answers 200, with an
// empty body before the first pass completes.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	snap := s.snapshots.Load()
	scrapeSamples.Observe(float64(len(snap.Samples)))
	w.Header().Set("X-Snapshot-Generation", strconv.FormatUint(snap.Generation, 10))
	serializer.RespondExposition(w, snap)
}

// StatusResponse describes the snapshot currently served.
type StatusResponse struct {
	Name       string                `json:"name"`
	Version    string                `json:"version"`
	Ready      bool                  `json:"ready"`
	Generation uint64                `json:"generation"`
	CapturedAt *time.Time            `json:"capturedAt,omitempty"`
	Samples    int                   `json:"samples"`
	Outcomes   []measurement.Outcome `json:"outcomes"`
}

// handleStatus handles GET /v1/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	snap := s.snapshots.Load()
	resp := StatusResponse{
		Name:       s.config.Name,
		Version:    s.config.Version,
		Ready:      s.Ready(),
		Generation: snap.Generation,
		Samples:    len(snap.Samples),
		Outcomes:   snap.Outcomes,
	}
	if !snap.CapturedAt.IsZero() {
		t := snap.CapturedAt.UTC()
		resp.CapturedAt = &t
	}
	if resp.Outcomes == nil {
		resp.Outcomes = []measurement.Outcome{}
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound,
			"Route not found", false, map[string]any{"path": r.URL.Path})
		return
	}

	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	resp := struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		Ready     bool     `json:"ready"`
		Timestamp string   `json:"timestamp"`
		Routes    []string `json:"routes"`
	}{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Ready:     s.Ready(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes: []string{
			"GET " + RouteMetrics,
			"GET " + RouteStatus,
			"GET " + RouteHealth,
			"GET " + RouteReady,
			"GET " + RouteInternalMetrics,
		},
	}

	serializer.RespondJSON(w, http.StatusOK, resp)
}
