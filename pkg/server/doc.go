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

// Package server serves the current metrics snapshot over HTTP.
//
// # Endpoints
//
// GET /metrics - Current snapshot in the text exposition format
//
//	Always returns 200. Before the first collection pass the body is empty.
//	Not rate limited. The X-Snapshot-Generation header carries the snapshot
//	generation.
//
// GET /v1/status - Generation, capture time and per-source outcomes as JSON
//
// GET /health - Health check (for liveness probe)
//
//	Always returns 200 OK with {"status": "healthy", "timestamp": "..."}
//
// GET /ready - Readiness check
//
//	Returns 200 once the first snapshot was published, 503 before that
//	and during shutdown.
//
// GET /internal/metrics - Self-instrumentation of the exporter (promhttp)
//
// # Middleware
//
// Non-scrape routes pass through metrics, API version negotiation, request
// ID, panic recovery, rate limiting (golang.org/x/time/rate token bucket) and
// debug logging. /metrics skips version negotiation and rate limiting.
//
// # Usage
//
//	store := snapshotter.NewStore()
//	srv := server.New(server.NewConfig(), store)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is canceled, then shuts down gracefully within
// Config.ShutdownTimeout.
package server
