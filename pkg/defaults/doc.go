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

// Package defaults provides centralized configuration constants for the exporter.
//
// This package defines collection timing, server timeouts and the default
// pseudo-filesystem roots used across the codebase.
//
// # Categories
//
//   - Collection timing: interval, per-pass timeout, warning throttling
//   - Server timeouts: For HTTP server configuration
//   - Paths: /proc and /sys roots, listen address, comm length
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/kstat-exporter/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CollectorTimeout)
//	defer cancel()
package defaults
