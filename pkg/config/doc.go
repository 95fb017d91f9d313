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

// Package config holds the exporter's runtime configuration.
//
// Values come from four layers, highest precedence first: command line flags,
// KSTAT_* environment variables, an optional YAML file and built-in defaults.
// The first two are applied by the cli package on top of the result of Load.
//
// Example file:
//
//	listen: ":9000"
//	interval: 5
//	procName: pinger
//	monitor: [sched, snmp, meminfo]
//	netdev:
//	  includeLoopback: false
//	disk:
//	  includePartitions: false
//	  skipPatterns: ["loop*", "ram*"]
package config
