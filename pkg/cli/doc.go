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

// Package cli implements the kstat-exporter command line.
//
// The root command runs the exporter: a collection pass every interval,
// published to an in-memory snapshot store and served on /metrics.
//
//	kstat-exporter --listen :9000 --interval 5 --proc-name pinger --monitor sched,snmp
//
// The snapshot subcommand runs a single pass and prints the result:
//
//	kstat-exporter snapshot --format json --output snap.json
//
// Every flag can also be set through a KSTAT_* environment variable or the
// YAML file passed with --config. Flags win over environment variables,
// which win over the file.
package cli
