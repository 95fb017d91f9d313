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

// Package collector runs the kernel statistic sources and assembles their
// output into snapshots.
//
// # Sources
//
// Each supported Kind maps to a subpackage exposing a pure Parse function and
// a Source adapter that reads through file.Reader:
//
//   - sched: /proc/<pid>/sched of every process matching the target name
//   - snmp: Tcp and Udp blocks of /proc/net/snmp
//   - netdev: /sys/class/net/<iface>/statistics/*
//   - disk: /sys/class/block/<dev>/stat
//   - interrupts: /proc/interrupts
//   - meminfo: /proc/meminfo
//
// # Collection Pass
//
// Collector.Collect resolves the target processes once, then runs every
// source concurrently. A source that returns an error, panics, or misses the
// pass deadline is recorded as a failed Outcome; the other sources still
// contribute. Samples are concatenated in source order.
//
//	factory := collector.NewDefaultFactory(collector.WithProcRoot("/host/proc"))
//	sources, err := collector.BuildSources(factory, collector.AllKinds())
//	if err != nil {
//	    return err
//	}
//	c := collector.New(sources, collector.WithResolver(factory.Resolver(), "pinger"))
//	snap, err := c.Collect(ctx)
//
// Collect returns an error only when every source failed; the snapshot is
// returned regardless and should still be published.
package collector
