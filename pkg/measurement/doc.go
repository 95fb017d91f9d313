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

// Package measurement defines the uniform numeric metric model every source
// parser produces and the immutable Snapshot a collection pass publishes.
//
// A Sample is a metric name, an ordered label set and a tagged Value. The tag
// (KindInteger or KindFloat) is part of the data: it decides whether the value
// renders as exact digits or in floating-point textual form.
//
//	b := measurement.NewBatch()
//	b.AddFloat("meminfo_bytes", 33612759040, measurement.L("key", "MemTotal"))
//	b.AddInt("meminfo", 0, measurement.L("key", "HugePages_Total"))
//
// A Snapshot bundles the samples of all enabled sources with one Outcome per
// source. Snapshots are never mutated after publication, so readers may share
// them without copying.
package measurement
