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

// Package serializer renders snapshots.
//
// The text exposition format served on /metrics writes one line per sample:
//
//	name{label1="value1",label2="value2"} value
//
// Labels keep the order the source recorded them in, label values have
// backslashes, double quotes and newlines escaped, and samples are grouped by
// metric name in order of first appearance. Integer values render as plain
// digits; float values use the shortest round-trip form and never look like
// an integer, e.g. 3.361275904e+10 or 1024.0. No TYPE or HELP lines are
// emitted.
//
// For HTTP responses:
//
//	serializer.RespondExposition(w, store.Load())
//	serializer.RespondJSON(w, http.StatusOK, data)
//
// Writer serializes a snapshot to a file or stdout as text, JSON, YAML, or a
// per-source outcome table:
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer writer.Close()
//	if err := writer.Serialize(ctx, snap); err != nil {
//		return err
//	}
package serializer
