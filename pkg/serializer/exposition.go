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

package serializer

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/NVIDIA/kstat-exporter/pkg/measurement"
)

// ExpositionContentType is the media type of the text exposition format.
const ExpositionContentType = "text/plain; version=0.0.4; charset=utf-8"

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// EscapeLabelValue escapes backslashes, double quotes and newlines.
func EscapeLabelValue(v string) string {
	return labelEscaper.Replace(v)
}

// FormatValue renders a value by its tag. Integers are plain base-10 digits.
// Floats use the shortest round-trip form, which is scientific for large or
// small magnitudes, and always carry a decimal point or exponent.
func FormatValue(v measurement.Value) string {
	if v.IsInteger() {
		return strconv.FormatInt(v.Int64(), 10)
	}

	f := v.Float64()
	switch {
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// AppendSample appends the exposition line of s, without a trailing newline.
func AppendSample(dst []byte, s measurement.Sample) []byte {
	dst = append(dst, s.Name...)
	if len(s.Labels) > 0 {
		dst = append(dst, '{')
		for i, l := range s.Labels {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = append(dst, l.Name...)
			dst = append(dst, '=', '"')
			dst = append(dst, EscapeLabelValue(l.Value)...)
			dst = append(dst, '"')
		}
		dst = append(dst, '}')
	}
	dst = append(dst, ' ')
	return append(dst, FormatValue(s.Value)...)
}

// GroupByName returns the samples reordered so that samples sharing a metric
// name are adjacent. Groups follow the first appearance of each name and keep
// their production order; no other sorting is applied.
func GroupByName(samples []measurement.Sample) []measurement.Sample {
	order := make([]string, 0)
	groups := make(map[string][]measurement.Sample)
	for _, s := range samples {
		if _, ok := groups[s.Name]; !ok {
			order = append(order, s.Name)
		}
		groups[s.Name] = append(groups[s.Name], s)
	}

	out := make([]measurement.Sample, 0, len(samples))
	for _, name := range order {
		out = append(out, groups[name]...)
	}
	return out
}

// WriteExposition renders samples to w, one line per sample.
func WriteExposition(w io.Writer, samples []measurement.Sample) error {
	bw := bufio.NewWriter(w)
	line := make([]byte, 0, 128)
	for _, s := range GroupByName(samples) {
		line = AppendSample(line[:0], s)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// RenderExposition renders a snapshot to a string. A nil snapshot renders empty.
func RenderExposition(snap *measurement.Snapshot) string {
	if snap == nil {
		return ""
	}
	var sb strings.Builder
	// strings.Builder never fails to write
	_ = WriteExposition(&sb, snap.Samples)
	return sb.String()
}
