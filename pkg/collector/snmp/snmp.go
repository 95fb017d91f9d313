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

// Package snmp exports the Tcp and Udp blocks of /proc/net/snmp.
package snmp

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NVIDIA/kstat-exporter/pkg/collector/file"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/process"
	"github.com/NVIDIA/kstat-exporter/pkg/defaults"
	"github.com/NVIDIA/kstat-exporter/pkg/errors"
	"github.com/NVIDIA/kstat-exporter/pkg/measurement"
)

// Name identifies this source.
const Name = "snmp"

// metricPrefix is joined with the lower-cased protocol, e.g. snmp_tcp.
const metricPrefix = "snmp_"

// protocols lists the blocks this source exports, lower-cased.
var protocols = map[string]bool{
	"tcp": true,
	"udp": true,
}

// MetricName returns the metric name for a protocol token.
func MetricName(proto string) string {
	return metricPrefix + strings.ToLower(proto)
}

// Parse converts /proc/net/snmp content into samples. The file is a sequence
// of header/value line pairs sharing a "<Proto>:" prefix; only Tcp and Udp
// blocks are exported. Malformed blocks are skipped with a warning.
func Parse(text string) (*measurement.Batch, error) {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return nil, errors.New(errors.ErrCodeParse, "snmp content is empty")
	}

	b := measurement.NewBatch()
	for i := 0; i < len(lines); {
		hproto, keysStr, ok := strings.Cut(lines[i], ":")
		if !ok {
			b.Warnf("line %d: missing protocol prefix", i+1)
			i++
			continue
		}
		hproto = strings.TrimSpace(hproto)

		if i+1 >= len(lines) {
			b.Warnf("%s: header without value line", hproto)
			break
		}

		vproto, valsStr, ok := strings.Cut(lines[i+1], ":")
		if !ok || strings.TrimSpace(vproto) != hproto {
			// resynchronize on the next line as a header
			b.Warnf("%s: header without matching value line", hproto)
			i++
			continue
		}
		i += 2

		if !protocols[strings.ToLower(hproto)] {
			continue
		}

		keys := strings.Fields(keysStr)
		vals := strings.Fields(valsStr)
		if len(keys) != len(vals) {
			b.Warnf("%s: %d fields but %d values, block skipped", hproto, len(keys), len(vals))
			continue
		}

		metric := MetricName(hproto)
		for j, k := range keys {
			v, err := strconv.ParseInt(vals[j], 10, 64)
			if err != nil {
				b.Warnf("%s: invalid value %q for %s", hproto, vals[j], k)
				continue
			}
			b.AddInt(metric, v, measurement.L("key", k))
		}
	}

	return b, nil
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// Source reads the system-wide SNMP counters file.
type Source struct {
	// Path of the snmp counters file.
	Path string

	// Reader performs the raw file access.
	Reader file.Reader
}

// New creates an snmp Source reading <procRoot>/net/snmp.
func New(procRoot string, r file.Reader) *Source {
	if procRoot == "" {
		procRoot = defaults.ProcRoot
	}
	if r == nil {
		r = file.NewParser()
	}
	return &Source{Path: filepath.Join(procRoot, "net", "snmp"), Reader: r}
}

// Name returns the source name.
func (s *Source) Name() string { return Name }

// Collect reads and parses the counters file.
func (s *Source) Collect(ctx context.Context, _ []process.Match) (*measurement.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "snmp collection canceled", err)
	}
	text, err := s.Reader.ReadString(s.Path)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}
