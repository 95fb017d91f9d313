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

// Package meminfo exports /proc/meminfo. Entries carrying a kB unit are
// converted to bytes and exported as floats under meminfo_bytes; unitless
// entries such as huge page counts stay integers under meminfo.
package meminfo

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

const (
	// Name identifies this source.
	Name = "meminfo"

	// MetricBytes holds entries reported in kB, converted to bytes.
	MetricBytes = "meminfo_bytes"

	// MetricCount holds unitless entries.
	MetricCount = "meminfo"

	unitKB = "kB"
)

// Parse converts /proc/meminfo content into samples.
func Parse(text string) (*measurement.Batch, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrCodeParse, "meminfo content is empty")
	}

	b := measurement.NewBatch()
	for n, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, rest, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			b.Warnf("line %d: missing key separator", n+1)
			continue
		}

		tokens := strings.Fields(rest)
		if len(tokens) == 0 || len(tokens) > 2 {
			b.Warnf("%s: unexpected value %q", key, strings.TrimSpace(rest))
			continue
		}

		v, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil {
			b.Warnf("%s: invalid value %q", key, tokens[0])
			continue
		}

		switch {
		case len(tokens) == 1:
			b.AddInt(MetricCount, v, measurement.L("key", key))
		case tokens[1] == unitKB:
			b.AddFloat(MetricBytes, float64(v)*1024, measurement.L("key", key))
		default:
			b.Warnf("%s: unknown unit %q", key, tokens[1])
		}
	}
	return b, nil
}

// Source reads <procRoot>/meminfo.
type Source struct {
	// Path of the meminfo file.
	Path string

	// Reader performs the raw file access.
	Reader file.Reader
}

// New creates a meminfo Source.
func New(procRoot string, r file.Reader) *Source {
	if procRoot == "" {
		procRoot = defaults.ProcRoot
	}
	if r == nil {
		r = file.NewParser()
	}
	return &Source{Path: filepath.Join(procRoot, "meminfo"), Reader: r}
}

// Name returns the source name.
func (s *Source) Name() string { return Name }

// Collect reads and parses the meminfo file.
func (s *Source) Collect(ctx context.Context, _ []process.Match) (*measurement.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "meminfo collection canceled", err)
	}
	text, err := s.Reader.ReadString(s.Path)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}
