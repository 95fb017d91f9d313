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

// Package disk exports block device I/O statistics from
// <sysRoot>/class/block/<dev>/stat.
package disk

import (
	"context"
	"fmt"
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
	Name = "disk"

	// MetricName is the metric every device field is exported under.
	MetricName = "disk_stat"
)

// Field names in kernel order, see Documentation/admin-guide/iostats.rst.
var fields = []string{
	"reads_completed",
	"reads_merged",
	"sectors_read",
	"time_reading_ms",
	"writes_completed",
	"writes_merged",
	"sectors_written",
	"time_writing_ms",
	"ios_in_progress",
	"io_time_ms",
	"weighted_io_time_ms",
	// 4.18+
	"discards_completed",
	"discards_merged",
	"sectors_discarded",
	"time_discarding_ms",
	// 5.5+
	"flush_requests_completed",
	"time_flushing_ms",
}

// Schemas lists the known row widths, shortest first.
var Schemas = []int{11, 15, 17}

// DefaultSkipPatterns match virtual-like devices that are skipped by default.
var DefaultSkipPatterns = []string{"loop*", "ram*", "dm-*"}

// Schema returns the field names to apply to a row of the given width: the
// longest known schema not wider than the row. Rows narrower than the
// shortest schema get that schema truncated to the row width and ok=false.
func Schema(width int) (names []string, ok bool) {
	if width < Schemas[0] {
		return fields[:max(width, 0)], false
	}
	n := Schemas[0]
	for _, w := range Schemas {
		if w <= width {
			n = w
		}
	}
	return fields[:n], true
}

// Parse converts one stat line for dev into samples. Trailing fields beyond
// the widest known schema are ignored.
func Parse(dev, text string) (*measurement.Batch, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, errors.NewWithContext(errors.ErrCodeParse, "empty stat line",
			map[string]any{"dev": dev})
	}

	vals := make([]int64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeParse,
				fmt.Sprintf("invalid field %d", i+1), err, map[string]any{"dev": dev})
		}
		vals[i] = v
	}

	b := measurement.NewBatch()
	names, ok := Schema(len(vals))
	if !ok {
		b.Warnf("%s: %s: %d fields, expected at least %d",
			dev, errors.ErrCodeSchemaMismatch, len(vals), Schemas[0])
	}

	devLabel := measurement.L("dev", dev)
	for i, name := range names {
		b.AddInt(MetricName, vals[i], devLabel, measurement.L("key", name))
	}
	return b, nil
}

// Option configures a Source.
type Option func(*Source)

// WithPartitions includes partition devices.
func WithPartitions(include bool) Option {
	return func(s *Source) {
		s.includePartitions = include
	}
}

// WithSkipPatterns replaces the device name patterns that are skipped.
// An empty list disables name based skipping.
func WithSkipPatterns(patterns ...string) Option {
	return func(s *Source) {
		s.skip = patterns
	}
}

// Source walks the block class directory.
type Source struct {
	// Root is the block class directory.
	Root string

	// Reader performs the raw file access.
	Reader file.Reader

	includePartitions bool
	skip              []string
}

// New creates a disk Source under sysRoot.
func New(sysRoot string, r file.Reader, opts ...Option) *Source {
	if sysRoot == "" {
		sysRoot = defaults.SysRoot
	}
	if r == nil {
		r = file.NewParser()
	}
	s := &Source{
		Root:   filepath.Join(sysRoot, "class", "block"),
		Reader: r,
		skip:   DefaultSkipPatterns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source name.
func (s *Source) Name() string { return Name }

// Collect emits one sample per (device, field).
func (s *Source) Collect(ctx context.Context, _ []process.Match) (*measurement.Batch, error) {
	devs, err := s.Reader.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}

	b := measurement.NewBatch()
	for _, entry := range devs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "disk collection canceled", err)
		}

		dev := entry.Name()
		if measurement.MatchesAny(dev, s.skip) {
			continue
		}

		dir := filepath.Join(s.Root, dev)
		if !s.includePartitions && s.Reader.Exists(filepath.Join(dir, "partition")) {
			continue
		}

		text, err := s.Reader.ReadString(filepath.Join(dir, "stat"))
		if err != nil {
			continue
		}

		db, err := Parse(dev, text)
		if err != nil {
			b.Warnf("%v", err)
			continue
		}
		b.Merge(db)
	}

	return b, nil
}
