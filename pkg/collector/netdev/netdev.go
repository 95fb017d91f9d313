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

// Package netdev exports per-interface counters from the network class
// directory of sysfs, one integer file per statistic.
package netdev

import (
	"context"
	"log/slog"
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
	Name = "netdev"

	// MetricName is the metric every interface statistic is exported under.
	MetricName = "netdev_stat"

	loopback = "lo"
)

// ParseValue parses the trimmed content of one statistic file.
func ParseValue(text string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeParse, "invalid statistic value", err)
	}
	return v, nil
}

// Option configures a Source.
type Option func(*Source)

// WithLoopback includes the loopback interface.
func WithLoopback(include bool) Option {
	return func(s *Source) {
		s.includeLoopback = include
	}
}

// WithVirtual includes interfaces that have no backing device link
// (bridges, veth pairs, tunnels).
func WithVirtual(include bool) Option {
	return func(s *Source) {
		s.includeVirtual = include
	}
}

// Source walks <sysRoot>/class/net/<iface>/statistics.
type Source struct {
	// Root is the network class directory.
	Root string

	// Reader performs the raw file access.
	Reader file.Reader

	includeLoopback bool
	includeVirtual  bool
}

// New creates a netdev Source under sysRoot.
func New(sysRoot string, r file.Reader, opts ...Option) *Source {
	if sysRoot == "" {
		sysRoot = defaults.SysRoot
	}
	if r == nil {
		r = file.NewParser()
	}
	s := &Source{Root: filepath.Join(sysRoot, "class", "net"), Reader: r}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source name.
func (s *Source) Name() string { return Name }

// Collect emits one sample per (interface, statistic). Interfaces that
// disappear during enumeration are skipped.
func (s *Source) Collect(ctx context.Context, _ []process.Match) (*measurement.Batch, error) {
	ifaces, err := s.Reader.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}

	b := measurement.NewBatch()
	for _, entry := range ifaces {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "netdev collection canceled", err)
		}

		iface := entry.Name()
		if iface == loopback && !s.includeLoopback {
			continue
		}

		dir := filepath.Join(s.Root, iface)
		if !s.includeVirtual && !s.Reader.Exists(filepath.Join(dir, "device")) {
			continue
		}

		s.collectInterface(b, iface, filepath.Join(dir, "statistics"))
	}

	return b, nil
}

func (s *Source) collectInterface(b *measurement.Batch, iface, dir string) {
	stats, err := s.Reader.ReadDir(dir)
	if err != nil {
		slog.Debug("skipping interface without statistics",
			slog.String("iface", iface),
			slog.String("error", err.Error()))
		return
	}

	for _, st := range stats {
		if st.IsDir() {
			continue
		}
		key := st.Name()
		text, err := s.Reader.ReadString(filepath.Join(dir, key))
		if err != nil {
			// interface removed between listing and read
			continue
		}
		v, err := ParseValue(text)
		if err != nil {
			b.Warnf("%s/%s: %v", iface, key, err)
			continue
		}
		b.AddInt(MetricName, v, measurement.L("iface", iface), measurement.L("key", key))
	}
}
