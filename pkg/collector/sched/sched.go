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

// Package sched exports per-process scheduler counters from /proc/<pid>/sched
// for every process whose short name matches the configured target.
package sched

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

// Name identifies this source.
const Name = "sched"

// Metric names emitted per matched process.
const (
	MetricNrSwitches            = "proc_sched_nr_switches"
	MetricNrVoluntarySwitches   = "proc_sched_nr_voluntary_switches"
	MetricNrInvoluntarySwitches = "proc_sched_nr_involuntary_switches"
	MetricNrMigrations          = "proc_sched_nr_migrations"
	MetricSumExecRuntime        = "proc_sched_sum_exec_runtime_seconds"
)

// counter maps a /proc/<pid>/sched key onto the metric it feeds.
type counter struct {
	keys   []string
	metric string
}

// counters in emission order. The kernel moved nr_migrations under se.*
// so both spellings are accepted.
var counters = []counter{
	{keys: []string{"nr_switches"}, metric: MetricNrSwitches},
	{keys: []string{"nr_voluntary_switches"}, metric: MetricNrVoluntarySwitches},
	{keys: []string{"nr_involuntary_switches"}, metric: MetricNrInvoluntarySwitches},
	{keys: []string{"se.nr_migrations", "nr_migrations"}, metric: MetricNrMigrations},
}

var runtimeKeys = []string{"se.sum_exec_runtime", "sum_exec_runtime"}

// Parse converts the text of one /proc/<pid>/sched file into samples labeled
// with proc and pid. Missing keys are omitted. sum_exec_runtime is reported
// by the kernel in milliseconds and is emitted in seconds.
func Parse(text, procName, pid string) (*measurement.Batch, error) {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) == "" {
		return nil, errors.NewWithContext(errors.ErrCodeParse, "missing sched header",
			map[string]any{"pid": pid})
	}

	// header: "<comm> (<pid>, #threads: <n>)"; followed by a dashed rule
	vals := make(map[string]string, len(lines))
	for _, line := range lines[1:] {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		vals[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}

	b := measurement.NewBatch()
	labels := []measurement.Label{
		measurement.L("proc", procName),
		measurement.L("pid", pid),
	}

	for _, c := range counters {
		raw, ok := lookup(vals, c.keys)
		if !ok {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			b.Warnf("pid %s: invalid %s value %q", pid, c.keys[0], raw)
			continue
		}
		b.AddInt(c.metric, v, labels...)
	}

	if raw, ok := lookup(vals, runtimeKeys); ok {
		ms, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			b.Warnf("pid %s: invalid sum_exec_runtime value %q", pid, raw)
		} else {
			b.AddFloat(MetricSumExecRuntime, ms/1000, labels...)
		}
	}

	return b, nil
}

func lookup(vals map[string]string, keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := vals[k]; ok {
			return v, true
		}
	}
	return "", false
}

// Source reads the scheduler statistics of every matched process.
type Source struct {
	// Root is the process pseudo-filesystem mount point.
	Root string

	// Reader performs the raw file access.
	Reader file.Reader
}

// New creates a sched Source rooted at root.
func New(root string, r file.Reader) *Source {
	if root == "" {
		root = defaults.ProcRoot
	}
	if r == nil {
		r = file.NewParser()
	}
	return &Source{Root: root, Reader: r}
}

// Name returns the source name.
func (s *Source) Name() string { return Name }

// NeedsProcesses reports that this source consumes resolved process matches.
func (s *Source) NeedsProcesses() bool { return true }

// Collect reads /proc/<pid>/sched for each match. A process that exited since
// it was resolved is skipped.
func (s *Source) Collect(ctx context.Context, procs []process.Match) (*measurement.Batch, error) {
	b := measurement.NewBatch()

	for _, m := range procs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "sched collection canceled", err)
		}

		pid := m.PIDString()
		text, err := s.Reader.ReadString(filepath.Join(s.Root, pid, "sched"))
		if err != nil {
			slog.Debug("skipping process without sched stats",
				slog.String("pid", pid),
				slog.String("error", err.Error()))
			continue
		}

		pb, err := Parse(text, m.Comm, pid)
		if err != nil {
			b.Warnf("pid %s: %v", pid, err)
			continue
		}
		b.Merge(pb)
	}

	return b, nil
}
