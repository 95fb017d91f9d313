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

// Package interrupts exports per-CPU counters of numbered hardware IRQs
// from /proc/interrupts.
package interrupts

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
	Name = "interrupts"

	// MetricName is the metric every (irq, cpu) counter is exported under.
	MetricName = "interrupts"

	cpuPrefix = "CPU"
)

// Row is one numbered IRQ line.
type Row struct {
	IRQ    string
	Counts []int64
	Name   string
}

// ParseHeader returns the CPU labels named by the header row, e.g. "0" for CPU0.
func ParseHeader(header string) []string {
	var cpus []string
	for _, tok := range strings.Fields(header) {
		if id, ok := strings.CutPrefix(tok, cpuPrefix); ok {
			cpus = append(cpus, id)
		}
	}
	return cpus
}

// ParseRow parses one IRQ line. It returns ok=false for rows whose IRQ token
// is not a non-negative integer (NMI, LOC, ERR and similar aggregates).
// At most ncpu counters are consumed left to right; the remaining tokens form
// the descriptor.
func ParseRow(line string, ncpu int) (Row, bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Row{}, false
	}

	irq := strings.TrimSuffix(tokens[0], ":")
	if _, err := strconv.ParseUint(irq, 10, 32); err != nil {
		return Row{}, false
	}

	row := Row{IRQ: irq}
	rest := tokens[1:]
	for len(row.Counts) < ncpu && len(rest) > 0 {
		v, err := strconv.ParseInt(strings.ReplaceAll(rest[0], ",", ""), 10, 64)
		if err != nil {
			break
		}
		row.Counts = append(row.Counts, v)
		rest = rest[1:]
	}
	row.Name = strings.Join(rest, " ")
	return row, true
}

// Parse converts /proc/interrupts content into samples labeled irq, cpu and name.
func Parse(text string) (*measurement.Batch, error) {
	lines := strings.Split(text, "\n")
	hi := 0
	for hi < len(lines) && strings.TrimSpace(lines[hi]) == "" {
		hi++
	}
	if hi == len(lines) {
		return nil, errors.New(errors.ErrCodeParse, "interrupts content is empty")
	}

	cpus := ParseHeader(lines[hi])
	if len(cpus) == 0 {
		return nil, errors.New(errors.ErrCodeParse, "interrupts header names no CPU columns")
	}

	b := measurement.NewBatch()
	for _, line := range lines[hi+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, ok := ParseRow(line, len(cpus))
		if !ok {
			continue
		}
		if len(row.Counts) == 0 {
			b.Warnf("irq %s: no counters", row.IRQ)
			continue
		}
		for i, v := range row.Counts {
			b.AddInt(MetricName, v,
				measurement.L("irq", row.IRQ),
				measurement.L("cpu", cpus[i]),
				measurement.L("name", row.Name))
		}
	}
	return b, nil
}

// Source reads <procRoot>/interrupts.
type Source struct {
	// Path of the interrupts file.
	Path string

	// Reader performs the raw file access.
	Reader file.Reader
}

// New creates an interrupts Source.
func New(procRoot string, r file.Reader) *Source {
	if procRoot == "" {
		procRoot = defaults.ProcRoot
	}
	if r == nil {
		r = file.NewParser()
	}
	return &Source{Path: filepath.Join(procRoot, "interrupts"), Reader: r}
}

// Name returns the source name.
func (s *Source) Name() string { return Name }

// Collect reads and parses the interrupts file.
func (s *Source) Collect(ctx context.Context, _ []process.Match) (*measurement.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, "interrupts collection canceled", err)
	}
	text, err := s.Reader.ReadString(s.Path)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}
