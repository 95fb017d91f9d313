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

package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/kstat-exporter/pkg/collector/process"
	"github.com/NVIDIA/kstat-exporter/pkg/defaults"
	"github.com/NVIDIA/kstat-exporter/pkg/errors"
	"github.com/NVIDIA/kstat-exporter/pkg/measurement"
)

// Source produces the samples of one metric source for a collection pass.
// Implementations must be safe for concurrent use: a call abandoned at the
// pass deadline may still be running when the next pass starts.
type Source interface {
	Name() string
	Collect(ctx context.Context, procs []process.Match) (*measurement.Batch, error)
}

// ProcessConsumer is implemented by sources that read per-process files and
// need the resolved process matches of the pass.
type ProcessConsumer interface {
	NeedsProcesses() bool
}

// Resolver maps a process short name to live processes.
type Resolver interface {
	Resolve(ctx context.Context, target string) ([]process.Match, error)
}

// Option configures a Collector.
type Option func(*Collector)

// WithResolver sets the process resolver and the short name it looks for.
func WithResolver(r Resolver, procName string) Option {
	return func(c *Collector) {
		c.resolver = r
		c.procName = procName
	}
}

// WithTimeout bounds each collection pass.
func WithTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Collector runs every enabled source once per pass, each inside its own
// failure boundary, and assembles the results into a Snapshot.
type Collector struct {
	sources  []Source
	resolver Resolver
	procName string
	timeout  time.Duration

	generation atomic.Uint64
	logLimits  map[string]*rate.Sometimes
}

// New creates a Collector over sources. Snapshot samples follow the order of
// sources; callers pass them in canonical kind order.
func New(sources []Source, opts ...Option) *Collector {
	c := &Collector{
		sources:   sources,
		timeout:   defaults.CollectorTimeout,
		logLimits: make(map[string]*rate.Sometimes, len(sources)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, s := range sources {
		c.logLimits[s.Name()] = &rate.Sometimes{Interval: defaults.WarningLogInterval}
	}
	return c
}

// Sources returns the names of the enabled sources in order.
func (c *Collector) Sources() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

// Collect runs one pass. The returned Snapshot is always non-nil and complete;
// a failing source only contributes a failed Outcome. The error is non-nil
// only when every source failed.
func (c *Collector) Collect(ctx context.Context) (*measurement.Snapshot, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	procs, procErr := c.resolveProcesses(ctx)

	batches := make([]*measurement.Batch, len(c.sources))
	outcomes := make([]measurement.Outcome, len(c.sources))

	var g errgroup.Group
	for i, src := range c.sources {
		g.Go(func() error {
			if procErr != nil && needsProcesses(src) {
				outcomes[i] = measurement.Failed(src.Name(), procErr, 0)
				return nil
			}
			batches[i], outcomes[i] = c.runSource(ctx, src, procs)
			return nil
		})
	}
	_ = g.Wait()

	snap := &measurement.Snapshot{
		Generation: c.generation.Add(1),
		CapturedAt: start,
		Outcomes:   outcomes,
	}

	total := 0
	for _, b := range batches {
		if b != nil {
			total += len(b.Samples)
		}
	}
	snap.Samples = make([]measurement.Sample, 0, total)
	for _, b := range batches {
		if b != nil {
			snap.Samples = append(snap.Samples, b.Samples...)
		}
	}

	for _, o := range outcomes {
		c.record(o)
	}
	snap.Duration = time.Since(start)

	slog.Debug("collection pass complete",
		slog.Uint64("generation", snap.Generation),
		slog.Int("samples", len(snap.Samples)),
		slog.Int("succeeded", snap.SucceededCount()),
		slog.Duration("duration", snap.Duration))

	if len(c.sources) > 0 && snap.SucceededCount() == 0 {
		return snap, errors.NewWithContext(errors.ErrCodeUnavailable, "all sources failed",
			map[string]any{"sources": strings.Join(snap.FailedSources(), ",")})
	}
	return snap, nil
}

func (c *Collector) resolveProcesses(ctx context.Context) ([]process.Match, error) {
	if c.resolver == nil || c.procName == "" || !c.anyNeedsProcesses() {
		return nil, nil
	}

	procs, err := c.resolver.Resolve(ctx, c.procName)
	if err != nil {
		return nil, err
	}
	processMatches.Set(float64(len(procs)))
	if len(procs) == 0 {
		slog.Debug("no matching process", slog.String("name", c.procName))
	}
	return procs, nil
}

func (c *Collector) anyNeedsProcesses() bool {
	for _, s := range c.sources {
		if needsProcesses(s) {
			return true
		}
	}
	return false
}

func needsProcesses(s Source) bool {
	pc, ok := s.(ProcessConsumer)
	return ok && pc.NeedsProcesses()
}

type sourceResult struct {
	batch *measurement.Batch
	err   error
}

// runSource collects one source. A source that panics or does not return
// before the pass deadline is recorded as failed. A stuck read keeps its
// goroutine until the read returns; the pass does not wait for it.
func (c *Collector) runSource(ctx context.Context, src Source, procs []process.Match) (*measurement.Batch, measurement.Outcome) {
	start := time.Now()
	name := src.Name()

	done := make(chan sourceResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- sourceResult{err: errors.New(errors.ErrCodeInternal, fmt.Sprintf("source panicked: %v", r))}
			}
		}()
		b, err := src.Collect(ctx, procs)
		done <- sourceResult{batch: b, err: err}
	}()

	var res sourceResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = errors.Wrap(errors.ErrCodeTimeout, "source did not finish before the pass deadline", ctx.Err())
	}

	d := time.Since(start)
	if res.err != nil {
		return nil, measurement.Failed(name, res.err, d)
	}
	if res.batch == nil {
		res.batch = measurement.NewBatch()
	}
	return res.batch, measurement.Succeeded(name, res.batch, d)
}

// record updates self-metrics and logs, throttled per source, any failure
// or parse warnings.
func (c *Collector) record(o measurement.Outcome) {
	sourceDuration.WithLabelValues(o.Source).Observe(o.Duration.Seconds())
	sourceSamples.WithLabelValues(o.Source).Set(float64(o.Samples))
	if len(o.Warnings) > 0 {
		sourceWarnings.WithLabelValues(o.Source).Add(float64(len(o.Warnings)))
	}
	if !o.OK() {
		sourceFailures.WithLabelValues(o.Source, string(o.Code)).Inc()
	}

	if o.OK() && len(o.Warnings) == 0 {
		return
	}

	limit, ok := c.logLimits[o.Source]
	if !ok {
		return
	}
	limit.Do(func() {
		if !o.OK() {
			slog.Warn("source failed",
				slog.String("source", o.Source),
				slog.String("code", string(o.Code)),
				slog.String("reason", o.Reason))
			return
		}
		slog.Warn("source reported parse warnings",
			slog.String("source", o.Source),
			slog.Int("count", len(o.Warnings)),
			slog.String("first", o.Warnings[0]))
	})
}
