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

package snapshotter

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/NVIDIA/kstat-exporter/pkg/defaults"
	"github.com/NVIDIA/kstat-exporter/pkg/measurement"
)

// Collector runs one collection pass.
type Collector interface {
	Collect(ctx context.Context) (*measurement.Snapshot, error)
}

// PublishFunc is called after every publish with the new snapshot.
type PublishFunc func(*measurement.Snapshot)

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithPublishHook registers fn to run after each publish.
func WithPublishHook(fn PublishFunc) SchedulerOption {
	return func(s *Scheduler) {
		s.hooks = append(s.hooks, fn)
	}
}

// WithSystemdNotify enables sd_notify READY after the first publish and
// STOPPING when the loop exits. It is a no-op outside systemd.
func WithSystemdNotify(enabled bool) SchedulerOption {
	return func(s *Scheduler) {
		s.notify = enabled
	}
}

// Scheduler drives periodic collection and publishes every pass to a Store.
// It is the Store's only writer.
type Scheduler struct {
	collector Collector
	store     *Store
	interval  time.Duration
	hooks     []PublishFunc
	notify    bool

	readyOnce sync.Once
}

// NewScheduler creates a Scheduler. Intervals below the minimum are raised to it.
func NewScheduler(c Collector, store *Store, interval time.Duration, opts ...SchedulerOption) *Scheduler {
	if interval < defaults.MinCollectionInterval {
		interval = defaults.MinCollectionInterval
	}
	s := &Scheduler{
		collector: c,
		store:     store,
		interval:  interval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the collection period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Run collects immediately and then once per interval until ctx is canceled.
// Passes do not overlap; a pass that overruns the interval delays the next
// tick rather than queuing extra passes.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("collection loop started", slog.Duration("interval", s.interval))
	defer func() {
		s.sdNotify(daemon.SdNotifyStopping)
		slog.Info("collection loop stopped")
	}()

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs a single pass and publishes its snapshot, even when every
// source failed. A pass interrupted by ctx cancellation is not published.
func (s *Scheduler) RunOnce(ctx context.Context) *measurement.Snapshot {
	start := time.Now()
	snap, err := s.collector.Collect(ctx)
	passDuration.Observe(time.Since(start).Seconds())

	if ctx.Err() != nil {
		slog.Debug("collection pass canceled")
		return nil
	}
	if snap == nil {
		passTotal.WithLabelValues("error").Inc()
		slog.Error("collector returned no snapshot")
		return nil
	}

	switch {
	case err != nil:
		passTotal.WithLabelValues("error").Inc()
		slog.Error("collection pass failed",
			slog.Uint64("generation", snap.Generation),
			slog.String("error", err.Error()))
	case len(snap.FailedSources()) > 0:
		passTotal.WithLabelValues("partial").Inc()
		slog.Debug("collection pass partially failed",
			slog.String("failed", strings.Join(snap.FailedSources(), ",")))
	default:
		passTotal.WithLabelValues("success").Inc()
	}

	s.store.Publish(snap)
	snapshotSamples.Set(float64(len(snap.Samples)))
	snapshotGeneration.Set(float64(snap.Generation))
	snapshotTimestamp.Set(float64(snap.CapturedAt.UnixNano()) / 1e9)

	s.readyOnce.Do(func() {
		slog.Info("first snapshot published",
			slog.Int("samples", len(snap.Samples)),
			slog.Int("sources", len(snap.Outcomes)))
		s.sdNotify(daemon.SdNotifyReady)
	})

	for _, fn := range s.hooks {
		fn(snap)
	}
	return snap
}

func (s *Scheduler) sdNotify(state string) {
	if !s.notify {
		return
	}
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		slog.Warn("sd_notify failed", slog.String("state", state), slog.String("error", err.Error()))
		return
	}
	if sent {
		slog.Debug("sd_notify sent", slog.String("state", state))
	}
}
