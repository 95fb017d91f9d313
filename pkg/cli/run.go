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

package cli

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/kstat-exporter/pkg/collector"
	"github.com/NVIDIA/kstat-exporter/pkg/config"
	"github.com/NVIDIA/kstat-exporter/pkg/defaults"
	"github.com/NVIDIA/kstat-exporter/pkg/measurement"
	"github.com/NVIDIA/kstat-exporter/pkg/server"
	"github.com/NVIDIA/kstat-exporter/pkg/snapshotter"
)

// newCollector builds the pass runner for the sources cfg selects. A pass
// never outlives the collection interval.
func newCollector(cfg *config.Config) (*collector.Collector, error) {
	kinds, err := cfg.Kinds()
	if err != nil {
		return nil, err
	}

	factory := collector.NewDefaultFactory(
		collector.WithProcRoot(cfg.ProcRoot),
		collector.WithSysRoot(cfg.SysRoot),
		collector.WithNetDevOptions(cfg.NetDevOptions()...),
		collector.WithDiskOptions(cfg.DiskOptions()...),
	)

	sources, err := collector.BuildSources(factory, kinds)
	if err != nil {
		return nil, err
	}

	return collector.New(sources,
		collector.WithResolver(factory.Resolver(), cfg.MatchName()),
		collector.WithTimeout(min(cfg.CollectionInterval(), defaults.CollectorTimeout)),
	), nil
}

// run serves /metrics and drives collection until ctx is canceled or either
// side fails.
func run(ctx context.Context, cfg *config.Config) error {
	c, err := newCollector(cfg)
	if err != nil {
		return err
	}

	store := snapshotter.NewStore()

	srvCfg := server.NewConfig()
	srvCfg.Name = name
	srvCfg.Version = version
	srvCfg.Address = cfg.Listen
	srv := server.New(srvCfg, store)

	sched := snapshotter.NewScheduler(c, store, cfg.CollectionInterval(),
		snapshotter.WithPublishHook(func(*measurement.Snapshot) { srv.SetReady(true) }),
		snapshotter.WithSystemdNotify(true),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error { return sched.Run(gctx) })
	return g.Wait()
}
