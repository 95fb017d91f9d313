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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kstat-exporter/pkg/collector"
	"github.com/NVIDIA/kstat-exporter/pkg/config"
	"github.com/NVIDIA/kstat-exporter/pkg/logging"
)

const (
	name           = "kstat-exporter"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the root command with the process arguments and exits
// non-zero on error. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Export Linux kernel statistics in the text exposition format",
		Description: fmt.Sprintf(`Periodically samples kernel counters from /proc and /sys and serves
the latest snapshot on GET /metrics.

Sources: %v`, collector.KindNames()),
		Flags:                 rootFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String(flagLogLevel))
			return ctx, nil
		},
		Commands: []*cli.Command{
			snapshotCmd(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.LogLevel != "" && !cmd.IsSet(flagLogLevel) {
				logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
			}

			slog.Info("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"listen", cfg.Listen,
				"interval", cfg.CollectionInterval().String(),
				"procName", cfg.ProcName,
				"monitor", config.SplitList(cfg.Monitor))

			return run(ctx, cfg)
		},
	}
}
