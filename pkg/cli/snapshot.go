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
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kstat-exporter/pkg/serializer"
)

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Run a single collection pass and print it",
		Description: `Collects every enabled source once, without starting the HTTP server.

Formats:
  text   the same body GET /metrics would serve
  json   samples and per-source outcomes
  yaml   samples and per-source outcomes
  table  per-source outcomes only

# Examples

  kstat-exporter snapshot
  kstat-exporter snapshot --monitor meminfo,snmp --format json
  kstat-exporter snapshot --proc-root /host/proc --format table --output outcomes.txt`,
		Flags:                 outputFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			c, err := newCollector(cfg)
			if err != nil {
				return err
			}

			snap, err := c.Collect(ctx)
			if err != nil {
				// all sources failed; outcomes still explain why
				slog.Warn("collection pass failed", "error", err)
			}

			w := serializer.NewFileWriterOrStdout(format, cmd.String(flagOutput))
			defer func() {
				if cerr := w.Close(); cerr != nil {
					slog.Warn("failed to close output", "error", cerr)
				}
			}()

			return w.Serialize(ctx, snap)
		},
	}
}
