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
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/kstat-exporter/pkg/collector"
	"github.com/NVIDIA/kstat-exporter/pkg/config"
	"github.com/NVIDIA/kstat-exporter/pkg/defaults"
	"github.com/NVIDIA/kstat-exporter/pkg/serializer"
)

const (
	flagConfig   = "config"
	flagListen   = "listen"
	flagInterval = "interval"
	flagProcName = "proc-name"
	flagMonitor  = "monitor"
	flagProcRoot = "proc-root"
	flagSysRoot  = "sys-root"
	flagLogLevel = "log-level"
	flagOutput   = "output"
	flagFormat   = "format"
)

// rootFlags returns fresh instances of the exporter flags. Flags keep parse
// state, so every command gets its own.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Usage:   "Path to a YAML config file",
			Sources: cli.EnvVars("KSTAT_CONFIG"),
		},
		&cli.StringFlag{
			Name:    flagListen,
			Usage:   "HTTP bind address (host:port)",
			Value:   defaults.ListenAddress,
			Sources: cli.EnvVars("KSTAT_LISTEN"),
		},
		&cli.IntFlag{
			Name:    flagInterval,
			Usage:   "Collection period in seconds (minimum 1)",
			Value:   5,
			Sources: cli.EnvVars("KSTAT_INTERVAL"),
		},
		&cli.StringFlag{
			Name:    flagProcName,
			Usage:   "Process short name to report scheduler stats for (at most 15 bytes are matched)",
			Value:   defaults.ProcName,
			Sources: cli.EnvVars("KSTAT_PROC_NAME"),
		},
		&cli.StringSliceFlag{
			Name:    flagMonitor,
			Usage:   fmt.Sprintf("Sources to enable, comma separated (default all of: %s)", strings.Join(collector.KindNames(), ", ")),
			Sources: cli.EnvVars("KSTAT_MONITOR"),
		},
		&cli.StringFlag{
			Name:    flagProcRoot,
			Usage:   "Mount point of the process pseudo-filesystem",
			Value:   defaults.ProcRoot,
			Sources: cli.EnvVars("KSTAT_PROC_ROOT"),
		},
		&cli.StringFlag{
			Name:    flagSysRoot,
			Usage:   "Mount point of sysfs",
			Value:   defaults.SysRoot,
			Sources: cli.EnvVars("KSTAT_SYS_ROOT"),
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "Log level (debug, info, warn, error); LOG_LEVEL is used when unset",
			Sources: cli.EnvVars("KSTAT_LOG_LEVEL"),
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:    flagFormat,
			Aliases: []string{"f"},
			Usage:   fmt.Sprintf("Output format (%s)", strings.Join(serializer.SupportedFormats(), ", ")),
			Value:   string(serializer.FormatText),
		},
	}
}

// loadConfig layers explicitly set flags and environment variables over the
// config file, then validates the result.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet(flagListen) {
		cfg.Listen = cmd.String(flagListen)
	}
	if cmd.IsSet(flagInterval) {
		cfg.Interval = int(cmd.Int(flagInterval))
	}
	if cmd.IsSet(flagProcName) {
		cfg.ProcName = cmd.String(flagProcName)
	}
	if cmd.IsSet(flagMonitor) {
		cfg.Monitor = cmd.StringSlice(flagMonitor)
	}
	if cmd.IsSet(flagProcRoot) {
		cfg.ProcRoot = cmd.String(flagProcRoot)
	}
	if cmd.IsSet(flagSysRoot) {
		cfg.SysRoot = cmd.String(flagSysRoot)
	}
	if cmd.IsSet(flagLogLevel) {
		cfg.LogLevel = cmd.String(flagLogLevel)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String(flagFormat))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}
