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

package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/kstat-exporter/pkg/collector"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/disk"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/netdev"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/process"
	"github.com/NVIDIA/kstat-exporter/pkg/defaults"
	"github.com/NVIDIA/kstat-exporter/pkg/errors"
)

// NetDev toggles for the interface statistics source.
type NetDev struct {
	IncludeLoopback bool `json:"includeLoopback" yaml:"includeLoopback"`
	IncludeVirtual  bool `json:"includeVirtual" yaml:"includeVirtual"`
}

// Disk toggles for the block device source.
type Disk struct {
	IncludePartitions bool `json:"includePartitions" yaml:"includePartitions"`

	// SkipPatterns replaces disk.DefaultSkipPatterns when non-nil.
	// An explicit empty list disables skipping.
	SkipPatterns []string `json:"skipPatterns,omitempty" yaml:"skipPatterns,omitempty"`
}

// Config is the full exporter configuration.
type Config struct {
	Listen   string   `json:"listen" yaml:"listen"`
	Interval int      `json:"interval" yaml:"interval"` // seconds
	ProcName string   `json:"procName" yaml:"procName"`
	Monitor  []string `json:"monitor,omitempty" yaml:"monitor,omitempty"`
	ProcRoot string   `json:"procRoot" yaml:"procRoot"`
	SysRoot  string   `json:"sysRoot" yaml:"sysRoot"`
	LogLevel string   `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	NetDev   NetDev   `json:"netdev" yaml:"netdev"`
	Disk     Disk     `json:"disk" yaml:"disk"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:   defaults.ListenAddress,
		Interval: int(defaults.CollectionInterval / time.Second),
		ProcName: defaults.ProcName,
		ProcRoot: defaults.ProcRoot,
		SysRoot:  defaults.SysRoot,
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to read config file", err,
			map[string]any{"path": path})
	}

	if err := cfg.decode(data); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidConfig, "failed to parse config file", err,
			map[string]any{"path": path})
	}

	slog.Debug("loaded config file", slog.String("path", path))
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first invalid setting as an INVALID_CONFIG error.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "listen address cannot be empty")
	}
	if c.Interval < int(defaults.MinCollectionInterval/time.Second) {
		return errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("interval must be at least %s", defaults.MinCollectionInterval),
			map[string]any{"interval": c.Interval})
	}
	if strings.TrimSpace(c.ProcName) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "process name cannot be empty")
	}
	if c.ProcRoot == "" || c.SysRoot == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "filesystem roots cannot be empty")
	}
	if _, err := c.Kinds(); err != nil {
		return err
	}
	return nil
}

// CollectionInterval returns Interval as a duration.
func (c *Config) CollectionInterval() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// Kinds returns the selected sources in canonical order. Monitor entries may
// themselves be comma separated lists.
func (c *Config) Kinds() ([]collector.Kind, error) {
	return collector.ParseKinds(SplitList(c.Monitor))
}

// MatchName returns the process name the resolver compares against. Names
// longer than the kernel keeps are truncated, with a warning.
func (c *Config) MatchName() string {
	name := strings.TrimSpace(c.ProcName)
	truncated := process.TruncateComm(name)
	if truncated != name {
		slog.Warn("process name truncated to kernel comm length",
			slog.String("configured", name),
			slog.String("effective", truncated),
			slog.Int("maxLen", defaults.CommMaxLen))
	}
	return truncated
}

// NetDevOptions maps the netdev toggles onto source options.
func (c *Config) NetDevOptions() []netdev.Option {
	return []netdev.Option{
		netdev.WithLoopback(c.NetDev.IncludeLoopback),
		netdev.WithVirtual(c.NetDev.IncludeVirtual),
	}
}

// DiskOptions maps the disk toggles onto source options.
func (c *Config) DiskOptions() []disk.Option {
	opts := []disk.Option{disk.WithPartitions(c.Disk.IncludePartitions)}
	if c.Disk.SkipPatterns != nil {
		opts = append(opts, disk.WithSkipPatterns(c.Disk.SkipPatterns...))
	}
	return opts
}

// SplitList flattens comma separated entries, trimming blanks.
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
