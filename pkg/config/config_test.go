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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kstat-exporter/pkg/collector"
	"github.com/NVIDIA/kstat-exporter/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, 5, cfg.Interval)
	assert.Equal(t, 5*time.Second, cfg.CollectionInterval())
	assert.Equal(t, "pinger", cfg.ProcName)
	assert.Equal(t, "/proc", cfg.ProcRoot)
	assert.Equal(t, "/sys", cfg.SysRoot)
	require.NoError(t, cfg.Validate())

	kinds, err := cfg.Kinds()
	require.NoError(t, err)
	assert.Equal(t, collector.AllKinds(), kinds)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
listen: "127.0.0.1:9100"
interval: 15
procName: sshd
monitor: [meminfo, sched]
sysRoot: /host/sys
netdev:
  includeLoopback: true
disk:
  includePartitions: true
  skipPatterns: ["loop*"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", cfg.Listen)
	assert.Equal(t, 15, cfg.Interval)
	assert.Equal(t, "sshd", cfg.ProcName)
	assert.Equal(t, "/proc", cfg.ProcRoot, "unset keys keep defaults")
	assert.Equal(t, "/host/sys", cfg.SysRoot)
	assert.True(t, cfg.NetDev.IncludeLoopback)
	assert.False(t, cfg.NetDev.IncludeVirtual)
	assert.True(t, cfg.Disk.IncludePartitions)
	assert.Equal(t, []string{"loop*"}, cfg.Disk.SkipPatterns)

	kinds, err := cfg.Kinds()
	require.NoError(t, err)
	assert.Equal(t, []collector.Kind{collector.KindSched, collector.KindMemInfo}, kinds)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.ErrorCode
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			code: errors.ErrCodeIO,
		},
		{
			name: "unknown key",
			path: func(t *testing.T) string { return writeFile(t, "listen: ':1'\nport: 9000\n") },
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "wrong type",
			path: func(t *testing.T) string { return writeFile(t, "interval: soon\n") },
			code: errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "minimum interval", mutate: func(c *Config) { c.Interval = 1 }},
		{name: "zero interval", mutate: func(c *Config) { c.Interval = 0 }, wantErr: true},
		{name: "negative interval", mutate: func(c *Config) { c.Interval = -3 }, wantErr: true},
		{name: "empty listen", mutate: func(c *Config) { c.Listen = " " }, wantErr: true},
		{name: "empty proc name", mutate: func(c *Config) { c.ProcName = "" }, wantErr: true},
		{name: "empty proc root", mutate: func(c *Config) { c.ProcRoot = "" }, wantErr: true},
		{name: "known monitors", mutate: func(c *Config) { c.Monitor = []string{"snmp,disk", "Meminfo"} }},
		{name: "unknown monitor", mutate: func(c *Config) { c.Monitor = []string{"softirqs"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidConfig, errors.CodeOf(err))
		})
	}
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short", in: "pinger", want: "pinger"},
		{name: "exactly fifteen", in: "abcdefghijklmno", want: "abcdefghijklmno"},
		{name: "truncated", in: "abcdefghijklmnopqrs", want: "abcdefghijklmno"},
		{name: "trimmed", in: " pinger\n", want: "pinger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ProcName = tt.in
			assert.Equal(t, tt.want, cfg.MatchName())
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"sched", "snmp", "disk"}, SplitList([]string{"sched, snmp", "", " disk "}))
	assert.Nil(t, SplitList(nil))
}

func TestSourceOptions(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.NetDevOptions(), 2)
	assert.Len(t, cfg.DiskOptions(), 1)

	cfg.Disk.SkipPatterns = []string{}
	assert.Len(t, cfg.DiskOptions(), 2)
}
