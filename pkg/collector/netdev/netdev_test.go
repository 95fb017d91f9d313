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

package netdev

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kstat-exporter/pkg/errors"
	"github.com/NVIDIA/kstat-exporter/pkg/measurement"
)

type iface struct {
	name     string
	physical bool
	stats    map[string]string
}

func writeSysfs(t *testing.T, ifaces ...iface) string {
	t.Helper()
	root := t.TempDir()
	for _, i := range ifaces {
		dir := filepath.Join(root, "class", "net", i.name)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "statistics"), 0o755))
		if i.physical {
			require.NoError(t, os.MkdirAll(filepath.Join(dir, "device"), 0o755))
		}
		for k, v := range i.stats {
			require.NoError(t, os.WriteFile(filepath.Join(dir, "statistics", k), []byte(v), 0o600))
		}
	}
	return root
}

func collect(t *testing.T, root string, opts ...Option) *measurement.Batch {
	t.Helper()
	b, err := New(root, nil, opts...).Collect(context.Background(), nil)
	require.NoError(t, err)
	return b
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain", input: "42\n", want: 42},
		{name: "padded", input: "  7  ", want: 7},
		{name: "zero", input: "0", want: 0},
		{name: "garbage", input: "n/a", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.input)
			if tt.wantErr {
				assert.Equal(t, errors.ErrCodeParse, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollect(t *testing.T) {
	root := writeSysfs(t,
		iface{name: "eth0", physical: true, stats: map[string]string{
			"rx_bytes":   "1000\n",
			"tx_bytes":   "2000\n",
			"rx_dropped": "3\n",
		}},
		iface{name: "lo", physical: false, stats: map[string]string{"rx_bytes": "9\n"}},
		iface{name: "veth1", physical: false, stats: map[string]string{"rx_bytes": "5\n"}},
	)

	b := collect(t, root)
	require.Len(t, b.Samples, 3)
	for _, s := range b.Samples {
		assert.Equal(t, MetricName, s.Name)
		assert.Equal(t, "eth0", s.Label("iface"))
		assert.True(t, s.Value.IsInteger())
	}

	// ReadDir returns entries sorted by name.
	assert.Equal(t, "rx_bytes", b.Samples[0].Label("key"))
	assert.Equal(t, int64(1000), b.Samples[0].Value.Int64())
	assert.Equal(t, "rx_dropped", b.Samples[1].Label("key"))
	assert.Equal(t, "tx_bytes", b.Samples[2].Label("key"))
}

func TestCollectOptions(t *testing.T) {
	root := writeSysfs(t,
		iface{name: "lo", stats: map[string]string{"rx_bytes": "9"}},
		iface{name: "veth1", stats: map[string]string{"rx_bytes": "5"}},
	)

	tests := []struct {
		name   string
		opts   []Option
		ifaces []string
	}{
		{name: "default skips both", ifaces: nil},
		{name: "loopback only needs virtual too", opts: []Option{WithLoopback(true)}, ifaces: nil},
		{name: "virtual without loopback", opts: []Option{WithVirtual(true)}, ifaces: []string{"veth1"}},
		{name: "everything", opts: []Option{WithVirtual(true), WithLoopback(true)}, ifaces: []string{"lo", "veth1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := collect(t, root, tt.opts...)
			var got []string
			for _, s := range b.Samples {
				got = append(got, s.Label("iface"))
			}
			assert.Equal(t, tt.ifaces, got)
		})
	}
}

func TestCollectInvalidValueWarns(t *testing.T) {
	root := writeSysfs(t, iface{name: "eth0", physical: true, stats: map[string]string{
		"rx_bytes": "12",
		"broken":   "x",
	}})

	b := collect(t, root)
	require.Len(t, b.Samples, 1)
	assert.Equal(t, "rx_bytes", b.Samples[0].Label("key"))
	assert.Len(t, b.Warnings, 1)
}

func TestCollectInterfaceWithoutStatistics(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "class", "net", "eth0")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "device"), 0o755))

	b := collect(t, root)
	assert.Empty(t, b.Samples)
	assert.Empty(t, b.Warnings)
}

func TestCollectMissingClassDir(t *testing.T) {
	_, err := New(t.TempDir(), nil).Collect(context.Background(), nil)
	assert.Equal(t, errors.ErrCodeIO, errors.CodeOf(err))
}
