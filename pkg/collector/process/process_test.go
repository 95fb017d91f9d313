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

package process

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/kstat-exporter/pkg/collector/file"
	"github.com/NVIDIA/kstat-exporter/pkg/errors"
)

func writeProc(t *testing.T, root, pid, comm string) {
	t.Helper()
	dir := filepath.Join(root, pid)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "comm"), []byte(comm+"\n"), 0o600))
}

func newFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeProc(t, root, "1", "systemd")
	writeProc(t, root, "42", "pinger")
	writeProc(t, root, "9", "pinger")
	writeProc(t, root, "100", "pinger-helper")
	writeProc(t, root, "200", "ping")
	// non-numeric entries are not processes
	require.NoError(t, os.MkdirAll(filepath.Join(root, "net"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "meminfo"), []byte("x"), 0o600))
	return root
}

func TestResolveMultipleMatches(t *testing.T) {
	root := newFixture(t)
	r := NewResolver(root, nil)

	got, err := r.Resolve(context.Background(), "pinger")
	require.NoError(t, err)
	assert.Equal(t, []Match{
		{PID: 9, Comm: "pinger"},
		{PID: 42, Comm: "pinger"},
	}, got)
}

func TestResolveExactNotPrefix(t *testing.T) {
	root := newFixture(t)
	got, err := NewResolver(root, nil).Resolve(context.Background(), "ping")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint32(200), got[0].PID)
}

func TestResolveNoMatchIsEmpty(t *testing.T) {
	root := newFixture(t)
	got, err := NewResolver(root, nil).Resolve(context.Background(), "nginx")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolveTruncatesLongTarget(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, "7", "kworker-longnam")

	got, err := NewResolver(root, nil).Resolve(context.Background(), "kworker-longname-extra")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kworker-longnam", got[0].Comm)
}

func TestResolveEmptyTarget(t *testing.T) {
	_, err := NewResolver(t.TempDir(), nil).Resolve(context.Background(), "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidConfig))
}

func TestResolveMissingRoot(t *testing.T) {
	_, err := NewResolver(filepath.Join(t.TempDir(), "missing"), nil).Resolve(context.Background(), "pinger")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIO, errors.CodeOf(err))
}

func TestResolveCanceled(t *testing.T) {
	root := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(root, nil).Resolve(ctx, "pinger")
	assert.ErrorIs(t, err, context.Canceled)
}

// vanishingReader drops the comm file of one pid to mimic a process that
// exits between the directory listing and the read.
type vanishingReader struct {
	file.Reader
	gone string
}

func (v vanishingReader) ReadString(path string) (string, error) {
	if filepath.Base(filepath.Dir(path)) == v.gone {
		return "", errors.Wrap(errors.ErrCodeIO, "failed to open file", fs.ErrNotExist)
	}
	return v.Reader.ReadString(path)
}

func TestResolveSkipsVanishedProcess(t *testing.T) {
	root := newFixture(t)
	r := NewResolver(root, vanishingReader{Reader: file.NewParser(), gone: "42"})

	got, err := r.Resolve(context.Background(), "pinger")
	require.NoError(t, err)
	assert.Equal(t, []Match{{PID: 9, Comm: "pinger"}}, got)
}

func TestTruncateComm(t *testing.T) {
	assert.Equal(t, "short", TruncateComm("short"))
	assert.Equal(t, "exactly15bytes!", TruncateComm("exactly15bytes!"))
	assert.Equal(t, "sixteen-bytes-x", TruncateComm("sixteen-bytes-xy"))
}

func TestMatchPIDString(t *testing.T) {
	assert.Equal(t, "4242", Match{PID: 4242}.PIDString())
}
