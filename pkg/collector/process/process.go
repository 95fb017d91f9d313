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
	"cmp"
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/NVIDIA/kstat-exporter/pkg/collector/file"
	"github.com/NVIDIA/kstat-exporter/pkg/defaults"
	"github.com/NVIDIA/kstat-exporter/pkg/errors"
)

// Match is a live process whose short name equals the resolver target.
type Match struct {
	PID  uint32 `json:"pid" yaml:"pid"`
	Comm string `json:"comm" yaml:"comm"`
}

// PIDString returns the PID formatted for use as a label value.
func (m Match) PIDString() string {
	return strconv.FormatUint(uint64(m.PID), 10)
}

// Resolver maps a process short name onto the set of live PIDs carrying it.
type Resolver struct {
	// Root is the process pseudo-filesystem mount point.
	Root string

	// Reader performs the raw file access.
	Reader file.Reader
}

// NewResolver creates a Resolver rooted at root. A nil reader uses file.NewParser().
func NewResolver(root string, r file.Reader) *Resolver {
	if root == "" {
		root = defaults.ProcRoot
	}
	if r == nil {
		r = file.NewParser()
	}
	return &Resolver{Root: root, Reader: r}
}

// TruncateComm shortens name to the longest comm the kernel records.
func TruncateComm(name string) string {
	if len(name) <= defaults.CommMaxLen {
		return name
	}
	return name[:defaults.CommMaxLen]
}

// Resolve returns every process whose trimmed comm equals target exactly.
// No match yields an empty result, not an error. Processes that exit between
// the listing and the comm read are skipped. Matches are ordered by PID.
func (r *Resolver) Resolve(ctx context.Context, target string) ([]Match, error) {
	if target == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "process name cannot be empty")
	}
	target = TruncateComm(target)

	entries, err := r.Reader.ReadDir(r.Root)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "process scan canceled", err)
		}

		if !e.IsDir() {
			continue
		}
		pid, err := strconv.ParseUint(e.Name(), 10, 32)
		if err != nil {
			continue
		}

		comm, err := r.Reader.ReadString(filepath.Join(r.Root, e.Name(), "comm"))
		if err != nil {
			// exited since the listing
			slog.Debug("skipping vanished process", slog.String("pid", e.Name()))
			continue
		}

		if strings.TrimSpace(comm) != target {
			continue
		}
		matches = append(matches, Match{PID: uint32(pid), Comm: target})
	}

	slices.SortFunc(matches, func(a, b Match) int {
		return cmp.Compare(a.PID, b.PID)
	})

	slog.Debug("resolved processes",
		slog.String("target", target),
		slog.Int("matches", len(matches)))

	return matches, nil
}
