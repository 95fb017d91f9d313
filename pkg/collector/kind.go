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

package collector

import (
	"fmt"
	"slices"
	"strings"

	"github.com/NVIDIA/kstat-exporter/pkg/collector/disk"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/interrupts"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/meminfo"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/netdev"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/sched"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/snmp"
	"github.com/NVIDIA/kstat-exporter/pkg/errors"
)

// Kind names a metric source.
type Kind string

const (
	KindSched      Kind = sched.Name
	KindSnmp       Kind = snmp.Name
	KindNetDev     Kind = netdev.Name
	KindDisk       Kind = disk.Name
	KindInterrupts Kind = interrupts.Name
	KindMemInfo    Kind = meminfo.Name
)

// kinds is the canonical source order. Snapshot samples follow it.
var kinds = []Kind{KindSched, KindSnmp, KindNetDev, KindDisk, KindInterrupts, KindMemInfo}

// AllKinds returns every supported kind in canonical order.
func AllKinds() []Kind {
	return slices.Clone(kinds)
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// ParseKind parses a source name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(kinds, k) {
		return "", errors.NewWithContext(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown monitor %q", s),
			map[string]any{"supported": KindNames()})
	}
	return k, nil
}

// ParseKinds parses a list of source names, dropping duplicates and returning
// the result in canonical order. An empty list selects every kind.
func ParseKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return AllKinds(), nil
	}

	selected := make(map[Kind]bool, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		selected[k] = true
	}

	out := make([]Kind, 0, len(selected))
	for _, k := range kinds {
		if selected[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

// KindNames returns the supported source names in canonical order.
func KindNames() []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
