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

package snapshotter

import (
	"sync/atomic"

	"github.com/NVIDIA/kstat-exporter/pkg/measurement"
)

// Store holds the current snapshot. Publish swaps the reference atomically;
// readers that already loaded a snapshot keep using it unaffected.
type Store struct {
	current atomic.Pointer[measurement.Snapshot]
}

// NewStore creates a Store serving the empty generation-zero snapshot.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(measurement.EmptySnapshot())
	return s
}

// Load returns the current snapshot. It never returns nil.
// The returned snapshot must be treated as read-only.
func (s *Store) Load() *measurement.Snapshot {
	return s.current.Load()
}

// Publish makes snap the current snapshot. A nil snap is ignored.
func (s *Store) Publish(snap *measurement.Snapshot) {
	if snap == nil {
		return
	}
	s.current.Store(snap)
}

// Ready reports whether at least one pass has been published.
func (s *Store) Ready() bool {
	return s.Load().Generation > 0
}
