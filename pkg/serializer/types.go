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

package serializer

import (
	"context"
	"time"

	"github.com/NVIDIA/kstat-exporter/pkg/measurement"
)

// Serializer writes a snapshot somewhere.
type Serializer interface {
	Serialize(ctx context.Context, snap *measurement.Snapshot) error
}

// Closer is an optional interface that Serializers can implement
// if they need to release resources (e.g., close file handles).
type Closer interface {
	Close() error
}

// SampleView is the structured form of a sample used by JSON and YAML output.
type SampleView struct {
	Name   string             `json:"name" yaml:"name"`
	Labels measurement.Labels `json:"labels,omitempty" yaml:"labels,omitempty"`
	Kind   string             `json:"kind" yaml:"kind"`
	Value  any                `json:"value" yaml:"value"`
}

// SnapshotView is the structured form of a snapshot used by JSON and YAML output.
type SnapshotView struct {
	Generation uint64                `json:"generation" yaml:"generation"`
	CapturedAt time.Time             `json:"capturedAt" yaml:"capturedAt"`
	Duration   string                `json:"duration" yaml:"duration"`
	Outcomes   []measurement.Outcome `json:"outcomes" yaml:"outcomes"`
	Samples    []SampleView          `json:"samples" yaml:"samples"`
}

// NewSnapshotView converts snap. Float values that are not finite are
// rendered as strings since JSON cannot carry them.
func NewSnapshotView(snap *measurement.Snapshot) SnapshotView {
	if snap == nil {
		return SnapshotView{}
	}
	v := SnapshotView{
		Generation: snap.Generation,
		CapturedAt: snap.CapturedAt,
		Duration:   snap.Duration.String(),
		Outcomes:   snap.Outcomes,
		Samples:    make([]SampleView, 0, len(snap.Samples)),
	}
	for _, s := range snap.Samples {
		sv := SampleView{Name: s.Name, Labels: s.Labels, Kind: s.Value.Kind().String()}
		if s.Value.IsInteger() {
			sv.Value = s.Value.Int64()
		} else if f := s.Value.Float64(); isFinite(f) {
			sv.Value = f
		} else {
			sv.Value = FormatValue(s.Value)
		}
		v.Samples = append(v.Samples, sv)
	}
	return v
}
