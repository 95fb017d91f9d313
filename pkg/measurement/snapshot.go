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

package measurement

import (
	"time"

	"github.com/NVIDIA/kstat-exporter/pkg/errors"
)

// Status is the result class of one source in one collection pass.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Outcome records how one source fared during a collection pass.
type Outcome struct {
	Source   string           `json:"source" yaml:"source"`
	Status   Status           `json:"status" yaml:"status"`
	Code     errors.ErrorCode `json:"code,omitempty" yaml:"code,omitempty"`
	Reason   string           `json:"reason,omitempty" yaml:"reason,omitempty"`
	Warnings []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Samples  int              `json:"samples" yaml:"samples"`
	Duration time.Duration    `json:"duration" yaml:"duration"`
}

// OK reports whether the source succeeded.
func (o Outcome) OK() bool {
	return o.Status == StatusOK
}

// Succeeded builds a successful Outcome from the batch a source produced.
func Succeeded(source string, b *Batch, d time.Duration) Outcome {
	o := Outcome{Source: source, Status: StatusOK, Duration: d}
	if b != nil {
		o.Samples = len(b.Samples)
		o.Warnings = b.Warnings
	}
	return o
}

// Failed builds a failed Outcome carrying the error code and reason.
func Failed(source string, err error, d time.Duration) Outcome {
	o := Outcome{Source: source, Status: StatusFailed, Duration: d}
	if err != nil {
		o.Code = errors.CodeOf(err)
		o.Reason = err.Error()
	}
	return o
}

// Snapshot is the immutable result of one collection pass. Once published it
// must not be modified; a later pass supersedes it with a new Snapshot.
type Snapshot struct {
	// Generation increases by one for every published pass. Zero is the
	// placeholder served before the first pass completes.
	Generation uint64 `json:"generation" yaml:"generation"`

	// CapturedAt is when the pass started.
	CapturedAt time.Time `json:"capturedAt" yaml:"capturedAt"`

	// Duration is the wall time of the pass.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Samples in source order.
	Samples []Sample `json:"-" yaml:"-"`

	// Outcomes holds one entry per enabled source, in source order.
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
}

// EmptySnapshot returns the generation-zero snapshot with no samples.
func EmptySnapshot() *Snapshot {
	return &Snapshot{}
}

// Outcome returns the outcome recorded for the named source.
func (s *Snapshot) Outcome(source string) (Outcome, bool) {
	for _, o := range s.Outcomes {
		if o.Source == source {
			return o, true
		}
	}
	return Outcome{}, false
}

// SucceededCount returns the number of sources that succeeded.
func (s *Snapshot) SucceededCount() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// FailedSources returns the names of the sources that failed.
func (s *Snapshot) FailedSources() []string {
	var names []string
	for _, o := range s.Outcomes {
		if !o.OK() {
			names = append(names, o.Source)
		}
	}
	return names
}

// SamplesNamed returns the samples with the given metric name, in order.
func (s *Snapshot) SamplesNamed(name string) []Sample {
	var out []Sample
	for _, smp := range s.Samples {
		if smp.Name == name {
			out = append(out, smp)
		}
	}
	return out
}
