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

import "fmt"

// Batch accumulates the samples and non-fatal parse warnings a single source
// produces during one collection pass.
type Batch struct {
	Samples  []Sample
	Warnings []string
}

// NewBatch creates an empty Batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Add appends a sample.
func (b *Batch) Add(name string, value Value, labels ...Label) *Batch {
	b.Samples = append(b.Samples, NewSample(name, value, labels...))
	return b
}

// AddInt appends an integer sample.
func (b *Batch) AddInt(name string, v int64, labels ...Label) *Batch {
	return b.Add(name, Integer(v), labels...)
}

// AddFloat appends a float sample.
func (b *Batch) AddFloat(name string, v float64, labels ...Label) *Batch {
	return b.Add(name, Float(v), labels...)
}

// Warnf records a parse warning.
func (b *Batch) Warnf(format string, args ...any) {
	b.Warnings = append(b.Warnings, fmt.Sprintf(format, args...))
}

// Merge appends all samples and warnings from other.
func (b *Batch) Merge(other *Batch) {
	if other == nil {
		return
	}
	b.Samples = append(b.Samples, other.Samples...)
	b.Warnings = append(b.Warnings, other.Warnings...)
}

// Len returns the number of samples.
func (b *Batch) Len() int {
	return len(b.Samples)
}
