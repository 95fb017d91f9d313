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
	"fmt"
	"strconv"
)

// ValueKind is the numeric tag of a Value. It decides how the value is rendered.
type ValueKind uint8

const (
	// KindInteger values render as plain base-10 digits.
	KindInteger ValueKind = iota
	// KindFloat values render in floating-point textual form.
	KindFloat
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Value is a tagged number: either an exact 64-bit integer or a float64.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
}

// Integer creates an integer-tagged Value.
func Integer(v int64) Value { return Value{kind: KindInteger, i: v} }

// Float creates a float-tagged Value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Kind returns the numeric tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsInteger reports whether the value is integer-tagged.
func (v Value) IsInteger() bool { return v.kind == KindInteger }

// Int64 returns the integer payload. For float values it truncates toward zero.
func (v Value) Int64() int64 {
	if v.kind == KindFloat {
		return int64(v.f)
	}
	return v.i
}

// Float64 returns the value as a float64 regardless of tag.
func (v Value) Float64() float64 {
	if v.kind == KindInteger {
		return float64(v.i)
	}
	return v.f
}

// String returns a debug representation of the value.
func (v Value) String() string {
	if v.kind == KindInteger {
		return strconv.FormatInt(v.i, 10)
	}
	return strconv.FormatFloat(v.f, 'g', -1, 64)
}

// Label is one name/value pair attached to a sample.
type Label struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// L is shorthand for constructing a Label.
func L(name, value string) Label {
	return Label{Name: name, Value: value}
}

// Labels is an ordered label set. Order is emission order.
// Names are expected to be unique; duplicates are a producer bug and are not checked.
type Labels []Label

// Get returns the value of the named label.
func (ls Labels) Get(name string) (string, bool) {
	for _, l := range ls {
		if l.Name == name {
			return l.Value, true
		}
	}
	return "", false
}

// Sample is a single metric observation: a name, ordered labels and a tagged value.
type Sample struct {
	Name   string `json:"name" yaml:"name"`
	Labels Labels `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  Value  `json:"-" yaml:"-"`
}

// NewSample creates a Sample. The label slice is copied.
func NewSample(name string, value Value, labels ...Label) Sample {
	var ls Labels
	if len(labels) > 0 {
		ls = make(Labels, len(labels))
		copy(ls, labels)
	}
	return Sample{Name: name, Labels: ls, Value: value}
}

// Label returns the value of the named label, or an empty string.
func (s Sample) Label(name string) string {
	v, _ := s.Labels.Get(name)
	return v
}

// String returns a debug representation of the sample.
func (s Sample) String() string {
	return fmt.Sprintf("%s%v %s", s.Name, []Label(s.Labels), s.Value)
}
