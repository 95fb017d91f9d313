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

	"github.com/NVIDIA/kstat-exporter/pkg/collector/disk"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/file"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/interrupts"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/meminfo"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/netdev"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/process"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/sched"
	"github.com/NVIDIA/kstat-exporter/pkg/collector/snmp"
	"github.com/NVIDIA/kstat-exporter/pkg/defaults"
	"github.com/NVIDIA/kstat-exporter/pkg/errors"
)

// Factory creates sources by kind.
type Factory interface {
	Create(kind Kind) (Source, error)
}

// FactoryOption configures a DefaultFactory.
type FactoryOption func(*DefaultFactory)

// DefaultFactory creates sources reading the real pseudo-filesystems.
type DefaultFactory struct {
	ProcRoot string
	SysRoot  string
	Reader   file.Reader

	NetDevOptions []netdev.Option
	DiskOptions   []disk.Option
}

// WithProcRoot sets the process pseudo-filesystem mount point.
func WithProcRoot(root string) FactoryOption {
	return func(f *DefaultFactory) {
		f.ProcRoot = root
	}
}

// WithSysRoot sets the sysfs mount point.
func WithSysRoot(root string) FactoryOption {
	return func(f *DefaultFactory) {
		f.SysRoot = root
	}
}

// WithReader sets the raw file reader shared by all sources.
func WithReader(r file.Reader) FactoryOption {
	return func(f *DefaultFactory) {
		f.Reader = r
	}
}

// WithNetDevOptions passes options to the netdev source.
func WithNetDevOptions(opts ...netdev.Option) FactoryOption {
	return func(f *DefaultFactory) {
		f.NetDevOptions = append(f.NetDevOptions, opts...)
	}
}

// WithDiskOptions passes options to the disk source.
func WithDiskOptions(opts ...disk.Option) FactoryOption {
	return func(f *DefaultFactory) {
		f.DiskOptions = append(f.DiskOptions, opts...)
	}
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...FactoryOption) *DefaultFactory {
	f := &DefaultFactory{
		ProcRoot: defaults.ProcRoot,
		SysRoot:  defaults.SysRoot,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.Reader == nil {
		f.Reader = file.NewParser()
	}
	return f
}

// Create returns the source for kind.
func (f *DefaultFactory) Create(kind Kind) (Source, error) {
	switch kind {
	case KindSched:
		return sched.New(f.ProcRoot, f.Reader), nil
	case KindSnmp:
		return snmp.New(f.ProcRoot, f.Reader), nil
	case KindNetDev:
		return netdev.New(f.SysRoot, f.Reader, f.NetDevOptions...), nil
	case KindDisk:
		return disk.New(f.SysRoot, f.Reader, f.DiskOptions...), nil
	case KindInterrupts:
		return interrupts.New(f.ProcRoot, f.Reader), nil
	case KindMemInfo:
		return meminfo.New(f.ProcRoot, f.Reader), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, fmt.Sprintf("unsupported source kind %q", kind))
	}
}

// Resolver returns a process resolver sharing the factory's root and reader.
func (f *DefaultFactory) Resolver() *process.Resolver {
	return process.NewResolver(f.ProcRoot, f.Reader)
}

// BuildSources creates one source per kind, preserving the order of selected.
func BuildSources(f Factory, selected []Kind) ([]Source, error) {
	sources := make([]Source, 0, len(selected))
	for _, k := range selected {
		s, err := f.Create(k)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, nil
}
