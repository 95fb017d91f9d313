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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Collection pass metrics
	passDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kstat_exporter_collection_duration_seconds",
			Help:    "Time taken by a complete collection pass",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	passTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kstat_exporter_collection_total",
			Help: "Total number of collection passes",
		},
		[]string{"status"}, // success, partial or error
	)

	snapshotSamples = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kstat_exporter_snapshot_samples",
			Help: "Number of samples in the published snapshot",
		},
	)

	snapshotGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kstat_exporter_snapshot_generation",
			Help: "Generation of the published snapshot",
		},
	)

	snapshotTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kstat_exporter_snapshot_timestamp_seconds",
			Help: "Unix time at which the published snapshot was captured",
		},
	)
)
