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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kstat_exporter_source_duration_seconds",
			Help:    "Time taken by individual sources during one collection pass",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"source"},
	)

	sourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kstat_exporter_source_failures_total",
			Help: "Total number of failed source collections",
		},
		[]string{"source", "code"},
	)

	sourceWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kstat_exporter_source_warnings_total",
			Help: "Total number of parse warnings raised by sources",
		},
		[]string{"source"},
	)

	sourceSamples = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kstat_exporter_source_samples",
			Help: "Number of samples produced by a source in the last pass",
		},
		[]string{"source"},
	)

	processMatches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kstat_exporter_process_matches",
			Help: "Number of processes matched by name in the last pass",
		},
	)
)
