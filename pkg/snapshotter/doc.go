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

// Package snapshotter holds the current metrics snapshot and the loop that
// refreshes it.
//
// Store is a single atomically swapped reference. The Scheduler is its only
// writer: it runs a collection pass right away, then once per interval, and
// publishes every resulting snapshot, including passes in which every source
// failed, so that readers never see stale data indefinitely. HTTP handlers
// call Store.Load and render what they got; a publish during rendering does
// not affect them.
//
//	store := snapshotter.NewStore()
//	sched := snapshotter.NewScheduler(c, store, 5*time.Second,
//	    snapshotter.WithPublishHook(func(*measurement.Snapshot) { srv.SetReady(true) }),
//	    snapshotter.WithSystemdNotify(true),
//	)
//	go sched.Run(ctx)
package snapshotter
