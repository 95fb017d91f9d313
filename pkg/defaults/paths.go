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

package defaults

// Filesystem and endpoint defaults.
const (
	// ProcRoot is the mount point of the process pseudo-filesystem.
	ProcRoot = "/proc"

	// SysRoot is the mount point of sysfs.
	SysRoot = "/sys"

	// ListenAddress is the default HTTP bind address.
	ListenAddress = ":9000"

	// ProcName is the default process short name matched by the sched source.
	ProcName = "pinger"

	// CommMaxLen is the longest comm the kernel records (TASK_COMM_LEN - 1).
	CommMaxLen = 15
)
