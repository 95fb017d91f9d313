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

// Package file provides the raw pseudo-file reading primitive used by every source.
//
// Files under /proc and /sys report a size of zero and may vanish between a
// directory listing and a read, so content is always read to EOF and every
// failure is returned as an IO_ERROR structured error that callers treat as soft.
//
// # Usage
//
//	p := file.NewParser()
//	content, err := p.ReadString("/proc/meminfo")
//	if err != nil {
//	    // errors.CodeOf(err) == errors.ErrCodeIO
//	}
//
// Sources depend on the Reader interface so tests can substitute failing or
// slow readers.
//
// # Thread Safety
//
// Parser holds no mutable state and is safe for concurrent use.
package file
