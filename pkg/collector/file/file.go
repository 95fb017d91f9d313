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

package file

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/NVIDIA/kstat-exporter/pkg/errors"
)

// Reader is the raw pseudo-file access every source goes through.
// Implementations must be safe for concurrent use.
type Reader interface {
	// ReadString returns the whole content of the file at path.
	ReadString(path string) (string, error)
	// ReadDir returns the entries of the directory at path.
	ReadDir(path string) ([]fs.DirEntry, error)
	// Exists reports whether path exists.
	Exists(path string) bool
}

// Options for configuring the Parser.
type Option func(*Parser)

// Parser reads pseudo-files with customizable settings.
type Parser struct {
	delimiter    string
	maxSize      int64
	skipComments bool
}

// WithDelimiter sets the delimiter used to split entries in GetLines.
// Default is newline ("\n").
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum size (in bytes) of a file to be read.
// Default is 4MB, large enough for /proc/interrupts on many-core hosts.
func WithMaxSize(size int64) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether GetLines skips lines starting with '#'.
// Default is false; kernel pseudo-files do not carry comments.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// NewParser creates a new file parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:    "\n",
		maxSize:      4 << 20,
		skipComments: false,
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReadString reads the file at path in full. Pseudo-files report a size of zero,
// so the content is read until EOF rather than sized up front.
// All failures are returned as IO_ERROR structured errors.
func (p *Parser) ReadString(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrCodeIO, "file path cannot be empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO, "failed to open file", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	// Read one byte past the limit to detect oversized files.
	b, err := io.ReadAll(io.LimitReader(f, p.maxSize+1))
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO, "failed to read file", err,
			map[string]any{"path": path})
	}

	if int64(len(b)) > p.maxSize {
		return "", errors.NewWithContext(errors.ErrCodeIO,
			fmt.Sprintf("file exceeds maximum size of %d bytes", p.maxSize),
			map[string]any{"path": path})
	}

	return string(b), nil
}

// GetLines reads the file at path and splits its content into lines
// based on the configured delimiter. Empty lines are dropped and the
// remaining ones are trimmed.
func (p *Parser) GetLines(path string) ([]string, error) {
	content, err := p.ReadString(path)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(content, p.delimiter)

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		cleanPart := strings.TrimSpace(part)
		if cleanPart == "" {
			continue
		}

		if p.skipComments && strings.HasPrefix(cleanPart, "#") {
			continue
		}

		result = append(result, cleanPart)
	}

	return result, nil
}

// ReadDir lists the directory at path. Failures are IO_ERROR structured errors.
func (p *Parser) ReadDir(path string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to read directory", err,
			map[string]any{"path": path})
	}
	return entries, nil
}

// Exists reports whether path exists. Symlinks are followed.
func (p *Parser) Exists(path string) bool {
	_, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		slog.Debug("stat failed", slog.String("path", path), slog.String("error", err.Error()))
	}
	return err == nil
}
