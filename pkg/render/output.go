// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// CreateOutput opens path for writing. "-" and "" mean stdout, and a ".gz"
// suffix gzip-compresses everything written. Parent directories are created.
func CreateOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path) // #nosec G304 -- output path chosen by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	return &gzipFile{Writer: gzip.NewWriter(f), file: f}, nil
}

type gzipFile struct {
	*gzip.Writer
	file *os.File
}

// Close flushes the gzip stream, then closes the file.
func (g *gzipFile) Close() error {
	if err := g.Writer.Close(); err != nil {
		_ = g.file.Close()
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return g.file.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
