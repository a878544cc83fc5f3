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

// Package config locates vizc's data directory.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DataDirEnv overrides the data directory.
const DataDirEnv = "VIZC_DATA_DIR"

// GetDataDir returns the vizc data directory.
//
// Priority:
// 1. VIZC_DATA_DIR environment variable (if set and non-empty)
// 2. ~/.vizc (default)
//
// The returned path is absolute; ~ is expanded. This is read before the
// config file is loaded, since the config file lives here.
//
// Examples:
//
//	VIZC_DATA_DIR=/srv/vizc      -> /srv/vizc
//	VIZC_DATA_DIR=~/charts       -> /home/user/charts
//	VIZC_DATA_DIR not set        -> /home/user/.vizc
func GetDataDir() string {
	if dataDir := os.Getenv(DataDirEnv); dataDir != "" {
		return ExpandPath(dataDir)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".vizc"
	}
	return filepath.Join(homeDir, ".vizc")
}

// GetSubDir returns a subdirectory of the data directory, e.g. "golden".
func GetSubDir(subdir string) string {
	return filepath.Join(GetDataDir(), subdir)
}

// ExpandPath expands a leading ~ and makes path absolute. On failure the
// path is returned as given.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path[1:], "/"))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
