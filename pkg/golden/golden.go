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

// Package golden compares rendered output against checked-in golden files.
package golden

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result is the outcome of a golden comparison.
type Result struct {
	Matched    bool    `json:"matched"`
	Similarity float64 `json:"similarity"`
	// Diff is set only when the comparison did not match.
	Diff string `json:"diff,omitempty"`
}

// Compare compares actual with the golden file at path. Whitespace runs are
// collapsed before scoring; the match holds when similarity reaches threshold.
// A missing golden file is a mismatch, not an error.
func Compare(path string, actual string, threshold float64) (*Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- golden path chosen by the caller
	if err != nil {
		if os.IsNotExist(err) {
			return &Result{Diff: fmt.Sprintf("Golden file not found: %s", path)}, nil
		}
		return nil, fmt.Errorf("failed to read golden file %s: %w", path, err)
	}

	expected := string(data)
	similarity := Similarity(expected, actual)
	res := &Result{
		Matched:    similarity >= threshold,
		Similarity: similarity,
	}
	if !res.Matched {
		res.Diff = Diff(expected, actual)
	}
	return res, nil
}

// Update writes content to the golden file, creating its directory.
func Update(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create golden file directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write golden file %s: %w", path, err)
	}
	return nil
}

// CanonicalJSON re-encodes a JSON document with sorted keys and two-space
// indentation so structurally equal documents diff cleanly.
func CanonicalJSON(data []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("failed to decode JSON: %w", err)
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(out) + "\n", nil
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Similarity scores two strings from 0 to 1 by the share of text a character
// diff leaves equal, after whitespace normalization.
func Similarity(a, b string) float64 {
	a, b = normalizeWhitespace(a), normalizeWhitespace(b)
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	common, total := 0, 0
	for _, d := range dmp.DiffMain(a, b, false) {
		total += len(d.Text)
		if d.Type == diffmatchpatch.DiffEqual {
			common += len(d.Text)
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(common) / float64(total)
}

// Diff renders a readable diff of expected against actual. Long unchanged
// stretches are elided to their first and last lines.
func Diff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(expected, actual, false))

	var sb strings.Builder
	sb.WriteString("--- Expected\n")
	sb.WriteString("+++ Actual\n")

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			sb.WriteString("+ ")
			sb.WriteString(strings.ReplaceAll(d.Text, "\n", "\n+ "))
			sb.WriteString("\n")
		case diffmatchpatch.DiffDelete:
			sb.WriteString("- ")
			sb.WriteString(strings.ReplaceAll(d.Text, "\n", "\n- "))
			sb.WriteString("\n")
		case diffmatchpatch.DiffEqual:
			lines := strings.Split(d.Text, "\n")
			if len(lines) > 4 {
				sb.WriteString("  " + lines[0] + "\n")
				sb.WriteString("  ...\n")
				sb.WriteString("  " + lines[len(lines)-1] + "\n")
				continue
			}
			for _, line := range lines {
				if line != "" {
					sb.WriteString("  " + line + "\n")
				}
			}
		}
	}
	return sb.String()
}
