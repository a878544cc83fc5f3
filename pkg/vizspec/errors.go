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

package vizspec

import (
	"fmt"
	"sort"
	"strings"
)

// SpecParseError reports input that is not well-formed structured data.
type SpecParseError struct {
	Err error
}

func (e *SpecParseError) Error() string {
	return fmt.Sprintf("spec parse error: %v", e.Err)
}

func (e *SpecParseError) Unwrap() error { return e.Err }

// Stage identifies which validation pass produced the issues.
type Stage string

const (
	StageStructural Stage = "structural"
	StageSemantic   Stage = "semantic"
)

// Issue is one machine-readable validation failure.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// SpecValidationError reports a spec that parsed but violates a type, enum,
// range or cross-field constraint.
type SpecValidationError struct {
	Stage  Stage   `json:"stage"`
	Issues []Issue `json:"issues"`
}

func (e *SpecValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("spec validation failed (%s): %s", e.Stage, strings.Join(parts, "; "))
}

func newValidationError(stage Stage, issues []Issue) *SpecValidationError {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		return issues[i].Message < issues[j].Message
	})
	return &SpecValidationError{Stage: stage, Issues: issues}
}
