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

package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies why a valid spec could not be realized.
type ErrorKind string

const (
	KindMissingColumns       ErrorKind = "missing_columns"
	KindAmbiguousAggregation ErrorKind = "ambiguous_aggregation"
	KindMissingBinding       ErrorKind = "missing_binding"
	KindTooManyTraces        ErrorKind = "too_many_traces"
	KindNotSerializable      ErrorKind = "not_serializable"
	KindInvalidShape         ErrorKind = "invalid_shape"
	KindUnsupportedChart     ErrorKind = "unsupported_chart"
)

// CompileError is returned when a spec is valid but cannot be compiled
// against the given table. No partial payload accompanies it.
type CompileError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	// Columns lists the offending columns for KindMissingColumns.
	Columns []string `json:"columns,omitempty"`
	// Suggestions maps a missing column to the closest existing one.
	Suggestions map[string]string `json:"suggestions,omitempty"`
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("compile error (%s): %s", e.Kind, e.Message)
	if len(e.Suggestions) > 0 {
		keys := make([]string, 0, len(e.Suggestions))
		for k := range e.Suggestions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		hints := make([]string, len(keys))
		for i, k := range keys {
			hints[i] = fmt.Sprintf("%s -> %s", k, e.Suggestions[k])
		}
		msg += " (did you mean: " + strings.Join(hints, ", ") + ")"
	}
	return msg
}

// Is matches any CompileError of the same kind, so callers can branch with
// errors.Is(err, compiler.ErrTooManyTraces).
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrMissingColumns       = &CompileError{Kind: KindMissingColumns}
	ErrAmbiguousAggregation = &CompileError{Kind: KindAmbiguousAggregation}
	ErrMissingBinding       = &CompileError{Kind: KindMissingBinding}
	ErrTooManyTraces        = &CompileError{Kind: KindTooManyTraces}
	ErrNotSerializable      = &CompileError{Kind: KindNotSerializable}
	ErrInvalidShape         = &CompileError{Kind: KindInvalidShape}
	ErrUnsupportedChart     = &CompileError{Kind: KindUnsupportedChart}
)

func newError(kind ErrorKind, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
