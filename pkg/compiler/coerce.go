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
	"math"
	"time"

	"github.com/teradata-labs/vizc/pkg/table"
)

// wireValue converts one cell into its Plotly JSON form. NaN and infinities
// become null; timestamps become Plotly date strings. Other values pass
// through and are checked by the serialization guard.
func wireValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case time.Time:
		return table.FormatTime(x)
	default:
		return v
	}
}

// pick returns the wire values of a column for the given rows. The result is
// always a fresh slice.
func pick(column []any, rows []int) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = wireValue(column[r])
	}
	return out
}

// coerceDates is a best-effort conversion of an x column to Plotly date
// strings. It succeeds only when every non-nil value is a timestamp or a string
// in a known date layout; otherwise the input is returned untouched. Numbers
// are never treated as dates. The caller's slice is not modified.
func coerceDates(values []any) ([]any, bool) {
	out := make([]any, len(values))
	seen := 0
	for i, v := range values {
		switch x := v.(type) {
		case nil:
			continue
		case time.Time:
			out[i] = table.FormatTime(x)
		case string:
			t, ok := table.ParseDate(x)
			if !ok {
				return values, false
			}
			out[i] = table.FormatTime(t)
		default:
			return values, false
		}
		seen++
	}
	if seen == 0 {
		return values, false
	}
	return out, true
}
