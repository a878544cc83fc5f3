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
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/teradata-labs/vizc/pkg/table"
)

// EnsureColumns fails with KindMissingColumns listing every name absent from
// the table. Each missing name gets the closest existing column as a
// suggestion when one matches.
func EnsureColumns(tbl *table.Table, names []string) error {
	var missing []string
	seen := make(map[string]bool)
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if !tbl.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	available := tbl.Columns()
	suggestions := make(map[string]string)
	for _, name := range missing {
		if s, ok := suggestColumn(name, available); ok {
			suggestions[name] = s
		}
	}

	err := newError(KindMissingColumns, "columns not found in table: [%s]", strings.Join(missing, ", "))
	err.Columns = missing
	if len(suggestions) > 0 {
		err.Suggestions = suggestions
	}
	return err
}

func suggestColumn(name string, available []string) (string, bool) {
	if len(available) == 0 {
		return "", false
	}
	// Case-only mismatches are the most common LLM slip.
	for _, col := range available {
		if strings.EqualFold(col, name) {
			return col, true
		}
	}
	matches := fuzzy.Find(name, available)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}
