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

// Package table provides the read-only tabular data source the compiler binds
// against, plus loaders for CSV, Excel, JSON records and SQL result sets.
//
// Cells are normalized on construction to one of: nil, string, int64,
// float64, bool or time.Time. Any other value is stored verbatim.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Table is an immutable column-major table.
type Table struct {
	columns []string
	index   map[string]int
	data    [][]any
	rows    int

	// Set only for tables built by FromMatrix.
	matrix  [][]float64
	xLabels []string
	yLabels []string
}

// New builds a table from row-major data. Every row must have exactly one cell
// per column.
func New(columns []string, rows [][]any) (*Table, error) {
	t, err := newEmpty(columns)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
		for c, v := range row {
			t.data[c] = append(t.data[c], normalizeCell(v))
		}
	}
	t.rows = len(rows)
	return t, nil
}

// FromColumns builds a table from column-major data of equal length.
func FromColumns(columns []string, cols [][]any) (*Table, error) {
	if len(columns) != len(cols) {
		return nil, fmt.Errorf("%d column names for %d columns", len(columns), len(cols))
	}
	t, err := newEmpty(columns)
	if err != nil {
		return nil, err
	}
	for c, values := range cols {
		if c > 0 && len(values) != len(cols[0]) {
			return nil, fmt.Errorf("column %q has %d values, expected %d", columns[c], len(values), len(cols[0]))
		}
		out := make([]any, len(values))
		for i, v := range values {
			out[i] = normalizeCell(v)
		}
		t.data[c] = out
	}
	if len(cols) > 0 {
		t.rows = len(cols[0])
	}
	return t, nil
}

// FromRecords builds a table from a slice of records. When columns is nil the
// union of record keys is used, sorted by name. Missing keys become nil.
func FromRecords(columns []string, records []map[string]any) (*Table, error) {
	if columns == nil {
		seen := make(map[string]bool)
		for _, rec := range records {
			for k := range rec {
				if !seen[k] {
					seen[k] = true
					columns = append(columns, k)
				}
			}
		}
		sort.Strings(columns)
	}
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(columns))
		for c, name := range columns {
			row[c] = rec[name]
		}
		rows[i] = row
	}
	return New(columns, rows)
}

// FromMatrix wraps a pre-shaped numeric matrix (rows are y, columns are x).
// Axis labels are optional. Shape is not validated here; the compiler rejects
// ragged matrices.
func FromMatrix(z [][]float64, xLabels, yLabels []string) *Table {
	m := make([][]float64, len(z))
	for i, row := range z {
		m[i] = append([]float64(nil), row...)
	}
	return &Table{
		index:   map[string]int{},
		matrix:  m,
		xLabels: append([]string(nil), xLabels...),
		yLabels: append([]string(nil), yLabels...),
		rows:    len(z),
	}
}

func newEmpty(columns []string) (*Table, error) {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		data:    make([][]any, len(columns)),
	}
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		t.index[name] = i
	}
	return t, nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]any, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return append([]any(nil), t.data[i]...), true
}

// Value returns one cell.
func (t *Table) Value(row int, name string) any {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.rows {
		return nil
	}
	return t.data[i][row]
}

// IsMatrix reports whether the table was built by FromMatrix.
func (t *Table) IsMatrix() bool {
	return t.matrix != nil
}

// Matrix returns a copy of the matrix and its axis labels.
func (t *Table) Matrix() (z [][]float64, xLabels, yLabels []string) {
	if t.matrix == nil {
		return nil, nil, nil
	}
	z = make([][]float64, len(t.matrix))
	for i, row := range t.matrix {
		z[i] = append([]float64(nil), row...)
	}
	return z, append([]string(nil), t.xLabels...), append([]string(nil), t.yLabels...)
}

func normalizeCell(v any) any {
	switch x := v.(type) {
	case nil, string, int64, float64, bool, time.Time:
		return v
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint:
		return normalizeUint(uint64(x))
	case uint64:
		return normalizeUint(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	default:
		return v
	}
}

// normalizeUint keeps values past MaxInt64 as float64 rather than wrapping.
func normalizeUint(x uint64) any {
	if x > math.MaxInt64 {
		return float64(x)
	}
	return int64(x)
}

// FormatValue renders a cell as the string used for series keys, labels and
// heatmap axes.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return FormatTime(x)
	default:
		return fmt.Sprint(v)
	}
}

// FormatTime renders a timestamp the way Plotly parses date axes.
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02 15:04:05.999999")
	}
	return t.Format("2006-01-02 15:04:05")
}
