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

package table

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tbl, err := New([]string{"store", "sales"}, [][]any{
		{"A", 10},
		{"B", float32(2.5)},
		{"C", nil},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"store", "sales"}, tbl.Columns())
	assert.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.HasColumn("sales"))
	assert.False(t, tbl.HasColumn("region"))
	assert.False(t, tbl.IsMatrix())

	sales, ok := tbl.Column("sales")
	require.True(t, ok)
	assert.Equal(t, []any{int64(10), float64(2.5), nil}, sales)
	assert.Equal(t, "B", tbl.Value(1, "store"))
	assert.Nil(t, tbl.Value(9, "store"))
	assert.Nil(t, tbl.Value(0, "missing"))
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    [][]any
	}{
		{name: "duplicate column", columns: []string{"a", "a"}},
		{name: "empty column name", columns: []string{"a", ""}},
		{name: "short row", columns: []string{"a", "b"}, rows: [][]any{{1}}},
		{name: "long row", columns: []string{"a"}, rows: [][]any{{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.columns, tt.rows)
			assert.Error(t, err)
		})
	}
}

func TestTable_ColumnReturnsCopy(t *testing.T) {
	tbl, err := New([]string{"a"}, [][]any{{"x"}, {"y"}})
	require.NoError(t, err)

	col, _ := tbl.Column("a")
	col[0] = "mutated"

	again, _ := tbl.Column("a")
	assert.Equal(t, "x", again[0])
}

func TestFromColumns(t *testing.T) {
	tbl, err := FromColumns([]string{"x", "y"}, [][]any{{1, 2, 3}, {4.0, 5.0, 6.0}})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	_, err = FromColumns([]string{"x", "y"}, [][]any{{1, 2}, {1}})
	assert.Error(t, err)

	_, err = FromColumns([]string{"x"}, [][]any{{1}, {2}})
	assert.Error(t, err)
}

func TestFromRecords(t *testing.T) {
	tbl, err := FromRecords(nil, []map[string]any{
		{"region": "East", "sales": 10},
		{"region": "West", "store": "B"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "sales", "store"}, tbl.Columns())
	assert.Nil(t, tbl.Value(1, "sales"))
	assert.Equal(t, "B", tbl.Value(1, "store"))
}

func TestFromMatrix(t *testing.T) {
	src := [][]float64{{1, 2}, {3, 4}}
	tbl := FromMatrix(src, []string{"a", "b"}, nil)
	src[0][0] = 99

	require.True(t, tbl.IsMatrix())
	z, x, y := tbl.Matrix()
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, z)
	assert.Equal(t, []string{"a", "b"}, x)
	assert.Empty(t, y)
	assert.Empty(t, tbl.Columns())
}

func TestNormalizeCell(t *testing.T) {
	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "int", in: 7, want: int64(7)},
		{name: "uint8", in: uint8(7), want: int64(7)},
		{name: "uint64", in: uint64(9), want: int64(9)},
		{name: "uint64 max int64", in: uint64(math.MaxInt64), want: int64(math.MaxInt64)},
		{name: "uint64 past max int64", in: uint64(math.MaxUint64), want: float64(math.MaxUint64)},
		{name: "uint past max int64", in: uint(math.MaxInt64) + 1, want: float64(1 << 63)},
		{name: "float32", in: float32(0.5), want: float64(0.5)},
		{name: "bytes", in: []byte("abc"), want: "abc"},
		{name: "json int", in: json.Number("12"), want: int64(12)},
		{name: "json float", in: json.Number("1.5"), want: 1.5},
		{name: "time pointer", in: &ts, want: ts},
		{name: "nil time pointer", in: (*time.Time)(nil), want: nil},
		{name: "string", in: "s", want: "s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeCell(tt.in))
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: ""},
		{in: "East", want: "East"},
		{in: int64(42), want: "42"},
		{in: 2.5, want: "2.5"},
		{in: float64(3), want: "3"},
		{in: math.Inf(1), want: "+Inf"},
		{in: true, want: "true"},
		{in: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), want: "2024-03-01"},
		{in: time.Date(2024, 3, 1, 13, 5, 9, 0, time.UTC), want: "2024-03-01 13:05:09"},
		{in: []int{1}, want: "[1]"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}
