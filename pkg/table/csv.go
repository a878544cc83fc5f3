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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ColumnType is the inferred type of a text column.
type ColumnType string

const (
	TypeInteger ColumnType = "integer"
	TypeFloat   ColumnType = "float"
	TypeBoolean ColumnType = "boolean"
	TypeDate    ColumnType = "date"
	TypeString  ColumnType = "string"
)

// DefaultMaxRows caps rows read by the text loaders.
const DefaultMaxRows = 100000

// dateLayouts are tried in order when inferring and converting date cells.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// ParseDate parses s with the known date layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CSVOptions controls ReadCSV.
type CSVOptions struct {
	Delimiter rune
	NoHeader  bool
	MaxRows   int
	// Raw disables type inference; every cell stays a string.
	Raw bool
}

// ReadCSV reads a delimited text table, inferring a type per column.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	var headers []string
	var rows [][]string
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		if first && !opts.NoHeader {
			headers = record
			first = false
			continue
		}
		first = false
		rows = append(rows, record)
		if len(rows) >= maxRows {
			break
		}
	}

	if opts.NoHeader && len(rows) > 0 {
		for i := range rows[0] {
			headers = append(headers, fmt.Sprintf("column_%d", i+1))
		}
	}

	return fromStrings(headers, rows, !opts.Raw)
}

// fromStrings builds a table from text cells. Short rows are padded with nil;
// cells beyond the header are dropped.
func fromStrings(headers []string, rows [][]string, infer bool) (*Table, error) {
	types := make([]ColumnType, len(headers))
	for i := range types {
		types[i] = TypeString
	}
	if infer {
		types = InferColumnTypes(rows, len(headers))
	}

	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(headers))
		for c := range headers {
			if c < len(row) {
				cells[c] = ConvertValue(row[c], types[c])
			}
		}
		out[i] = cells
	}
	return New(headers, out)
}

// InferColumnTypes picks a type for each column: a column is typed only when
// every non-empty cell agrees.
func InferColumnTypes(rows [][]string, columnCount int) []ColumnType {
	types := make([]ColumnType, columnCount)

	for col := 0; col < columnCount; col++ {
		intCount, floatCount, boolCount, dateCount, total := 0, 0, 0, 0, 0

		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" {
				continue
			}
			total++

			if _, err := strconv.ParseInt(value, 10, 64); err == nil {
				intCount++
				continue
			}
			if _, err := strconv.ParseFloat(value, 64); err == nil {
				floatCount++
				continue
			}
			if _, ok := parseBool(value); ok {
				boolCount++
				continue
			}
			if _, ok := ParseDate(value); ok {
				dateCount++
				continue
			}
		}

		switch {
		case total == 0:
			types[col] = TypeString
		case intCount == total:
			types[col] = TypeInteger
		case intCount+floatCount == total:
			types[col] = TypeFloat
		case boolCount == total:
			types[col] = TypeBoolean
		case dateCount == total:
			types[col] = TypeDate
		default:
			types[col] = TypeString
		}
	}

	return types
}

// ConvertValue converts one text cell to the column type. Empty cells are nil;
// cells that fail conversion stay strings.
func ConvertValue(value string, columnType ColumnType) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	switch columnType {
	case TypeInteger:
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	case TypeFloat:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case TypeBoolean:
		if b, ok := parseBool(value); ok {
			return b
		}
	case TypeDate:
		if t, ok := ParseDate(value); ok {
			return t
		}
	}

	return value
}

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}
