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
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadJSONRecords reads a JSON array of flat objects. Numbers keep integer
// precision where possible.
func ReadJSONRecords(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("error decoding JSON records: %w", err)
	}
	return FromRecords(nil, records)
}

// Query runs a query and materializes the result set.
func Query(ctx context.Context, db *sql.DB, query string, args ...any) (*Table, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return FromRows(rows)
}

// FromRows materializes an open result set. The caller still owns rows.
func FromRows(rows *sql.Rows) (*Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var data [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return New(columns, data)
}

// LoadOptions controls Load.
type LoadOptions struct {
	CSV  CSVOptions
	XLSX XLSXOptions
}

// Load reads a table file, choosing the format by extension: .csv, .tsv,
// .xlsx, .json.
func Load(path string, opts LoadOptions) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" || ext == ".xlsm" {
		return ReadXLSXFile(path, opts.XLSX)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch ext {
	case ".csv":
		return ReadCSV(bytes.NewReader(data), opts.CSV)
	case ".tsv":
		csvOpts := opts.CSV
		csvOpts.Delimiter = '\t'
		return ReadCSV(bytes.NewReader(data), csvOpts)
	case ".json":
		return ReadJSONRecords(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported table format %q", ext)
	}
}
