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
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXOptions controls ReadXLSX.
type XLSXOptions struct {
	// Sheet selects a worksheet by name; empty means the first sheet.
	Sheet    string
	NoHeader bool
	MaxRows  int
}

// ReadXLSXFile opens an Excel workbook and reads one sheet.
func ReadXLSXFile(path string, opts XLSXOptions) (*Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening Excel file: %w", err)
	}
	defer file.Close()
	return readSheet(file, opts)
}

// ReadXLSX reads one sheet from a workbook stream.
func ReadXLSX(r io.Reader, opts XLSXOptions) (*Table, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error opening Excel stream: %w", err)
	}
	defer file.Close()
	return readSheet(file, opts)
}

func readSheet(file *excelize.File, opts XLSXOptions) (*Table, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheets := file.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return New(nil, nil)
	}

	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	var headers []string
	start := 0
	if opts.NoHeader {
		for i := range rows[0] {
			headers = append(headers, fmt.Sprintf("column_%d", i+1))
		}
	} else {
		headers = rows[0]
		start = 1
	}

	body := rows[start:]
	if len(body) > maxRows {
		body = body[:maxRows]
	}
	return fromStrings(headers, body, true)
}
