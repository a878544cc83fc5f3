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
	"github.com/teradata-labs/vizc/pkg/table"
)

// Series is one logical trace worth of rows.
type Series struct {
	Key TraceKey
	// Rows indexes into the source table, in original order.
	Rows []int
}

// GroupSeries partitions the table into series.
//
//   - by set: one series per distinct value of the by column, in first
//     occurrence order; rows whose group value is nil are dropped.
//   - listY: one series per y column, each covering every row.
//   - otherwise: a single series over every row.
//
// by and listY are mutually exclusive; validation rejects the combination.
func GroupSeries(tbl *table.Table, yCols []string, listY bool, by string) []Series {
	first := ""
	if len(yCols) > 0 {
		first = yCols[0]
	}

	if by != "" {
		values, _ := tbl.Column(by)
		var order []string
		groups := make(map[string][]int)
		for i, v := range values {
			if v == nil {
				continue
			}
			key := table.FormatValue(v)
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], i)
		}
		out := make([]Series, len(order))
		for i, key := range order {
			out[i] = Series{
				Key:  TraceKey{YColumn: first, SeriesKey: key, Grouped: true},
				Rows: groups[key],
			}
		}
		return out
	}

	all := allRows(tbl.Len())
	if listY {
		out := make([]Series, len(yCols))
		for i, y := range yCols {
			out[i] = Series{Key: TraceKey{YColumn: y, ListY: true}, Rows: all}
		}
		return out
	}
	return []Series{{Key: TraceKey{YColumn: first}, Rows: all}}
}

func allRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}
