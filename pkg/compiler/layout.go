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
	"github.com/teradata-labs/vizc/pkg/vizspec"
)

// AssembleLayout builds the figure layout from presentation settings. The
// secondary axis is declared only when a trace uses it.
func AssembleLayout(spec *vizspec.LayoutSpec, usesY2 bool) Layout {
	var out Layout

	if spec != nil {
		if spec.Title != "" {
			out.Title = &Title{Text: spec.Title}
		}
		if spec.XAxisTitle != "" {
			out.XAxis = &Axis{Title: &Title{Text: spec.XAxisTitle}}
		}
		if spec.YAxisTitle != "" {
			out.YAxis = &Axis{Title: &Title{Text: spec.YAxisTitle}}
		}
		out.HoverMode = string(spec.HoverMode)
		out.Template = spec.Template
		if len(spec.Colorway) > 0 {
			out.Colorway = append([]string(nil), spec.Colorway...)
		}
		if len(spec.Legend) > 0 {
			out.Legend = copyMap(spec.Legend)
		}
		if spec.Height != nil {
			h := *spec.Height
			out.Height = &h
		}
		if spec.Width != nil {
			w := *spec.Width
			out.Width = &w
		}
	}

	if usesY2 {
		out.YAxis2 = &Axis{Overlaying: "y", Side: "right"}
		if spec != nil && spec.YAxis2Title != "" {
			out.YAxis2.Title = &Title{Text: spec.YAxis2Title}
		}
	}
	return out
}

// applyBarMode sets the layout-level bar arrangement. It applies whenever the
// chart is a bar chart with a mode set, independent of trace count.
func applyBarMode(layout *Layout, chart vizspec.ChartSpec) {
	if chart.Type == vizspec.ChartBar && chart.BarMode != "" {
		layout.BarMode = string(chart.BarMode)
	}
}

// copyMap copies the top level of an open-ended options map; nested values
// are passed through unexamined.
func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
