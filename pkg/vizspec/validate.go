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

package vizspec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidColor reports whether s is an acceptable color: #RRGGBB, #RRGGBBAA, or
// any other non-empty string (treated as a CSS color name).
func ValidColor(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "#") {
		return hexColor.MatchString(s)
	}
	return true
}

func checkColors(s *VizSpec) []Issue {
	var issues []Issue
	if s.Data.Colors != nil {
		keys := make([]string, 0, len(s.Data.Colors.ColorMap))
		for k := range s.Data.Colors.ColorMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c := s.Data.Colors.ColorMap[k]
			if !ValidColor(c) {
				issues = append(issues, Issue{
					Path:    "data.colors.color_map." + k,
					Message: fmt.Sprintf("invalid color %q for key %q", c, k),
				})
			}
		}
	}
	if s.Layout != nil {
		for i, c := range s.Layout.Colorway {
			if !ValidColor(c) {
				issues = append(issues, Issue{
					Path:    fmt.Sprintf("layout.colorway.%d", i),
					Message: fmt.Sprintf("invalid color %q in colorway", c),
				})
			}
		}
	}
	return issues
}

// checkSemantics runs the cross-field rules on a normalized spec and returns
// every violation found.
func checkSemantics(s *VizSpec) []Issue {
	var issues []Issue
	d := s.Data

	if s.Chart.Type == ChartHeatmap {
		var missing []string
		if d.X == "" {
			missing = append(missing, "x")
		}
		if d.Y == nil {
			missing = append(missing, "y")
		}
		if d.Z == "" {
			missing = append(missing, "z")
		}
		if len(missing) > 0 {
			issues = append(issues, Issue{
				Path:    "data",
				Message: fmt.Sprintf("heatmap requires x, y, z; missing: [%s]", strings.Join(missing, ", ")),
			})
		}
		if d.Y.IsList() {
			issues = append(issues, Issue{
				Path:    "data.y",
				Message: "heatmap does not support list(y); provide a single y column and z",
			})
		}
	}

	if d.Axis != nil && len(d.Axis.Y2For) > 0 && d.Y.IsList() {
		var bad []string
		for _, col := range d.Axis.Y2For {
			if !d.Y.Contains(col) {
				bad = append(bad, col)
			}
		}
		if len(bad) > 0 {
			sort.Strings(bad)
			issues = append(issues, Issue{
				Path:    "data.axis.y2_for",
				Message: fmt.Sprintf("y2_for contains columns not in y: [%s]", strings.Join(bad, ", ")),
			})
		}
	}

	if d.Y.IsList() && s.SeriesBy() != "" {
		issues = append(issues, Issue{
			Path:    "data.series.by",
			Message: "cannot use list(y) together with series.by; choose one strategy",
		})
	}

	if s.Chart.Type == ChartHistogram && d.X == "" && d.Y == nil {
		issues = append(issues, Issue{
			Path:    "data",
			Message: "histogram requires one of x or y",
		})
	}

	if s.Chart.Type == ChartArea && !s.Chart.Mode.HasLines() {
		issues = append(issues, Issue{
			Path:    "chart.mode",
			Message: "area charts require 'lines' or 'lines+markers' mode",
		})
	}

	return issues
}
