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

// Package vizspec defines the declarative chart request (VizSpec) consumed by
// the figure compiler, together with its JSON Schema, parser, normalizer and
// cross-field validation.
//
// A VizSpec is validated once at parse time and treated as immutable
// afterwards. Every field that is meaningless for the selected chart family is
// normalized away, so downstream code never has to special-case "present but
// irrelevant".
package vizspec

import (
	"encoding/json"
	"fmt"
)

// Version is the only spec version this package accepts.
const Version = "1.0"

// ChartType is the chart family.
type ChartType string

const (
	ChartLine      ChartType = "line"
	ChartScatter   ChartType = "scatter"
	ChartBar       ChartType = "bar"
	ChartHistogram ChartType = "histogram"
	ChartBox       ChartType = "box"
	ChartHeatmap   ChartType = "heatmap"
	ChartPie       ChartType = "pie"
	ChartArea      ChartType = "area"
)

// ChartTypes lists every supported family in schema order.
var ChartTypes = []ChartType{
	ChartLine, ChartScatter, ChartBar, ChartHistogram,
	ChartBox, ChartHeatmap, ChartPie, ChartArea,
}

// IsScatterFamily reports whether the family renders as a Plotly scatter trace.
func (c ChartType) IsScatterFamily() bool {
	return c == ChartLine || c == ChartScatter || c == ChartArea
}

// Mode is the draw mode for scatter-family charts.
type Mode string

const (
	ModeLines        Mode = "lines"
	ModeMarkers      Mode = "markers"
	ModeLinesMarkers Mode = "lines+markers"
)

// HasLines reports whether the mode draws connecting lines.
func (m Mode) HasLines() bool {
	return m == ModeLines || m == ModeLinesMarkers
}

// Orientation selects the bar value axis.
type Orientation string

const (
	OrientationVertical   Orientation = "v"
	OrientationHorizontal Orientation = "h"
)

// BarMode is the layout-level bar arrangement.
type BarMode string

const (
	BarModeGroup    BarMode = "group"
	BarModeStack    BarMode = "stack"
	BarModeRelative BarMode = "relative"
)

// HistNorm is the histogram normalization.
type HistNorm string

const (
	HistNormNone        HistNorm = "none"
	HistNormPercent     HistNorm = "percent"
	HistNormProbability HistNorm = "probability"
	HistNormDensity     HistNorm = "density"
)

// HoverMode is the layout hover behavior.
type HoverMode string

const (
	HoverX        HoverMode = "x"
	HoverY        HoverMode = "y"
	HoverClosest  HoverMode = "closest"
	HoverXUnified HoverMode = "x unified"
	HoverYUnified HoverMode = "y unified"
)

// LineShape is the line interpolation.
type LineShape string

const (
	LineShapeLinear LineShape = "linear"
	LineShapeSpline LineShape = "spline"
)

// Defaults applied during normalization.
const (
	DefaultMarkerSize = 6
	DefaultOpacity    = 0.9
	DefaultHeight     = 450
)

// VizSpec is the top-level chart request.
type VizSpec struct {
	Version      string        `json:"version,omitempty"`
	Chart        ChartSpec     `json:"chart"`
	Data         DataSpec      `json:"data"`
	Layout       *LayoutSpec   `json:"layout,omitempty"`
	PlotlyConfig *PlotlyConfig `json:"plotly_config,omitempty"`
}

// ChartSpec selects the family and its family-specific modifiers.
type ChartSpec struct {
	Type        ChartType   `json:"type"`
	Mode        Mode        `json:"mode,omitempty"`
	Orientation Orientation `json:"orientation,omitempty"`
	BarMode     BarMode     `json:"barmode,omitempty"`
	HistNorm    HistNorm    `json:"histnorm,omitempty"`
}

// DataSpec binds the chart to table columns.
type DataSpec struct {
	FrameName string     `json:"frame_name,omitempty"`
	X         string     `json:"x,omitempty"`
	Y         *ColumnRef `json:"y,omitempty"`
	Z         string     `json:"z,omitempty"`
	Text      string     `json:"text,omitempty"`
	// Name is a static trace name used when a single ungrouped trace is produced.
	Name string `json:"name,omitempty"`

	Series    *SeriesSpec    `json:"series,omitempty"`
	Axis      *AxisSpec      `json:"axis,omitempty"`
	Encodings *EncodingsSpec `json:"encodings,omitempty"`
	Labels    *LabelsSpec    `json:"labels,omitempty"`
	Colors    *ColorsSpec    `json:"colors,omitempty"`
}

// SeriesSpec names the group-by column.
type SeriesSpec struct {
	By string `json:"by,omitempty"`
}

// AxisSpec routes y columns to the secondary axis and groups area fills.
type AxisSpec struct {
	Y2For          []string `json:"y2_for,omitempty"`
	AreaStackGroup string   `json:"area_stackgroup,omitempty"`
}

// EncodingsSpec holds cosmetic trace encodings.
type EncodingsSpec struct {
	MarkerSize *int      `json:"marker_size,omitempty"`
	Opacity    *float64  `json:"opacity,omitempty"`
	LineShape  LineShape `json:"line_shape,omitempty"`
}

// LabelsSpec maps y columns and series keys to display names.
type LabelsSpec struct {
	Y      map[string]string `json:"y,omitempty"`
	Series map[string]string `json:"series,omitempty"`
}

// ColorsSpec maps trace keys to colors.
type ColorsSpec struct {
	ColorMap map[string]string `json:"color_map,omitempty"`
}

// LayoutSpec carries presentation settings.
type LayoutSpec struct {
	Title       string         `json:"title,omitempty"`
	XAxisTitle  string         `json:"xaxis_title,omitempty"`
	YAxisTitle  string         `json:"yaxis_title,omitempty"`
	YAxis2Title string         `json:"yaxis2_title,omitempty"`
	HoverMode   HoverMode      `json:"hovermode,omitempty"`
	Template    string         `json:"template,omitempty"`
	Colorway    []string       `json:"colorway,omitempty"`
	Legend      map[string]any `json:"legend,omitempty"`
	Height      *int           `json:"height,omitempty"`
	Width       *int           `json:"width,omitempty"`
}

// PlotlyConfig is passed through to the rendering surface.
type PlotlyConfig struct {
	Responsive             *bool    `json:"responsive,omitempty"`
	DisplayModeBar         *bool    `json:"displayModeBar,omitempty"`
	DisplayLogo            *bool    `json:"displaylogo,omitempty"`
	ScrollZoom             *bool    `json:"scrollZoom,omitempty"`
	ModeBarButtonsToRemove []string `json:"modeBarButtonsToRemove,omitempty"`
}

// ColumnRef is a y binding: either one column name or an ordered list.
// A nil *ColumnRef means y is unbound.
type ColumnRef struct {
	names []string
	list  bool
}

// Column returns a single-column reference.
func Column(name string) *ColumnRef {
	return &ColumnRef{names: []string{name}}
}

// Columns returns a list reference.
func Columns(names ...string) *ColumnRef {
	return &ColumnRef{names: append([]string(nil), names...), list: true}
}

// IsList reports whether y was given as a list.
func (c *ColumnRef) IsList() bool {
	return c != nil && c.list
}

// Names returns the referenced columns in order.
func (c *ColumnRef) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

// First returns the single column, or the first list entry.
func (c *ColumnRef) First() string {
	if c == nil || len(c.names) == 0 {
		return ""
	}
	return c.names[0]
}

// Contains reports whether name is referenced.
func (c *ColumnRef) Contains(name string) bool {
	if c == nil {
		return false
	}
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

// Equal reports whether both references bind the same columns in the same form.
func (c *ColumnRef) Equal(o *ColumnRef) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.list != o.list || len(c.names) != len(o.names) {
		return false
	}
	for i := range c.names {
		if c.names[i] != o.names[i] {
			return false
		}
	}
	return true
}

func (c *ColumnRef) MarshalJSON() ([]byte, error) {
	if c.list {
		return json.Marshal(c.names)
	}
	return json.Marshal(c.First())
}

func (c *ColumnRef) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		c.names = []string{single}
		c.list = false
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("y must be a column name or a list of column names")
	}
	c.names = many
	c.list = true
	return nil
}

// YColumns returns the y binding flattened to a list.
func (s *VizSpec) YColumns() []string {
	return s.Data.Y.Names()
}

// SeriesBy returns the group-by column, or "".
func (s *VizSpec) SeriesBy() string {
	if s.Data.Series == nil {
		return ""
	}
	return s.Data.Series.By
}

// ReferencedColumns returns every column name the spec binds (x, y..., z,
// text, series.by) in that order, without duplicates.
func (s *VizSpec) ReferencedColumns() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	add(s.Data.X)
	for _, y := range s.YColumns() {
		add(y)
	}
	add(s.Data.Z)
	add(s.Data.Text)
	add(s.SeriesBy())
	return out
}

// Canonical returns the normalized JSON form of the spec.
func (s *VizSpec) Canonical() ([]byte, error) {
	return json.Marshal(s)
}
