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
	"math"

	"go.uber.org/zap"

	"github.com/teradata-labs/vizc/pkg/table"
	"github.com/teradata-labs/vizc/pkg/vizspec"
)

// buildInput is everything a trace builder may read.
type buildInput struct {
	table       *table.Table
	spec        *vizspec.VizSpec
	series      []Series
	resolvers   Resolvers
	coerceDates bool
	logger      *zap.Logger
}

// column returns the named column, or nil when name is empty.
func (in *buildInput) column(name string) []any {
	if name == "" {
		return nil
	}
	values, _ := in.table.Column(name)
	return values
}

// traceBuilder turns bound series into traces for one chart family.
type traceBuilder func(in *buildInput) ([]Trace, error)

// builders dispatches on chart family.
var builders = map[vizspec.ChartType]traceBuilder{
	vizspec.ChartLine:      buildScatter,
	vizspec.ChartScatter:   buildScatter,
	vizspec.ChartArea:      buildScatter,
	vizspec.ChartBar:       buildBar,
	vizspec.ChartHistogram: buildHistogram,
	vizspec.ChartBox:       buildBox,
	vizspec.ChartHeatmap:   buildHeatmap,
	vizspec.ChartPie:       buildPie,
}

// styling capabilities per Plotly trace type.
type capabilities struct {
	markerSize  bool
	markerColor bool
	lineShape   bool
	lineColor   bool
	opacity     bool
}

var traceCapabilities = map[string]capabilities{
	"scatter":   {markerSize: true, markerColor: true, lineShape: true, lineColor: true, opacity: true},
	"bar":       {markerColor: true, opacity: true},
	"histogram": {markerColor: true, opacity: true},
	"box":       {markerSize: true, markerColor: true, lineColor: true, opacity: true},
	"pie":       {opacity: true},
	"heatmap":   {},
}

// style applies encodings and the resolved color to a trace.
func (in *buildInput) style(tr *Trace, key TraceKey) {
	caps := traceCapabilities[tr.Type]

	if enc := in.spec.Data.Encodings; enc != nil {
		if caps.opacity && enc.Opacity != nil {
			v := *enc.Opacity
			tr.Opacity = &v
		}
		if caps.markerSize && enc.MarkerSize != nil {
			v := *enc.MarkerSize
			marker(tr).Size = &v
		}
		if caps.lineShape && enc.LineShape != "" {
			line(tr).Shape = string(enc.LineShape)
		}
	}

	if !caps.markerColor && !caps.lineColor {
		return
	}
	color, ok := in.resolvers.Colors.ColorFor(key, tr.Name)
	if !ok {
		return
	}
	if caps.markerColor {
		marker(tr).Color = color
	}
	if caps.lineColor {
		line(tr).Color = color
	}
}

// route applies the axis router to a trace.
func (in *buildInput) route(tr *Trace, yColumn string) {
	if in.resolvers.Axes.RouteYAxis(yColumn) == "y2" {
		tr.YAxis = "y2"
	}
}

func marker(tr *Trace) *Marker {
	if tr.Marker == nil {
		tr.Marker = &Marker{}
	}
	return tr.Marker
}

func line(tr *Trace) *Line {
	if tr.Line == nil {
		tr.Line = &Line{}
	}
	return tr.Line
}

// buildScatter handles line, scatter and area.
func buildScatter(in *buildInput) ([]Trace, error) {
	spec := in.spec
	d := spec.Data

	xs := in.column(d.X)
	if xs != nil && in.coerceDates {
		if coerced, ok := coerceDates(xs); ok {
			xs = coerced
		} else {
			in.logger.Debug("x column left as-is; not parseable as dates", zap.String("column", d.X))
		}
	}
	texts := in.column(d.Text)

	traces := make([]Trace, 0, len(in.series))
	for _, s := range in.series {
		tr := Trace{
			Type: "scatter",
			Mode: string(spec.Chart.Mode),
		}
		if spec.Chart.Type == vizspec.ChartArea {
			tr.Fill = "tozeroy"
			if d.Axis != nil {
				tr.StackGroup = d.Axis.AreaStackGroup
			}
		}
		if xs != nil {
			tr.X = pick(xs, s.Rows)
		}
		if ys := in.column(s.Key.YColumn); ys != nil {
			tr.Y = pick(ys, s.Rows)
		}
		if texts != nil {
			tr.Text = pick(texts, s.Rows)
		}
		tr.Name = in.resolvers.Names.Name(s.Key)
		in.style(&tr, s.Key)
		in.route(&tr, s.Key.YColumn)
		traces = append(traces, tr)
	}
	return traces, nil
}

// buildBar emits one bar trace per series. Horizontal orientation swaps the
// category and value arrays.
func buildBar(in *buildInput) ([]Trace, error) {
	d := in.spec.Data
	if d.Y == nil {
		return nil, newError(KindMissingBinding, "bar requires y (values)")
	}
	horizontal := in.spec.Chart.Orientation == vizspec.OrientationHorizontal

	categories := in.column(d.X)
	texts := in.column(d.Text)

	traces := make([]Trace, 0, len(in.series))
	for _, s := range in.series {
		tr := Trace{Type: "bar"}
		var cats []any
		if categories != nil {
			cats = pick(categories, s.Rows)
		}
		values := pick(in.column(s.Key.YColumn), s.Rows)
		if horizontal {
			tr.Orientation = string(vizspec.OrientationHorizontal)
			tr.X, tr.Y = values, cats
		} else {
			tr.X, tr.Y = cats, values
		}
		if texts != nil {
			tr.Text = pick(texts, s.Rows)
		}
		tr.Name = in.resolvers.Names.Name(s.Key)
		in.style(&tr, s.Key)
		in.route(&tr, s.Key.YColumn)
		traces = append(traces, tr)
	}
	return traces, nil
}

// buildHistogram emits a single trace over x, or over the first y when x is
// unbound (a horizontal histogram).
func buildHistogram(in *buildInput) ([]Trace, error) {
	d := in.spec.Data
	all := allRows(in.table.Len())

	tr := Trace{Type: "histogram"}
	var key TraceKey
	if d.X != "" {
		tr.X = pick(in.column(d.X), all)
		key = TraceKey{YColumn: d.X}
	} else {
		col := d.Y.First()
		tr.Y = pick(in.column(col), all)
		key = TraceKey{YColumn: col, ListY: d.Y.IsList()}
	}
	if h := in.spec.Chart.HistNorm; h != "" && h != vizspec.HistNormNone {
		tr.HistNorm = string(h)
	}
	tr.Name = in.resolvers.Names.Name(key)
	in.style(&tr, key)
	return []Trace{tr}, nil
}

// buildBox emits one box per series: one per group with series.by, one per
// column with a list y. A bound x is kept on every trace.
func buildBox(in *buildInput) ([]Trace, error) {
	d := in.spec.Data
	if d.Y == nil {
		return nil, newError(KindMissingBinding, "box requires y (values)")
	}
	xs := in.column(d.X)
	texts := in.column(d.Text)

	traces := make([]Trace, 0, len(in.series))
	for _, s := range in.series {
		tr := Trace{
			Type:      "box",
			BoxPoints: "outliers",
			Y:         pick(in.column(s.Key.YColumn), s.Rows),
		}
		if xs != nil {
			tr.X = pick(xs, s.Rows)
		}
		if texts != nil {
			tr.Text = pick(texts, s.Rows)
		}
		tr.Name = in.resolvers.Names.Name(s.Key)
		in.style(&tr, s.Key)
		traces = append(traces, tr)
	}
	return traces, nil
}

// buildHeatmap pivots long-form (x, y, z) rows into a dense matrix, or uses
// a pre-shaped matrix table directly. It never aggregates.
func buildHeatmap(in *buildInput) ([]Trace, error) {
	if in.table.IsMatrix() {
		return matrixHeatmap(in.table)
	}

	d := in.spec.Data
	xs := in.column(d.X)
	ys := in.column(d.Y.First())
	zs := in.column(d.Z)

	type cell struct{ x, y string }
	var xOrder, yOrder []string
	xIndex := make(map[string]int)
	yIndex := make(map[string]int)
	seen := make(map[cell]bool)
	var cells []cell
	var values []any

	for i := range xs {
		if xs[i] == nil || ys[i] == nil {
			continue
		}
		c := cell{x: table.FormatValue(xs[i]), y: table.FormatValue(ys[i])}
		if seen[c] {
			return nil, newError(KindAmbiguousAggregation,
				"heatmap long-form requires unique (x,y) pairs; duplicate (%s=%s, %s=%s); pre-aggregate upstream",
				d.X, c.x, d.Y.First(), c.y)
		}
		seen[c] = true
		if _, ok := xIndex[c.x]; !ok {
			xIndex[c.x] = len(xOrder)
			xOrder = append(xOrder, c.x)
		}
		if _, ok := yIndex[c.y]; !ok {
			yIndex[c.y] = len(yOrder)
			yOrder = append(yOrder, c.y)
		}
		cells = append(cells, c)
		values = append(values, wireValue(zs[i]))
	}

	z := make([][]any, len(yOrder))
	for r := range z {
		z[r] = make([]any, len(xOrder))
	}
	for i, c := range cells {
		z[yIndex[c.y]][xIndex[c.x]] = values[i]
	}

	return []Trace{{
		Type: "heatmap",
		X:    stringsToAny(xOrder),
		Y:    stringsToAny(yOrder),
		Z:    z,
	}}, nil
}

func matrixHeatmap(tbl *table.Table) ([]Trace, error) {
	m, xLabels, yLabels := tbl.Matrix()
	width := -1
	z := make([][]any, len(m))
	for r, row := range m {
		if width >= 0 && len(row) != width {
			return nil, newError(KindInvalidShape,
				"heatmap matrix is not rectangular: row %d has %d values, expected %d", r, len(row), width)
		}
		width = len(row)
		z[r] = make([]any, len(row))
		for c, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			z[r][c] = v
		}
	}
	if len(xLabels) > 0 && len(xLabels) != max(width, 0) {
		return nil, newError(KindInvalidShape, "heatmap has %d x labels for %d columns", len(xLabels), width)
	}
	if len(yLabels) > 0 && len(yLabels) != len(m) {
		return nil, newError(KindInvalidShape, "heatmap has %d y labels for %d rows", len(yLabels), len(m))
	}

	tr := Trace{Type: "heatmap", Z: z}
	if len(xLabels) > 0 {
		tr.X = stringsToAny(xLabels)
	}
	if len(yLabels) > 0 {
		tr.Y = stringsToAny(yLabels)
	}
	return []Trace{tr}, nil
}

// buildPie requires labels (x) and values (first y).
func buildPie(in *buildInput) ([]Trace, error) {
	d := in.spec.Data
	valueCol := d.Y.First()
	if d.X == "" || valueCol == "" {
		return nil, newError(KindMissingBinding, "pie requires x (labels) and y (values)")
	}
	all := allRows(in.table.Len())

	key := TraceKey{YColumn: valueCol, ListY: d.Y.IsList()}
	sortSlices := false
	tr := Trace{
		Type:   "pie",
		Labels: pick(in.column(d.X), all),
		Values: pick(in.column(valueCol), all),
		Sort:   &sortSlices,
	}
	if texts := in.column(d.Text); texts != nil {
		tr.Text = pick(texts, all)
	}
	tr.Name = in.resolvers.Names.Name(key)
	in.style(&tr, key)

	// Slice colors are looked up by label.
	colors := make([]any, len(tr.Labels))
	mapped := false
	for i, label := range tr.Labels {
		name := table.FormatValue(label)
		if c, ok := in.resolvers.Colors.ColorFor(TraceKey{SeriesKey: name, Grouped: true}, name); ok {
			colors[i] = c
			mapped = true
		}
	}
	if mapped {
		marker(&tr).Colors = colors
	}
	return []Trace{tr}, nil
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
