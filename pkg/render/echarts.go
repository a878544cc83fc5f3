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

package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/teradata-labs/vizc/pkg/compiler"
	"github.com/teradata-labs/vizc/pkg/table"
)

// EChartsRenderer translates a Plotly figure into an ECharts option.
// Histogram and box traces have no direct ECharts series and are rejected
// with ErrUnsupportedTrace.
type EChartsRenderer struct {
	style  *StyleConfig
	pretty bool
}

// NewEChartsRenderer creates an ECharts renderer. A nil style uses the dark theme.
func NewEChartsRenderer(style *StyleConfig, pretty bool) *EChartsRenderer {
	if style == nil {
		style = DefaultStyleConfig()
	}
	return &EChartsRenderer{style: style, pretty: pretty}
}

func (r *EChartsRenderer) Name() string        { return "echarts-json" }
func (r *EChartsRenderer) ContentType() string { return "application/json" }

func (r *EChartsRenderer) Render(w io.Writer, p *compiler.Payload) error {
	option, err := r.Option(&p.Figure)
	if err != nil {
		return err
	}
	data, err := marshal(option, r.pretty)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Option builds the ECharts option for fig.
func (r *EChartsRenderer) Option(fig *compiler.Figure) (map[string]interface{}, error) {
	family := ""
	for _, tr := range fig.Data {
		f, err := traceFamily(tr.Type)
		if err != nil {
			return nil, err
		}
		if family != "" && f != family {
			return nil, fmt.Errorf("%w: cannot mix %s and %s traces", ErrUnsupportedTrace, family, f)
		}
		family = f
	}

	option := r.baseOption(&fig.Layout)
	switch family {
	case "pie":
		r.pieOption(option, fig)
	case "heatmap":
		r.heatmapOption(option, fig)
	default:
		r.cartesianOption(option, fig)
	}
	return option, nil
}

func traceFamily(traceType string) (string, error) {
	switch traceType {
	case "scatter", "bar":
		return "cartesian", nil
	case "pie", "heatmap":
		return traceType, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedTrace, traceType)
	}
}

func (r *EChartsRenderer) baseOption(layout *compiler.Layout) map[string]interface{} {
	palette := r.style.ColorPalette
	if len(layout.Colorway) > 0 {
		palette = layout.Colorway
	}
	option := map[string]interface{}{
		"backgroundColor":   r.style.ColorBackground,
		"animation":         true,
		"animationDuration": r.style.AnimationDuration,
		"animationEasing":   r.style.AnimationEasing,
		"color":             palette,
		"textStyle": map[string]interface{}{
			"fontFamily": r.style.FontFamily,
		},
	}
	if layout.Title != nil && layout.Title.Text != "" {
		option["title"] = map[string]interface{}{
			"text": layout.Title.Text,
			"textStyle": map[string]interface{}{
				"color":    r.style.ColorText,
				"fontSize": r.style.FontSizeTitle,
			},
		}
	}
	return option
}

func (r *EChartsRenderer) cartesianOption(option map[string]interface{}, fig *compiler.Figure) {
	horizontal := false
	for _, tr := range fig.Data {
		if tr.Type == "bar" && tr.Orientation == "h" {
			horizontal = true
		}
	}

	// The category side is x, or y for horizontal bars.
	categoriesOf := func(tr compiler.Trace) ([]any, []any) {
		cats, vals := tr.X, tr.Y
		if horizontal {
			cats, vals = tr.Y, tr.X
		}
		if cats == nil {
			cats = indexes(len(vals))
		}
		return cats, vals
	}

	numeric := true
	var categories []string
	seen := make(map[string]bool)
	for _, tr := range fig.Data {
		cats, _ := categoriesOf(tr)
		for _, c := range cats {
			if c == nil {
				continue
			}
			if _, ok := toFloat64(c); !ok {
				numeric = false
			}
			s := table.FormatValue(c)
			if !seen[s] {
				seen[s] = true
				categories = append(categories, s)
			}
		}
	}

	barMode := fig.Layout.BarMode
	var series []interface{}
	var names []string
	for _, tr := range fig.Data {
		cats, vals := categoriesOf(tr)
		data := make([]interface{}, 0, len(vals))
		for i, v := range vals {
			if i >= len(cats) || cats[i] == nil {
				continue
			}
			var cat interface{} = table.FormatValue(cats[i])
			if numeric {
				cat, _ = toFloat64(cats[i])
			}
			if horizontal {
				data = append(data, []interface{}{v, cat})
			} else {
				data = append(data, []interface{}{cat, v})
			}
		}

		s := r.traceSeries(tr, barMode)
		s["data"] = data
		if tr.YAxis == "y2" {
			s["yAxisIndex"] = 1
		}
		series = append(series, s)
		if tr.Name != "" {
			names = append(names, tr.Name)
		}
	}

	catAxis := r.axis("category", axisTitle(fig.Layout.XAxis))
	if numeric {
		catAxis = r.axis("value", axisTitle(fig.Layout.XAxis))
	} else {
		catAxis["data"] = categories
	}
	valAxis := r.axis("value", axisTitle(fig.Layout.YAxis))
	valAxis["splitLine"] = r.splitLineStyle()

	var yAxis interface{} = valAxis
	if fig.Layout.YAxis2 != nil && !horizontal {
		secondary := r.axis("value", axisTitle(fig.Layout.YAxis2))
		secondary["position"] = "right"
		yAxis = []interface{}{valAxis, secondary}
	}

	if horizontal {
		option["xAxis"], option["yAxis"] = valAxis, catAxis
	} else {
		option["xAxis"], option["yAxis"] = catAxis, yAxis
	}
	option["grid"] = r.gridConfig()
	option["tooltip"] = r.tooltipConfig("axis")
	option["series"] = series
	if len(names) > 0 {
		option["legend"] = r.legendConfig(names)
	}
}

// traceSeries maps trace styling onto an ECharts series without its data.
func (r *EChartsRenderer) traceSeries(tr compiler.Trace, barMode string) map[string]interface{} {
	s := map[string]interface{}{"name": tr.Name}
	color := ""
	if tr.Marker != nil && tr.Marker.Color != "" {
		color = tr.Marker.Color
	} else if tr.Line != nil && tr.Line.Color != "" {
		color = tr.Line.Color
	}
	itemStyle := map[string]interface{}{}

	if tr.Type == "bar" {
		s["type"] = "bar"
		switch barMode {
		case "stack", "relative":
			s["stack"] = "total"
		case "overlay":
			s["barGap"] = "-100%"
		}
		if color != "" {
			itemStyle["color"] = map[string]interface{}{
				"type": "linear",
				"x":    0,
				"y":    0,
				"x2":   0,
				"y2":   1,
				"colorStops": []interface{}{
					map[string]interface{}{"offset": 0, "color": color},
					map[string]interface{}{"offset": 1, "color": darkenColor(color, 0.2)},
				},
			}
		}
		itemStyle["borderRadius"] = []int{4, 4, 0, 0}
	} else {
		lines := strings.Contains(tr.Mode, "lines")
		if lines {
			s["type"] = "line"
			s["showSymbol"] = strings.Contains(tr.Mode, "markers")
			lineStyle := map[string]interface{}{"width": 2}
			if color != "" {
				lineStyle["color"] = color
			}
			s["lineStyle"] = lineStyle
			if tr.Line != nil {
				applyLineShape(s, tr.Line.Shape)
			}
		} else {
			s["type"] = "scatter"
		}
		if tr.Marker != nil && tr.Marker.Size != nil {
			s["symbolSize"] = *tr.Marker.Size
		}
		if tr.Fill != "" {
			s["areaStyle"] = map[string]interface{}{"opacity": 0.4}
		}
		if tr.StackGroup != "" {
			s["stack"] = tr.StackGroup
		}
		if color != "" {
			itemStyle["color"] = color
		}
	}

	if tr.Opacity != nil {
		itemStyle["opacity"] = *tr.Opacity
	}
	if len(itemStyle) > 0 {
		s["itemStyle"] = itemStyle
	}
	if r.style.ShadowBlur > 0 && color != "" {
		s["emphasis"] = map[string]interface{}{
			"itemStyle": map[string]interface{}{
				"shadowBlur":  r.style.ShadowBlur * 2,
				"shadowColor": withAlpha(color, 0x99),
			},
		}
	}
	return s
}

func applyLineShape(series map[string]interface{}, shape string) {
	switch shape {
	case "spline":
		series["smooth"] = true
	case "hv":
		series["step"] = "end"
	case "vh":
		series["step"] = "start"
	case "hvh", "vhv":
		series["step"] = "middle"
	}
}

func (r *EChartsRenderer) pieOption(option map[string]interface{}, fig *compiler.Figure) {
	var series []interface{}
	var names []string
	for _, tr := range fig.Data {
		data := make([]interface{}, 0, len(tr.Labels))
		for i, label := range tr.Labels {
			if i >= len(tr.Values) {
				break
			}
			name := table.FormatValue(label)
			item := map[string]interface{}{"name": name, "value": tr.Values[i]}
			if tr.Marker != nil && i < len(tr.Marker.Colors) && tr.Marker.Colors[i] != nil {
				item["itemStyle"] = map[string]interface{}{"color": tr.Marker.Colors[i]}
			}
			data = append(data, item)
			names = append(names, name)
		}

		s := map[string]interface{}{
			"type":   "pie",
			"name":   tr.Name,
			"radius": "55%",
			"center": []string{"50%", "50%"},
			"data":   data,
			"label": map[string]interface{}{
				"color":      r.style.ColorText,
				"fontFamily": r.style.FontFamily,
				"fontSize":   r.style.FontSizeLabel,
			},
		}
		if tr.Opacity != nil {
			s["itemStyle"] = map[string]interface{}{"opacity": *tr.Opacity}
		}
		series = append(series, s)
	}

	legend := r.legendConfig(names)
	legend["orient"] = "vertical"
	legend["left"] = "left"
	option["legend"] = legend
	option["tooltip"] = r.tooltipConfig("item")
	option["series"] = series
}

func (r *EChartsRenderer) heatmapOption(option map[string]interface{}, fig *compiler.Figure) {
	tr := fig.Data[0]

	width := 0
	for _, row := range tr.Z {
		width = max(width, len(row))
	}
	xs := labels(tr.X, width)
	ys := labels(tr.Y, len(tr.Z))

	lo, hi := math.Inf(1), math.Inf(-1)
	var data []interface{}
	for yi, row := range tr.Z {
		for xi, v := range row {
			f, ok := toFloat64(v)
			if !ok {
				continue
			}
			lo, hi = math.Min(lo, f), math.Max(hi, f)
			data = append(data, []interface{}{xi, yi, v})
		}
	}
	if len(data) == 0 {
		lo, hi = 0, 0
	}

	from := r.style.ColorPrimary
	if len(r.style.ColorPalette) > 1 {
		from = r.style.ColorPalette[1]
	}

	option["grid"] = r.gridConfig()
	option["tooltip"] = r.tooltipConfig("item")
	option["xAxis"] = r.categoryAxis(xs, axisTitle(fig.Layout.XAxis))
	option["yAxis"] = r.categoryAxis(ys, axisTitle(fig.Layout.YAxis))
	option["visualMap"] = map[string]interface{}{
		"min":        lo,
		"max":        hi,
		"calculable": true,
		"orient":     "horizontal",
		"left":       "center",
		"bottom":     0,
		"inRange": map[string]interface{}{
			"color": gradient(from, r.style.ColorPrimary, 5),
		},
		"textStyle": map[string]interface{}{"color": r.style.ColorTextMuted},
	}
	option["series"] = []interface{}{
		map[string]interface{}{
			"type": "heatmap",
			"name": tr.Name,
			"data": data,
		},
	}
}

func (r *EChartsRenderer) categoryAxis(data []string, title string) map[string]interface{} {
	axis := r.axis("category", title)
	axis["data"] = data
	return axis
}

func (r *EChartsRenderer) axis(kind, title string) map[string]interface{} {
	axis := map[string]interface{}{
		"type": kind,
		"axisLine": map[string]interface{}{
			"lineStyle": map[string]interface{}{
				"color": r.style.ColorBorder,
			},
		},
		"axisLabel": r.labelStyle(),
	}
	if title != "" {
		axis["name"] = title
		axis["nameLocation"] = "middle"
		axis["nameGap"] = 30
		axis["nameTextStyle"] = r.labelStyle()
	}
	return axis
}

func (r *EChartsRenderer) gridConfig() map[string]interface{} {
	return map[string]interface{}{
		"left":         "3%",
		"right":        "4%",
		"bottom":       "10%",
		"containLabel": true,
	}
}

func (r *EChartsRenderer) tooltipConfig(trigger string) map[string]interface{} {
	return map[string]interface{}{
		"trigger":         trigger,
		"backgroundColor": r.style.ColorGlass,
		"borderColor":     r.style.ColorPrimary,
		"borderWidth":     1,
		"textStyle": map[string]interface{}{
			"color":      r.style.ColorText,
			"fontFamily": r.style.FontFamily,
			"fontSize":   r.style.FontSizeTooltip,
		},
	}
}

func (r *EChartsRenderer) legendConfig(names []string) map[string]interface{} {
	return map[string]interface{}{
		"data": names,
		"textStyle": map[string]interface{}{
			"color":      r.style.ColorText,
			"fontFamily": r.style.FontFamily,
			"fontSize":   r.style.FontSizeLabel,
		},
	}
}

func (r *EChartsRenderer) labelStyle() map[string]interface{} {
	return map[string]interface{}{
		"color":      r.style.ColorTextMuted,
		"fontFamily": r.style.FontFamily,
		"fontSize":   r.style.FontSizeLabel,
	}
}

func (r *EChartsRenderer) splitLineStyle() map[string]interface{} {
	return map[string]interface{}{
		"lineStyle": map[string]interface{}{
			"color": r.style.ColorBorder,
			"type":  "dashed",
		},
	}
}

func axisTitle(axis *compiler.Axis) string {
	if axis == nil || axis.Title == nil {
		return ""
	}
	return axis.Title.Text
}

// labels formats axis labels, falling back to positions when absent.
func labels(values []any, n int) []string {
	if len(values) == 0 {
		out := make([]string, n)
		for i := range out {
			out[i] = table.FormatValue(i)
		}
		return out
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = table.FormatValue(v)
	}
	return out
}

func indexes(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}
