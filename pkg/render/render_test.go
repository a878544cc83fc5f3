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
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/vizc/pkg/compiler"
	"github.com/teradata-labs/vizc/pkg/table"
	"github.com/teradata-labs/vizc/pkg/vizspec"
)

func compile(t *testing.T, columns []string, rows [][]any, raw string) *compiler.Payload {
	t.Helper()
	tbl, err := table.New(columns, rows)
	require.NoError(t, err)
	spec, err := vizspec.Parse(raw)
	require.NoError(t, err)
	p, err := compiler.New().Compile(tbl, spec)
	require.NoError(t, err)
	return p
}

func barPayload(t *testing.T) *compiler.Payload {
	return compile(t, []string{"store", "region", "sales"}, [][]any{
		{"A", "East", 10}, {"A", "West", 11}, {"B", "East", 20}, {"B", "West", 21},
	}, `{"chart": {"type": "bar", "barmode": "stack"}, "data": {"x": "store", "y": "sales", "series": {"by": "region"},
	     "colors": {"color_map": {"East": "#1f77b4"}}}, "layout": {"title": "Sales </script> & more"}}`)
}

func TestRegistry(t *testing.T) {
	r := NewDefaultRegistry(Options{})
	assert.Equal(t, []string{"echarts-json", "plotly-html", "plotly-json"}, r.Names())

	rr, err := r.Get("plotly-json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", rr.ContentType())

	_, err = r.Get("svg")
	assert.True(t, errors.Is(err, ErrUnknownRenderer))
	assert.Contains(t, err.Error(), "plotly-html")

	assert.Error(t, r.Register(&JSONRenderer{}))
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Render("plotly-json", io.Discard, nil))
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Register(&HTMLRenderer{})
		}()
		go func() {
			defer wg.Done()
			_ = r.Names()
			_, _ = r.Get("plotly-html")
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"plotly-html"}, r.Names())
}

func TestJSONRenderer(t *testing.T) {
	p := barPayload(t)

	var compact, pretty bytes.Buffer
	require.NoError(t, (&JSONRenderer{}).Render(&compact, p))
	require.NoError(t, (&JSONRenderer{Pretty: true}).Render(&pretty, p))

	assert.JSONEq(t, compact.String(), pretty.String())
	assert.Contains(t, pretty.String(), "\n  ")
	assert.Contains(t, compact.String(), "Sales </script> & more")

	decoded, err := compiler.DecodePayload(compact.Bytes())
	require.NoError(t, err)
	assert.Len(t, decoded.Figure.Data, 2)
	assert.Equal(t, "stack", decoded.Figure.Layout.BarMode)
}

func TestHTMLRenderer(t *testing.T) {
	p := barPayload(t)

	var buf bytes.Buffer
	require.NoError(t, (&HTMLRenderer{}).Render(&buf, p))
	page := buf.String()

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, DefaultPlotlyJSURL)
	assert.Contains(t, page, "Plotly.newPlot(")
	assert.Contains(t, page, `<title>Sales &lt;/script&gt; &amp; more</title>`)
	assert.Contains(t, page, `\u003c/script\u003e \u0026 more`)
	// Exactly one closing script tag per script element.
	assert.Equal(t, 2, strings.Count(page, "</script>"))

	var custom bytes.Buffer
	require.NoError(t, (&HTMLRenderer{PlotlyJSURL: "https://example.com/plotly.js"}).Render(&custom, p))
	assert.Contains(t, custom.String(), `src="https://example.com/plotly.js"`)
}

func TestEChartsRenderer_Bar(t *testing.T) {
	option, err := NewEChartsRenderer(nil, false).Option(&barPayload(t).Figure)
	require.NoError(t, err)

	assert.Equal(t, "Sales </script> & more", option["title"].(map[string]interface{})["text"])
	xAxis := option["xAxis"].(map[string]interface{})
	assert.Equal(t, "category", xAxis["type"])
	assert.Equal(t, []string{"A", "B"}, xAxis["data"])

	series := option["series"].([]interface{})
	require.Len(t, series, 2)
	east := series[0].(map[string]interface{})
	assert.Equal(t, "bar", east["type"])
	assert.Equal(t, "East", east["name"])
	assert.Equal(t, "total", east["stack"])
	assert.Equal(t, []interface{}{
		[]interface{}{"A", int64(10)},
		[]interface{}{"B", int64(20)},
	}, east["data"])
	assert.Contains(t, east, "itemStyle")

	legend := option["legend"].(map[string]interface{})
	assert.Equal(t, []string{"East", "West"}, legend["data"])
}

func TestEChartsRenderer_EmphasisShadowColor(t *testing.T) {
	p := compile(t, []string{"store", "region", "sales"}, [][]any{
		{"A", "East", 10}, {"A", "West", 11}, {"A", "North", 12},
	}, `{"chart": {"type": "bar"}, "data": {"x": "store", "y": "sales", "series": {"by": "region"},
	     "colors": {"color_map": {"East": "#1F77B4", "West": "red", "North": "#2ca02c80"}}}}`)

	option, err := NewEChartsRenderer(DefaultStyleConfig(), false).Option(&p.Figure)
	require.NoError(t, err)

	shadows := map[string]interface{}{}
	for _, raw := range option["series"].([]interface{}) {
		s := raw.(map[string]interface{})
		emphasis := s["emphasis"].(map[string]interface{})["itemStyle"].(map[string]interface{})
		shadows[s["name"].(string)] = emphasis["shadowColor"]
	}
	assert.Equal(t, "#1f77b499", shadows["East"])
	assert.Equal(t, "red", shadows["West"])
	assert.Equal(t, "#2ca02c80", shadows["North"])
}

func TestEChartsRenderer_LineDualAxis(t *testing.T) {
	p := compile(t, []string{"x", "a", "b"}, [][]any{{1, 1, 2}, {2, 3, 4}},
		`{"chart": {"type": "line", "mode": "lines+markers"}, "data": {"x": "x", "y": ["a", "b"], "axis": {"y2_for": ["b"]},
		  "encodings": {"line_shape": "spline"}}, "layout": {"xaxis_title": "X"}}`)

	option, err := NewEChartsRenderer(LightStyleConfig(), false).Option(&p.Figure)
	require.NoError(t, err)

	xAxis := option["xAxis"].(map[string]interface{})
	assert.Equal(t, "value", xAxis["type"])
	assert.Equal(t, "X", xAxis["name"])
	assert.Len(t, option["yAxis"], 2)

	series := option["series"].([]interface{})
	a := series[0].(map[string]interface{})
	b := series[1].(map[string]interface{})
	assert.Equal(t, "line", a["type"])
	assert.Equal(t, true, a["showSymbol"])
	assert.Equal(t, true, a["smooth"])
	assert.NotContains(t, a, "yAxisIndex")
	assert.Equal(t, 1, b["yAxisIndex"])
	assert.Equal(t, []interface{}{1.0, int64(1)}, a["data"].([]interface{})[0])
}

func TestEChartsRenderer_Pie(t *testing.T) {
	p := compile(t, []string{"c", "v"}, [][]any{{"A", 1}, {"B", 2}},
		`{"chart": {"type": "pie"}, "data": {"x": "c", "y": "v", "colors": {"color_map": {"A": "red"}}}}`)

	option, err := NewEChartsRenderer(nil, false).Option(&p.Figure)
	require.NoError(t, err)

	series := option["series"].([]interface{})
	require.Len(t, series, 1)
	data := series[0].(map[string]interface{})["data"].([]interface{})
	assert.Equal(t, map[string]interface{}{
		"name": "A", "value": int64(1), "itemStyle": map[string]interface{}{"color": "red"},
	}, data[0])
	assert.Equal(t, map[string]interface{}{"name": "B", "value": int64(2)}, data[1])
}

func TestEChartsRenderer_Heatmap(t *testing.T) {
	p := compile(t, []string{"x", "y", "z"}, [][]any{{"w1", "A", 3}, {"w2", "A", 5}, {"w1", "B", 1}},
		`{"chart": {"type": "heatmap"}, "data": {"x": "x", "y": "y", "z": "z"}}`)

	option, err := NewEChartsRenderer(nil, false).Option(&p.Figure)
	require.NoError(t, err)

	assert.Equal(t, []string{"w1", "w2"}, option["xAxis"].(map[string]interface{})["data"])
	assert.Equal(t, []string{"A", "B"}, option["yAxis"].(map[string]interface{})["data"])

	vm := option["visualMap"].(map[string]interface{})
	assert.Equal(t, 1.0, vm["min"])
	assert.Equal(t, 5.0, vm["max"])

	data := option["series"].([]interface{})[0].(map[string]interface{})["data"].([]interface{})
	// The missing (w2, B) cell is skipped.
	assert.Len(t, data, 3)
}

func TestEChartsRenderer_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		fig  compiler.Figure
	}{
		{name: "histogram", fig: compiler.Figure{Data: []compiler.Trace{{Type: "histogram"}}}},
		{name: "box", fig: compiler.Figure{Data: []compiler.Trace{{Type: "box"}}}},
		{name: "mixed", fig: compiler.Figure{Data: []compiler.Trace{{Type: "bar"}, {Type: "pie"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewEChartsRenderer(nil, false).Render(io.Discard, &compiler.Payload{Figure: tt.fig})
			assert.True(t, errors.Is(err, ErrUnsupportedTrace))
		})
	}
}

func TestStyleForTheme(t *testing.T) {
	dark, err := StyleForTheme("")
	require.NoError(t, err)
	assert.Equal(t, "transparent", dark.ColorBackground)

	light, err := StyleForTheme("Light")
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", light.ColorBackground)

	_, err = StyleForTheme("neon")
	assert.Error(t, err)

	assert.NotEqual(t, "#f37021", darkenColor("#f37021", 0.2))
	assert.Equal(t, "nope", darkenColor("nope", 0.2))
	assert.Equal(t, "#ff000040", withAlpha("#f00", 0x40))
	assert.Equal(t, "steelblue", withAlpha("steelblue", 0x40))
	assert.Len(t, gradient("#000000", "#ffffff", 5), 5)
}

func TestCreateOutput(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "out", "fig.json")
	w, err := CreateOutput(plain)
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"a":1}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	data, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	compressed := filepath.Join(dir, "fig.json.gz")
	w, err = CreateOutput(compressed)
	require.NoError(t, err)
	require.NoError(t, (&JSONRenderer{}).Render(w, barPayload(t)))
	require.NoError(t, w.Close())

	f, err := os.Open(compressed)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "figure")

	stdout, err := CreateOutput("-")
	require.NoError(t, err)
	assert.NoError(t, stdout.Close())
}
