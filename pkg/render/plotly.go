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
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/teradata-labs/vizc/pkg/compiler"
)

// DefaultPlotlyJSURL is the plotly.js bundle the HTML renderer loads.
const DefaultPlotlyJSURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// JSONRenderer writes the payload as JSON.
type JSONRenderer struct {
	Pretty bool
}

func (r *JSONRenderer) Name() string        { return "plotly-json" }
func (r *JSONRenderer) ContentType() string { return "application/json" }

func (r *JSONRenderer) Render(w io.Writer, p *compiler.Payload) error {
	data, err := marshal(p, r.Pretty)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// HTMLRenderer writes a standalone page that draws the figure with plotly.js.
type HTMLRenderer struct {
	PlotlyJSURL string
}

func (r *HTMLRenderer) Name() string        { return "plotly-html" }
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <script src="{{.PlotlyJSURL}}"></script>
</head>
<body>
    <div id="{{.DivID}}" style="width:100%;height:100vh;"></div>
    <script>
        (function() {
            var payload = {{.Payload}};
            Plotly.newPlot({{.DivID}}, payload.figure.data, payload.figure.layout, payload.plotly_config);
        })();
    </script>
</body>
</html>
`))

type pageData struct {
	Title       string
	PlotlyJSURL string
	DivID       string
	Payload     template.JS
}

func (r *HTMLRenderer) Render(w io.Writer, p *compiler.Payload) error {
	data, err := marshal(p, false)
	if err != nil {
		return err
	}

	title := "vizc figure"
	if t := p.Figure.Layout.Title; t != nil && t.Text != "" {
		title = t.Text
	}
	url := r.PlotlyJSURL
	if url == "" {
		url = DefaultPlotlyJSURL
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{
		Title:       title,
		PlotlyJSURL: url,
		DivID:       "viz-" + uuid.NewString(),
		Payload:     template.JS(scriptSafe(data)), // #nosec -- JSON with <, >, & escaped
	}); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// scriptSafe escapes <, > and & so JSON can sit inside a <script> element
// without closing it early. JSON.parse reads the escapes transparently.
func scriptSafe(data []byte) string {
	s := strings.TrimSpace(string(data))
	s = strings.ReplaceAll(s, "<", `\u003c`)
	s = strings.ReplaceAll(s, ">", `\u003e`)
	return strings.ReplaceAll(s, "&", `\u0026`)
}

// marshal encodes v without HTML escaping, optionally indented, with a
// trailing newline.
func marshal(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return buf.Bytes(), nil
}
