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
	"encoding/json"
	"fmt"
	"os"

	"github.com/teradata-labs/vizc/pkg/vizspec"
)

// Payload is the compiler output handed to a rendering surface. Field names
// follow the Plotly figure JSON vocabulary.
type Payload struct {
	Figure         Figure         `json:"figure"`
	PlotlyConfig   map[string]any `json:"plotly_config"`
	VizSpecVersion string         `json:"viz_spec_version"`
}

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one Plotly trace. Only the fields relevant to its type are set.
type Trace struct {
	Type        string   `json:"type"`
	Name        string   `json:"name,omitempty"`
	X           []any    `json:"x,omitempty"`
	Y           []any    `json:"y,omitempty"`
	Z           [][]any  `json:"z,omitempty"`
	Labels      []any    `json:"labels,omitempty"`
	Values      []any    `json:"values,omitempty"`
	Text        []any    `json:"text,omitempty"`
	Mode        string   `json:"mode,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	Fill        string   `json:"fill,omitempty"`
	StackGroup  string   `json:"stackgroup,omitempty"`
	YAxis       string   `json:"yaxis,omitempty"`
	HistNorm    string   `json:"histnorm,omitempty"`
	BoxPoints   string   `json:"boxpoints,omitempty"`
	Sort        *bool    `json:"sort,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
	Marker      *Marker  `json:"marker,omitempty"`
	Line        *Line    `json:"line,omitempty"`
}

// Marker styles trace markers. Colors is the per-slice list used by pie.
type Marker struct {
	Size   *int   `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
	Colors []any  `json:"colors,omitempty"`
}

// Line styles trace lines.
type Line struct {
	Shape string `json:"shape,omitempty"`
	Color string `json:"color,omitempty"`
}

// Layout is the Plotly layout subset the compiler emits.
type Layout struct {
	Title     *Title         `json:"title,omitempty"`
	XAxis     *Axis          `json:"xaxis,omitempty"`
	YAxis     *Axis          `json:"yaxis,omitempty"`
	YAxis2    *Axis          `json:"yaxis2,omitempty"`
	HoverMode string         `json:"hovermode,omitempty"`
	Template  string         `json:"template,omitempty"`
	Colorway  []string       `json:"colorway,omitempty"`
	Legend    map[string]any `json:"legend,omitempty"`
	Height    *int           `json:"height,omitempty"`
	Width     *int           `json:"width,omitempty"`
	BarMode   string         `json:"barmode,omitempty"`
}

// Title is a Plotly title object.
type Title struct {
	Text string `json:"text"`
}

// Axis is a Plotly axis object.
type Axis struct {
	Title      *Title `json:"title,omitempty"`
	Overlaying string `json:"overlaying,omitempty"`
	Side       string `json:"side,omitempty"`
}

// UsesSecondaryAxis reports whether any trace is routed to y2.
func (f *Figure) UsesSecondaryAxis() bool {
	for _, tr := range f.Data {
		if tr.YAxis == "y2" {
			return true
		}
	}
	return false
}

func renderConfig(cfg *vizspec.PlotlyConfig) map[string]any {
	out := map[string]any{}
	if cfg == nil {
		return out
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			out[key] = *v
		}
	}
	setBool("responsive", cfg.Responsive)
	setBool("displayModeBar", cfg.DisplayModeBar)
	setBool("displaylogo", cfg.DisplayLogo)
	setBool("scrollZoom", cfg.ScrollZoom)
	if len(cfg.ModeBarButtonsToRemove) > 0 {
		out["modeBarButtonsToRemove"] = append([]string(nil), cfg.ModeBarButtonsToRemove...)
	}
	return out
}

// DecodePayload accepts either a compiler payload or a bare Plotly figure
// ({"data": [...], "layout": {...}}). A bare figure gets an empty config.
func DecodePayload(data []byte) (*Payload, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	if _, ok := probe["figure"]; ok {
		var p Payload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
		if p.PlotlyConfig == nil {
			p.PlotlyConfig = map[string]any{}
		}
		return &p, nil
	}

	if _, ok := probe["data"]; ok {
		var fig Figure
		if err := json.Unmarshal(data, &fig); err != nil {
			return nil, fmt.Errorf("failed to decode figure: %w", err)
		}
		return &Payload{Figure: fig, PlotlyConfig: map[string]any{}}, nil
	}

	return nil, fmt.Errorf("document is neither a payload nor a figure")
}

// LoadPayload reads a payload or bare figure from disk.
func LoadPayload(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return DecodePayload(data)
}
