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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teradata-labs/vizc/pkg/vizspec"
)

func TestDefaultResolvers_Names(t *testing.T) {
	spec := mustSpec(t, `{"chart": {"type": "line"}, "data": {"y": ["a", "b"], "name": "Static",
	  "labels": {"y": {"a": "Alpha"}, "series": {"na": "North America"}}}}`)
	names := DefaultResolvers(spec).Names

	tests := []struct {
		name string
		key  TraceKey
		want string
	}{
		{name: "series label", key: TraceKey{YColumn: "a", SeriesKey: "na", Grouped: true}, want: "North America"},
		{name: "raw series key", key: TraceKey{YColumn: "a", SeriesKey: "eu", Grouped: true}, want: "eu"},
		{name: "y label in list", key: TraceKey{YColumn: "a", ListY: true}, want: "Alpha"},
		{name: "raw y in list", key: TraceKey{YColumn: "b", ListY: true}, want: "b"},
		{name: "static name for single trace", key: TraceKey{YColumn: "a"}, want: "Static"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names.Name(tt.key))
		})
	}
}

func TestDefaultResolvers_Colors(t *testing.T) {
	spec := mustSpec(t, `{"chart": {"type": "line"}, "data": {"y": "v",
	  "colors": {"color_map": {"na": "#111111", "Europe": "#222222", "v": "#333333"}}}}`)
	colors := DefaultResolvers(spec).Colors

	c, ok := colors.ColorFor(TraceKey{YColumn: "v", SeriesKey: "na", Grouped: true}, "North America")
	assert.True(t, ok)
	assert.Equal(t, "#111111", c)

	c, ok = colors.ColorFor(TraceKey{YColumn: "v", SeriesKey: "eu", Grouped: true}, "Europe")
	assert.True(t, ok)
	assert.Equal(t, "#222222", c)

	c, ok = colors.ColorFor(TraceKey{YColumn: "v"}, "v")
	assert.True(t, ok)
	assert.Equal(t, "#333333", c)

	_, ok = colors.ColorFor(TraceKey{YColumn: "v", SeriesKey: "apac", Grouped: true}, "apac")
	assert.False(t, ok)

	empty := DefaultResolvers(mustSpec(t, `{"chart": {"type": "line"}, "data": {"y": "v"}}`)).Colors
	_, ok = empty.ColorFor(TraceKey{YColumn: "v"}, "v")
	assert.False(t, ok)
}

func TestDefaultResolvers_Axes(t *testing.T) {
	spec := mustSpec(t, `{"chart": {"type": "line"}, "data": {"y": ["a", "b"], "axis": {"y2_for": ["b"]}}}`)
	axes := DefaultResolvers(spec).Axes

	assert.Equal(t, "", axes.RouteYAxis("a"))
	assert.Equal(t, "y2", axes.RouteYAxis("b"))
	assert.Equal(t, "", axes.RouteYAxis(""))
}

func TestPaletteColorResolver(t *testing.T) {
	base := ColorFunc(func(key TraceKey, _ string) (string, bool) {
		if key.SeriesKey == "pinned" {
			return "#abcdef", true
		}
		return "", false
	})
	r := NewPaletteColorResolver(base, 8)
	require.Len(t, r.Palette, 8)

	c, ok := r.ColorFor(TraceKey{SeriesKey: "pinned", Grouped: true}, "pinned")
	assert.True(t, ok)
	assert.Equal(t, "#abcdef", c)

	first, ok := r.ColorFor(TraceKey{SeriesKey: "east", Grouped: true}, "East")
	assert.True(t, ok)
	assert.Contains(t, r.Palette, first)

	again, _ := r.ColorFor(TraceKey{SeriesKey: "east", Grouped: true}, "other name")
	assert.Equal(t, first, again)

	for _, hex := range r.Palette {
		assert.True(t, vizspec.ValidColor(hex), hex)
	}

	_, ok = (&PaletteColorResolver{}).ColorFor(TraceKey{YColumn: "v"}, "v")
	assert.False(t, ok)
}

func TestHCLPalette(t *testing.T) {
	assert.Len(t, HCLPalette(0), 10)
	p := HCLPalette(4)
	assert.Len(t, p, 4)
	seen := map[string]bool{}
	for _, c := range p {
		seen[c] = true
	}
	assert.Len(t, seen, 4)
}
