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
	"hash/fnv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/teradata-labs/vizc/pkg/vizspec"
)

// TraceKey identifies the data behind one trace.
type TraceKey struct {
	// YColumn is the value column, or "" when y is unbound.
	YColumn string
	// SeriesKey is the group value when Grouped is set.
	SeriesKey string
	Grouped   bool
	// ListY is set when the trace is one entry of a list-valued y.
	ListY bool
}

// GroupingKey is the key colors are looked up by: the series value for
// grouped traces, the y column otherwise.
func (k TraceKey) GroupingKey() string {
	if k.Grouped {
		return k.SeriesKey
	}
	return k.YColumn
}

// NameResolver names traces.
type NameResolver interface {
	Name(key TraceKey) string
}

// ColorResolver assigns trace colors. ok=false leaves the color to the
// renderer's palette.
type ColorResolver interface {
	ColorFor(key TraceKey, name string) (color string, ok bool)
}

// AxisRouter routes a y column to the secondary axis by returning "y2".
type AxisRouter interface {
	RouteYAxis(yColumn string) string
}

// NameFunc adapts a function to NameResolver.
type NameFunc func(key TraceKey) string

func (f NameFunc) Name(key TraceKey) string { return f(key) }

// ColorFunc adapts a function to ColorResolver.
type ColorFunc func(key TraceKey, name string) (string, bool)

func (f ColorFunc) ColorFor(key TraceKey, name string) (string, bool) { return f(key, name) }

// AxisFunc adapts a function to AxisRouter.
type AxisFunc func(yColumn string) string

func (f AxisFunc) RouteYAxis(yColumn string) string { return f(yColumn) }

// Resolvers bundles the three policies used while building traces.
type Resolvers struct {
	Names  NameResolver
	Colors ColorResolver
	Axes   AxisRouter
}

// DefaultResolvers derives all three policies from the spec alone.
func DefaultResolvers(spec *vizspec.VizSpec) Resolvers {
	return Resolvers{
		Names:  specNames{spec: spec},
		Colors: specColors{spec: spec},
		Axes:   specAxes{spec: spec},
	}
}

type specNames struct{ spec *vizspec.VizSpec }

func (r specNames) Name(key TraceKey) string {
	labels := r.spec.Data.Labels
	if key.Grouped {
		if labels != nil {
			if l, ok := labels.Series[key.SeriesKey]; ok {
				return l
			}
		}
		return key.SeriesKey
	}
	if r.spec.Data.Name != "" && !key.ListY {
		return r.spec.Data.Name
	}
	if key.YColumn == "" {
		return ""
	}
	if labels != nil {
		if l, ok := labels.Y[key.YColumn]; ok {
			return l
		}
	}
	return key.YColumn
}

type specColors struct{ spec *vizspec.VizSpec }

func (r specColors) ColorFor(key TraceKey, name string) (string, bool) {
	colors := r.spec.Data.Colors
	if colors == nil || len(colors.ColorMap) == 0 {
		return "", false
	}
	if c, ok := colors.ColorMap[key.GroupingKey()]; ok && c != "" {
		return c, true
	}
	if name != "" {
		if c, ok := colors.ColorMap[name]; ok && c != "" {
			return c, true
		}
	}
	return "", false
}

type specAxes struct{ spec *vizspec.VizSpec }

func (r specAxes) RouteYAxis(yColumn string) string {
	axis := r.spec.Data.Axis
	if axis == nil || yColumn == "" {
		return ""
	}
	for _, col := range axis.Y2For {
		if col == yColumn {
			return "y2"
		}
	}
	return ""
}

// PaletteColorResolver defers to Base and falls back to a deterministic
// palette color chosen by hashing the grouping key, so a given series keeps
// its color across charts.
type PaletteColorResolver struct {
	Base    ColorResolver
	Palette []string
}

// NewPaletteColorResolver builds an evenly spaced HCL palette of n colors.
func NewPaletteColorResolver(base ColorResolver, n int) *PaletteColorResolver {
	return &PaletteColorResolver{Base: base, Palette: HCLPalette(n)}
}

// HCLPalette returns n hues evenly spaced around the HCL wheel at constant
// chroma and luminance.
func HCLPalette(n int) []string {
	if n <= 0 {
		n = 10
	}
	out := make([]string, n)
	for i := range out {
		hue := 360.0 * float64(i) / float64(n)
		out[i] = colorful.Hcl(hue, 0.55, 0.62).Clamped().Hex()
	}
	return out
}

func (r *PaletteColorResolver) ColorFor(key TraceKey, name string) (string, bool) {
	if r.Base != nil {
		if c, ok := r.Base.ColorFor(key, name); ok {
			return c, true
		}
	}
	if len(r.Palette) == 0 {
		return "", false
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.GroupingKey()))
	return r.Palette[int(h.Sum32()%uint32(len(r.Palette)))], true
}
