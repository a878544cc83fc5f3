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

// normalize fills defaults and clears family-irrelevant fields. It must be
// idempotent: normalizing a normalized spec is a no-op.
func normalize(s *VizSpec) {
	if s.Version == "" {
		s.Version = Version
	}

	c := &s.Chart
	switch {
	case c.Type == ChartLine || c.Type == ChartArea:
		if c.Mode == "" {
			c.Mode = ModeLines
		}
	case c.Type == ChartScatter:
		if c.Mode == "" {
			c.Mode = ModeMarkers
		}
	default:
		c.Mode = ""
	}
	if c.Type != ChartBar {
		c.Orientation = ""
		c.BarMode = ""
	}
	if c.Type != ChartHistogram {
		c.HistNorm = ""
	}

	d := &s.Data
	if d.Series != nil && d.Series.By == "" {
		d.Series = nil
	}
	if d.Axis != nil {
		if len(d.Axis.Y2For) == 0 {
			d.Axis.Y2For = nil
		}
		if c.Type != ChartArea {
			d.Axis.AreaStackGroup = ""
		}
		if d.Axis.Y2For == nil && d.Axis.AreaStackGroup == "" {
			d.Axis = nil
		}
	}
	if e := d.Encodings; e != nil {
		if e.MarkerSize == nil {
			size := DefaultMarkerSize
			e.MarkerSize = &size
		}
		if e.Opacity == nil {
			opacity := DefaultOpacity
			e.Opacity = &opacity
		}
	}
	if l := d.Labels; l != nil {
		l.Y = nilIfEmpty(l.Y)
		l.Series = nilIfEmpty(l.Series)
	}
	if d.Colors != nil {
		d.Colors.ColorMap = nilIfEmpty(d.Colors.ColorMap)
	}

	if l := s.Layout; l != nil {
		if l.Height == nil {
			h := DefaultHeight
			l.Height = &h
		}
		if len(l.Colorway) == 0 {
			l.Colorway = nil
		}
		if len(l.Legend) == 0 {
			l.Legend = nil
		}
	}

	if p := s.PlotlyConfig; p != nil {
		p.Responsive = boolDefault(p.Responsive, true)
		p.DisplayModeBar = boolDefault(p.DisplayModeBar, true)
		p.DisplayLogo = boolDefault(p.DisplayLogo, false)
		p.ScrollZoom = boolDefault(p.ScrollZoom, false)
		if len(p.ModeBarButtonsToRemove) == 0 {
			p.ModeBarButtonsToRemove = nil
		}
	}
}

func boolDefault(v *bool, def bool) *bool {
	if v != nil {
		return v
	}
	return &def
}

func nilIfEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}
