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
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// StyleConfig holds the design tokens the ECharts renderer draws with.
type StyleConfig struct {
	ColorPrimary    string
	ColorBackground string
	ColorText       string
	ColorTextMuted  string
	ColorBorder     string
	ColorGlass      string
	ColorPalette    []string // Series colors, in order

	FontFamily      string
	FontSizeTitle   int
	FontSizeLabel   int
	FontSizeTooltip int

	AnimationDuration int    // ms
	AnimationEasing   string
	ShadowBlur        int
}

// DefaultStyleConfig returns the dark theme.
func DefaultStyleConfig() *StyleConfig {
	return &StyleConfig{
		ColorPrimary:    "#f37021",
		ColorBackground: "transparent",
		ColorText:       "#f5f5f5",
		ColorTextMuted:  "#b5b5b5",
		ColorBorder:     "#ffffff1a",
		ColorGlass:      "rgba(26, 26, 26, 0.8)",
		ColorPalette: []string{
			"#f37021", // Orange
			"#60a5fa", // Blue
			"#8b5cf6", // Purple
			"#10b981", // Green
			"#f59e0b", // Amber
			"#ec4899", // Pink
			"#14b8a6", // Teal
		},
		FontFamily:        "IBM Plex Mono, monospace",
		FontSizeTitle:     14,
		FontSizeLabel:     11,
		FontSizeTooltip:   12,
		AnimationDuration: 1500,
		AnimationEasing:   "cubicOut",
		ShadowBlur:        15,
	}
}

// LightStyleConfig returns the light theme.
func LightStyleConfig() *StyleConfig {
	s := DefaultStyleConfig()
	s.ColorBackground = "#ffffff"
	s.ColorText = "#1f2937"
	s.ColorTextMuted = "#6b7280"
	s.ColorBorder = "#e5e7eb"
	s.ColorGlass = "rgba(255, 255, 255, 0.9)"
	s.ShadowBlur = 0
	return s
}

// StyleForTheme maps a theme name to its style. Empty means dark.
func StyleForTheme(name string) (*StyleConfig, error) {
	switch strings.ToLower(name) {
	case "", "dark":
		return DefaultStyleConfig(), nil
	case "light":
		return LightStyleConfig(), nil
	default:
		return nil, fmt.Errorf("unknown theme %q (expected dark or light)", name)
	}
}

// darkenColor lowers the HCL luminance of a hex color by amount (0-1).
// Unparseable colors are returned unchanged.
func darkenColor(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, chroma, l := c.Hcl()
	return colorful.Hcl(h, chroma, l*(1-amount)).Clamped().Hex()
}

// withAlpha returns a hex color with an 8-bit alpha suffix. Colors that are
// not plain hex (named colors, rgb(), values that already carry alpha) are
// returned unchanged.
func withAlpha(color string, alpha uint8) string {
	c, err := colorful.Hex(color)
	if err != nil {
		return color
	}
	return fmt.Sprintf("%s%02x", c.Hex(), alpha)
}

// gradient returns n colors blended in HCL space from one hex color to another.
func gradient(from, to string, n int) []string {
	a, errA := colorful.Hex(from)
	b, errB := colorful.Hex(to)
	if errA != nil || errB != nil || n < 2 {
		return []string{from, to}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = a.BlendHcl(b, float64(i)/float64(n-1)).Clamped().Hex()
	}
	return out
}
