// Package palette produces deterministic, visually distinct colors for
// categorical symbolization.
package palette

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// GoldenAngle is the hue step in degrees between consecutive generated colors.
	GoldenAngle = 137.508

	saturation = 0.7
	value      = 0.9
)

// Preset is a fixed palette used for layers whose id contains Pattern.
type Preset struct {
	Pattern string   `yaml:"pattern" json:"pattern"`
	Colors  []string `yaml:"colors" json:"colors"`
}

// Generator picks colors from presets, falling back to golden-angle hue stepping.
// Presets are scanned in declaration order and the first substring match wins.
type Generator struct {
	presets []Preset
}

// New returns a generator over a copy of the given presets.
func New(presets []Preset) *Generator {
	cp := make([]Preset, len(presets))
	for i, p := range presets {
		cp[i] = Preset{
			Pattern: strings.ToLower(p.Pattern),
			Colors:  append([]string(nil), p.Colors...),
		}
	}
	return &Generator{presets: cp}
}

// Preset returns the first preset whose pattern occurs in layerID.
func (g *Generator) Preset(layerID string) (Preset, bool) {
	if g == nil {
		return Preset{}, false
	}
	id := strings.ToLower(layerID)
	for _, p := range g.presets {
		if p.Pattern != "" && strings.Contains(id, p.Pattern) {
			return p, true
		}
	}
	return Preset{}, false
}

// Color returns the color for the i-th category of a layer.
func (g *Generator) Color(layerID string, i int) string {
	if p, ok := g.Preset(layerID); ok && i >= 0 && i < len(p.Colors) {
		return p.Colors[i]
	}
	return Golden(i)
}

// Golden returns the i-th golden-angle color as a lowercase "#rrggbb" string.
// It depends on i alone.
func Golden(i int) string {
	hue := math.Mod(float64(i)*GoldenAngle, 360)
	if hue < 0 {
		hue += 360
	}

	c := colorful.Hsv(hue, saturation, value)
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// channel truncates a [0,1] channel to a byte.
func channel(v float64) int {
	n := int(v * 255)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}
