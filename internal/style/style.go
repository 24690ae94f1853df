// Package style infers style documents for vector layers from their geometry
// type and attribute columns.
package style

import (
	"maps"
	"slices"
	"strings"

	"github.com/woozymasta/geosym/internal/geo"

	"github.com/paulmach/orb/geojson"
)

// Document types.
const (
	TypeDefault  = "default"
	TypeThematic = "thematic"
	TypeMXD      = "mxd_style"
)

// Property style kinds.
const (
	KindCategorical = "categorical"
	KindRange       = "range"
)

// Default colors per geometry family.
const (
	PolygonColor = "#3388ff"
	LineColor    = "#ff7800"
	PointColor   = "#e41a1c"
	UnknownColor = "#808080"
	OutlineColor = "#000000"
	NoDataColor  = "#CCCCCC" // unclassified choropleth regions
)

// Paint is one set of drawing instructions understood by the map client.
type Paint struct {
	FillColor   string  `json:"fillColor,omitempty"`
	Color       string  `json:"color,omitempty"`
	DashArray   string  `json:"dashArray,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	FillOpacity float64 `json:"fillOpacity,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
}

// Range is one class of a range property style.
type Range struct {
	Label string  `json:"label"`
	Style Paint   `json:"style"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// PropertyStyle maps values of one attribute to paints.
type PropertyStyle struct {
	Values map[string]Paint `json:"values,omitempty"`
	Type   string           `json:"type"`
	Field  string           `json:"field"`
	Ranges []Range          `json:"ranges,omitempty"`
}

// Labels describes how features are labeled.
type Labels struct {
	Font         string   `json:"font"`
	Color        string   `json:"color"`
	HaloColor    string   `json:"haloColor"`
	DefaultField string   `json:"default_field,omitempty"`
	Fields       []string `json:"fields"`
	HaloWidth    float64  `json:"haloWidth"`
}

// Document is the style companion of one layer.
type Document struct {
	PropertyStyles map[string]PropertyStyle `json:"property_styles"`
	Type           string                   `json:"type"`
	GeometryType   string                   `json:"geometry_type"`
	LayerName      string                   `json:"layer_name,omitempty"`
	OriginalName   string                   `json:"original_name,omitempty"`
	Property       string                   `json:"property,omitempty"`
	Labels         Labels                   `json:"labels"`
	DefaultStyle   Paint                    `json:"default_style"`
}

// ThemeColor overrides the default color of layers whose id contains Pattern.
type ThemeColor struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Color   string `yaml:"color" json:"color"`
}

// RangeRule requests a range style on Property for layers whose id contains Pattern.
type RangeRule struct {
	Pattern  string   `yaml:"pattern" json:"pattern"`
	Property string   `yaml:"property" json:"property"`
	Ramp     []string `yaml:"ramp" json:"ramp"`
}

// LabelOptions are the label settings shared by every document.
type LabelOptions struct {
	Font           string  `yaml:"font" json:"font"`
	Color          string  `yaml:"color" json:"color"`
	HaloColor      string  `yaml:"halo_color" json:"halo_color"`
	LocalizedField string  `yaml:"localized_field" json:"localized_field"`
	HaloWidth      float64 `yaml:"halo_width" json:"halo_width"`
}

// LabelTokens are matched against column names to pick label fields.
var LabelTokens = []string{"name", "label", "title", "id", "type", "class", "number", "street", "address"}

// weightTokens mark line columns whose values drive the stroke width.
var weightTokens = []string{"type", "class", "importance"}

// Default returns the document used when no attribute driven style applies.
func Default(geometryType string, themeColor string, labels LabelOptions) *Document {
	return &Document{
		Type:           TypeDefault,
		GeometryType:   geometryType,
		DefaultStyle:   DefaultPaint(geometryType, themeColor),
		PropertyStyles: map[string]PropertyStyle{},
		Labels:         newLabels(labels),
	}
}

// DefaultPaint returns the base paint for a geometry type. An empty color
// selects the geometry default.
func DefaultPaint(geometryType, color string) Paint {
	p := Paint{Weight: 2, Opacity: 1, FillOpacity: 0.5}

	switch {
	case geo.IsPolygonal(geometryType):
		p.FillColor = pick(color, PolygonColor)
		p.Color = OutlineColor
		p.Weight = 1
		p.FillOpacity = 0.7
	case geo.IsLinear(geometryType):
		p.Color = pick(color, LineColor)
		p.Weight = 3
	case geo.IsPuntal(geometryType):
		p.FillColor = pick(color, PointColor)
		p.Color = OutlineColor
		p.Weight = 1
		p.FillOpacity = 0.8
		p.Radius = 6
	default:
		p.Color = pick(color, UnknownColor)
	}

	return p
}

// FillPaint is the paint of one class of a polygon choropleth or a categorical polygon value.
func FillPaint(color string) Paint {
	return Paint{FillColor: color, Color: OutlineColor, Weight: 1, Opacity: 1, FillOpacity: 0.7}
}

func newLabels(opts LabelOptions) Labels {
	return Labels{
		Fields:    []string{},
		Font:      opts.Font,
		Color:     opts.Color,
		HaloColor: opts.HaloColor,
		HaloWidth: opts.HaloWidth,
	}
}

// LabelFields picks label columns: for every token of LabelTokens the first
// column containing it, then the localized column. The localized column, when
// present, is returned as the default field.
func LabelFields(fields []string, localized string) ([]string, string) {
	out := []string{}
	seen := make(map[string]bool)

	for _, token := range LabelTokens {
		for _, col := range fields {
			if strings.Contains(strings.ToLower(col), token) {
				if !seen[col] {
					seen[col] = true
					out = append(out, col)
				}
				break
			}
		}
	}

	def := ""
	if localized != "" {
		for _, col := range fields {
			if col == localized {
				def = col
				if !seen[col] {
					out = append(out, col)
				}
				break
			}
		}
	}

	return out, def
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// Fields returns the union of property names of features in first-seen
// order, the keys of each feature taken in sorted order.
func Fields(features []*geojson.Feature) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range features {
		if f == nil {
			continue
		}
		for _, k := range slices.Sorted(maps.Keys(f.Properties)) {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}
