package style

import (
	"errors"
	"strings"

	"github.com/woozymasta/geosym/internal/classify"
	"github.com/woozymasta/geosym/internal/geo"
	"github.com/woozymasta/geosym/internal/palette"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// Options configure a Builder.
type Options struct {
	Palette     *palette.Generator
	Labels      LabelOptions
	ThemeColors []ThemeColor
	RangeRules  []RangeRule
	Vocabulary  []string
}

// Input is one layer to style.
type Input struct {
	Type         string // document type, TypeDefault when empty
	LayerID      string
	LayerName    string
	OriginalName string
	GeometryType string // derived from Features when empty
	Fields       []string
	Features     []*geojson.Feature
}

// Builder assembles style documents. It is safe for concurrent use.
type Builder struct {
	palette  *palette.Generator
	selector *Selector
	labels   LabelOptions
	themes   []ThemeColor
	rules    []RangeRule
}

// NewBuilder returns a builder over a copy of opts.
func NewBuilder(opts Options) *Builder {
	b := &Builder{
		palette:  opts.Palette,
		labels:   opts.Labels,
		themes:   make([]ThemeColor, len(opts.ThemeColors)),
		rules:    make([]RangeRule, len(opts.RangeRules)),
		selector: NewSelector(opts.Vocabulary, opts.Labels.LocalizedField),
	}
	if b.palette == nil {
		b.palette = palette.New(nil)
	}
	copy(b.themes, opts.ThemeColors)
	copy(b.rules, opts.RangeRules)

	return b
}

// ThemeColor returns the color of the first theme entry whose pattern occurs in id.
func (b *Builder) ThemeColor(id string) string {
	lower := strings.ToLower(id)
	for _, t := range b.themes {
		if t.Pattern != "" && strings.Contains(lower, strings.ToLower(t.Pattern)) {
			return t.Color
		}
	}
	return ""
}

// RangeRule returns the first range rule whose pattern occurs in id.
func (b *Builder) RangeRule(id string) (RangeRule, bool) {
	lower := strings.ToLower(id)
	for _, r := range b.rules {
		if r.Pattern != "" && strings.Contains(lower, strings.ToLower(r.Pattern)) {
			return r, true
		}
	}
	return RangeRule{}, false
}

// Labels returns the label options the builder was created with.
func (b *Builder) Labels() LabelOptions {
	return b.labels
}

// Default returns the degraded document for a layer.
func (b *Builder) Default(id, geometryType string) *Document {
	return Default(geometryType, b.ThemeColor(id), b.labels)
}

// Build produces the style document of one layer. It always returns a document.
func (b *Builder) Build(in Input) *Document {
	geometryType := in.GeometryType
	if geometryType == "" {
		geometryType = geo.GeometryType(&geojson.FeatureCollection{Features: in.Features})
	}

	fields := in.Fields
	if len(fields) == 0 {
		fields = Fields(in.Features)
	}

	doc := b.Default(in.LayerID, geometryType)
	if in.Type != "" {
		doc.Type = in.Type
	}
	doc.LayerName = in.LayerName
	doc.OriginalName = in.OriginalName

	if rule, ok := b.RangeRule(in.LayerID); ok {
		if ps, ok := b.rangeStyle(in, rule, geometryType); ok {
			doc.PropertyStyles[rule.Property] = ps
			doc.Property = rule.Property
		}
	}

	for _, c := range b.selector.Select(Columns(fields, in.Features), len(in.Features)) {
		if _, ok := doc.PropertyStyles[c.Name]; ok {
			continue
		}
		doc.PropertyStyles[c.Name] = b.categorical(in.LayerID, c, geometryType)
	}

	doc.Labels.Fields, doc.Labels.DefaultField = LabelFields(fields, b.labels.LocalizedField)

	return doc
}

func (b *Builder) rangeStyle(in Input, rule RangeRule, geometryType string) (PropertyStyle, bool) {
	scheme, err := classify.New(in.Features, rule.Property, rule.Ramp)
	if err != nil {
		ev := log.Warn()
		if errors.Is(err, classify.ErrEmptyData) {
			ev = log.Debug()
		}
		ev.Err(err).Str("layer", in.LayerID).Str("property", rule.Property).Msg("range style skipped")
		return PropertyStyle{}, false
	}

	ps := PropertyStyle{
		Type:   KindRange,
		Field:  rule.Property,
		Ranges: make([]Range, len(scheme.Bins)),
	}
	for i, bin := range scheme.Bins {
		ps.Ranges[i] = Range{
			Min:   bin.Lower,
			Max:   bin.Upper,
			Label: bin.Label(),
			Style: rangePaint(bin.Color, geometryType),
		}
	}

	return ps, true
}

func rangePaint(color, geometryType string) Paint {
	switch {
	case geo.IsLinear(geometryType):
		return Paint{Color: color, Weight: 3, Opacity: 1}
	case geo.IsPuntal(geometryType):
		return Paint{FillColor: color, Color: OutlineColor, Weight: 1, Opacity: 1, FillOpacity: 0.8, Radius: 6}
	default:
		return FillPaint(color)
	}
}

func (b *Builder) categorical(id string, c Candidate, geometryType string) PropertyStyle {
	ps := PropertyStyle{
		Type:   KindCategorical,
		Field:  c.Name,
		Values: make(map[string]Paint, len(c.Distinct)),
	}

	drivesWeight := false
	lower := strings.ToLower(c.Name)
	for _, token := range weightTokens {
		if strings.Contains(lower, token) {
			drivesWeight = true
			break
		}
	}

	for i, v := range c.Distinct {
		color := b.palette.Color(id, i)

		var p Paint
		switch {
		case geo.IsPolygonal(geometryType):
			p = Paint{FillColor: color, Color: OutlineColor, Weight: 1, FillOpacity: 0.7}
		case geo.IsLinear(geometryType):
			p = Paint{Color: color}
			if drivesWeight {
				p.Weight = LineWeight(v, i, len(c.Distinct))
			}
		case geo.IsPuntal(geometryType):
			p = Paint{FillColor: color, Radius: float64(6 + i%4)}
		default:
			p = Paint{Color: color}
		}

		ps.Values[Key(v)] = p
	}

	return ps
}

// LineWeight derives a stroke width for the value of rank i among n distinct
// values. Numeric values are used directly, clamped to [1, 8]; other values are
// spread over [1, 6) by rank.
func LineWeight(v interface{}, i, n int) float64 {
	if f, ok := numeric(v); ok {
		return min(max(f, 1), 8)
	}
	if n == 0 {
		return 1
	}
	return float64(i)/float64(n)*5 + 1
}

func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
