// Package config handles configuration loading and the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/woozymasta/geosym/internal/palette"
	"github.com/woozymasta/geosym/internal/source"
	"github.com/woozymasta/geosym/internal/style"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	LocalizedNames map[string]string  `yaml:"localized_names,omitempty" json:"localized_names,omitempty"`
	Map            MapInfo            `yaml:"map" json:"map"`
	Output         Output             `yaml:"output" json:"output"`
	Labels         style.LabelOptions `yaml:"labels" json:"labels"`
	Thematic       Thematic           `yaml:"thematic" json:"thematic"`
	Source         Source             `yaml:"source" json:"source"`
	ThemeColors    []style.ThemeColor `yaml:"theme_colors,omitempty" json:"theme_colors,omitempty"`
	Presets        []palette.Preset   `yaml:"presets,omitempty" json:"presets,omitempty"`
	RangeRules     []style.RangeRule  `yaml:"range_rules,omitempty" json:"range_rules,omitempty"`
	Vocabulary     []string           `yaml:"vocabulary,omitempty" json:"vocabulary,omitempty"`
}

// Source selects the datasets and layers to extract.
type Source struct {
	Paths        []string `yaml:"paths,omitempty" json:"paths,omitempty"`
	SkipPrefixes []string `yaml:"skip_prefixes,omitempty" json:"skip_prefixes,omitempty"`
	Targets      []string `yaml:"targets,omitempty" json:"targets,omitempty"`
}

// Output describes where artifacts are written.
type Output struct {
	DataDir    string `yaml:"data_dir" json:"data_dir"`
	StylesDir  string `yaml:"styles_dir" json:"styles_dir"`
	ImagesDir  string `yaml:"images_dir" json:"images_dir"`
	Catalog    string `yaml:"catalog" json:"catalog"`       // file name inside DataDir
	MapInfo    string `yaml:"map_info" json:"map_info"`     // file name inside DataDir
	FlatGeobuf bool   `yaml:"flatgeobuf" json:"flatgeobuf"` // also write <id>.fgb
	FGBIndex   bool   `yaml:"flatgeobuf_index" json:"flatgeobuf_index"`
	Minify     bool   `yaml:"minify" json:"minify"`
}

// MapInfo is the descriptive metadata written next to the catalog.
type MapInfo struct {
	Title            string `yaml:"title" json:"title"`
	Description      string `yaml:"description" json:"description"`
	SpatialReference string `yaml:"spatial_reference" json:"spatial_reference"`
	Thumbnail        string `yaml:"thumbnail,omitempty" json:"thumbnail,omitempty"` // source image, converted to WebP
	ThumbnailWidth   int    `yaml:"thumbnail_width,omitempty" json:"thumbnail_width,omitempty"`
}

// Thematic configures choropleth layers derived from one base layer.
type Thematic struct {
	Base              string          `yaml:"base" json:"base"` // catalog id of the base layer
	NeighborhoodField string          `yaml:"neighborhood_field" json:"neighborhood_field"`
	LabelField        string          `yaml:"label_field" json:"label_field"`
	Layers            []ThematicLayer `yaml:"layers" json:"layers"`
}

// ThematicLayer is one derived choropleth layer.
type ThematicLayer struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Property      string   `yaml:"property" json:"property"`
	CostProperty  string   `yaml:"cost_property,omitempty" json:"cost_property,omitempty"`
	LabelProperty string   `yaml:"label_property,omitempty" json:"label_property,omitempty"`
	Ramp          []string `yaml:"ramp" json:"ramp"`
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Load reads the YAML file at path on top of Default. Lists in the file
// replace the defaults, maps are merged key by key.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	for name, dir := range map[string]string{
		"output.data_dir":   c.Output.DataDir,
		"output.styles_dir": c.Output.StylesDir,
		"output.catalog":    c.Output.Catalog,
	} {
		if dir == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}

	for i, t := range c.ThemeColors {
		if t.Pattern == "" {
			errs = append(errs, fmt.Errorf("theme_colors[%d]: empty pattern", i))
		}
		if !hexColor.MatchString(t.Color) {
			errs = append(errs, fmt.Errorf("theme_colors[%d]: invalid color %q", i, t.Color))
		}
	}

	for i, p := range c.Presets {
		if p.Pattern == "" {
			errs = append(errs, fmt.Errorf("presets[%d]: empty pattern", i))
		}
		errs = append(errs, checkColors(fmt.Sprintf("presets[%d]", i), p.Colors)...)
	}

	for i, r := range c.RangeRules {
		if r.Pattern == "" || r.Property == "" {
			errs = append(errs, fmt.Errorf("range_rules[%d]: pattern and property are required", i))
		}
		if len(r.Ramp) == 0 {
			errs = append(errs, fmt.Errorf("range_rules[%d]: empty ramp", i))
		}
		errs = append(errs, checkColors(fmt.Sprintf("range_rules[%d]", i), r.Ramp)...)
	}

	seen := make(map[string]bool)
	for i, l := range c.Thematic.Layers {
		if l.ID == "" || l.Property == "" {
			errs = append(errs, fmt.Errorf("thematic.layers[%d]: id and property are required", i))
		}
		if seen[l.ID] {
			errs = append(errs, fmt.Errorf("thematic.layers[%d]: duplicate id %q", i, l.ID))
		}
		seen[l.ID] = true
		if len(l.Ramp) == 0 {
			errs = append(errs, fmt.Errorf("thematic.layers[%d]: empty ramp", i))
		}
		errs = append(errs, checkColors(fmt.Sprintf("thematic.layers[%d]", i), l.Ramp)...)
	}

	if c.Map.ThumbnailWidth < 0 {
		errs = append(errs, fmt.Errorf("map.thumbnail_width must not be negative"))
	}

	return errors.Join(errs...)
}

func checkColors(where string, colors []string) []error {
	var errs []error
	for j, color := range colors {
		if !hexColor.MatchString(color) {
			errs = append(errs, fmt.Errorf("%s: color %d: invalid %q", where, j, color))
		}
	}
	return errs
}

// Palette returns the palette generator configured by the presets.
func (c *Config) Palette() *palette.Generator {
	return palette.New(c.Presets)
}

// StyleOptions returns the style builder options.
func (c *Config) StyleOptions() style.Options {
	return style.Options{
		Palette:     c.Palette(),
		Labels:      c.Labels,
		ThemeColors: c.ThemeColors,
		RangeRules:  c.RangeRules,
		Vocabulary:  c.Vocabulary,
	}
}

// Filter returns the layer filter of the source section.
func (c *Config) Filter() source.Filter {
	return source.Filter{
		SkipPrefixes: c.Source.SkipPrefixes,
		Targets:      c.Source.Targets,
	}
}

// LocalizedName returns the display name configured for a layer id.
func (c *Config) LocalizedName(id string) (string, bool) {
	name, ok := c.LocalizedNames[id]
	return name, ok && name != ""
}
