package palette

import (
	"regexp"
	"testing"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestGolden_Pure(t *testing.T) {
	for i := 0; i < 50; i++ {
		a, b := Golden(i), Golden(i)
		if a != b {
			t.Errorf("index %d: %s != %s", i, a, b)
		}
		if !hexColor.MatchString(a) {
			t.Errorf("index %d: %q is not a lowercase hex color", i, a)
		}
	}
}

func TestGolden_Distinct(t *testing.T) {
	if Golden(0) == Golden(1) {
		t.Error("first two colors must differ")
	}

	seen := make(map[string]int)
	for i := 0; i < 20; i++ {
		c := Golden(i)
		if j, ok := seen[c]; ok {
			t.Errorf("indices %d and %d share color %s", j, i, c)
		}
		seen[c] = i
	}
}

func TestGolden_FirstColor(t *testing.T) {
	// hue 0 with S=0.7, V=0.9 is (0.9, 0.27, 0.27)
	if got := Golden(0); got != "#e54444" {
		t.Errorf("expected #e54444, got %s", got)
	}
}

func TestGenerator_Presets(t *testing.T) {
	g := New([]Preset{
		{Pattern: "road", Colors: []string{"#999999", "#666666"}},
		{Pattern: "roads_main", Colors: []string{"#000000"}},
		{Pattern: "water", Colors: []string{"#3B7AB8"}},
	})

	tests := []struct {
		name     string
		layerID  string
		index    int
		expected string
	}{
		{"first preset", "road_network", 1, "#666666"},
		{"first match wins", "roads_main", 0, "#999999"},
		{"case insensitive", "Waterbody", 0, "#3B7AB8"},
		{"beyond preset", "waterbody", 3, Golden(3)},
		{"no preset", "housing", 2, Golden(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Color(tt.layerID, tt.index); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestGenerator_Nil(t *testing.T) {
	var g *Generator
	if g.Color("roads", 0) != Golden(0) {
		t.Error("nil generator should fall back to golden colors")
	}
}
