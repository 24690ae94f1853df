package geo

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestTranslate_SingleRing(t *testing.T) {
	g := EsriGeometry{Rings: [][][]float64{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}

	geom, err := Translate(g)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	data, err := json.Marshal(geojson.NewGeometry(geom))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	expected := `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}
}

func TestTranslate_MultipleRings(t *testing.T) {
	outer := [][]float64{{0, 0}, {10, 0}, {10, 10}, {0, 0}}
	inner := [][]float64{{2, 2}, {3, 2}, {3, 3}, {2, 2}}
	g := EsriGeometry{Rings: [][][]float64{outer, inner}}

	geom, err := Translate(g)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	mp, ok := geom.(orb.MultiPolygon)
	if !ok {
		t.Fatalf("expected MultiPolygon, got %T", geom)
	}
	if len(mp) != 1 {
		t.Fatalf("expected ring list wrapped once, got %d polygons", len(mp))
	}
	if len(mp[0]) != 2 {
		t.Fatalf("expected 2 rings, got %d", len(mp[0]))
	}
	if mp[0][1][1] != (orb.Point{3, 2}) {
		t.Errorf("ring points modified: %v", mp[0][1])
	}
}

func TestTranslate_Shapes(t *testing.T) {
	x, y := 36.7, 34.7

	tests := []struct {
		name     string
		geom     EsriGeometry
		expected string
	}{
		{"single path", EsriGeometry{Paths: [][][]float64{{{0, 0}, {1, 1}}}}, "LineString"},
		{"several paths", EsriGeometry{Paths: [][][]float64{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}}, "MultiLineString"},
		{"points", EsriGeometry{Points: [][]float64{{0, 0}, {1, 1}}}, "MultiPoint"},
		{"xy", EsriGeometry{X: &x, Y: &y}, "Point"},
		{"z ordinates", EsriGeometry{Paths: [][][]float64{{{0, 0, 5}, {1, 1, 6}}}}, "LineString"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geom, err := Translate(tt.geom)
			if err != nil {
				t.Fatalf("Translate failed: %v", err)
			}
			if geom.GeoJSONType() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, geom.GeoJSONType())
			}
		})
	}
}

func TestTranslate_Unrecognized(t *testing.T) {
	x := 1.0

	tests := []struct {
		name string
		geom EsriGeometry
	}{
		{"empty", EsriGeometry{}},
		{"x only", EsriGeometry{X: &x}},
		{"empty rings", EsriGeometry{Rings: [][][]float64{}}},
		{"short position", EsriGeometry{Paths: [][][]float64{{{0}, {1, 1}}}}},
		{"empty ring", EsriGeometry{Rings: [][][]float64{{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geom, err := Translate(tt.geom)
			if !errors.Is(err, ErrInputFormat) {
				t.Errorf("expected ErrInputFormat, got %v", err)
			}
			if geom != nil {
				t.Errorf("expected nil geometry, got %v", geom)
			}
		})
	}
}

func TestFeatureFromEsri(t *testing.T) {
	raw := `{"attributes":{"NAME":"Baba Amr","power":42.5},"geometry":{"x":36.68,"y":34.71}}`

	var ef EsriFeature
	if err := json.Unmarshal([]byte(raw), &ef); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	f, err := FeatureFromEsri(ef)
	if err != nil {
		t.Fatalf("FeatureFromEsri failed: %v", err)
	}
	if f.Geometry.GeoJSONType() != "Point" {
		t.Errorf("expected Point, got %s", f.Geometry.GeoJSONType())
	}
	if f.Properties["NAME"] != "Baba Amr" {
		t.Errorf("expected NAME property, got %v", f.Properties["NAME"])
	}
	if f.Properties["power"] != 42.5 {
		t.Errorf("expected power 42.5, got %v", f.Properties["power"])
	}

	if _, err := FeatureFromEsri(EsriFeature{}); !errors.Is(err, ErrInputFormat) {
		t.Errorf("expected ErrInputFormat for missing geometry, got %v", err)
	}
}

func TestUnmarshalEsriFeature(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		geoType string
	}{
		{"point", `{"attributes":{"id":1},"geometry":{"x":1,"y":2}}`, "Point"},
		{"ring", `{"geometry":{"rings":[[[0,0],[1,0],[1,1],[0,0]]]}}`, "Polygon"},
		{"nan point", `{"attributes":{"id":2},"geometry":{"x":"NaN","y":"NaN"}}`, ""},
		{"string rings", `{"geometry":{"rings":"bogus"}}`, ""},
		{"null point", `{"geometry":{"x":null,"y":null}}`, ""},
		{"null geometry", `{"attributes":{"id":3},"geometry":null}`, ""},
		{"not an object", `42`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := UnmarshalEsriFeature([]byte(tt.raw))
			if tt.geoType == "" {
				if !errors.Is(err, ErrInputFormat) {
					t.Fatalf("expected ErrInputFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalEsriFeature failed: %v", err)
			}
			if got := f.Geometry.GeoJSONType(); got != tt.geoType {
				t.Errorf("expected %s, got %s", tt.geoType, got)
			}
		})
	}
}

func TestExtent(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))
	fc.Append(geojson.NewFeature(orb.LineString{{-1, 0}, {3, 5}}))

	bound, ok := Extent(fc, nil)
	if !ok {
		t.Fatal("expected extent")
	}
	if bound.Min != (orb.Point{-1, 0}) || bound.Max != (orb.Point{3, 5}) {
		t.Errorf("unexpected bound %v", bound)
	}

	if _, ok := Extent(geojson.NewFeatureCollection()); ok {
		t.Error("expected no extent for empty collection")
	}
}

func TestGeometryType(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	if GeometryType(fc) != "" {
		t.Error("expected empty type for empty collection")
	}

	fc.Append(geojson.NewFeature(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}))
	if GeometryType(fc) != "Polygon" {
		t.Errorf("expected Polygon, got %s", GeometryType(fc))
	}
}
