package style

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/woozymasta/geosym/internal/palette"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var square = orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}

func features(g orb.Geometry, props ...map[string]interface{}) []*geojson.Feature {
	out := make([]*geojson.Feature, len(props))
	for i, p := range props {
		f := geojson.NewFeature(g)
		for k, v := range p {
			f.Properties[k] = v
		}
		out[i] = f
	}
	return out
}

func testBuilder() *Builder {
	return NewBuilder(Options{
		ThemeColors: []ThemeColor{
			{Pattern: "road", Color: "#FF7F00"},
			{Pattern: "building", Color: "#A8A8A8"},
		},
		Palette: palette.New([]palette.Preset{
			{Pattern: "landuse", Colors: []string{"#2BAB45", "#66C266"}},
		}),
		RangeRules: []RangeRule{
			{Pattern: "electricity", Property: "cost", Ramp: []string{"#fee5d9", "#fcae91", "#de2d26"}},
		},
		Labels: LabelOptions{
			Font:           "14px Arial",
			Color:          "#333333",
			HaloColor:      "#ffffff",
			HaloWidth:      2,
			LocalizedField: "arabic_label",
		},
	})
}

func TestDefaultPaint(t *testing.T) {
	tests := []struct {
		geometryType string
		color        string
		expected     Paint
	}{
		{"Polygon", "", Paint{FillColor: PolygonColor, Color: OutlineColor, Weight: 1, Opacity: 1, FillOpacity: 0.7}},
		{"MultiPolygon", "#B9CF96", Paint{FillColor: "#B9CF96", Color: OutlineColor, Weight: 1, Opacity: 1, FillOpacity: 0.7}},
		{"LineString", "", Paint{Color: LineColor, Weight: 3, Opacity: 1, FillOpacity: 0.5}},
		{"Point", "", Paint{FillColor: PointColor, Color: OutlineColor, Weight: 1, Opacity: 1, FillOpacity: 0.8, Radius: 6}},
		{"", "", Paint{Color: UnknownColor, Weight: 2, Opacity: 1, FillOpacity: 0.5}},
	}

	for _, tt := range tests {
		if got := DefaultPaint(tt.geometryType, tt.color); got != tt.expected {
			t.Errorf("%q: expected %+v, got %+v", tt.geometryType, tt.expected, got)
		}
	}
}

func TestBuild_ThemeColor(t *testing.T) {
	b := testBuilder()
	doc := b.Build(Input{
		LayerID:  "main_roads",
		Features: features(orb.LineString{{0, 0}, {1, 1}}, map[string]interface{}{"name": "a"}),
	})

	if doc.Type != TypeDefault {
		t.Errorf("expected type %q, got %q", TypeDefault, doc.Type)
	}
	if doc.GeometryType != "LineString" {
		t.Errorf("expected LineString, got %q", doc.GeometryType)
	}
	if doc.DefaultStyle.Color != "#FF7F00" {
		t.Errorf("expected theme color, got %q", doc.DefaultStyle.Color)
	}
	if len(doc.PropertyStyles) != 0 {
		t.Errorf("expected no property styles, got %v", doc.PropertyStyles)
	}
}

func TestBuild_CategoricalPolygon(t *testing.T) {
	var props []map[string]interface{}
	for i := 0; i < 10; i++ {
		props = append(props, map[string]interface{}{
			"OBJECTID": i,
			"USE_CODE": []string{"res", "res", "com"}[i%3],
		})
	}

	doc := testBuilder().Build(Input{LayerID: "landuse_zones", Features: features(square, props...)})

	ps, ok := doc.PropertyStyles["USE_CODE"]
	if !ok {
		t.Fatalf("expected USE_CODE property style, got %v", doc.PropertyStyles)
	}
	if ps.Type != KindCategorical || ps.Field != "USE_CODE" {
		t.Errorf("unexpected property style header: %+v", ps)
	}

	// "res" is the most frequent value and takes the first preset color
	expected := map[string]Paint{
		"res": {FillColor: "#2BAB45", Color: OutlineColor, Weight: 1, FillOpacity: 0.7},
		"com": {FillColor: "#66C266", Color: OutlineColor, Weight: 1, FillOpacity: 0.7},
	}
	if !reflect.DeepEqual(ps.Values, expected) {
		t.Errorf("expected %v, got %v", expected, ps.Values)
	}
}

func TestBuild_LineWeights(t *testing.T) {
	var props []map[string]interface{}
	for i := 0; i < 20; i++ {
		props = append(props, map[string]interface{}{
			"road_class": []float64{2, 12}[i%2],
			"ROAD_TYPE":  []string{"primary", "primary", "track", "path"}[i%4],
		})
	}

	doc := testBuilder().Build(Input{LayerID: "streets", Features: features(orb.LineString{{0, 0}, {1, 1}}, props...)})

	class := doc.PropertyStyles["road_class"].Values
	if class["2"].Weight != 2 || class["12"].Weight != 8 {
		t.Errorf("numeric weights not clamped: %v", class)
	}

	kind := doc.PropertyStyles["ROAD_TYPE"].Values
	if kind["primary"].Weight != 1 {
		t.Errorf("expected rank 0 weight 1, got %v", kind["primary"].Weight)
	}
	if w := kind["path"].Weight; w < 1 || w > 6 {
		t.Errorf("rank weight %v outside [1,6]", w)
	}
}

func TestBuild_PointRadius(t *testing.T) {
	var props []map[string]interface{}
	for i := 0; i < 30; i++ {
		props = append(props, map[string]interface{}{"CATEGORY": []string{"a", "b", "c", "d", "e"}[i%5]})
	}

	doc := testBuilder().Build(Input{LayerID: "poi", Features: features(orb.Point{1, 1}, props...)})

	values := doc.PropertyStyles["CATEGORY"].Values
	for i, v := range []string{"a", "b", "c", "d", "e"} {
		if got := values[v].Radius; got != float64(6+i%4) {
			t.Errorf("%s: expected radius %d, got %v", v, 6+i%4, got)
		}
	}
}

func TestBuild_RangeRule(t *testing.T) {
	var props []map[string]interface{}
	for i := 0; i <= 30; i++ {
		props = append(props, map[string]interface{}{"cost": float64(i)})
	}

	doc := testBuilder().Build(Input{LayerID: "electricity", Type: TypeMXD, Features: features(square, props...)})

	if doc.Type != TypeMXD {
		t.Errorf("expected type %q, got %q", TypeMXD, doc.Type)
	}
	if doc.Property != "cost" {
		t.Errorf("expected property cost, got %q", doc.Property)
	}

	ps := doc.PropertyStyles["cost"]
	if ps.Type != KindRange || len(ps.Ranges) != 3 {
		t.Fatalf("unexpected range style: %+v", ps)
	}
	if ps.Ranges[0].Min != 0 || ps.Ranges[2].Max != 30 || ps.Ranges[1].Label != "10.0-20.0" {
		t.Errorf("unexpected ranges: %+v", ps.Ranges)
	}
	if ps.Ranges[2].Style.FillColor != "#de2d26" {
		t.Errorf("expected last ramp color, got %q", ps.Ranges[2].Style.FillColor)
	}
}

func TestBuild_RangeRuleEmptyData(t *testing.T) {
	doc := testBuilder().Build(Input{
		LayerID:  "electricity",
		Features: features(square, map[string]interface{}{"cost": nil}, map[string]interface{}{"name": "x"}),
	})

	if _, ok := doc.PropertyStyles["cost"]; ok {
		t.Error("range style must be skipped without data")
	}
	if doc.DefaultStyle.FillColor != PolygonColor {
		t.Errorf("expected default paint, got %+v", doc.DefaultStyle)
	}
}

func TestBuild_Labels(t *testing.T) {
	doc := testBuilder().Build(Input{
		LayerID: "buildings",
		Fields:  []string{"OBJECTID", "Name_En", "street_no", "arabic_label", "Bldg_Type"},
		Features: features(square, map[string]interface{}{
			"Name_En": "a", "arabic_label": "ب",
		}),
	})

	expected := []string{"Name_En", "arabic_label", "OBJECTID", "Bldg_Type", "street_no"}
	if !reflect.DeepEqual(doc.Labels.Fields, expected) {
		t.Errorf("expected %v, got %v", expected, doc.Labels.Fields)
	}
	if doc.Labels.DefaultField != "arabic_label" {
		t.Errorf("expected default field arabic_label, got %q", doc.Labels.DefaultField)
	}
	if doc.Labels.Font != "14px Arial" || doc.Labels.HaloWidth != 2 {
		t.Errorf("label options not applied: %+v", doc.Labels)
	}
}

func TestDefault_Marshal(t *testing.T) {
	data, err := json.Marshal(Default("Polygon", "", LabelOptions{}))
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"type", "geometry_type", "default_style", "property_styles", "labels"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing %q in %s", key, data)
		}
	}
	if fields := raw["labels"].(map[string]interface{})["fields"]; fields == nil {
		t.Errorf("labels.fields must be an empty array, got %s", data)
	}
}
