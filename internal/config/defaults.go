package config

import (
	"github.com/woozymasta/geosym/internal/palette"
	"github.com/woozymasta/geosym/internal/style"
)

// LocalizedField is the property carrying the localized display label.
const LocalizedField = "arabic_label"

// Default returns the built-in configuration for the Homs map package.
func Default() *Config {
	return &Config{
		Map: MapInfo{
			Title:            "Homs Map",
			Description:      "Map of Homs, Syria",
			SpatialReference: "GCS_WGS_1984",
			ThumbnailWidth:   512,
		},
		Output: Output{
			DataDir:   "static/data",
			StylesDir: "static/styles",
			ImagesDir: "static/images",
			Catalog:   "layers.json",
			MapInfo:   "map_info.json",
			FGBIndex:  true,
		},
		Source: Source{
			SkipPrefixes: []string{"a0"},
		},
		Labels: style.LabelOptions{
			Font:           "14px Arial",
			Color:          "#333333",
			HaloColor:      "#ffffff",
			HaloWidth:      2,
			LocalizedField: LocalizedField,
		},
		// scanned in order, first substring match wins
		ThemeColors: []style.ThemeColor{
			{Pattern: "nieghborhood", Color: "#B9CF96"},
			{Pattern: "neighborhoood", Color: "#B9CF96"},
			{Pattern: "neighborhood", Color: "#B9CF96"},
			{Pattern: "routes", Color: "#FF7F00"},
			{Pattern: "routeswgs", Color: "#FF7F00"},
			{Pattern: "road", Color: "#FF7F00"},
			{Pattern: "roads", Color: "#FF7F00"},
			{Pattern: "building", Color: "#A8A8A8"},
			{Pattern: "buildings", Color: "#A8A8A8"},
			{Pattern: "landmark", Color: "#E63A24"},
			{Pattern: "landmarks", Color: "#E63A24"},
			{Pattern: "poi", Color: "#E63A24"},
			{Pattern: "landuse", Color: "#2BAB45"},
			{Pattern: "land_use", Color: "#2BAB45"},
			{Pattern: "water", Color: "#3B7AB8"},
			{Pattern: "waterbody", Color: "#3B7AB8"},
			{Pattern: "classification", Color: "#FFBF00"},
			{Pattern: "telecom", Color: "#9932CC"},
			{Pattern: "housing", Color: "#A8A8A8"},
			{Pattern: "swm", Color: "#228B22"},
			{Pattern: "electricity", Color: "#FFD700"},
		},
		Presets: []palette.Preset{
			{Pattern: "road", Colors: []string{"#999999", "#666666", "#333333", "#FF7F00", "#E31A1C"}},
			{Pattern: "building", Colors: []string{"#A8A8A8", "#CCCCCC", "#666666", "#333333", "#DFDFDF"}},
			{Pattern: "landuse", Colors: []string{"#2BAB45", "#66C266", "#B3E3B3", "#78AB46", "#ADFA96"}},
			{Pattern: "water", Colors: []string{"#3B7AB8", "#6BAED6", "#9ECAE1", "#C6DBEF", "#2171B5"}},
			{Pattern: "landmark", Colors: []string{"#E63A24", "#FC4E2A", "#FD8D3C", "#FDBB84", "#E6550D"}},
		},
		RangeRules: []style.RangeRule{
			{Pattern: "electricity", Property: "power", Ramp: []string{"#FFFFCC", "#FFEDA0", "#FED976", "#FEB24C", "#FD8D3C"}},
			{Pattern: "waste_water", Property: "swage", Ramp: []string{"#F7FBFF", "#DEEBF7", "#C6DBEF", "#9ECAE1", "#6BAED6"}},
			{Pattern: "telecom", Property: "telecom", Ramp: []string{"#F7FCF5", "#E5F5E0", "#C7E9C0", "#A1D99B", "#74C476"}},
			{Pattern: "housing", Property: "housing", Ramp: []string{"#FFF5EB", "#FEE6CE", "#FDD0A2", "#FDAE6B", "#FD8D3C"}},
			{Pattern: "clean_water", Property: "waterSupply", Ramp: []string{"#F7FBFF", "#DEEBF7", "#C6DBEF", "#9ECAE1", "#6BAED6"}},
			{Pattern: "swm", Property: "SMW", Ramp: []string{"#F7FCF5", "#E5F5E0", "#C7E9C0", "#A1D99B", "#74C476"}},
			{Pattern: "neighborhood", Property: "OverAllIndicator", Ramp: []string{"#F7FCF5", "#E5F5E0", "#C7E9C0", "#A1D99B", "#74C476"}},
		},
		LocalizedNames: map[string]string{
			"routes":         "الطرق",
			"classification": "التصنيف",
			"waste_water":    "الصرف الصحي",
			"telecom":        "الاتصالات",
			"housing":        "المساكن",
			"clean_water":    "مياه الشرب",
			"swm":            "إدارة النفايات الصلبة",
			"electricity":    "الكهرباء",
			"neighborhood":   "الأحياء",
		},
		Thematic: Thematic{
			Base:              "nieghborhood",
			NeighborhoodField: "ADM4_NAME",
			LabelField:        "ADM4_NAME_",
			Layers: []ThematicLayer{
				{
					ID: "electricity", Name: "الكهرباء", Property: "power", CostProperty: "powerCost",
					Ramp: []string{"#FFFFB2", "#FED976", "#FEB24C", "#FD8D3C", "#FC4E2A", "#E31A1C", "#B10026"},
				},
				{
					ID: "swm", Name: "إدارة النفايات الصلبة", Property: "SMW", CostProperty: "SMWCost",
					Ramp: []string{"#EFEDF5", "#DADAEB", "#BCBDDC", "#9E9AC8", "#807DBA", "#6A51A3", "#4A1486"},
				},
				{
					ID: "clean_water", Name: "مياه الشرب", Property: "waterSupply", CostProperty: "waterCost",
					Ramp: []string{"#EFF3FF", "#C6DBEF", "#9ECAE1", "#6BAED6", "#4292C6", "#2171B5", "#084594"},
				},
				{
					ID: "housing", Name: "المساكن", Property: "housing", CostProperty: "housingCost",
					Ramp: []string{"#F7F7F7", "#D9D9D9", "#BDBDBD", "#969696", "#737373", "#525252", "#252525"},
				},
				{
					ID: "telecom", Name: "الاتصالات", Property: "telecom", CostProperty: "telecomCost",
					Ramp: []string{"#F2F0F7", "#DADAEB", "#BCBDDC", "#9E9AC8", "#807DBA", "#6A51A3", "#4A1486"},
				},
				{
					ID: "waste_water", Name: "الصرف الصحي", Property: "swage", CostProperty: "swageCost",
					Ramp: []string{"#F1EEF6", "#D4B9DA", "#C994C7", "#DF65B0", "#E7298A", "#CE1256", "#91003F"},
				},
				{
					ID: "neighborhood", Name: "الأحياء", Property: "OverAllIndicator", LabelProperty: "ADM4_NAME_",
					Ramp: []string{"#B9CF96", "#A8DB94", "#96E8A0", "#78C498", "#56A08C", "#357E7F", "#1E5C70"},
				},
			},
		},
	}
}
