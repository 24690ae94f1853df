package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeometryType returns the GeoJSON type of the first feature carrying a geometry,
// or an empty string when the collection has none.
func GeometryType(fc *geojson.FeatureCollection) string {
	if fc == nil {
		return ""
	}
	for _, f := range fc.Features {
		if f != nil && f.Geometry != nil {
			return f.Geometry.GeoJSONType()
		}
	}
	return ""
}

// Extent returns the combined bound of every feature in the collections.
// The boolean is false when no geometry was found.
func Extent(fcs ...*geojson.FeatureCollection) (orb.Bound, bool) {
	var (
		bound orb.Bound
		found bool
	)

	for _, fc := range fcs {
		if fc == nil {
			continue
		}
		for _, f := range fc.Features {
			if f == nil || f.Geometry == nil {
				continue
			}
			b := f.Geometry.Bound()
			if !found {
				bound = b
				found = true
				continue
			}
			bound = bound.Union(b)
		}
	}

	return bound, found
}

// IsPolygonal reports whether the GeoJSON type is an areal geometry.
func IsPolygonal(geometryType string) bool {
	return geometryType == "Polygon" || geometryType == "MultiPolygon"
}

// IsLinear reports whether the GeoJSON type is a line geometry.
func IsLinear(geometryType string) bool {
	return geometryType == "LineString" || geometryType == "MultiLineString"
}

// IsPuntal reports whether the GeoJSON type is a point geometry.
func IsPuntal(geometryType string) bool {
	return geometryType == "Point" || geometryType == "MultiPoint"
}
