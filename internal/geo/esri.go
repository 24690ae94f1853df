// Package geo translates foreign geometry encodings into orb geometries.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrInputFormat is returned for a geometry record matching none of the known shapes.
// Callers drop the offending feature and keep going.
var ErrInputFormat = errors.New("unrecognized geometry record")

// EsriGeometry is a geometry record in ESRI JSON encoding.
type EsriGeometry struct {
	X      *float64      `json:"x,omitempty" yaml:"x,omitempty"`
	Y      *float64      `json:"y,omitempty" yaml:"y,omitempty"`
	Rings  [][][]float64 `json:"rings,omitempty" yaml:"rings,omitempty"`
	Paths  [][][]float64 `json:"paths,omitempty" yaml:"paths,omitempty"`
	Points [][]float64   `json:"points,omitempty" yaml:"points,omitempty"`
}

// EsriFeature is a single feature of an ESRI FeatureSet.
type EsriFeature struct {
	Attributes map[string]interface{} `json:"attributes"`
	Geometry   *EsriGeometry          `json:"geometry"`
}

// Translate maps one ESRI geometry record to its canonical orb geometry.
//
// One ring gives a Polygon, several rings a MultiPolygon holding all rings as a
// single polygon (holes are not detected). One path gives a LineString, several a
// MultiLineString. A point list gives a MultiPoint and an x/y pair a Point.
func Translate(g EsriGeometry) (orb.Geometry, error) {
	switch {
	case len(g.Rings) == 1:
		ring, err := toPoints(g.Rings[0])
		if err != nil {
			return nil, err
		}
		return orb.Polygon{orb.Ring(ring)}, nil

	case len(g.Rings) > 1:
		poly := make(orb.Polygon, 0, len(g.Rings))
		for _, r := range g.Rings {
			ring, err := toPoints(r)
			if err != nil {
				return nil, err
			}
			poly = append(poly, orb.Ring(ring))
		}
		return orb.MultiPolygon{poly}, nil

	case len(g.Paths) == 1:
		path, err := toPoints(g.Paths[0])
		if err != nil {
			return nil, err
		}
		return orb.LineString(path), nil

	case len(g.Paths) > 1:
		mls := make(orb.MultiLineString, 0, len(g.Paths))
		for _, p := range g.Paths {
			path, err := toPoints(p)
			if err != nil {
				return nil, err
			}
			mls = append(mls, orb.LineString(path))
		}
		return mls, nil

	case len(g.Points) > 0:
		points, err := toPoints(g.Points)
		if err != nil {
			return nil, err
		}
		return orb.MultiPoint(points), nil

	case g.X != nil && g.Y != nil:
		return orb.Point{*g.X, *g.Y}, nil
	}

	return nil, ErrInputFormat
}

// FeatureFromEsri converts an ESRI feature into a GeoJSON feature.
// Attributes are copied as properties unchanged.
func FeatureFromEsri(f EsriFeature) (*geojson.Feature, error) {
	if f.Geometry == nil {
		return nil, fmt.Errorf("%w: missing geometry", ErrInputFormat)
	}

	geom, err := Translate(*f.Geometry)
	if err != nil {
		return nil, err
	}

	feature := geojson.NewFeature(geom)
	for k, v := range f.Attributes {
		feature.Properties[k] = v
	}

	return feature, nil
}

// UnmarshalEsriFeature decodes one raw ESRI feature and converts it. A record
// whose geometry does not fit the ESRI shapes, such as the {"x":"NaN"} empty
// point, fails with ErrInputFormat like any other unrecognized geometry.
func UnmarshalEsriFeature(data []byte) (*geojson.Feature, error) {
	var raw struct {
		Attributes map[string]interface{} `json:"attributes"`
		Geometry   json.RawMessage        `json:"geometry"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputFormat, err)
	}

	f := EsriFeature{Attributes: raw.Attributes}
	if len(raw.Geometry) > 0 && string(raw.Geometry) != "null" {
		var g EsriGeometry
		if err := json.Unmarshal(raw.Geometry, &g); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInputFormat, err)
		}
		f.Geometry = &g
	}

	return FeatureFromEsri(f)
}

// toPoints converts raw positions, dropping Z and M ordinates.
func toPoints(coords [][]float64) ([]orb.Point, error) {
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: empty coordinate list", ErrInputFormat)
	}

	points := make([]orb.Point, 0, len(coords))
	for i, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("%w: position %d has %d ordinates", ErrInputFormat, i, len(c))
		}
		points = append(points, orb.Point{c[0], c[1]})
	}

	return points, nil
}
