// Package export writes canonical layers in binary vector formats.
package export

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cast"
)

// ErrNoFeatures is returned when a layer has nothing to write.
var ErrNoFeatures = errors.New("no features to write")

// Options configure FlatGeobuf output.
type Options struct {
	Name        string
	Description string
	Index       bool // packed Hilbert R-tree
}

// WriteFlatGeobufFile writes features to path as FlatGeobuf.
func WriteFlatGeobufFile(path string, fields []string, features []*geojson.Feature, opts Options) error {
	var buf bytes.Buffer
	if err := WriteFlatGeobuf(&buf, fields, features, opts); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// WriteFlatGeobuf encodes features as FlatGeobuf. Columns follow fields in
// order; each column is Bool, Double or String depending on the values it holds.
func WriteFlatGeobuf(w io.Writer, fields []string, features []*geojson.Feature, opts Options) error {
	geomType := flattypes.GeometryTypeUnknown
	count := 0
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		t := geometryType(f.Geometry)
		if count == 0 {
			geomType = t
		} else if t != geomType {
			geomType = flattypes.GeometryTypeUnknown
		}
		count++
	}
	if count == 0 {
		return ErrNoFeatures
	}

	builder := flatbuffers.NewBuilder(4096)
	header := writer.NewHeader(builder)
	header.SetGeometryType(geomType)
	if opts.Name != "" {
		header.SetName(opts.Name)
	}
	if opts.Description != "" {
		header.SetDescription(opts.Description)
	}

	schema := inferSchema(fields, features)
	if len(schema) > 0 {
		columns := make([]*writer.Column, len(schema))
		for i, c := range schema {
			col := writer.NewColumn(builder)
			col.SetName(c.name)
			col.SetTitle(c.name)
			col.SetType(c.kind)
			col.SetNullable(true)
			columns[i] = col
		}
		header.SetColumns(columns)
	}

	gen := &featureGenerator{features: features, schema: schema}
	if _, err := writer.NewWriter(header, opts.Index, gen, nil).Write(w); err != nil {
		return fmt.Errorf("write flatgeobuf: %w", err)
	}
	return nil
}

type column struct {
	name string
	kind flattypes.ColumnType
}

func inferSchema(fields []string, features []*geojson.Feature) []column {
	schema := make([]column, 0, len(fields))
	for _, name := range fields {
		kind := flattypes.ColumnType(0)
		seen := false
		for _, f := range features {
			if f == nil {
				continue
			}
			v, ok := f.Properties[name]
			if !ok || v == nil {
				continue
			}
			k := valueKind(v)
			switch {
			case !seen:
				kind = k
				seen = true
			case kind != k:
				kind = flattypes.ColumnTypeString
			}
		}
		if !seen {
			kind = flattypes.ColumnTypeString
		}
		schema = append(schema, column{name: name, kind: kind})
	}
	return schema
}

func valueKind(v interface{}) flattypes.ColumnType {
	switch v.(type) {
	case bool:
		return flattypes.ColumnTypeBool
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return flattypes.ColumnTypeDouble
	}
	return flattypes.ColumnTypeString
}

type featureGenerator struct {
	features []*geojson.Feature
	schema   []column
	index    int
}

// Generate implements writer.FeatureGenerator.
func (g *featureGenerator) Generate() *writer.Feature {
	for g.index < len(g.features) {
		f := g.features[g.index]
		g.index++
		if f == nil || f.Geometry == nil {
			continue
		}

		builder := flatbuffers.NewBuilder(1024)
		geom := encodeGeometry(builder, f.Geometry)
		if geom == nil {
			continue
		}

		feature := writer.NewFeature(builder)
		feature.SetGeometry(geom)
		if props := encodeProperties(f.Properties, g.schema); len(props) > 0 {
			feature.SetProperties(props)
		}
		return feature
	}
	return nil
}

// encodeProperties writes each non-null value as a little-endian uint16
// column index followed by the value.
func encodeProperties(props geojson.Properties, schema []column) []byte {
	var buf bytes.Buffer
	for i, c := range schema {
		v, ok := props[c.name]
		if !ok || v == nil {
			continue
		}

		_ = binary.Write(&buf, binary.LittleEndian, uint16(i))
		switch c.kind {
		case flattypes.ColumnTypeBool:
			b := byte(0)
			if v.(bool) {
				b = 1
			}
			buf.WriteByte(b)
		case flattypes.ColumnTypeDouble:
			_ = binary.Write(&buf, binary.LittleEndian, math.Float64bits(cast.ToFloat64(v)))
		default:
			s := cast.ToString(v)
			_ = binary.Write(&buf, binary.LittleEndian, uint32(len(s)))
			buf.WriteString(s)
		}
	}
	return buf.Bytes()
}

func geometryType(g orb.Geometry) flattypes.GeometryType {
	switch g.(type) {
	case orb.Point:
		return flattypes.GeometryTypePoint
	case orb.MultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case orb.LineString:
		return flattypes.GeometryTypeLineString
	case orb.MultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case orb.Polygon:
		return flattypes.GeometryTypePolygon
	case orb.MultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	}
	return flattypes.GeometryTypeUnknown
}

func encodeGeometry(builder *flatbuffers.Builder, g orb.Geometry) *writer.Geometry {
	geom := writer.NewGeometry(builder)
	geom.SetType(geometryType(g))

	switch v := g.(type) {
	case orb.Point:
		geom.SetXY([]float64{v[0], v[1]})
	case orb.MultiPoint:
		geom.SetXY(flatten(v))
	case orb.LineString:
		geom.SetXY(flatten(v))
	case orb.MultiLineString:
		parts := make([][]orb.Point, len(v))
		for i, ls := range v {
			parts[i] = ls
		}
		xy, ends := flattenParts(parts)
		geom.SetXY(xy)
		geom.SetEnds(ends)
	case orb.Polygon:
		setPolygon(geom, v)
	case orb.MultiPolygon:
		parts := make([]writer.Geometry, 0, len(v))
		for _, poly := range v {
			part := writer.NewGeometry(builder)
			part.SetType(flattypes.GeometryTypePolygon)
			setPolygon(part, poly)
			parts = append(parts, *part)
		}
		geom.SetParts(parts)
	default:
		return nil
	}

	return geom
}

func setPolygon(geom *writer.Geometry, poly orb.Polygon) {
	parts := make([][]orb.Point, len(poly))
	for i, r := range poly {
		parts[i] = r
	}
	xy, ends := flattenParts(parts)
	geom.SetXY(xy)
	geom.SetEnds(ends)
}

func flatten(points []orb.Point) []float64 {
	xy := make([]float64, 0, len(points)*2)
	for _, p := range points {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

func flattenParts(parts [][]orb.Point) ([]float64, []uint32) {
	var xy []float64
	ends := make([]uint32, 0, len(parts))
	for _, p := range parts {
		xy = append(xy, flatten(p)...)
		ends = append(ends, uint32(len(xy)/2))
	}
	return xy, ends
}
