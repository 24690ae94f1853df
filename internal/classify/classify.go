// Package classify bins numeric feature attributes into choropleth classes.
package classify

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cast"
)

var (
	// ErrEmptyData is returned when no feature carries a usable value for the property.
	ErrEmptyData = errors.New("no values available for classification")

	// ErrEmptyRamp is returned when the color ramp has no entries.
	ErrEmptyRamp = errors.New("empty color ramp")
)

// Bin is one class of a scheme. Bounds are inclusive.
type Bin struct {
	Color string
	Lower float64
	Upper float64
}

// Label renders the bin bounds with one decimal place, e.g. "20.0-40.0".
func (b Bin) Label() string {
	return fmt.Sprintf("%.1f-%.1f", b.Lower, b.Upper)
}

// Contains reports whether v lies within [Lower, Upper].
func (b Bin) Contains(v float64) bool {
	return b.Lower <= v && v <= b.Upper
}

// Scheme is an equal-width partition of the observed range of one property.
type Scheme struct {
	Property string
	Bins     []Bin
	Min      float64
	Max      float64
}

// New builds a scheme with one bin per ramp color over the range of property
// values found in features.
func New(features []*geojson.Feature, property string, ramp []string) (*Scheme, error) {
	if len(ramp) == 0 {
		return nil, ErrEmptyRamp
	}

	values := Values(features, property)
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: property %q", ErrEmptyData, property)
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return NewRange(property, lo, hi, ramp)
}

// NewRange builds a scheme over an explicit [lo, hi] range.
func NewRange(property string, lo, hi float64, ramp []string) (*Scheme, error) {
	if len(ramp) == 0 {
		return nil, ErrEmptyRamp
	}

	k := float64(len(ramp))
	span := hi - lo

	bins := make([]Bin, len(ramp))
	for i, color := range ramp {
		bins[i] = Bin{
			Lower: lo + span*float64(i)/k,
			Upper: lo + span*float64(i+1)/k,
			Color: color,
		}
	}
	// keep rounding from leaving the maximum outside the last bin
	bins[len(bins)-1].Upper = hi

	return &Scheme{
		Property: property,
		Min:      lo,
		Max:      hi,
		Bins:     bins,
	}, nil
}

// Bin returns the index of the first bin containing v.
// Values on an interior boundary therefore fall in the lower bin.
func (s *Scheme) Bin(v float64) (int, bool) {
	for i, b := range s.Bins {
		if b.Contains(v) {
			return i, true
		}
	}
	return -1, false
}

// Classify returns the bin of a feature. Features without a usable value are
// left unclassified.
func (s *Scheme) Classify(f *geojson.Feature) (Bin, bool) {
	if f == nil {
		return Bin{}, false
	}
	v, ok := Value(f.Properties, s.Property)
	if !ok {
		return Bin{}, false
	}
	i, ok := s.Bin(v)
	if !ok {
		return Bin{}, false
	}
	return s.Bins[i], true
}

// Values extracts every present, numeric-coercible value of property.
func Values(features []*geojson.Feature, property string) []float64 {
	values := make([]float64, 0, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		if v, ok := Value(f.Properties, property); ok {
			values = append(values, v)
		}
	}
	return values
}

// Value coerces a property to float64. Missing, null, NaN and non-numeric
// values are reported as absent.
func Value(props geojson.Properties, property string) (float64, bool) {
	raw, ok := props[property]
	if !ok || raw == nil {
		return 0, false
	}

	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}

	return v, true
}
