package style

import (
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cast"
)

// Vocabulary lists the name tokens marking a column as carrying cartographic style.
var Vocabulary = []string{
	"COLOR", "SYMBOL", "WIDTH", "STYLE", "FILL", "STROKE", "OUTLINE",
	"TYPE", "CATEGORY", "CLASS", "CODE", "STATUS", "KIND", "FUNCTION",
	"USE", "LEVEL", "IMPORTANCE",
}

// IgnoredColumns are never considered as implicit style columns.
var IgnoredColumns = []string{"geometry", "shape", "objectid", "fid", "id"}

const (
	maxImplicitDistinct = 10
	maxDistinct         = 20
	implicitShare       = 1.0 / 5
	acceptShare         = 0.3
)

// Column is one attribute column with its values over every feature.
// A nil value marks a feature lacking the attribute.
type Column struct {
	Name   string
	Values []interface{}
}

// Candidate is a column accepted for categorical symbolization.
type Candidate struct {
	Name     string
	Distinct []interface{} // most frequent first, ties by first appearance
	Explicit bool
}

// Selector decides which columns are worth symbolizing.
type Selector struct {
	vocabulary []string
	ignored    map[string]bool
}

// NewSelector builds a selector. Empty arguments fall back to Vocabulary and
// IgnoredColumns; extra ignored names are added to the defaults.
func NewSelector(vocabulary []string, ignored ...string) *Selector {
	if len(vocabulary) == 0 {
		vocabulary = Vocabulary
	}

	s := &Selector{
		vocabulary: make([]string, 0, len(vocabulary)),
		ignored:    make(map[string]bool),
	}
	for _, v := range vocabulary {
		s.vocabulary = append(s.vocabulary, strings.ToUpper(v))
	}
	for _, name := range IgnoredColumns {
		s.ignored[name] = true
	}
	for _, name := range ignored {
		if name != "" {
			s.ignored[strings.ToLower(name)] = true
		}
	}

	return s
}

// Explicit reports whether the column name contains a vocabulary token.
func (s *Selector) Explicit(name string) bool {
	upper := strings.ToUpper(name)
	for _, token := range s.vocabulary {
		if strings.Contains(upper, token) {
			return true
		}
	}
	return false
}

// Select returns the accepted columns in input order. Explicit columns are
// preferred; the implicit cardinality scan runs only when none exist. Every
// candidate must satisfy 1 < d <= min(20, 0.3·n) distinct values.
func (s *Selector) Select(columns []Column, n int) []Candidate {
	var candidates []Candidate
	for _, col := range columns {
		if s.Explicit(col.Name) {
			candidates = append(candidates, Candidate{
				Name:     col.Name,
				Distinct: Distinct(col.Values),
				Explicit: true,
			})
		}
	}

	if len(candidates) == 0 {
		limit := math.Min(maxImplicitDistinct, float64(n)*implicitShare)
		for _, col := range columns {
			if s.ignored[strings.ToLower(col.Name)] {
				continue
			}
			distinct := Distinct(col.Values)
			d := float64(len(distinct))
			if d > 1 && d <= limit {
				candidates = append(candidates, Candidate{Name: col.Name, Distinct: distinct})
			}
		}
	}

	accept := math.Min(maxDistinct, float64(n)*acceptShare)
	selected := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		d := float64(len(c.Distinct))
		if d > 1 && d <= accept {
			selected = append(selected, c)
		}
	}

	return selected
}

// Distinct returns the distinct non-nil values ordered by descending frequency.
// Numbers compare by value whatever their Go type, so 3 and 3.0 collapse,
// while 1 and "1" stay distinct.
func Distinct(values []interface{}) []interface{} {
	type bucket struct {
		value interface{}
		count int
	}

	index := make(map[string]int)
	var buckets []bucket
	for _, v := range values {
		if v == nil {
			continue
		}
		key := distinctKey(v)
		if j, ok := index[key]; ok {
			buckets[j].count++
			continue
		}
		index[key] = len(buckets)
		buckets = append(buckets, bucket{value: v, count: 1})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].count > buckets[j].count
	})

	out := make([]interface{}, len(buckets))
	for i, b := range buckets {
		out[i] = b.value
	}
	return out
}

// Key is the string form of a value used as a property style key.
func Key(v interface{}) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// distinctKey is Key prefixed with the value kind.
func distinctKey(v interface{}) string {
	if f, ok := numeric(v); ok {
		return "n:" + Key(f)
	}
	switch v.(type) {
	case string:
		return "s:" + Key(v)
	case bool:
		return "b:" + Key(v)
	}
	return "o:" + Key(v)
}

// Columns gathers the value multiset of each field across features.
// Fields absent from a feature contribute a nil value.
func Columns(fields []string, features []*geojson.Feature) []Column {
	columns := make([]Column, len(fields))
	for i, name := range fields {
		values := make([]interface{}, len(features))
		for j, f := range features {
			if f != nil {
				values[j] = f.Properties[name]
			}
		}
		columns[i] = Column{Name: name, Values: values}
	}
	return columns
}
