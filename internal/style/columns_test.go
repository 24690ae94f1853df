package style

import (
	"fmt"
	"math"
	"reflect"
	"testing"
)

// column builds n values cycling through distinct.
func column(name string, n int, distinct ...interface{}) Column {
	values := make([]interface{}, n)
	for i := range values {
		values[i] = distinct[i%len(distinct)]
	}
	return Column{Name: name, Values: values}
}

func names(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

func TestSelector_ExplicitPreferred(t *testing.T) {
	s := NewSelector(nil)
	columns := []Column{
		column("zone", 20, "a", "b"),
		column("ROAD_TYPE", 20, "primary", "secondary", "track"),
		column("district", 20, 1, 2, 3),
	}

	got := names(s.Select(columns, 20))
	if !reflect.DeepEqual(got, []string{"ROAD_TYPE"}) {
		t.Errorf("expected only the explicit column, got %v", got)
	}
}

func TestSelector_ImplicitFallback(t *testing.T) {
	s := NewSelector(nil, "arabic_label")
	columns := []Column{
		column("OBJECTID", 50, 1, 2, 3),
		column("zone", 50, "a", "b", "c"),
		column("arabic_label", 50, "x", "y"),
		column("owner", 50, "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z"), // 11 distinct
		column("flag", 50, true),
	}

	got := names(s.Select(columns, 50))
	if !reflect.DeepEqual(got, []string{"zone"}) {
		t.Errorf("expected [zone], got %v", got)
	}
}

func TestSelector_AcceptanceWindow(t *testing.T) {
	s := NewSelector(nil)

	tests := []struct {
		name     string
		n        int
		distinct int
		accepted bool
	}{
		{"constant", 100, 1, false},
		{"two values", 100, 2, true},
		{"twenty values", 100, 20, true},
		{"over twenty", 100, 21, false},
		{"over thirty percent", 10, 4, false},
		{"at thirty percent", 10, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distinct := make([]interface{}, tt.distinct)
			for i := range distinct {
				distinct[i] = fmt.Sprintf("v%d", i)
			}
			got := s.Select([]Column{column("STATUS", tt.n, distinct...)}, tt.n)
			if (len(got) == 1) != tt.accepted {
				t.Errorf("accepted=%v, want %v", len(got) == 1, tt.accepted)
			}
		})
	}
}

func TestSelector_AcceptedCardinality(t *testing.T) {
	s := NewSelector(nil)
	for n := 1; n <= 60; n++ {
		for d := 1; d <= n; d++ {
			distinct := make([]interface{}, d)
			for i := range distinct {
				distinct[i] = i
			}
			for _, c := range s.Select([]Column{column("CLASS", n, distinct...)}, n) {
				got := float64(len(c.Distinct))
				if got <= 1 || got > math.Min(20, 0.3*float64(n)) {
					t.Fatalf("n=%d: accepted %d distinct values", n, len(c.Distinct))
				}
			}
		}
	}
}

func TestSelector_MissingNotCounted(t *testing.T) {
	s := NewSelector(nil)
	col := Column{Name: "KIND", Values: []interface{}{"a", nil, "b", nil, "a", nil, "b", nil, "a", nil}}

	got := s.Select([]Column{col}, 10)
	if len(got) != 1 {
		t.Fatalf("expected column accepted, got %v", got)
	}
	if len(got[0].Distinct) != 2 {
		t.Errorf("expected 2 distinct values, got %v", got[0].Distinct)
	}
}

func TestDistinct_Order(t *testing.T) {
	got := Distinct([]interface{}{"b", "a", "c", "a", "c", 3.0, float64(3)})
	want := []interface{}{"a", "c", 3.0, "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDistinct_KeepsKinds(t *testing.T) {
	got := Distinct([]interface{}{1.0, "1", 1.0, int64(1), "1", "x", true})
	want := []interface{}{1.0, "1", "x", true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSelector_CountsMixedKindsSeparately(t *testing.T) {
	s := NewSelector(nil)
	// 1 and "1" are two values: d=2 fits the window for n=10
	col := Column{Name: "grade", Values: []interface{}{1.0, "1", 1.0, "1", 1.0, "1", 1.0, "1", 1.0, "1"}}

	got := s.Select([]Column{col}, 10)
	if len(got) != 1 || len(got[0].Distinct) != 2 {
		t.Fatalf("expected one column with 2 distinct values, got %v", got)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		in       interface{}
		expected string
	}{
		{"road", "road"},
		{3.0, "3"},
		{2.5, "2.5"},
		{int64(7), "7"},
		{true, "true"},
	}

	for _, tt := range tests {
		if got := Key(tt.in); got != tt.expected {
			t.Errorf("Key(%v) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
