package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestUpsert_Idempotent(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "layers.json"))
	e := Entry{ID: "roads", Name: "Roads", FeatureCount: 3}

	c.Upsert(e)
	c.Upsert(e)

	if c.Len() != 1 {
		t.Fatalf("expected one entry, got %d", c.Len())
	}
	got, _ := c.Get("roads")
	e.Properties = []string{}
	if !reflect.DeepEqual(got, e) {
		t.Errorf("expected %+v, got %+v", e, got)
	}
}

func TestUpsert_KeepsPosition(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "layers.json"))

	c.Upsert(Entry{ID: "a", FeatureCount: 1})
	c.Upsert(Entry{ID: "b", FeatureCount: 2})
	c.Upsert(Entry{ID: "a", FeatureCount: 10, HasStyle: true})

	entries := c.Entries()
	if !reflect.DeepEqual(ids(entries), []string{"a", "b"}) {
		t.Fatalf("unexpected order %v", ids(entries))
	}
	if entries[0].FeatureCount != 10 || !entries[0].HasStyle {
		t.Errorf("entry a not replaced: %+v", entries[0])
	}
	if entries[1].FeatureCount != 2 {
		t.Errorf("entry b changed: %+v", entries[1])
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layers.json")
	if err := os.WriteFile(path, []byte(`[{"id":"a",`), 0644); err != nil {
		t.Fatal(err)
	}

	if entries := Load(path); len(entries) != 0 {
		t.Errorf("expected empty catalog, got %v", entries)
	}
	if c := Open(path); c.Len() != 0 {
		t.Errorf("expected empty catalog, got %d entries", c.Len())
	}
}

func TestLoad_Missing(t *testing.T) {
	entries := Load(filepath.Join(t.TempDir(), "absent.json"))
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", entries)
	}
}

func TestMerge_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "layers.json")

	c := Open(path)
	if err := c.Merge([]Entry{
		{ID: "roads", Name: "Roads", Filename: "roads.geojson", GeometryType: "LineString", FeatureCount: 4, Properties: []string{"name"}},
		{ID: "water", Name: "Water", Filename: "water.geojson", GeometryType: "Polygon", FeatureCount: 1},
	}); err != nil {
		t.Fatal(err)
	}

	reopened := Open(path)
	if !reflect.DeepEqual(reopened.Entries(), c.Entries()) {
		t.Errorf("expected %+v, got %+v", c.Entries(), reopened.Entries())
	}
}

func TestMerge_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layers.json")

	c := Open(path)
	if err := c.Merge([]Entry{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := Open(path).Merge(nil); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(before) != string(after) {
		t.Errorf("empty merge changed the catalog:\n%s\n%s", before, after)
	}
}

func TestRead_DropsEntriesWithoutID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layers.json")
	if err := os.WriteFile(path, []byte(`[{"id":""},{"id":"a","feature_count":2}]`), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids(entries), []string{"a"}) {
		t.Errorf("unexpected entries %v", ids(entries))
	}
}

func TestSupersede(t *testing.T) {
	got := Supersede([]Entry{
		{ID: "roads", FeatureCount: 3, Name: "first"},
		{ID: "water", FeatureCount: 1},
		{ID: "roads", FeatureCount: 7, Name: "second"},
		{ID: "roads", FeatureCount: 5, Name: "third"},
	})

	if !reflect.DeepEqual(ids(got), []string{"roads", "water"}) {
		t.Fatalf("unexpected order %v", ids(got))
	}
	if got[0].Name != "second" {
		t.Errorf("expected larger layer to win, got %+v", got[0])
	}
}
