// Package catalog maintains the persistent index of produced layers.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// ErrCorruptCatalog marks a catalog file that exists but cannot be parsed.
var ErrCorruptCatalog = errors.New("corrupt catalog")

// Entry describes one produced layer.
type Entry struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Filename     string   `json:"filename"`
	GeometryType string   `json:"geometry_type"`
	Properties   []string `json:"properties"`
	FeatureCount int      `json:"feature_count"`
	HasStyle     bool     `json:"has_style"`
}

// Catalog is an ordered set of entries keyed by id, backed by a JSON file.
// It is not safe for concurrent use.
type Catalog struct {
	index   map[string]int
	path    string
	entries []Entry
}

// Open loads the catalog at path. A missing or unreadable file yields an
// empty catalog.
func Open(path string) *Catalog {
	c := &Catalog{path: path, index: make(map[string]int)}
	for _, e := range Load(path) {
		c.Upsert(e)
	}
	return c
}

// Load returns the entries persisted at path. Absent and corrupt files yield
// an empty slice; corruption is logged.
func Load(path string) []Entry {
	entries, err := Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("Catalog unreadable, starting empty")
		}
		return []Entry{}
	}
	return entries
}

// Read parses the catalog file. Parse failures wrap ErrCorruptCatalog.
// Entries without an id are dropped.
func Read(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptCatalog, path, err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, e := range raw {
		if e.ID != "" {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Path returns the backing file path.
func (c *Catalog) Path() string {
	return c.path
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Get returns the entry with the given id.
func (c *Catalog) Get(id string) (Entry, bool) {
	i, ok := c.index[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Upsert replaces the entry sharing e.ID at its current position, or appends e.
func (c *Catalog) Upsert(e Entry) {
	if e.Properties == nil {
		e.Properties = []string{}
	}
	if i, ok := c.index[e.ID]; ok {
		c.entries[i] = e
		return
	}
	c.index[e.ID] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Save writes the whole catalog as one JSON document. The file is replaced
// atomically through a temporary sibling.
func (c *Catalog) Save() error {
	entries := c.entries
	if entries == nil {
		entries = []Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	return WriteFile(c.path, buf.Bytes())
}

// Merge upserts entries in order and saves once.
func (c *Catalog) Merge(entries []Entry) error {
	for _, e := range entries {
		c.Upsert(e)
	}
	return c.Save()
}

// Supersede collapses entries sharing an id. The entry with the larger feature
// count wins and keeps the slot of the first occurrence.
func Supersede(entries []Entry) []Entry {
	index := make(map[string]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		i, ok := index[e.ID]
		if !ok {
			index[e.ID] = len(out)
			out = append(out, e)
			continue
		}
		if e.FeatureCount > out[i].FeatureCount {
			log.Debug().
				Str("layer", e.ID).
				Int("features", e.FeatureCount).
				Int("replaced", out[i].FeatureCount).
				Msg("Duplicate layer superseded")
			out[i] = e
		}
	}
	return out
}

// WriteFile writes data to path through a temporary file in the same
// directory followed by a rename.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0644); err != nil {
		_ = os.Remove(name)
		return err
	}

	return os.Rename(name, path)
}
