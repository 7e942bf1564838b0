package preset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Preset is a named, reusable style-tags string.
type Preset struct {
	Name string `json:"name"`
	Tags string `json:"tags"`
}

// Genre groups presets under a genre name.
type Genre struct {
	Name    string   `json:"name"`
	Presets []Preset `json:"presets"`
}

// Catalog is the two-level preset library persisted as JSON.
type Catalog struct {
	Version int     `json:"version"`
	Genres  []Genre `json:"genres"`
}

// Manager loads and saves the preset catalog.
type Manager struct {
	path    string
	catalog *Catalog
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads the catalog from disk. A missing, unparsable or markerless file
// is replaced by the built-in defaults, which are persisted immediately so
// the file always exists after the first load.
func (m *Manager) Load() (*Catalog, error) {
	data, err := os.ReadFile(m.path)
	if err == nil {
		var c Catalog
		if err := json.Unmarshal(data, &c); err == nil && c.Genres != nil {
			m.catalog = &c
			return m.catalog, nil
		}
	}
	m.catalog = defaultCatalog()
	if err := m.Save(); err != nil {
		return nil, err
	}
	return m.catalog, nil
}

// Catalog returns the in-memory catalog, loading it first if needed.
func (m *Manager) Catalog() (*Catalog, error) {
	if m.catalog != nil {
		return m.catalog, nil
	}
	return m.Load()
}

// GenreNames returns the genre names in stored order.
func (m *Manager) GenreNames() []string {
	if m.catalog == nil {
		return nil
	}
	names := make([]string, 0, len(m.catalog.Genres))
	for _, g := range m.catalog.Genres {
		names = append(names, g.Name)
	}
	return names
}

// PresetsForGenre returns the presets of the first genre matching name, in
// stored order. Unknown genres yield nil.
func (m *Manager) PresetsForGenre(name string) []Preset {
	if m.catalog == nil {
		return nil
	}
	for _, g := range m.catalog.Genres {
		if g.Name == name {
			return g.Presets
		}
	}
	return nil
}

// Save writes the in-memory catalog back to disk as indented JSON with
// non-ASCII characters preserved literally.
func (m *Manager) Save() error {
	if m.catalog == nil {
		return fmt.Errorf("preset: no catalog loaded")
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("preset: couldn't create directory: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m.catalog); err != nil {
		return fmt.Errorf("preset: couldn't encode catalog: %w", err)
	}
	if err := os.WriteFile(m.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("preset: couldn't write %s: %w", m.path, err)
	}
	return nil
}

type csvRow struct {
	Genre string `csv:"genre"`
	Name  string `csv:"name"`
	Tags  string `csv:"tags"`
}

// ImportCSV merges presets from a csv file with fields (genre,name,tags)
// into the catalog and persists the result. Rows with an existing
// genre/name pair overwrite the stored tags.
func (m *Manager) ImportCSV(path string) (int, error) {
	if _, err := m.Catalog(); err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("preset: couldn't open %s: %w", path, err)
	}
	defer f.Close()
	var rows []csvRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return 0, fmt.Errorf("preset: couldn't parse %s: %w", path, err)
	}
	var n int
	for _, row := range rows {
		if row.Genre == "" || row.Name == "" {
			continue
		}
		m.merge(row)
		n++
	}
	if n > 0 {
		if err := m.Save(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func (m *Manager) merge(row csvRow) {
	for i, g := range m.catalog.Genres {
		if g.Name != row.Genre {
			continue
		}
		for j, p := range g.Presets {
			if p.Name == row.Name {
				m.catalog.Genres[i].Presets[j].Tags = row.Tags
				return
			}
		}
		m.catalog.Genres[i].Presets = append(g.Presets, Preset{Name: row.Name, Tags: row.Tags})
		return
	}
	m.catalog.Genres = append(m.catalog.Genres, Genre{
		Name:    row.Genre,
		Presets: []Preset{{Name: row.Name, Tags: row.Tags}},
	})
}
