package preset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadSeedsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mulapresets.json")
	m := NewManager(path)
	c, err := m.Load()
	if err != nil {
		t.Fatalf("Load() err = %v; want nil", err)
	}
	if len(c.Genres) == 0 {
		t.Fatal("Load() returned empty catalog")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Load() didn't persist the catalog: %v", err)
	}

	// A second load must return the same structure from disk.
	m2 := NewManager(path)
	c2, err := m2.Load()
	if err != nil {
		t.Fatalf("second Load() err = %v; want nil", err)
	}
	if !reflect.DeepEqual(c, c2) {
		t.Fatal("second Load() returned a different catalog")
	}
}

func TestGenreNamesOrder(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "mulapresets.json"))
	if _, err := m.Load(); err != nil {
		t.Fatal(err)
	}
	want := []string{"EDM", "Rock", "Pop", "R&B", "Rap", "Ballad / Slow", "Instrumental", "Reggae", "Custom"}
	got := m.GenreNames()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GenreNames() = %v; want %v", got, want)
	}
}

func TestPresetsForGenre(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "mulapresets.json"))
	if _, err := m.Load(); err != nil {
		t.Fatal(err)
	}
	presets := m.PresetsForGenre("EDM")
	if len(presets) == 0 {
		t.Fatal("PresetsForGenre(EDM) returned no presets")
	}
	if got, want := presets[0].Name, "House – Club"; got != want {
		t.Errorf("first EDM preset = %q; want %q", got, want)
	}
	if got := m.PresetsForGenre("Nope"); got != nil {
		t.Errorf("PresetsForGenre(Nope) = %v; want nil", got)
	}
}

func TestLoadKeepsExistingCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mulapresets.json")
	custom := `{"version": 1, "genres": [{"name": "Mine", "presets": [{"name": "A", "tags": "x"}]}]}`
	if err := os.WriteFile(path, []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}
	m := NewManager(path)
	c, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Genres) != 1 || c.Genres[0].Name != "Mine" {
		t.Fatalf("Load() = %+v; want the stored custom catalog", c)
	}
}

func TestLoadReplacesMarkerlessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mulapresets.json")
	if err := os.WriteFile(path, []byte(`{"version": 1}`), 0644); err != nil {
		t.Fatal(err)
	}
	m := NewManager(path)
	c, err := m.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Genres) == 0 {
		t.Fatal("markerless file should fall back to the default catalog")
	}
}

func TestImportCSV(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(filepath.Join(dir, "mulapresets.json"))
	if _, err := m.Load(); err != nil {
		t.Fatal(err)
	}
	csv := "genre,name,tags\nCustom,My Beat,\"trap, 140 bpm\"\nEDM,Tech House,\"tech house, 130 bpm\"\n"
	csvPath := filepath.Join(dir, "presets.csv")
	if err := os.WriteFile(csvPath, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}
	n, err := m.ImportCSV(csvPath)
	if err != nil {
		t.Fatalf("ImportCSV() err = %v; want nil", err)
	}
	if n != 2 {
		t.Fatalf("ImportCSV() = %d rows; want 2", n)
	}
	custom := m.PresetsForGenre("Custom")
	if len(custom) != 1 || custom[0].Name != "My Beat" {
		t.Errorf("Custom presets = %+v; want My Beat", custom)
	}
	// Existing preset gets its tags replaced.
	for _, p := range m.PresetsForGenre("EDM") {
		if p.Name == "Tech House" && p.Tags != "tech house, 130 bpm" {
			t.Errorf("Tech House tags = %q; want overwritten value", p.Tags)
		}
	}
}
