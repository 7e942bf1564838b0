package sound

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDurationMissingFile(t *testing.T) {
	if _, err := Duration(filepath.Join(t.TempDir(), "nope.mp3")); err == nil {
		t.Fatal("Duration() err = nil; want error for missing file")
	}
}

func TestDurationInvalidData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mp3")
	if err := os.WriteFile(path, []byte("this is not an mp3 stream"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Duration(path); err == nil {
		t.Fatal("Duration() err = nil; want decode error")
	}
}

func TestPeakMissingFile(t *testing.T) {
	if _, err := Peak(filepath.Join(t.TempDir(), "nope.mp3")); err == nil {
		t.Fatal("Peak() err = nil; want error for missing file")
	}
}

func TestPeakInvalidData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mp3")
	if err := os.WriteFile(path, []byte("this is not an mp3 stream"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Peak(path); err == nil {
		t.Fatal("Peak() err = nil; want decode error")
	}
}
