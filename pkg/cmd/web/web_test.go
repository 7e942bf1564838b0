package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gjnave/heartlib/pkg/install"
	"github.com/gjnave/heartlib/pkg/settings"
)

func waitReady(t *testing.T, url string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server didn't come up at %s", url)
}

func mustGet(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestOutputDirFollowsSettings(t *testing.T) {
	root := t.TempDir()
	s := settings.Default()
	s.OutputDir = "out1"
	if err := s.Save(install.SettingsPath(root)); err != nil {
		t.Fatal(err)
	}
	for dir, name := range map[string]string{"out1": "a.mp3", "out2": "b.mp3"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(root, dir, name), []byte("audio"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addr := "127.0.0.1:18437"
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, &Config{Root: root, Addr: addr})
	}()
	base := "http://" + addr
	waitReady(t, base+"/api/config")

	if code := mustGet(t, base+"/output/a.mp3"); code != http.StatusOK {
		t.Fatalf("GET /output/a.mp3 = %d; want %d", code, http.StatusOK)
	}

	// Point the output directory somewhere else; the file server must
	// follow without a restart.
	s.OutputDir = "out2"
	body, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest(http.MethodPut, base+"/api/config", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/config: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("PUT /api/config = %d; want %d", resp.StatusCode, http.StatusNoContent)
	}

	if code := mustGet(t, base+"/output/b.mp3"); code != http.StatusOK {
		t.Fatalf("GET /output/b.mp3 = %d; want %d", code, http.StatusOK)
	}
	if code := mustGet(t, base+"/output/a.mp3"); code != http.StatusNotFound {
		t.Fatalf("GET /output/a.mp3 = %d; want %d after the switch", code, http.StatusNotFound)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() err = %v; want nil", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve() didn't return after cancel")
	}
}
