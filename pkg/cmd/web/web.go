package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	iofs "io/fs"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gjnave/heartlib"
	"github.com/gjnave/heartlib/pkg/filestore"
	"github.com/gjnave/heartlib/pkg/install"
	"github.com/gjnave/heartlib/pkg/preset"
	"github.com/gjnave/heartlib/pkg/settings"
	"github.com/gjnave/heartlib/pkg/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
)

type Config struct {
	Debug  bool
	Root   string
	Python string
	DBType string
	DBConn string
	FSType string
	FSConn string

	Addr        string
	Credentials map[string]string
}

//go:embed static/*
var staticContent embed.FS

// job is one browser-triggered generation. Lines are kept in memory so the
// client can poll for increments.
type job struct {
	id string

	mu       sync.Mutex
	lines    []string
	state    string
	output   string
	canceled bool
	cancel   context.CancelFunc
}

func (j *job) appendLine(line string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lines = append(j.lines, line)
}

// Serve starts the browser front end.
func Serve(ctx context.Context, cfg *Config) error {
	log.Println("web: server started")
	defer log.Println("web: server ended")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := install.EnsureDirs(cfg.Root); err != nil {
		return err
	}

	var store *storage.Store
	if cfg.DBType != "" {
		candidate, err := storage.New(cfg.DBType, cfg.DBConn, cfg.Debug)
		if err != nil {
			return fmt.Errorf("web: couldn't create orm store: %w", err)
		}
		if err := candidate.Start(ctx); err != nil {
			return fmt.Errorf("web: couldn't start orm store: %w", err)
		}
		if err := candidate.Migrate(ctx); err != nil {
			return fmt.Errorf("web: couldn't migrate orm store: %w", err)
		}
		store = candidate
	}

	var files *filestore.Store
	if cfg.FSType != "" {
		candidate, err := filestore.New(cfg.FSType, cfg.FSConn, cfg.Debug)
		if err != nil {
			return fmt.Errorf("web: couldn't create file storage: %w", err)
		}
		files = candidate
	}

	presets := preset.NewManager(install.PresetsPath(cfg.Root))
	if _, err := presets.Load(); err != nil {
		return err
	}

	// Create static content
	staticFS, err := iofs.Sub(staticContent, "static")
	if err != nil {
		return fmt.Errorf("web: couldn't load static content: %w", err)
	}

	// Create router
	mux := chi.NewRouter()

	// Add middleware
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Timeout(60 * time.Second))

	// Add BasicAuth middleware
	if len(cfg.Credentials) > 0 {
		mux.Use(middleware.BasicAuth("private", cfg.Credentials))
	}

	// Create subrouter for api endpoints
	r := mux.Group(func(r chi.Router) {
		if cfg.Debug {
			r.Use(middleware.Logger)
		}
	})

	// Create server
	split := strings.Split(cfg.Addr, ":")
	if len(split) != 2 {
		return fmt.Errorf("web: invalid address: %s", cfg.Addr)
	}
	host := split[0]
	port, err := strconv.Atoi(split[1])
	if err != nil {
		return fmt.Errorf("web: invalid port: %s", split[1])
	}
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: mux,
	}
	go func() {
		note := fmt.Sprintf("http://%s:%d", host, port)
		if host == "" {
			note = fmt.Sprintf("all interfaces http://localhost:%d", port)
		}
		log.Printf("Starting server on %s", note)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v\n", err)
			cancel()
		}
	}()

	settingsPath := install.SettingsPath(cfg.Root)

	// Serialize settings access and keep at most one generation running.
	var mu sync.Mutex
	jobs := map[string]*job{}
	var current *job

	// Handler to serve the static files
	mux.Get("/*", http.StripPrefix("/", http.FileServer(http.FS(staticFS))).ServeHTTP)

	// Handler to serve the generated audio files. The directory is resolved
	// per request so a settings change takes effect without a restart.
	mux.Get("/output/*", func(w http.ResponseWriter, r *http.Request) {
		outputDir := install.Resolve(settings.Load(settingsPath).OutputDir, cfg.Root)
		http.StripPrefix("/output/", http.FileServer(http.Dir(outputDir))).ServeHTTP(w, r)
	})

	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		s := settings.Load(settingsPath)
		mu.Unlock()
		if err := json.NewEncoder(w).Encode(s); err != nil {
			http.Error(w, fmt.Sprintf("couldn't encode settings: %v", err), http.StatusInternalServerError)
		}
	})

	r.Put("/api/config", func(w http.ResponseWriter, r *http.Request) {
		var s settings.Settings
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, fmt.Sprintf("couldn't decode settings: %v", err), http.StatusBadRequest)
			return
		}
		mu.Lock()
		err := s.Save(settingsPath)
		mu.Unlock()
		if err != nil {
			http.Error(w, fmt.Sprintf("couldn't save settings: %v", err), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/api/presets", func(w http.ResponseWriter, r *http.Request) {
		genre := r.URL.Query().Get("genre")
		var v interface{}
		if genre == "" {
			v = presets.GenreNames()
		} else {
			ps := presets.PresetsForGenre(genre)
			if ps == nil {
				http.Error(w, fmt.Sprintf("unknown genre: %s", genre), http.StatusNotFound)
				return
			}
			v = ps
		}
		if err := json.NewEncoder(w).Encode(v); err != nil {
			http.Error(w, fmt.Sprintf("couldn't encode presets: %v", err), http.StatusInternalServerError)
		}
	})

	r.Post("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			settings.Settings
			Genre  string `json:"genre"`
			Preset string `json:"preset"`
		}
		req.Settings = *settings.Load(settingsPath)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("couldn't decode request: %v", err), http.StatusBadRequest)
			return
		}

		mu.Lock()
		if current != nil {
			current.mu.Lock()
			running := current.state == "running"
			current.mu.Unlock()
			if running {
				mu.Unlock()
				http.Error(w, "a generation is already running", http.StatusConflict)
				return
			}
		}
		if err := req.Settings.Save(settingsPath); err != nil {
			mu.Unlock()
			http.Error(w, fmt.Sprintf("couldn't save settings: %v", err), http.StatusInternalServerError)
			return
		}
		jobCtx, jobCancel := context.WithCancel(ctx)
		j := &job{
			id:     ulid.Make().String(),
			state:  "running",
			cancel: jobCancel,
		}
		jobs[j.id] = j
		current = j
		mu.Unlock()

		s := req.Settings
		// The browser client plays the result itself.
		s.AutoOpenOutput = false
		go func() {
			defer jobCancel()
			result, err := heartlib.Generate(jobCtx, &heartlib.Config{
				Root:     cfg.Root,
				Python:   cfg.Python,
				Debug:    cfg.Debug,
				Settings: &s,
				Genre:    req.Genre,
				Preset:   req.Preset,
				Store:    store,
				Files:    files,
				OnLine:   j.appendLine,
			})
			j.mu.Lock()
			defer j.mu.Unlock()
			switch {
			case err == nil:
				j.state = "done"
				j.output = result.Output
			case j.canceled:
				j.state = "canceled"
			default:
				j.state = "failed"
				j.lines = append(j.lines, err.Error())
			}
		}()

		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(map[string]string{"id": j.id}); err != nil {
			log.Println("web: couldn't encode job id:", err)
		}
	})

	r.Get("/api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		j, ok := jobs[chi.URLParam(r, "id")]
		mu.Unlock()
		if !ok {
			http.Error(w, "unknown job", http.StatusNotFound)
			return
		}
		offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
		if err != nil || offset < 0 {
			offset = 0
		}
		j.mu.Lock()
		if offset > len(j.lines) {
			offset = len(j.lines)
		}
		resp := struct {
			ID     string   `json:"id"`
			State  string   `json:"state"`
			Lines  []string `json:"lines"`
			Offset int      `json:"offset"`
			Output string   `json:"output,omitempty"`
		}{
			ID:     j.id,
			State:  j.state,
			Lines:  append([]string{}, j.lines[offset:]...),
			Offset: len(j.lines),
		}
		if j.output != "" {
			resp.Output = "/output/" + filepath.Base(j.output)
		}
		j.mu.Unlock()
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, fmt.Sprintf("couldn't encode job: %v", err), http.StatusInternalServerError)
		}
	})

	r.Post("/api/jobs/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		j, ok := jobs[chi.URLParam(r, "id")]
		mu.Unlock()
		if !ok {
			http.Error(w, "unknown job", http.StatusNotFound)
			return
		}
		j.mu.Lock()
		if j.state == "running" {
			j.canceled = true
		}
		j.mu.Unlock()
		j.cancel()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/api/history", func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			http.Error(w, "history is not enabled", http.StatusNotFound)
			return
		}
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			page = 1
		}
		size, err := strconv.Atoi(r.URL.Query().Get("size"))
		if err != nil {
			size = 100
		}
		generations, err := store.ListGenerations(ctx, page, size, "created_at desc")
		if err != nil {
			log.Println("couldn't list generations:", err)
			http.Error(w, fmt.Sprintf("couldn't list generations: %v", err), http.StatusInternalServerError)
			return
		}
		if err := json.NewEncoder(w).Encode(generations); err != nil {
			http.Error(w, fmt.Sprintf("couldn't encode generations: %v", err), http.StatusInternalServerError)
		}
	})

	<-ctx.Done()

	// Shutdown the server when the context is canceled
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: couldn't shutdown server: %w", err)
	}
	return nil
}
