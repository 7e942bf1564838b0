package generate

import (
	"context"
	"fmt"
	"log"

	"github.com/gjnave/heartlib"
	"github.com/gjnave/heartlib/pkg/filestore"
	"github.com/gjnave/heartlib/pkg/install"
	"github.com/gjnave/heartlib/pkg/preset"
	"github.com/gjnave/heartlib/pkg/settings"
	"github.com/gjnave/heartlib/pkg/storage"
)

type Config struct {
	Debug  bool
	Root   string
	Python string
	DBType string
	DBConn string
	FSType string
	FSConn string

	// Generation parameter overrides. Zero values keep the persisted
	// settings untouched.
	ModelPath      string
	Version        string
	Lyrics         string
	Tags           string
	Genre          string
	Preset         string
	MaxAudioLength int
	TopK           int
	Temperature    float64
	CFGScale       float64
	Output         string
	NoOpen         bool
}

// Run launches one generation using the persisted settings plus flag
// overrides, and persists the merged settings for the next run.
func Run(ctx context.Context, cfg *Config) error {
	log.Println("generate: process started")
	defer log.Println("generate: process ended")

	if err := install.EnsureDirs(cfg.Root); err != nil {
		return err
	}

	path := install.SettingsPath(cfg.Root)
	s := settings.Load(path)
	applyOverrides(s, cfg)

	if cfg.Preset != "" {
		tags, err := presetTags(cfg.Root, cfg.Genre, cfg.Preset)
		if err != nil {
			return err
		}
		s.TagsText = tags
	}

	if err := s.Save(path); err != nil {
		return err
	}

	var store *storage.Store
	if cfg.DBType != "" {
		candidate, err := storage.New(cfg.DBType, cfg.DBConn, cfg.Debug)
		if err != nil {
			return fmt.Errorf("generate: couldn't create orm store: %w", err)
		}
		if err := candidate.Start(ctx); err != nil {
			return fmt.Errorf("generate: couldn't start orm store: %w", err)
		}
		if err := candidate.Migrate(ctx); err != nil {
			return fmt.Errorf("generate: couldn't migrate orm store: %w", err)
		}
		store = candidate
	}

	var files *filestore.Store
	if cfg.FSType != "" {
		candidate, err := filestore.New(cfg.FSType, cfg.FSConn, cfg.Debug)
		if err != nil {
			return fmt.Errorf("generate: couldn't create file storage: %w", err)
		}
		files = candidate
	}

	result, err := heartlib.Generate(ctx, &heartlib.Config{
		Root:     cfg.Root,
		Python:   cfg.Python,
		Debug:    cfg.Debug,
		Settings: s,
		Genre:    cfg.Genre,
		Preset:   cfg.Preset,
		Store:    store,
		Files:    files,
	})
	if err != nil {
		return err
	}
	log.Printf("generate: saved %s (%s)\n", result.Output, result.Duration)
	return nil
}

func applyOverrides(s *settings.Settings, cfg *Config) {
	if cfg.ModelPath != "" {
		s.ModelPath = cfg.ModelPath
	}
	if cfg.Version != "" {
		s.Version = cfg.Version
	}
	if cfg.Lyrics != "" {
		s.LyricsText = cfg.Lyrics
	}
	if cfg.Tags != "" {
		s.TagsText = cfg.Tags
	}
	if cfg.MaxAudioLength > 0 {
		s.MaxAudioLength = cfg.MaxAudioLength
	}
	if cfg.TopK > 0 {
		s.TopK = cfg.TopK
	}
	if cfg.Temperature > 0 {
		s.Temperature = cfg.Temperature
	}
	if cfg.CFGScale > 0 {
		s.CFGScale = cfg.CFGScale
	}
	if cfg.Output != "" {
		s.OutputDir = cfg.Output
	}
	if cfg.NoOpen {
		s.AutoOpenOutput = false
	}
}

func presetTags(root, genre, name string) (string, error) {
	manager := preset.NewManager(install.PresetsPath(root))
	if _, err := manager.Load(); err != nil {
		return "", err
	}
	for _, p := range manager.PresetsForGenre(genre) {
		if p.Name == name {
			return p.Tags, nil
		}
	}
	return "", fmt.Errorf("generate: unknown preset %q in genre %q", name, genre)
}
