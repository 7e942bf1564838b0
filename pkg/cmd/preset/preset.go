package preset

import (
	"context"
	"fmt"
	"log"

	"github.com/gjnave/heartlib/pkg/install"
	"github.com/gjnave/heartlib/pkg/preset"
)

type Config struct {
	Root  string
	Genre string
	Input string
}

// Run lists the preset catalog or, when Input is set, merges a csv file
// into it.
func Run(ctx context.Context, cfg *Config) error {
	manager := preset.NewManager(install.PresetsPath(cfg.Root))
	if _, err := manager.Load(); err != nil {
		return err
	}

	if cfg.Input != "" {
		n, err := manager.ImportCSV(cfg.Input)
		if err != nil {
			return err
		}
		log.Printf("preset: imported %d presets from %s\n", n, cfg.Input)
		return nil
	}

	if cfg.Genre != "" {
		presets := manager.PresetsForGenre(cfg.Genre)
		if presets == nil {
			return fmt.Errorf("preset: unknown genre %q", cfg.Genre)
		}
		for _, p := range presets {
			fmt.Printf("%s\t%s\n", p.Name, p.Tags)
		}
		return nil
	}

	for _, name := range manager.GenreNames() {
		fmt.Printf("%s (%d presets)\n", name, len(manager.PresetsForGenre(name)))
	}
	return nil
}
