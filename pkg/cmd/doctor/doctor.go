package doctor

import (
	"context"
	"fmt"
	"log"

	"github.com/gjnave/heartlib/pkg/install"
	"github.com/gjnave/heartlib/pkg/settings"
)

type Config struct {
	Root      string
	ModelPath string
	Fix       bool
}

// Run checks the installation the same way a generation would and prints
// the result. With Fix set it also creates the missing directories and
// seeds the default settings file.
func Run(ctx context.Context, cfg *Config) error {
	log.Println("doctor: check started")
	defer log.Println("doctor: check ended")

	if cfg.Fix {
		if err := install.EnsureDirs(cfg.Root); err != nil {
			return err
		}
		path := install.SettingsPath(cfg.Root)
		s := settings.Load(path)
		if err := s.Save(path); err != nil {
			return err
		}
		log.Println("doctor: directories and settings file ensured")
	}

	modelPath := cfg.ModelPath
	if modelPath == "" {
		modelPath = settings.Load(install.SettingsPath(cfg.Root)).ModelPath
	}

	if err := install.Validate(modelPath, cfg.Root); err != nil {
		return err
	}
	fmt.Printf("model directory: %s\n", install.Resolve(modelPath, cfg.Root))
	fmt.Println("installation OK")
	return nil
}
