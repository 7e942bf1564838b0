package heartlib

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gjnave/heartlib/pkg/filestore"
	"github.com/gjnave/heartlib/pkg/heartmula"
	"github.com/gjnave/heartlib/pkg/install"
	"github.com/gjnave/heartlib/pkg/settings"
	"github.com/gjnave/heartlib/pkg/sound"
	"github.com/gjnave/heartlib/pkg/storage"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/browser"
)

// Below this normalized sample peak the produced audio is considered
// silent and a warning is logged.
const silentPeak = 0.001

// Config drives one generation run.
type Config struct {
	Root   string
	Python string
	Debug  bool

	Settings *settings.Settings

	// Genre and Preset label the run in the history, they don't affect
	// the generation itself.
	Genre  string
	Preset string

	// Store keeps the generation history. Optional.
	Store *storage.Store
	// Files archives the produced audio. Optional.
	Files *filestore.Store

	// OnLine receives each console line of the generation script. Defaults
	// to log.Println.
	OnLine func(string)
}

// Result is the outcome of a successful generation.
type Result struct {
	ID       string
	Output   string
	Duration time.Duration
}

// Generate runs the music generation script once: it checks the
// installation, launches the script, streams its output and records the
// result. It blocks until the script exits or ctx is canceled.
func Generate(ctx context.Context, cfg *Config) (*Result, error) {
	s := cfg.Settings
	if s == nil {
		return nil, fmt.Errorf("heartlib: missing settings")
	}
	onLine := cfg.OnLine
	if onLine == nil {
		onLine = func(line string) { log.Println(line) }
	}

	if err := install.EnsureDirs(cfg.Root); err != nil {
		return nil, err
	}
	if err := install.Validate(s.ModelPath, cfg.Root); err != nil {
		return nil, err
	}

	generator := heartmula.New(&heartmula.Config{
		Root:   cfg.Root,
		Python: cfg.Python,
		Debug:  cfg.Debug,
	})
	job, err := generator.Start(ctx, &heartmula.Request{
		ModelPath:      s.ModelPath,
		Version:        s.Version,
		Tags:           s.TagsText,
		Lyrics:         s.LyricsText,
		MaxAudioLength: time.Duration(s.MaxAudioLength) * time.Second,
		TopK:           s.TopK,
		Temperature:    s.Temperature,
		CFGScale:       s.CFGScale,
		OutputDir:      s.OutputDir,
	})
	if err != nil {
		return nil, err
	}
	for line := range job.Lines() {
		onLine(line)
	}
	status := job.Wait()

	var duration time.Duration
	if status.State == heartmula.Done {
		d, err := sound.Duration(status.Output)
		if err != nil {
			log.Printf("heartlib: couldn't probe audio duration: %v\n", err)
		} else {
			duration = d
		}
		// A generation can exit cleanly and still produce silence; flag it.
		peak, err := sound.Peak(status.Output)
		if err != nil {
			log.Printf("heartlib: couldn't probe audio peak: %v\n", err)
		} else if peak < silentPeak {
			log.Printf("heartlib: output appears silent (peak %.4f): %s\n", peak, status.Output)
		}
	}

	// Failed and canceled runs go into the history too.
	id := ulid.Make().String()
	if cfg.Store != nil {
		record := &storage.Generation{
			ID:               id,
			Genre:            cfg.Genre,
			Preset:           cfg.Preset,
			Tags:             heartmula.FormatTags(s.TagsText),
			Lyrics:           s.LyricsText,
			Version:          s.Version,
			TopK:             s.TopK,
			Temperature:      float32(s.Temperature),
			CFGScale:         float32(s.CFGScale),
			MaxAudioLengthMS: s.MaxAudioLength * 1000,
			Output:           status.Output,
			Duration:         float32(duration.Seconds()),
			ExitCode:         status.ExitCode,
			Status:           status.State.String(),
		}
		if err := cfg.Store.SetGeneration(ctx, record); err != nil {
			log.Printf("heartlib: couldn't save generation history: %v\n", err)
		}
	}

	switch status.State {
	case heartmula.Done:
	case heartmula.Canceled:
		return nil, fmt.Errorf("heartlib: generation canceled")
	default:
		if status.Err != nil {
			return nil, fmt.Errorf("heartlib: generation failed: %w", status.Err)
		}
		return nil, fmt.Errorf("heartlib: generation failed with exit code %d", status.ExitCode)
	}

	if cfg.Files != nil {
		if err := cfg.Files.SetMP3(ctx, status.Output, id); err != nil {
			log.Printf("heartlib: couldn't archive output: %v\n", err)
		}
	}
	if s.AutoOpenOutput {
		if err := browser.OpenFile(status.Output); err != nil {
			log.Printf("heartlib: couldn't open output: %v\n", err)
		}
	}

	return &Result{
		ID:       id,
		Output:   status.Output,
		Duration: duration,
	}, nil
}
