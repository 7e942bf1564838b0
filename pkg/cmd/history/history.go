package history

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gjnave/heartlib/pkg/storage"
	"github.com/gocarina/gocsv"
)

type Config struct {
	Debug  bool
	DBType string
	DBConn string

	Page   int
	Size   int
	Status string
	Output string
}

type csvRow struct {
	ID        string  `csv:"id"`
	CreatedAt string  `csv:"created_at"`
	Genre     string  `csv:"genre"`
	Preset    string  `csv:"preset"`
	Tags      string  `csv:"tags"`
	Version   string  `csv:"version"`
	Status    string  `csv:"status"`
	Output    string  `csv:"output"`
	Duration  float32 `csv:"duration"`
}

// Run lists past generations, newest first. With Output set it writes the
// listing as csv instead of printing it.
func Run(ctx context.Context, cfg *Config) error {
	store, err := storage.New(cfg.DBType, cfg.DBConn, cfg.Debug)
	if err != nil {
		return fmt.Errorf("history: couldn't create orm store: %w", err)
	}
	if err := store.Start(ctx); err != nil {
		return fmt.Errorf("history: couldn't start orm store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("history: couldn't migrate orm store: %w", err)
	}

	var filters []storage.Filter
	if cfg.Status != "" {
		filters = append(filters, storage.Where("status = ?", cfg.Status))
	}
	page, size := cfg.Page, cfg.Size
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 100
	}
	generations, err := store.ListGenerations(ctx, page, size, "created_at desc", filters...)
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		rows := make([]csvRow, 0, len(generations))
		for _, g := range generations {
			rows = append(rows, csvRow{
				ID:        g.ID,
				CreatedAt: g.CreatedAt.Format(time.RFC3339),
				Genre:     g.Genre,
				Preset:    g.Preset,
				Tags:      g.Tags,
				Version:   g.Version,
				Status:    g.Status,
				Output:    g.Output,
				Duration:  g.Duration,
			})
		}
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("history: couldn't create %s: %w", cfg.Output, err)
		}
		defer f.Close()
		if err := gocsv.Marshal(&rows, f); err != nil {
			return fmt.Errorf("history: couldn't write csv: %w", err)
		}
		log.Printf("history: wrote %d rows to %s\n", len(rows), cfg.Output)
		return nil
	}

	for _, g := range generations {
		fmt.Printf("%s\t%s\t%s\t%s\t%.0fs\t%s\n",
			g.CreatedAt.Format("2006-01-02 15:04:05"), g.ID, g.Status, g.Genre, g.Duration, g.Output)
	}
	return nil
}
