package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Settings holds the user-facing generation parameters persisted between
// runs. Unknown keys in the file are ignored and missing keys keep their
// defaults, so the file can be hand-edited or come from older versions.
type Settings struct {
	ModelPath      string  `json:"model_path"`
	Version        string  `json:"version"`
	MaxAudioLength int     `json:"max_audio_length"`
	TopK           int     `json:"topk"`
	Temperature    float64 `json:"temperature"`
	CFGScale       float64 `json:"cfg_scale"`
	LyricsText     string  `json:"lyrics_text"`
	TagsText       string  `json:"tags_text"`
	OutputDir      string  `json:"output_dir"`
	AutoOpenOutput bool    `json:"auto_open_output"`
}

const defaultLyrics = `[Intro]
Get Going Fast is so super... duper... radiant... kinetic... hyper...

[Verse]
turbo... mega... lightning-striker... star-glimmer...

super... pulse... shimmer... ultra... hyper... turbo...

nebula...

[Prechorus]
echo... signal... flicker... spark... drift...

[Chorus]
Get Going Fast is so super... duper... vivid... electric... soaring...

ultra... hyper... turbo... mega... starlight...

[Verse]
halo... prism... glow... flow...

soft... bright... endless... weightless...

[Bridge]
fade... rise... breathe... shine...

[Chorus]
Get Going Fast is so super... duper... radiant... kinetic... hyper...

ultra... hyper... turbo... mega... starlight...

[Outro]
fade... rise... glow... flow... ever... onward...
`

const defaultTags = "club house, female vocals, angelic, dreamy, 128 bpm, four-on-the-floor kick, offbeat open hi-hat, rolling bassline, sidechain compression, bright supersaw, riser, snare build, drop, festival energy, wide stereo"

// Default returns a settings record with every field set to its default.
func Default() *Settings {
	return &Settings{
		ModelPath:      "ckpt",
		Version:        "3B",
		MaxAudioLength: 240,
		TopK:           50,
		Temperature:    1.0,
		CFGScale:       1.5,
		LyricsText:     defaultLyrics,
		TagsText:       defaultTags,
		OutputDir:      "output",
		AutoOpenOutput: true,
	}
}

// Load reads settings from path. A missing or unparsable file yields the
// defaults; load never fails. Legacy model paths under models/HeartMuLa are
// rewritten to the current ckpt layout.
func Load(path string) *Settings {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, s); err != nil {
		return Default()
	}
	if strings.Contains(strings.ToLower(s.ModelPath), "models/heartmula") {
		s.ModelPath = "ckpt"
	}
	return s
}

// Save writes the settings as indented JSON, creating parent directories as
// needed. Non-ASCII characters are written literally.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("settings: couldn't create directory: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("settings: couldn't encode settings: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("settings: couldn't write %s: %w", path, err)
	}
	return nil
}
