package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScriptPath is the location of the external generation script, relative to
// the installation root.
var ScriptPath = filepath.Join("examples", "run_music_generation.py")

// requiredModelPaths are the assets that must exist inside the model
// directory before a generation can start.
var requiredModelPaths = []string{
	"HeartCodec-oss",
	"HeartMuLa-oss-3B",
	"gen_config.json",
	"tokenizer.json",
}

// Resolve returns path as an absolute path, anchored at root when relative.
func Resolve(path, root string) string {
	path = strings.TrimSpace(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// Validate checks the filesystem preconditions for a generation run: the
// model directory, its required assets and the generation script. It
// performs no writes. The returned error message is meant to be shown to
// the user as-is.
func Validate(modelPath, root string) error {
	dir := Resolve(modelPath, root)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("install: model directory not found: %s", dir)
	}

	var missing []string
	for _, name := range requiredModelPaths {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("install: missing model files:\n%s", strings.Join(missing, "\n"))
	}

	script := filepath.Join(root, ScriptPath)
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("install: generation script not found: %s (expected location: %s)", script, ScriptPath)
	}
	return nil
}

// EnsureDirs creates the directories the application expects under root.
// It is called once at startup and is safe to repeat.
func EnsureDirs(root string) error {
	for _, dir := range []string{
		"ckpt",
		"output",
		filepath.Join("presets", "setsave"),
		"examples",
	} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return fmt.Errorf("install: couldn't create %s: %w", dir, err)
		}
	}
	return nil
}

// SettingsPath returns the settings file location under root.
func SettingsPath(root string) string {
	return filepath.Join(root, "presets", "setsave", "mula.json")
}

// PresetsPath returns the preset catalog location under root.
func PresetsPath(root string) string {
	return filepath.Join(root, "presets", "setsave", "mulapresets.json")
}
