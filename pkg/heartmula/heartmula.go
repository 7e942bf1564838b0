package heartmula

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gjnave/heartlib/pkg/install"
)

// Config configures the generator.
type Config struct {
	// Root is the installation root (same level as ckpt/, output/, examples/).
	Root string
	// Python is the interpreter used to run the generation script.
	Python string
	Debug  bool
}

// Generator launches the external HeartMuLa generation script and streams
// its console output. Only one job should be in flight at a time; callers
// enforce that.
type Generator struct {
	root   string
	python string
	debug  bool
}

func New(cfg *Config) *Generator {
	python := cfg.Python
	if python == "" {
		python = "python"
	}
	return &Generator{
		root:   cfg.Root,
		python: python,
		debug:  cfg.Debug,
	}
}

// Request is the parameter snapshot used for one invocation.
type Request struct {
	ModelPath      string
	Version        string
	Tags           string
	Lyrics         string
	MaxAudioLength time.Duration
	TopK           int
	Temperature    float64
	CFGScale       float64
	OutputDir      string
}

// State is the terminal state of a job.
type State int

const (
	Running State = iota
	Done
	Failed
	Canceled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Status is the terminal report of a job.
type Status struct {
	State State
	// Output is the produced audio file. It is only set on success; a
	// failed or canceled job never points at a stale file.
	Output   string
	ExitCode int
	Err      error
}

// Job is a running invocation of the generation script.
type Job struct {
	output string
	lines  chan string
	done   chan struct{}
	status Status
	cancel context.CancelFunc
}

// Lines returns the merged stdout/stderr of the child process, one line at
// a time, in arrival order. The channel is closed when the process exits.
func (j *Job) Lines() <-chan string {
	return j.lines
}

// OutputPath returns the output file the job will produce on success.
func (j *Job) OutputPath() string {
	return j.output
}

// Cancel forcibly terminates the child process. The job settles in the
// Canceled state; cancellation is not an error.
func (j *Job) Cancel() {
	j.cancel()
}

// Wait blocks until the process exits and returns the terminal status.
func (j *Job) Wait() Status {
	<-j.done
	return j.status
}

// Start validates nothing: callers run install.Validate first. It prepares
// the scratch files and output path, spawns the script and returns the
// running job. Errors before the spawn are returned directly.
func (g *Generator) Start(ctx context.Context, req *Request) (*Job, error) {
	modelDir := install.Resolve(req.ModelPath, g.root)

	outDir := strings.TrimSpace(req.OutputDir)
	if outDir == "" {
		outDir = "output"
	}
	outDir = install.Resolve(outDir, g.root)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("heartmula: couldn't create output directory: %w", err)
	}
	output := OutputPath(outDir, time.Now())

	lyricsFile, tagsFile, err := g.writeScratchFiles(req)
	if err != nil {
		return nil, err
	}

	script := filepath.Join(g.root, install.ScriptPath)
	args := []string{
		script,
		"--model_path=" + modelDir,
		"--version=" + req.Version,
		"--lyrics=" + lyricsFile,
		"--tags=" + tagsFile,
		"--save_path=" + output,
		"--max_audio_length_ms=" + strconv.FormatInt(req.MaxAudioLength.Milliseconds(), 10),
		"--topk=" + strconv.Itoa(req.TopK),
		"--temperature=" + strconv.FormatFloat(req.Temperature, 'g', -1, 64),
		"--cfg_scale=" + strconv.FormatFloat(req.CFGScale, 'g', -1, 64),
	}

	if g.debug {
		log.Printf("heartmula: command: %s %s\n", g.python, strings.Join(args, " "))
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, g.python, args...)
	cmd.Dir = g.root
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("heartmula: couldn't open stdout pipe: %w", err)
	}
	// The script reports progress on both streams; merge them so lines keep
	// their arrival order.
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("heartmula: couldn't launch %s: %w", script, err)
	}

	j := &Job{
		output: output,
		lines:  make(chan string, 64),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(j.done)
		defer close(j.lines)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, maxLineSize), maxLineSize)
		scanner.Split(scanConsoleLines)
		for scanner.Scan() {
			j.lines <- scanner.Text()
		}
		scanErr := scanner.Err()
		err := cmd.Wait()
		if err == nil && scanErr != nil {
			err = fmt.Errorf("heartmula: couldn't read process output: %w", scanErr)
		}
		j.status = settle(ctx, output, err)
	}()
	return j, nil
}

const maxLineSize = 64 * 1024

// scanConsoleLines splits on \n, \r and \r\n, so progress bars that redraw
// the line with a carriage return still stream incrementally. A buffer that
// fills up without a terminator is emitted as a partial line instead of
// aborting the scan; aborting would stop draining the pipe and block the
// child on write forever.
func scanConsoleLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' {
			if i+1 == len(data) && !atEOF {
				// Wait for one more byte to see if this is a \r\n pair.
				return 0, nil, nil
			}
			if i+1 < len(data) && data[i+1] == '\n' {
				advance = i + 2
			}
		}
		return advance, data[:i], nil
	}
	if atEOF || len(data) >= maxLineSize {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// settle maps the process exit to a terminal status. Exit code zero only
// counts as success if the output file actually exists on disk.
func settle(ctx context.Context, output string, err error) Status {
	if err == nil {
		if _, statErr := os.Stat(output); statErr != nil {
			return Status{
				State: Failed,
				Err:   fmt.Errorf("heartmula: process succeeded but output file not found: %s", output),
			}
		}
		return Status{State: Done, Output: output}
	}
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	if ctx.Err() != nil {
		return Status{State: Canceled, ExitCode: code}
	}
	return Status{State: Failed, ExitCode: code, Err: err}
}

func (g *Generator) writeScratchFiles(req *Request) (lyrics, tags string, err error) {
	dir := filepath.Join(g.root, "assets")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("heartmula: couldn't create scratch directory: %w", err)
	}
	lyrics = filepath.Join(dir, "lyrics.txt")
	if err := os.WriteFile(lyrics, []byte(req.Lyrics+"\n"), 0644); err != nil {
		return "", "", fmt.Errorf("heartmula: couldn't write lyrics file: %w", err)
	}
	tags = filepath.Join(dir, "tags.txt")
	if err := os.WriteFile(tags, []byte(FormatTags(req.Tags)+"\n"), 0644); err != nil {
		return "", "", fmt.Errorf("heartmula: couldn't write tags file: %w", err)
	}
	return lyrics, tags, nil
}

// FormatTags normalizes a free-text tag list for the generation script:
// lower case, comma separated, whitespace stripped around each tag.
func FormatTags(tags string) string {
	tags = strings.TrimSpace(strings.ToLower(tags))
	if tags == "" {
		return ""
	}
	parts := strings.Split(tags, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ",")
}

// OutputPath picks a collision-free file name heartmula_<timestamp>.mp3 in
// dir, linearly probing _1, _2, ... when the name is taken. The check and
// the later create are not atomic; that is acceptable because only one
// generation runs at a time, but external writers to dir can still race.
func OutputPath(dir string, now time.Time) string {
	stamp := now.Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("heartmula_%s.mp3", stamp))
	for i := 1; ; i++ {
		if _, err := os.Stat(path); err != nil {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("heartmula_%s_%d.mp3", stamp, i))
	}
}
