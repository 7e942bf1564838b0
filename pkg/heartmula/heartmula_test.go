package heartmula

import (
	"bufio"
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestFormatTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"EDM, Dance, Synth", "edm,dance,synth"},
		{"  Rock ,  grunge ", "rock,grunge"},
		{"pop", "pop"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := FormatTags(tt.in); got != tt.want {
			t.Errorf("FormatTags(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestOutputPathCollision(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	got := OutputPath(dir, now)
	want := filepath.Join(dir, "heartmula_20250101_120000.mp3")
	if got != want {
		t.Fatalf("OutputPath() = %q; want %q", got, want)
	}

	if err := os.WriteFile(want, nil, 0644); err != nil {
		t.Fatal(err)
	}
	got = OutputPath(dir, now)
	want = filepath.Join(dir, "heartmula_20250101_120000_1.mp3")
	if got != want {
		t.Fatalf("OutputPath() = %q; want %q", got, want)
	}

	if err := os.WriteFile(want, nil, 0644); err != nil {
		t.Fatal(err)
	}
	got = OutputPath(dir, now)
	want = filepath.Join(dir, "heartmula_20250101_120000_2.mp3")
	if got != want {
		t.Fatalf("OutputPath() = %q; want %q", got, want)
	}
}

// newGenerator writes a shell script at the expected location and points
// the generator's interpreter at /bin/sh, so tests exercise the real spawn
// and streaming paths without a python install.
func newGenerator(t *testing.T, script string) *Generator {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "examples", "run_music_generation.py")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return New(&Config{Root: root, Python: "/bin/sh"})
}

const echoScript = `
out=""
for a in "$@"; do
  case "$a" in
    --save_path=*) out="${a#--save_path=}" ;;
  esac
  echo "arg: $a"
done
echo "generating..."
: > "$out"
echo "saved"
`

func TestStartSuccess(t *testing.T) {
	g := newGenerator(t, echoScript)
	job, err := g.Start(context.Background(), &Request{
		ModelPath:      "ckpt",
		Version:        "3B",
		Tags:           "EDM, Dance",
		Lyrics:         "[verse]\nhello\n[chorus]\nworld",
		MaxAudioLength: 90 * time.Second,
		TopK:           50,
		Temperature:    1,
		CFGScale:       4.5,
	})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	var lines []string
	for line := range job.Lines() {
		lines = append(lines, line)
	}
	status := job.Wait()
	if status.State != Done {
		t.Fatalf("Wait().State = %v; want %v (err: %v)", status.State, Done, status.Err)
	}
	if status.Output == "" {
		t.Fatal("Wait().Output is empty")
	}
	if _, err := os.Stat(status.Output); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if base := filepath.Base(status.Output); !strings.HasPrefix(base, "heartmula_") || !strings.HasSuffix(base, ".mp3") {
		t.Errorf("output file name %q doesn't match heartmula_*.mp3", base)
	}

	all := strings.Join(lines, "\n")
	for _, want := range []string{
		"--version=3B",
		"--max_audio_length_ms=90000",
		"--topk=50",
		"--temperature=1",
		"--cfg_scale=4.5",
		"generating...",
		"saved",
	} {
		if !strings.Contains(all, want) {
			t.Errorf("process output missing %q:\n%s", want, all)
		}
	}

	tags, err := os.ReadFile(filepath.Join(g.root, "assets", "tags.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(tags) != "edm,dance\n" {
		t.Errorf("tags.txt = %q; want %q", tags, "edm,dance\n")
	}
	lyrics, err := os.ReadFile(filepath.Join(g.root, "assets", "lyrics.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(lyrics), "[verse]") || !strings.HasSuffix(string(lyrics), "\n") {
		t.Errorf("unexpected lyrics.txt content: %q", lyrics)
	}
}

func TestStartFailureClearsOutput(t *testing.T) {
	g := newGenerator(t, "echo \"boom\" >&2\nexit 3\n")
	job, err := g.Start(context.Background(), &Request{ModelPath: "ckpt"})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	var lines []string
	for line := range job.Lines() {
		lines = append(lines, line)
	}
	status := job.Wait()
	if status.State != Failed {
		t.Fatalf("Wait().State = %v; want %v", status.State, Failed)
	}
	if status.ExitCode != 3 {
		t.Errorf("Wait().ExitCode = %d; want 3", status.ExitCode)
	}
	if status.Output != "" {
		t.Errorf("Wait().Output = %q; want empty on failure", status.Output)
	}
	if !strings.Contains(strings.Join(lines, "\n"), "boom") {
		t.Errorf("stderr line not merged into output: %v", lines)
	}
}

func TestStartExitZeroWithoutFile(t *testing.T) {
	g := newGenerator(t, "echo \"pretending\"\nexit 0\n")
	job, err := g.Start(context.Background(), &Request{ModelPath: "ckpt"})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	for range job.Lines() {
	}
	status := job.Wait()
	if status.State != Failed {
		t.Fatalf("Wait().State = %v; want %v", status.State, Failed)
	}
	if status.Err == nil {
		t.Fatal("Wait().Err is nil; want missing output error")
	}
	if status.Output != "" {
		t.Errorf("Wait().Output = %q; want empty", status.Output)
	}
}

func TestScanConsoleLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"newlines", "a\nb\nc\n", []string{"a", "b", "c"}},
		{"carriage returns", "10%\r50%\r100%\r", []string{"10%", "50%", "100%"}},
		{"crlf pairs", "a\r\nb\r\n", []string{"a", "b"}},
		{"mixed", "step 1\rstep 2\ndone", []string{"step 1", "step 2", "done"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := bufio.NewScanner(strings.NewReader(tt.in))
			scanner.Split(scanConsoleLines)
			var got []string
			for scanner.Scan() {
				got = append(got, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				t.Fatalf("scanner error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("lines = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestStartCarriageReturnProgress(t *testing.T) {
	g := newGenerator(t, `
out=""
for a in "$@"; do
  case "$a" in
    --save_path=*) out="${a#--save_path=}" ;;
  esac
done
printf '10%%\r50%%\r100%%\r'
: > "$out"
echo "saved"
`)
	job, err := g.Start(context.Background(), &Request{ModelPath: "ckpt"})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	var lines []string
	for line := range job.Lines() {
		lines = append(lines, line)
	}
	status := job.Wait()
	if status.State != Done {
		t.Fatalf("Wait().State = %v; want %v (err: %v)", status.State, Done, status.Err)
	}
	want := []string{"10%", "50%", "100%", "saved"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %q; want %q", lines, want)
	}
}

func TestStartLongUnterminatedOutput(t *testing.T) {
	// A child that writes more than the line buffer without a terminator
	// must still stream, exit and settle instead of wedging on a full pipe.
	g := newGenerator(t, `
out=""
for a in "$@"; do
  case "$a" in
    --save_path=*) out="${a#--save_path=}" ;;
  esac
done
head -c 1300000 /dev/zero | tr '\0' 'x'
: > "$out"
exit 0
`)
	job, err := g.Start(context.Background(), &Request{ModelPath: "ckpt"})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	var total int
	done := make(chan Status, 1)
	go func() {
		for line := range job.Lines() {
			total += len(line)
		}
		done <- job.Wait()
	}()
	select {
	case status := <-done:
		if status.State != Done {
			t.Fatalf("Wait().State = %v; want %v (err: %v)", status.State, Done, status.Err)
		}
		if total < 1300000 {
			t.Fatalf("streamed %d bytes; want at least 1300000", total)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("job didn't finish after unterminated output larger than the line buffer")
	}
}

func TestStartDebugLogsCommand(t *testing.T) {
	g := newGenerator(t, echoScript)
	g = New(&Config{Root: g.root, Python: "/bin/sh", Debug: true})

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	job, err := g.Start(context.Background(), &Request{ModelPath: "ckpt", Version: "3B"})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	for range job.Lines() {
	}
	job.Wait()

	if !strings.Contains(buf.String(), "heartmula: command: /bin/sh") {
		t.Fatalf("debug log missing command line: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "--version=3B") {
		t.Fatalf("debug log missing args: %q", buf.String())
	}
}

func TestCancel(t *testing.T) {
	g := newGenerator(t, "echo \"started\"\nsleep 30\n")
	job, err := g.Start(context.Background(), &Request{ModelPath: "ckpt"})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	// Wait for the first line so the process is known to be alive.
	if line, ok := <-job.Lines(); !ok || line != "started" {
		t.Fatalf("first line = %q, ok=%v; want %q", line, ok, "started")
	}
	job.Cancel()
	for range job.Lines() {
	}
	status := job.Wait()
	if status.State != Canceled {
		t.Fatalf("Wait().State = %v; want %v", status.State, Canceled)
	}
	if status.Output != "" {
		t.Errorf("Wait().Output = %q; want empty after cancel", status.Output)
	}
}
