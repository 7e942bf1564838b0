package sound

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// Duration decodes the MP3 file at path and returns its playing time.
// The whole stream is decoded because frame headers alone are unreliable
// for VBR files.
func Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("sound: couldn't open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("sound: couldn't create decoder: %w", err)
	}

	// The decoder emits 16-bit stereo samples, 4 bytes per frame.
	var frames int64
	buf := make([]byte, 32*1024)
	for {
		n, err := decoder.Read(buf)
		frames += int64(n / 4)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("sound: couldn't decode file: %w", err)
		}
	}
	return time.Duration(float64(frames) / float64(decoder.SampleRate()) * float64(time.Second)), nil
}

// Peak returns the loudest absolute sample value in the file, normalized
// to [0, 1]. Used to flag generations that came out silent.
func Peak(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("sound: couldn't open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("sound: couldn't create decoder: %w", err)
	}

	var peak float64
	buf := make([]byte, 32*1024)
	for {
		n, err := decoder.Read(buf)
		for i := 0; i+3 < n; i += 4 {
			left := float64(int16(binary.LittleEndian.Uint16(buf[i:]))) / 32768.0
			right := float64(int16(binary.LittleEndian.Uint16(buf[i+2:]))) / 32768.0
			v := (left + right) / 2.0
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("sound: couldn't decode file: %w", err)
		}
	}
	return peak, nil
}
