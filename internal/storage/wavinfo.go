package storage

import (
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
)

// WAVDurationSeconds returns the audio duration of a take file, computed
// from sample count and sample rate. Missing or unreadable files yield 0.
func WAVDurationSeconds(dir, wavFilename string) float64 {
	return wavFileDuration(TakeWAVPath(dir, wavFilename))
}

func wavFileDuration(path string) float64 {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0
	}
	defer f.Close()
	d, err := wav.NewDecoder(f).Duration()
	if err != nil {
		return 0
	}
	return d.Seconds()
}
