package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewName builds a collision-resistant stored file name from the upload
// time, a random component, the file's position in its batch and its
// lowercased extension.
func NewName(now time.Time, index int, ext string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	return fmt.Sprintf("%d_%s_%d.%s", now.Unix(), random, index, strings.ToLower(ext))
}

const stagePattern = "upload-*"

// stage copies r into a new file in dir, failing with ErrFileTooLarge if
// more than limit bytes arrive. On error nothing is left behind.
func stage(dir string, r io.Reader, limit int64) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	f, err := os.CreateTemp(dir, stagePattern)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, limit+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > limit {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// stageBytes writes data to a new file in dir.
func stageBytes(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, stagePattern)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// removeStaged deletes a staged file that may already have been promoted.
// Failures are left for SweepStaging.
func removeStaged(path string) {
	if path != "" {
		os.Remove(path)
	}
}

// SweepStaging removes staged files in dir last modified before cutoff
// and returns how many were removed. A missing dir is not an error.
func SweepStaging(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read staging dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
