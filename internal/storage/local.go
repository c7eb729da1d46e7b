package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files under a directory on disk that the HTTP server
// exposes at baseURL.
type Local struct {
	root    string
	baseURL string
}

// NewLocal creates the root directory if needed and returns a Local backend.
func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root returns the directory files are stored in.
func (l *Local) Root() string { return l.root }

func (l *Local) path(key string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, key)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

// Promote renames the staged file into place, copying when the staging
// directory lives on another filesystem.
func (l *Local) Promote(_ context.Context, stagedPath, key, _ string) error {
	dst, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}
	if err := os.Rename(stagedPath, dst); err == nil {
		return nil
	}
	if err := copyFile(stagedPath, dst); err != nil {
		os.Remove(dst)
		return fmt.Errorf("promote %s: %w", key, err)
	}
	return os.Remove(stagedPath)
}

// Delete removes the file for key. Missing files are ignored.
func (l *Local) Delete(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// URL returns baseURL/key.
func (l *Local) URL(key string) string {
	if key == "" {
		return ""
	}
	return l.baseURL + "/" + key
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
