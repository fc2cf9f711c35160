package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultBaseDir = "./media"
	DefaultURLBase = "/media"
)

var ErrInvalidPath = errors.New("invalid storage path")

// Local stores files under a base directory on disk and serves them under URLBase.
type Local struct {
	baseDir string
	urlBase string
}

func NewLocal(baseDir, urlBase string) *Local {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	return &Local{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/")}
}

func (l *Local) BaseDir() string { return l.baseDir }

func (l *Local) URLBase() string { return l.urlBase }

// Save writes r to dir/<uuid><ext> and returns the path relative to the base directory.
func (l *Local) Save(dir, ext string, r io.Reader) (string, error) {
	absDir := filepath.Join(l.baseDir, filepath.Clean("/" + dir))
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create storage directory: %w", err)
	}

	filename := uuid.New().String() + ext
	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("close file: %w", err)
	}

	rel, err := filepath.Rel(l.baseDir, absPath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Delete removes a stored file. A missing file is not an error.
func (l *Local) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	abs, err := l.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) Exists(rel string) bool {
	abs, err := l.resolve(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

func (l *Local) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return l.urlBase + "/" + strings.TrimLeft(rel, "/")
}

func (l *Local) resolve(rel string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(rel))
	if clean == string(filepath.Separator) {
		return "", ErrInvalidPath
	}
	return filepath.Join(l.baseDir, clean), nil
}
