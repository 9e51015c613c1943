// Package local keeps file content on the local filesystem under one root.
package local

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"file-storage-api/internal/infrastructure/storage"
)

const (
	dirPerm  = 0o750
	tempGlob = ".upload-*.tmp"
)

type Backend struct {
	root string
}

// New creates root if needed. The root is made absolute so containment checks
// do not depend on the working directory.
func New(root string) (*Backend, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %s: %w", root, err)
	}
	if err = os.MkdirAll(abs, dirPerm); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", abs, err)
	}

	return &Backend{root: abs}, nil
}

func (b *Backend) Root() string { return b.root }

func (b *Backend) fullPath(key string) (string, error) {
	if key == "" || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidKey, key)
	}
	p := filepath.Join(b.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(b.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes root", storage.ErrInvalidKey, key)
	}
	return p, nil
}

// Put writes to a temp file in the target directory and renames it into place.
func (b *Backend) Put(_ context.Context, key string, body io.Reader) (int64, error) {
	path, err := b.fullPath(key)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, dirPerm); err != nil {
		return 0, fmt.Errorf("create dirs for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(dir, tempGlob)
	if err != nil {
		return 0, fmt.Errorf("create temp for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("write %s: %w", key, err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("sync %s: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("close temp for %s: %w", key, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("rename temp to %s: %w", key, err)
	}

	return n, nil
}

func (b *Backend) Get(_ context.Context, key string) (io.ReadCloser, int64, error) {
	path, err := b.fullPath(key)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, fmt.Errorf("open %s: %w", key, fs.ErrNotExist)
	}

	return f, info.Size(), nil
}

func (b *Backend) Stat(_ context.Context, key string) (int64, error) {
	path, err := b.fullPath(key)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", key, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("stat %s: %w", key, fs.ErrNotExist)
	}
	return info.Size(), nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	path, err := b.fullPath(key)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (b *Backend) EnsureDir(_ context.Context, prefix string) error {
	path, err := b.fullPath(prefix)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(path, dirPerm); err != nil {
		return fmt.Errorf("create dir %s: %w", prefix, err)
	}
	return nil
}

// RemoveDirIfEmpty leaves non-empty or missing directories alone.
func (b *Backend) RemoveDirIfEmpty(_ context.Context, prefix string) error {
	path, err := b.fullPath(prefix)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read dir %s: %w", prefix, err)
	}
	if len(entries) > 0 {
		return nil
	}
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove dir %s: %w", prefix, err)
	}
	return nil
}
