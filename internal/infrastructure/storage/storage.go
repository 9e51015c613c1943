// Package storage maps owners to namespaces and namespaces plus stored names
// to backend keys. Keys always have the form "<namespace>/<stored name>" and
// are built only from values this service generated.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"file-storage-api/internal/domain/user_file"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Backend stores opaque blobs under slash separated keys.
//
// Put is atomic: on error nothing is visible under key. Get and Stat wrap
// fs.ErrNotExist when the key is absent. Delete of an absent key succeeds.
type Backend interface {
	Put(ctx context.Context, key string, body io.Reader) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Stat(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, key string) error
	EnsureDir(ctx context.Context, prefix string) error
	RemoveDirIfEmpty(ctx context.Context, prefix string) error
}

type Allocator struct {
	backend Backend
	log     *zap.Logger
}

func NewAllocator(backend Backend, logger *zap.Logger) *Allocator {
	return &Allocator{backend: backend, log: logger}
}

// NewNamespace returns a fresh namespace token. It is unrelated to the
// username so renames or look-alike names can never share a namespace.
func (a *Allocator) NewNamespace() string { return uuid.NewString() }

func validNamespace(ns string) bool {
	id, err := uuid.Parse(ns)
	return err == nil && id.String() == ns
}

// ResolvePath joins namespace and stored name after checking both have the
// exact shape this service generates.
func ResolvePath(namespace, storedName string) (string, error) {
	if !validNamespace(namespace) {
		return "", fmt.Errorf("%w: namespace %q", ErrInvalidKey, namespace)
	}
	if !user_file.IsStoredName(storedName) {
		return "", fmt.Errorf("%w: stored name %q", ErrInvalidKey, storedName)
	}
	return namespace + "/" + storedName, nil
}

func (a *Allocator) EnsureNamespace(ctx context.Context, namespace string) error {
	if !validNamespace(namespace) {
		return fmt.Errorf("%w: namespace %q", ErrInvalidKey, namespace)
	}
	return a.backend.EnsureDir(ctx, namespace)
}

// RemoveNamespaceIfEmpty is best effort: failures are logged and swallowed.
func (a *Allocator) RemoveNamespaceIfEmpty(ctx context.Context, namespace string) {
	if !validNamespace(namespace) {
		a.log.Warn("skip namespace cleanup, invalid namespace", zap.String("namespace", namespace))
		return
	}
	if err := a.backend.RemoveDirIfEmpty(ctx, namespace); err != nil {
		a.log.Warn("namespace cleanup failed", zap.String("namespace", namespace), zap.Error(err))
	}
}

func (a *Allocator) Write(ctx context.Context, namespace, storedName string, r io.Reader) (int64, error) {
	key, err := ResolvePath(namespace, storedName)
	if err != nil {
		return 0, err
	}
	n, err := a.backend.Put(ctx, key, r)
	if err != nil {
		return 0, fmt.Errorf("put %s: %w", key, err)
	}
	return n, nil
}

func (a *Allocator) Open(ctx context.Context, namespace, storedName string) (io.ReadCloser, int64, error) {
	key, err := ResolvePath(namespace, storedName)
	if err != nil {
		return nil, 0, err
	}
	return a.backend.Get(ctx, key)
}

func (a *Allocator) Exists(ctx context.Context, namespace, storedName string) (bool, error) {
	key, err := ResolvePath(namespace, storedName)
	if err != nil {
		return false, err
	}
	if _, err = a.backend.Stat(ctx, key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *Allocator) Remove(ctx context.Context, namespace, storedName string) error {
	key, err := ResolvePath(namespace, storedName)
	if err != nil {
		return err
	}
	return a.backend.Delete(ctx, key)
}
