package ports

import (
	"context"
	"io"
)

// ContentStore is the storage path allocator as seen by the services.
type ContentStore interface {
	NewNamespace() string
	EnsureNamespace(ctx context.Context, namespace string) error
	RemoveNamespaceIfEmpty(ctx context.Context, namespace string)

	Write(ctx context.Context, namespace, storedName string, r io.Reader) (int64, error)
	Open(ctx context.Context, namespace, storedName string) (io.ReadCloser, int64, error)
	Exists(ctx context.Context, namespace, storedName string) (bool, error)
	Remove(ctx context.Context, namespace, storedName string) error
}
