// Package storage adapts the remote object store behind a narrow contract.
// Local metadata never holds file bytes; the remote store is the source of
// truth for object names, sizes and links.
package storage

import (
	"context"
	"io"

	"github.com/darshilbhuva09/quanta/internal/model"
)

// Store is the capability the core consumes. Implemented by S3Store.
type Store interface {
	// CreateContainer creates a per-user grouping in the remote store and
	// returns its id.
	CreateContainer(ctx context.Context, name string) (string, error)
	// Upload stores a byte blob in the container and returns the object summary.
	Upload(ctx context.Context, containerID string, r io.Reader, name, mimeType string, size int64) (*model.ObjectInfo, error)
	// List returns summaries of all objects in the container.
	List(ctx context.Context, containerID string) ([]model.ObjectInfo, error)
	// Stat returns a single object's summary.
	Stat(ctx context.Context, containerID, objectID string) (*model.ObjectInfo, error)
	// Delete removes an object from the container.
	Delete(ctx context.Context, containerID, objectID string) error
}
