package repository

import (
	"context"

	"github.com/darshilbhuva09/quanta/internal/model"
	"github.com/gofrs/uuid/v5"
)

// FileRepository provides access to local file metadata keyed by remote object id.
type FileRepository interface {
	// Create inserts a new file record after a successful remote upload.
	Create(ctx context.Context, f *model.FileRecord) error
	// GetByRemoteID loads a record by remote object id.
	GetByRemoteID(ctx context.Context, remoteID string) (*model.FileRecord, error)
	// ListByUser returns all records owned by a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.FileRecord, error)
	// IncrementDownloadCount adds exactly one to the counter and returns the new value.
	IncrementDownloadCount(ctx context.Context, remoteID string) (int64, error)
	// AddShareEvent appends an immutable entry to the record's share history.
	AddShareEvent(ctx context.Context, remoteID string, ev model.ShareEvent) error
	// ListShareEvents returns the share history in insertion order.
	ListShareEvents(ctx context.Context, remoteID string) ([]model.ShareEvent, error)
	// Delete removes the record after a successful remote delete.
	Delete(ctx context.Context, remoteID string) error
	// CountersByUser returns remote id -> download counter for all of a user's records.
	CountersByUser(ctx context.Context, userID uuid.UUID) (map[string]int64, error)
}
