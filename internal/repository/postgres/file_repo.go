package postgres

import (
	"context"
	"errors"

	"github.com/darshilbhuva09/quanta/internal/errs"
	"github.com/darshilbhuva09/quanta/internal/model"
	"github.com/gofrs/uuid/v5"
)

// FileRepo implements FileRepository using PostgreSQL.
type FileRepo struct{ db *DB }

// NewFileRepo constructs a file metadata repository.
func NewFileRepo(db *DB) *FileRepo { return &FileRepo{db: db} }

// Create inserts a new file record keyed by remote object id.
func (r *FileRepo) Create(ctx context.Context, f *model.FileRecord) error {
	const q = `
INSERT INTO files (remote_id, user_id, name, mime_type, size, view_link, download_link)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Pool.Exec(ctx, q, f.RemoteID, f.UserID, f.Name, f.MimeType, f.Size, f.ViewLink, f.DownloadLink)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByRemoteID selects a record by remote object id. Share history is not loaded.
func (r *FileRepo) GetByRemoteID(ctx context.Context, remoteID string) (*model.FileRecord, error) {
	const q = `
SELECT remote_id, user_id, name, mime_type, size, download_count, view_link, download_link, created_at
FROM files WHERE remote_id=$1`
	row := r.db.Pool.QueryRow(ctx, q, remoteID)
	var f model.FileRecord
	if err := row.Scan(&f.RemoteID, &f.UserID, &f.Name, &f.MimeType, &f.Size,
		&f.DownloadCount, &f.ViewLink, &f.DownloadLink, &f.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &f, nil
}

// ListByUser returns all records owned by a user, newest first.
func (r *FileRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.FileRecord, error) {
	const q = `
SELECT remote_id, user_id, name, mime_type, size, download_count, view_link, download_link, created_at
FROM files
WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FileRecord
	for rows.Next() {
		var f model.FileRecord
		if err := rows.Scan(&f.RemoteID, &f.UserID, &f.Name, &f.MimeType, &f.Size,
			&f.DownloadCount, &f.ViewLink, &f.DownloadLink, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// IncrementDownloadCount adds exactly one to the counter atomically.
func (r *FileRepo) IncrementDownloadCount(ctx context.Context, remoteID string) (int64, error) {
	const q = `
UPDATE files
SET download_count = download_count + 1
WHERE remote_id=$1
RETURNING download_count`
	var count int64
	if err := r.db.Pool.QueryRow(ctx, q, remoteID).Scan(&count); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, err
		}
		return 0, errs.ErrNotFound
	}
	return count, nil
}

// AddShareEvent appends an entry to the record's share history.
func (r *FileRepo) AddShareEvent(ctx context.Context, remoteID string, ev model.ShareEvent) error {
	const q = `
INSERT INTO share_events (remote_id, method, recipient, shared_at)
VALUES ($1, $2, NULLIF($3, ''), $4)`
	_, err := r.db.Pool.Exec(ctx, q, remoteID, ev.Method, ev.Recipient, ev.SharedAt)
	return err
}

// ListShareEvents returns the share history in insertion order.
func (r *FileRepo) ListShareEvents(ctx context.Context, remoteID string) ([]model.ShareEvent, error) {
	const q = `
SELECT method, COALESCE(recipient, ''), shared_at
FROM share_events
WHERE remote_id=$1
ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q, remoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShareEvent
	for rows.Next() {
		var ev model.ShareEvent
		if err := rows.Scan(&ev.Method, &ev.Recipient, &ev.SharedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Delete removes a record; share history goes with it (FK cascade).
func (r *FileRepo) Delete(ctx context.Context, remoteID string) error {
	const q = `DELETE FROM files WHERE remote_id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, remoteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// CountersByUser returns remote id -> download counter for all of a user's records.
func (r *FileRepo) CountersByUser(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	const q = `SELECT remote_id, download_count FROM files WHERE user_id=$1`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id string
		var count int64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		out[id] = count
	}
	return out, rows.Err()
}
