package service

import (
	"context"
	"fmt"
	"io"

	"github.com/darshilbhuva09/quanta/internal/errs"
	"github.com/darshilbhuva09/quanta/internal/model"
	"github.com/darshilbhuva09/quanta/internal/repository"
	"github.com/darshilbhuva09/quanta/internal/storage"
	"github.com/gofrs/uuid/v5"
)

// FileService defines the upload, listing, download, deletion and
// reconciliation flows over the remote store and local metadata.
type FileService interface {
	// Upload forwards the payload to the user's remote container and records
	// metadata keyed by the returned remote object id.
	Upload(ctx context.Context, userID uuid.UUID, r io.Reader, name, mimeType string, size int64) (*model.FileRecord, error)
	// List returns all remote objects in the user's container with local
	// download counters merged in.
	List(ctx context.Context, userID uuid.UUID) ([]model.ListedFile, error)
	// Download increments the counter and returns the stored download link.
	Download(ctx context.Context, remoteID string) (link string, count int64, err error)
	// Get returns one owned record including its share history.
	Get(ctx context.Context, userID uuid.UUID, remoteID string) (*model.FileRecord, error)
	// Delete removes the remote object, then the local record.
	Delete(ctx context.Context, userID uuid.UUID, remoteID string) error
	// Reconcile is the idempotent ensure-consistency pass over one container.
	Reconcile(ctx context.Context, userID uuid.UUID) (*model.ReconcileReport, error)
}

type FileServiceImpl struct {
	users repository.UserRepository
	files repository.FileRepository
	store storage.Store
}

// NewFileService constructs FileService with required dependencies.
func NewFileService(users repository.UserRepository, files repository.FileRepository, store storage.Store) *FileServiceImpl {
	return &FileServiceImpl{users: users, files: files, store: store}
}

// Upload runs the two-step upload sequence. The record is created only after
// the remote upload succeeds; a record-creation failure after a successful
// upload leaves an orphaned remote object, accepted and not compensated.
func (s *FileServiceImpl) Upload(ctx context.Context, userID uuid.UUID, r io.Reader, name, mimeType string, size int64) (*model.FileRecord, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty file name", errs.ErrValidation)
	}

	folderID, err := s.containerFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	obj, err := s.store.Upload(ctx, folderID, r, name, mimeType, size)
	if err != nil {
		return nil, fmt.Errorf("%w: upload: %v", errs.ErrUpstream, err)
	}

	rec := &model.FileRecord{
		RemoteID:     obj.ID,
		UserID:       userID,
		Name:         obj.Name,
		MimeType:     obj.MimeType,
		Size:         obj.Size,
		ViewLink:     obj.ViewLink,
		DownloadLink: obj.DownloadLink,
		CreatedAt:    obj.CreatedAt,
	}
	if err := s.files.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// List merges remote object summaries with local counters. A remote object
// without a matching record gets a zero counter instead of failing the listing.
func (s *FileServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]model.ListedFile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}

	folderID, err := s.containerFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	objs, err := s.store.List(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", errs.ErrUpstream, err)
	}

	counters, err := s.files.CountersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]model.ListedFile, 0, len(objs))
	for _, obj := range objs {
		out = append(out, model.ListedFile{
			ObjectInfo:    obj,
			DownloadCount: counters[obj.ID], // zero when no record exists
		})
	}
	return out, nil
}

// Download increments the counter by exactly one and returns the stored
// download link; bytes are served by the remote store, not proxied here.
func (s *FileServiceImpl) Download(ctx context.Context, remoteID string) (string, int64, error) {
	if remoteID == "" {
		return "", 0, fmt.Errorf("%w: empty id", errs.ErrValidation)
	}
	rec, err := s.files.GetByRemoteID(ctx, remoteID)
	if err != nil {
		return "", 0, err
	}
	count, err := s.files.IncrementDownloadCount(ctx, remoteID)
	if err != nil {
		return "", 0, err
	}
	return rec.DownloadLink, count, nil
}

// Get returns one owned record with its share history attached.
func (s *FileServiceImpl) Get(ctx context.Context, userID uuid.UUID, remoteID string) (*model.FileRecord, error) {
	rec, err := s.ownedRecord(ctx, userID, remoteID)
	if err != nil {
		return nil, err
	}
	events, err := s.files.ListShareEvents(ctx, remoteID)
	if err != nil {
		return nil, err
	}
	rec.SharedVia = events
	return rec, nil
}

// Delete removes the remote object first, then the record. A record-deletion
// failure after a successful remote delete is accepted and not rolled back.
func (s *FileServiceImpl) Delete(ctx context.Context, userID uuid.UUID, remoteID string) error {
	rec, err := s.ownedRecord(ctx, userID, remoteID)
	if err != nil {
		return err
	}

	folderID, err := s.containerFor(ctx, rec.UserID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, folderID, remoteID); err != nil {
		return fmt.Errorf("%w: delete: %v", errs.ErrUpstream, err)
	}
	return s.files.Delete(ctx, remoteID)
}

// Reconcile drops records whose remote object is gone and reports remote
// objects with no record. Safe to invoke repeatedly.
func (s *FileServiceImpl) Reconcile(ctx context.Context, userID uuid.UUID) (*model.ReconcileReport, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}

	folderID, err := s.containerFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	objs, err := s.store.List(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", errs.ErrUpstream, err)
	}
	remote := make(map[string]bool, len(objs))
	for _, obj := range objs {
		remote[obj.ID] = true
	}

	recs, err := s.files.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &model.ReconcileReport{Removed: []string{}, Orphans: []string{}}
	local := make(map[string]bool, len(recs))
	for _, rec := range recs {
		local[rec.RemoteID] = true
		if !remote[rec.RemoteID] {
			if err := s.files.Delete(ctx, rec.RemoteID); err != nil {
				return nil, err
			}
			report.Removed = append(report.Removed, rec.RemoteID)
		}
	}
	for _, obj := range objs {
		if !local[obj.ID] {
			report.Orphans = append(report.Orphans, obj.ID)
		}
	}
	return report, nil
}

// ownedRecord loads a record and enforces exclusive ownership.
func (s *FileServiceImpl) ownedRecord(ctx context.Context, userID uuid.UUID, remoteID string) (*model.FileRecord, error) {
	if userID == uuid.Nil || remoteID == "" {
		return nil, fmt.Errorf("%w: empty userID/id", errs.ErrValidation)
	}
	rec, err := s.files.GetByRemoteID(ctx, remoteID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, errs.ErrUnauthorized
	}
	return rec, nil
}

// containerFor resolves the user's remote container id.
func (s *FileServiceImpl) containerFor(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.FolderID == "" {
		return "", fmt.Errorf("user %s has no storage container", userID)
	}
	return u.FolderID, nil
}
