// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens collects an issued access token and its expiry.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// User represents an account. Each user owns exactly one container in the
// remote store, referenced by FolderID once registration completes.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	Email     string    // unique
	PwdHash   []byte    // Argon2id(password, SaltAuth)
	SaltAuth  []byte    // per-user auth salt
	FolderID  string    // remote container id; empty until attached
	CreatedAt time.Time
}

// FileRecord is the local mirror of one remote object. The remote object id
// is the sole stable cross-reference between local metadata and the blob.
type FileRecord struct {
	RemoteID      string    // remote store object id, unique
	UserID        uuid.UUID // owning user
	Name          string    // display name
	MimeType      string
	Size          int64
	DownloadCount int64        // monotonic, never reset
	ViewLink      string       // remote public view link at upload time
	DownloadLink  string       // remote public download link at upload time
	SharedVia     []ShareEvent // append-only share history
	CreatedAt     time.Time
}

// ShareEvent is an immutable entry in a file's share history.
type ShareEvent struct {
	Method    string // "link" | "qrcode" | "email"
	Recipient string // set for email shares only
	SharedAt  time.Time
}

// ObjectInfo is a remote store object summary as reported by the adapter.
type ObjectInfo struct {
	ID           string // object id within its container
	Name         string
	MimeType     string
	Size         int64
	ViewLink     string
	DownloadLink string
	CreatedAt    time.Time
}

// ListedFile is one listing entry: the remote object summary (authoritative
// for name/size/links) merged with the locally tracked download counter.
type ListedFile struct {
	ObjectInfo
	DownloadCount int64
}

// ReconcileReport summarizes one ensure-consistency pass over a user's
// container: local records removed because their remote object is gone, and
// remote objects with no local record.
type ReconcileReport struct {
	Removed []string // remote ids of deleted FileRecords
	Orphans []string // remote ids with no FileRecord
}
