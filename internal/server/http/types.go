package httpserver

import (
	"time"

	"github.com/darshilbhuva09/quanta/internal/model"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FolderID  string    `json:"folderId"`
	CreatedAt time.Time `json:"createdAt"`
}

type shareEventResponse struct {
	Method    string    `json:"method"`
	Recipient string    `json:"recipient,omitempty"`
	SharedAt  time.Time `json:"sharedAt"`
}

type fileResponse struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	MimeType      string               `json:"mimeType"`
	Size          int64                `json:"size"`
	DownloadCount int64                `json:"downloadCount"`
	ViewLink      string               `json:"viewLink"`
	DownloadLink  string               `json:"downloadLink"`
	SharedVia     []shareEventResponse `json:"sharedVia"`
	CreatedAt     time.Time            `json:"createdAt"`
}

type listEntry struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	MimeType      string    `json:"mimeType"`
	Size          int64     `json:"size"`
	DownloadCount int64     `json:"downloadCount"`
	ViewLink      string    `json:"viewLink"`
	DownloadLink  string    `json:"downloadLink"`
	CreatedAt     time.Time `json:"createdAt"`
}

type shareRequest struct {
	Method    string `json:"method"`
	Recipient string `json:"recipient"`
}

type shareResponse struct {
	Method       string `json:"method"`
	ViewLink     string `json:"viewLink"`
	DownloadLink string `json:"downloadLink"`
	QRCode       string `json:"qrCode,omitempty"`
}

type downloadResponse struct {
	DownloadLink  string `json:"downloadLink"`
	DownloadCount int64  `json:"downloadCount"`
}

type reconcileResponse struct {
	Removed []string `json:"removed"`
	Orphans []string `json:"orphans"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FolderID:  u.FolderID,
		CreatedAt: u.CreatedAt,
	}
}

func toFileResponse(rec *model.FileRecord) fileResponse {
	events := make([]shareEventResponse, 0, len(rec.SharedVia))
	for _, ev := range rec.SharedVia {
		events = append(events, shareEventResponse{Method: ev.Method, Recipient: ev.Recipient, SharedAt: ev.SharedAt})
	}
	return fileResponse{
		ID:            rec.RemoteID,
		Name:          rec.Name,
		MimeType:      rec.MimeType,
		Size:          rec.Size,
		DownloadCount: rec.DownloadCount,
		ViewLink:      rec.ViewLink,
		DownloadLink:  rec.DownloadLink,
		SharedVia:     events,
		CreatedAt:     rec.CreatedAt,
	}
}

func toListEntries(files []model.ListedFile) []listEntry {
	out := make([]listEntry, 0, len(files))
	for _, f := range files {
		out = append(out, listEntry{
			ID:            f.ID,
			Name:          f.Name,
			MimeType:      f.MimeType,
			Size:          f.Size,
			DownloadCount: f.DownloadCount,
			ViewLink:      f.ViewLink,
			DownloadLink:  f.DownloadLink,
			CreatedAt:     f.CreatedAt,
		})
	}
	return out
}
