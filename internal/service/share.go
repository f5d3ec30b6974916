package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/darshilbhuva09/quanta/internal/errs"
	"github.com/darshilbhuva09/quanta/internal/mail"
	"github.com/darshilbhuva09/quanta/internal/model"
	"github.com/darshilbhuva09/quanta/internal/qr"
	"github.com/darshilbhuva09/quanta/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// Share methods accepted by the share flow.
const (
	ShareMethodLink  = "link"
	ShareMethodQR    = "qrcode"
	ShareMethodEmail = "email"
)

const qrImageSize = 256

// shareSender is the from-address on share notification emails.
const shareSender = "Quanta Share <noreply@quantashare.com>"

// ShareResult carries the per-method payload returned to the caller.
type ShareResult struct {
	Method       string
	ViewLink     string
	DownloadLink string
	QRCode       string // data URL, qrcode method only
}

// EmailRelay is the attachment-relay request: the caller supplies the object
// link explicitly instead of a record id.
type EmailRelay struct {
	From     string
	To       string
	Text     string
	FileLink string
	FileType string
	FileName string
}

// ShareService defines the link/qrcode/email share variants.
type ShareService interface {
	// Share validates, records a share event, and produces the per-method payload.
	Share(ctx context.Context, userID uuid.UUID, remoteID, method, recipient string) (*ShareResult, error)
	// RelayEmail re-fetches a linked object and mails it as an attachment.
	RelayEmail(ctx context.Context, rel EmailRelay) error
}

type ShareServiceImpl struct {
	users  repository.UserRepository
	files  repository.FileRepository
	mailer mail.Mailer
	httpc  *http.Client
}

// NewShareService constructs ShareService. The HTTP client used to re-fetch
// object bytes is injected, not ambient.
func NewShareService(users repository.UserRepository, files repository.FileRepository, mailer mail.Mailer, httpc *http.Client) *ShareServiceImpl {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &ShareServiceImpl{users: users, files: files, mailer: mailer, httpc: httpc}
}

// Share validates the request up front, appends one immutable share event,
// then performs the method-specific work.
func (s *ShareServiceImpl) Share(ctx context.Context, userID uuid.UUID, remoteID, method, recipient string) (*ShareResult, error) {
	if userID == uuid.Nil || remoteID == "" {
		return nil, fmt.Errorf("%w: empty userID/id", errs.ErrValidation)
	}
	switch method {
	case ShareMethodLink, ShareMethodQR:
	case ShareMethodEmail:
		// Reject before contacting the mail transport or touching any store.
		if !validEmail(recipient) {
			return nil, fmt.Errorf("%w: bad recipient", errs.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: invalid sharing method %q", errs.ErrValidation, method)
	}

	rec, err := s.files.GetByRemoteID(ctx, remoteID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, errs.ErrUnauthorized
	}

	ev := model.ShareEvent{Method: method, Recipient: recipient, SharedAt: time.Now().UTC()}
	if err := s.files.AddShareEvent(ctx, remoteID, ev); err != nil {
		return nil, err
	}

	res := &ShareResult{Method: method, ViewLink: rec.ViewLink, DownloadLink: rec.DownloadLink}
	switch method {
	case ShareMethodLink:
		// the stored links, verbatim
	case ShareMethodQR:
		code, err := qr.DataURL(rec.DownloadLink, qrImageSize)
		if err != nil {
			return nil, err
		}
		res.QRCode = code
	case ShareMethodEmail:
		if err := s.emailFile(ctx, userID, rec, recipient); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// emailFile re-fetches the object bytes via the public link and sends them as
// an attachment. The transient file is removed on every exit path.
func (s *ShareServiceImpl) emailFile(ctx context.Context, userID uuid.UUID, rec *model.FileRecord, recipient string) error {
	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	path, err := s.fetchToTemp(ctx, rec.DownloadLink)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	msg := mail.Message{
		From:    shareSender,
		To:      recipient,
		Subject: fmt.Sprintf("%s shared a file with you", owner.Username),
		HTML: fmt.Sprintf(
			"<h2>File Shared with You</h2><p>%s has shared a file with you: <strong>%s</strong></p><p>The file is attached to this message.</p>",
			owner.Username, rec.Name),
		AttachmentPath: path,
		AttachmentName: rec.Name,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: send mail: %v", errs.ErrUpstream, err)
	}
	return nil
}

// RelayEmail validates addresses, re-fetches the linked object into a
// transient file, mails it, and removes the file unconditionally.
func (s *ShareServiceImpl) RelayEmail(ctx context.Context, rel EmailRelay) error {
	if !validEmail(rel.To) || !validEmail(rel.From) {
		return fmt.Errorf("%w: bad from/to address", errs.ErrValidation)
	}
	if rel.FileLink == "" || rel.FileName == "" {
		return fmt.Errorf("%w: empty file link/name", errs.ErrValidation)
	}

	path, err := s.fetchToTemp(ctx, rel.FileLink)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	msg := mail.Message{
		From:           rel.From,
		To:             rel.To,
		Subject:        fmt.Sprintf("%s sent you a file: %s", rel.From, rel.FileName),
		Text:           rel.Text,
		AttachmentPath: path,
		AttachmentName: rel.FileName,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: send mail: %v", errs.ErrUpstream, err)
	}
	return nil
}

// fetchToTemp downloads the link body into a temp file and returns its path.
// The caller owns removal.
func (s *ShareServiceImpl) fetchToTemp(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("%w: bad file link", errs.ErrValidation)
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch attachment: %v", errs.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: fetch attachment: status %d", errs.ErrUpstream, resp.StatusCode)
	}

	f, err := os.CreateTemp("", "quanta-attach-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: fetch attachment: %v", errs.ErrUpstream, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
