package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/darshilbhuva09/quanta/internal/errs"
	"github.com/darshilbhuva09/quanta/internal/model"
	"github.com/darshilbhuva09/quanta/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var testSignKey = []byte("test-secret")

func makeJWT(t *testing.T, sub string, key []byte, method jwt.SigningMethod, iat time.Time, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(iat),
		NotBefore: jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(iat.Add(ttl)),
	}
	token := jwt.NewWithClaims(method, claims)
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func authToken(t *testing.T, id uuid.UUID) string {
	t.Helper()
	return makeJWT(t, id.String(), testSignKey, jwt.SigningMethodHS256, time.Now().UTC().Add(-time.Minute), 10*time.Minute)
}

/************ fake services ************/

type fakeAuthSvc struct {
	userID uuid.UUID

	registerErr error
	loginErr    error

	lastIP string
}

var _ service.AuthService = (*fakeAuthSvc)(nil)

func (f *fakeAuthSvc) Register(context.Context, string, string, string) (model.Tokens, error) {
	if f.registerErr != nil {
		return model.Tokens{}, f.registerErr
	}
	return model.Tokens{AccessToken: "registered-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuthSvc) LoginWithIP(_ context.Context, _, _, ip string) (model.Tokens, error) {
	f.lastIP = ip
	if f.loginErr != nil {
		return model.Tokens{}, f.loginErr
	}
	return model.Tokens{AccessToken: "login-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuthSvc) GetUser(_ context.Context, id uuid.UUID) (*model.User, error) {
	return &model.User{ID: id, Username: "alice", Email: "alice@example.com", FolderID: "alice-container"}, nil
}

type fakeFilesSvc struct {
	rec       *model.FileRecord
	uploadErr error

	downloadLink  string
	downloadCount int64
	downloadErr   error
	lastDownload  string

	deleteErr  error
	lastDelete string

	listed []model.ListedFile
}

var _ service.FileService = (*fakeFilesSvc)(nil)

func (f *fakeFilesSvc) Upload(_ context.Context, userID uuid.UUID, r io.Reader, name, mimeType string, size int64) (*model.FileRecord, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	f.rec = &model.FileRecord{
		RemoteID: "obj-1", UserID: userID, Name: name, MimeType: mimeType, Size: size,
		ViewLink: "https://store/view/obj-1", DownloadLink: "https://store/dl/obj-1",
	}
	return f.rec, nil
}

func (f *fakeFilesSvc) List(context.Context, uuid.UUID) ([]model.ListedFile, error) {
	return f.listed, nil
}

func (f *fakeFilesSvc) Download(_ context.Context, remoteID string) (string, int64, error) {
	f.lastDownload = remoteID
	if f.downloadErr != nil {
		return "", 0, f.downloadErr
	}
	return f.downloadLink, f.downloadCount, nil
}

func (f *fakeFilesSvc) Get(_ context.Context, _ uuid.UUID, remoteID string) (*model.FileRecord, error) {
	if f.rec == nil || f.rec.RemoteID != remoteID {
		return nil, errs.ErrNotFound
	}
	return f.rec, nil
}

func (f *fakeFilesSvc) Delete(_ context.Context, _ uuid.UUID, remoteID string) error {
	f.lastDelete = remoteID
	return f.deleteErr
}

func (f *fakeFilesSvc) Reconcile(context.Context, uuid.UUID) (*model.ReconcileReport, error) {
	return &model.ReconcileReport{}, nil
}

type fakeShareSvc struct {
	res      *service.ShareResult
	shareErr error
	relayErr error

	lastMethod    string
	lastRecipient string
	lastRelay     service.EmailRelay
}

var _ service.ShareService = (*fakeShareSvc)(nil)

func (f *fakeShareSvc) Share(_ context.Context, _ uuid.UUID, _, method, recipient string) (*service.ShareResult, error) {
	f.lastMethod, f.lastRecipient = method, recipient
	if f.shareErr != nil {
		return nil, f.shareErr
	}
	return f.res, nil
}

func (f *fakeShareSvc) RelayEmail(_ context.Context, rel service.EmailRelay) error {
	f.lastRelay = rel
	return f.relayErr
}

/************ harness ************/

type testEnv struct {
	app    *fiber.App
	auth   *fakeAuthSvc
	files  *fakeFilesSvc
	share  *fakeShareSvc
	userID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	userID := uuid.Must(uuid.NewV4())
	auth := &fakeAuthSvc{userID: userID}
	files := &fakeFilesSvc{}
	share := &fakeShareSvc{}
	srv := New(auth, files, share, testSignKey, zap.NewNop())
	return &testEnv{app: srv.Router(), auth: auth, files: files, share: share, userID: userID}
}

func jsonReq(t *testing.T, method, target, token string, body any) *http.Request {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, rd)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	return req
}

func multipartUpload(t *testing.T, token, fieldName, fileName, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	return req
}

func formReq(t *testing.T, target, token string, fields map[string]string) *http.Request {
	t.Helper()
	vals := url.Values{}
	for k, v := range fields {
		vals.Set(k, v)
	}
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(vals.Encode()))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}
