package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"sort"
	"time"

	"github.com/darshilbhuva09/quanta/internal/errs"
	"github.com/darshilbhuva09/quanta/internal/limiter"
	"github.com/darshilbhuva09/quanta/internal/mail"
	"github.com/darshilbhuva09/quanta/internal/model"
	"github.com/darshilbhuva09/quanta/internal/repository"
	"github.com/darshilbhuva09/quanta/internal/storage"
	"github.com/gofrs/uuid/v5"
)

/************ fake user repo ************/

type fakeUsers struct {
	byID map[uuid.UUID]*model.User

	createErr    error
	setFolderErr error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uuid.UUID]*model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, e := range f.byID {
		if e.Username == u.Username || e.Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	cpy := *u
	cpy.CreatedAt = time.Now()
	f.byID[u.ID] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) SetFolderID(_ context.Context, id uuid.UUID, folderID string) error {
	if f.setFolderErr != nil {
		return f.setFolderErr
	}
	u, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.FolderID = folderID
	return nil
}

/************ fake file repo ************/

type fakeFiles struct {
	byRemoteID map[string]*model.FileRecord
	events     map[string][]model.ShareEvent

	createErr    error
	createCalls  int
	incrementErr error
}

var _ repository.FileRepository = (*fakeFiles)(nil)

func newFakeFiles() *fakeFiles {
	return &fakeFiles{
		byRemoteID: map[string]*model.FileRecord{},
		events:     map[string][]model.ShareEvent{},
	}
}

func (f *fakeFiles) Create(_ context.Context, rec *model.FileRecord) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byRemoteID[rec.RemoteID]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *rec
	f.byRemoteID[rec.RemoteID] = &cpy
	return nil
}

func (f *fakeFiles) GetByRemoteID(_ context.Context, remoteID string) (*model.FileRecord, error) {
	rec, ok := f.byRemoteID[remoteID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *rec
	return &c, nil
}

func (f *fakeFiles) ListByUser(_ context.Context, userID uuid.UUID) ([]model.FileRecord, error) {
	var out []model.FileRecord
	for _, rec := range f.byRemoteID {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RemoteID < out[j].RemoteID })
	return out, nil
}

func (f *fakeFiles) IncrementDownloadCount(_ context.Context, remoteID string) (int64, error) {
	if f.incrementErr != nil {
		return 0, f.incrementErr
	}
	rec, ok := f.byRemoteID[remoteID]
	if !ok {
		return 0, errs.ErrNotFound
	}
	rec.DownloadCount++
	return rec.DownloadCount, nil
}

func (f *fakeFiles) AddShareEvent(_ context.Context, remoteID string, ev model.ShareEvent) error {
	f.events[remoteID] = append(f.events[remoteID], ev)
	return nil
}

func (f *fakeFiles) ListShareEvents(_ context.Context, remoteID string) ([]model.ShareEvent, error) {
	return append([]model.ShareEvent(nil), f.events[remoteID]...), nil
}

func (f *fakeFiles) Delete(_ context.Context, remoteID string) error {
	if _, ok := f.byRemoteID[remoteID]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byRemoteID, remoteID)
	delete(f.events, remoteID)
	return nil
}

func (f *fakeFiles) CountersByUser(_ context.Context, userID uuid.UUID) (map[string]int64, error) {
	out := map[string]int64{}
	for id, rec := range f.byRemoteID {
		if rec.UserID == userID {
			out[id] = rec.DownloadCount
		}
	}
	return out, nil
}

/************ fake remote store ************/

type fakeStore struct {
	containers map[string]map[string]*model.ObjectInfo
	blobs      map[string][]byte

	nextID int

	createContainerErr error
	uploadErr          error
	listErr            error
	deleteErr          error

	deleteCalls int
}

var _ storage.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		containers: map[string]map[string]*model.ObjectInfo{},
		blobs:      map[string][]byte{},
	}
}

func (f *fakeStore) CreateContainer(_ context.Context, name string) (string, error) {
	if f.createContainerErr != nil {
		return "", f.createContainerErr
	}
	id := name + "-container"
	f.containers[id] = map[string]*model.ObjectInfo{}
	return id, nil
}

func (f *fakeStore) Upload(_ context.Context, containerID string, r io.Reader, name, mimeType string, size int64) (*model.ObjectInfo, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	objs, ok := f.containers[containerID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	f.nextID++
	id := containerID + "-obj-" + string(rune('0'+f.nextID))
	info := &model.ObjectInfo{
		ID:           id,
		Name:         name,
		MimeType:     mimeType,
		Size:         size,
		ViewLink:     "https://store.example.com/view/" + id,
		DownloadLink: "https://store.example.com/dl/" + id,
		CreatedAt:    time.Now().UTC(),
	}
	objs[id] = info
	f.blobs[id] = buf.Bytes()
	return info, nil
}

func (f *fakeStore) List(_ context.Context, containerID string) ([]model.ObjectInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	objs, ok := f.containers[containerID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	var out []model.ObjectInfo
	for _, info := range objs {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) Stat(_ context.Context, containerID, objectID string) (*model.ObjectInfo, error) {
	objs, ok := f.containers[containerID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	info, ok := objs[objectID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *info
	return &c, nil
}

func (f *fakeStore) Delete(_ context.Context, containerID, objectID string) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if objs, ok := f.containers[containerID]; ok {
		delete(objs, objectID)
	}
	delete(f.blobs, objectID)
	return nil
}

/************ fake limiter ************/

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return nil
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, nil
}

func openLimiter() *fakeLimiter { return &fakeLimiter{allowOK: true} }

/************ fake mailer ************/

type sentMail struct {
	msg            mail.Message
	attachmentData []byte // attachment content read during Send
}

type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

var _ mail.Mailer = (*fakeMailer)(nil)

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if m.sendErr != nil {
		m.sent = append(m.sent, sentMail{msg: msg})
		return m.sendErr
	}
	rec := sentMail{msg: msg}
	if msg.AttachmentPath != "" {
		// read while the transient file still exists
		data, err := os.ReadFile(msg.AttachmentPath)
		if err != nil {
			return err
		}
		rec.attachmentData = data
	}
	m.sent = append(m.sent, rec)
	return nil
}
