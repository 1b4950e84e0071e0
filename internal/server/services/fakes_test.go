package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/contactform/internal/common"
	"github.com/dmitrijs2005/contactform/internal/dbx"
	"github.com/dmitrijs2005/contactform/internal/server/models"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/messages"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/photos"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/revocations"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/sequences"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byID      map[int64]*models.User
	getErr    error
	listErr   error
	createErr error
	updateErr error
	creates   int
}

func newFakeUsers(list ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[int64]*models.User{}}
	for _, u := range list {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.creates++
	cp := *u
	cp.Photo = ""
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsersRepo) List(context.Context) ([]*models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.User, 0, len(f.byID))
	for _, u := range f.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetByUsername(_ context.Context, name string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.UserName == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeMessagesRepo struct {
	byID      map[int64]*models.Message
	createErr error
	listErr   error
	deletes   int
}

func newFakeMessages(list ...*models.Message) *fakeMessagesRepo {
	f := &fakeMessagesRepo{byID: map[int64]*models.Message{}}
	for _, m := range list {
		f.byID[m.ID] = m
	}
	return f
}

func (f *fakeMessagesRepo) Create(_ context.Context, m *models.Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMessagesRepo) List(context.Context) ([]*models.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Message, 0, len(f.byID))
	for _, m := range f.byID {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMessagesRepo) GetByID(_ context.Context, id int64) (*models.Message, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMessagesRepo) MarkRead(_ context.Context, id int64) error {
	m, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	m.Read = true
	return nil
}

func (f *fakeMessagesRepo) Delete(_ context.Context, id int64) error {
	f.deletes++
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeSequences struct {
	next map[sequences.Kind]int64
	err  error
}

func newFakeSequences() *fakeSequences {
	return &fakeSequences{next: map[sequences.Kind]int64{}}
}

func (f *fakeSequences) Next(_ context.Context, kind sequences.Kind) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.next[kind] == 0 {
		f.next[kind] = 1
	}
	id := f.next[kind]
	f.next[kind] = id + 1
	return id, nil
}

type fakePhotos struct {
	byUser map[int64]string
	getErr error
	putErr error
}

func newFakePhotos() *fakePhotos { return &fakePhotos{byUser: map[int64]string{}} }

func (f *fakePhotos) Put(_ context.Context, id int64, photo string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.byUser[id] = photo
	return nil
}

func (f *fakePhotos) Get(_ context.Context, id int64) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	p, ok := f.byUser[id]
	if !ok {
		return "", common.ErrorNotFound
	}
	return p, nil
}

type fakeRevocations struct {
	entries     map[string]time.Time
	containsErr error
	addErr      error
	pruned      int64
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{entries: map[string]time.Time{}}
}

func (f *fakeRevocations) Add(_ context.Context, token string, exp time.Time) error {
	if f.addErr != nil {
		return f.addErr
	}
	if _, ok := f.entries[token]; !ok {
		f.entries[token] = exp
	}
	return nil
}

func (f *fakeRevocations) Contains(_ context.Context, token string) (bool, error) {
	if f.containsErr != nil {
		return false, f.containsErr
	}
	_, ok := f.entries[token]
	return ok, nil
}

func (f *fakeRevocations) Prune(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, exp := range f.entries {
		if exp.Before(now) {
			delete(f.entries, k)
			n++
		}
	}
	f.pruned += n
	return n, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	m *fakeMessagesRepo
	s *fakeSequences
	p *fakePhotos
	r *fakeRevocations
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsers(),
		m: newFakeMessages(),
		s: newFakeSequences(),
		p: newFakePhotos(),
		r: newFakeRevocations(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return m.u }
func (m *fakeRepoManager) Messages(dbx.DBTX) messages.Repository { return m.m }
func (m *fakeRepoManager) Sequences(dbx.DBTX) sequences.Repository { return m.s }
func (m *fakeRepoManager) Photos(dbx.DBTX) photos.Repository { return m.p }
func (m *fakeRepoManager) Revocations(dbx.DBTX) revocations.Repository { return m.r }

type broadcast struct{ name, message string }

type fakeBroadcaster struct {
	mu    sync.Mutex
	calls []broadcast
}

func (f *fakeBroadcaster) Broadcast(name, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, broadcast{name, message})
}
