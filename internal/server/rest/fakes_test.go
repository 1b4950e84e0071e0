package rest

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/contactform/internal/common"
	"github.com/dmitrijs2005/contactform/internal/server/models"
	"github.com/dmitrijs2005/contactform/internal/server/pagination"
	"github.com/dmitrijs2005/contactform/internal/server/services"
)

type fakeAuth struct {
	mu      sync.Mutex
	tokens  map[string]*models.User
	revoked []string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{tokens: map[string]*models.User{
		"admin-token":  {ID: 1, UserName: "root", Role: models.RoleAdmin},
		"reader-token": {ID: 2, UserName: "alice", Role: models.RoleReader},
	}}
}

func (f *fakeAuth) Authorize(_ context.Context, token string, roles ...models.Role) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthenticated
	}
	if token == "broken-store" {
		return nil, errors.New("ledger down")
	}
	u, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorUnauthenticated
	}
	if len(roles) > 0 && !slices.Contains(roles, u.Role) {
		return nil, common.ErrorForbidden
	}
	return u, nil
}

func (f *fakeAuth) Login(_ context.Context, userName, password string) (*services.LoginResult, error) {
	switch {
	case userName == "":
		return nil, common.NewValidationError("username is required")
	case userName != "alice":
		return nil, common.ErrUnknownUsername
	case password != "pw":
		return nil, common.ErrWrongPassword
	}
	return &services.LoginResult{User: f.tokens["reader-token"], Token: "reader-token"}, nil
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	if token == "" {
		return common.ErrorUnauthenticated
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeAuth) CheckLogin(ctx context.Context, token string) (*models.User, error) {
	return f.Authorize(ctx, token)
}

type fakeUsers struct {
	added   []string
	updates []int64
}

func (f *fakeUsers) AddReader(_ context.Context, userName, password, photo string) (*models.User, error) {
	if userName == "alice" {
		return nil, common.ErrorAlreadyExists
	}
	if photo == "" {
		return nil, common.NewValidationError("photo is required")
	}
	f.added = append(f.added, userName)
	return &models.User{ID: 3, UserName: userName, Photo: photo, Role: models.RoleReader}, nil
}

func (f *fakeUsers) List(context.Context) ([]*models.User, error) {
	return []*models.User{
		{ID: 1, UserName: "root", PasswordHash: "secret-hash", Role: models.RoleAdmin},
	}, nil
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*models.User, error) {
	if id != 1 {
		return nil, common.ErrorNotFound
	}
	return &models.User{ID: 1, UserName: "root", Role: models.RoleAdmin}, nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, password, photo string) (*models.User, error) {
	if id != 1 {
		return nil, common.ErrorNotFound
	}
	f.updates = append(f.updates, id)
	return &models.User{ID: id, UserName: "root", Photo: photo, Role: models.RoleAdmin}, nil
}

type pageCall struct {
	sort          pagination.Sort
	first, second int
}

type fakeMessages struct {
	mu          sync.Mutex
	msgs        map[int64]*models.Message
	submitted   []services.SubmitInput
	pageCalls   []pageCall
	scrollCalls []pageCall
	deleted     []int64
	listErr     error
	sawDeadline bool
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{msgs: map[int64]*models.Message{
		1: {ID: 1, Name: "Ann", Message: "hi", Gender: "female", Country: "Latvia"},
	}}
}

func (f *fakeMessages) Submit(_ context.Context, in services.SubmitInput) (*models.Message, error) {
	if in.Name == "" {
		return nil, common.NewValidationError("all fields are required")
	}
	f.submitted = append(f.submitted, in)
	return &models.Message{ID: 2, Name: in.Name, Message: in.Message, Gender: in.Gender, Country: in.Country}, nil
}

func (f *fakeMessages) List(ctx context.Context) ([]*models.Message, error) {
	_, f.sawDeadline = ctx.Deadline()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []*models.Message{f.msgs[1]}, nil
}

func (f *fakeMessages) Get(_ context.Context, id int64) (*models.Message, error) {
	m, ok := f.msgs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return m, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, id int64) (*models.Message, error) {
	m, ok := f.msgs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	m.Read = true
	return m, nil
}

func (f *fakeMessages) Delete(_ context.Context, id int64) error {
	if _, ok := f.msgs[id]; !ok {
		return common.ErrorNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeMessages) Page(_ context.Context, sort pagination.Sort, page, perPage int) ([]*models.Message, error) {
	f.pageCalls = append(f.pageCalls, pageCall{sort, page, perPage})
	return []*models.Message{}, nil
}

func (f *fakeMessages) Scroll(_ context.Context, sort pagination.Sort, offset, limit int) ([]*models.Message, error) {
	f.scrollCalls = append(f.scrollCalls, pageCall{sort, offset, limit})
	return []*models.Message{f.msgs[1]}, nil
}
