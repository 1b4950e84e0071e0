package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/contactform/internal/common"
	"github.com/dmitrijs2005/contactform/internal/dbx"
	"github.com/dmitrijs2005/contactform/internal/server/auth"
	"github.com/dmitrijs2005/contactform/internal/server/models"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/sequences"
)

// UserService manages staff accounts.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// AddReader creates a reader account with a photo.
func (s *UserService) AddReader(ctx context.Context, userName, password, photo string) (*models.User, error) {
	if err := validateCredentials(userName, password); err != nil {
		return nil, err
	}
	if photo == "" {
		return nil, common.NewValidationError("photo is required")
	}
	return s.create(ctx, userName, password, photo, models.RoleReader)
}

// CreateAdmin creates an admin account. Used to bootstrap an installation.
func (s *UserService) CreateAdmin(ctx context.Context, userName, password string) (*models.User, error) {
	if err := validateCredentials(userName, password); err != nil {
		return nil, err
	}
	return s.create(ctx, userName, password, "", models.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, userName, password, photo string, role models.Role) (*models.User, error) {
	_, err := s.repomanager.Users(s.db).GetByUsername(ctx, userName)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error checking username: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{UserName: userName, PasswordHash: hash, Photo: photo, Role: role}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := s.repomanager.Sequences(tx).Next(ctx, sequences.KindUser)
		if err != nil {
			return fmt.Errorf("error issuing user id: %w", err)
		}
		user.ID = id

		if err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}

		if photo != "" {
			if err := s.repomanager.Photos(tx).Put(ctx, id, photo); err != nil {
				return fmt.Errorf("error storing photo: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// List returns every user with its photo, in id order.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	photos := s.repomanager.Photos(s.db)
	for _, u := range users {
		if err := attachPhoto(ctx, photos, u); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// Get returns one user with its photo.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := attachPhoto(ctx, s.repomanager.Photos(s.db), user); err != nil {
		return nil, err
	}

	return user, nil
}

// Update replaces the password and photo of an existing user. The username
// and role never change.
func (s *UserService) Update(ctx context.Context, id int64, password, photo string) (*models.User, error) {
	if password == "" {
		return nil, common.NewValidationError("password is required")
	}
	if photo == "" {
		return nil, common.NewValidationError("photo is required")
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, id, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		if err := s.repomanager.Photos(tx).Put(ctx, id, photo); err != nil {
			return fmt.Errorf("error storing photo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.PasswordHash = hash
	user.Photo = photo

	return user, nil
}

func validateCredentials(userName, password string) error {
	if strings.TrimSpace(userName) == "" {
		return common.NewValidationError("username is required")
	}
	if password == "" {
		return common.NewValidationError("password is required")
	}
	return nil
}
