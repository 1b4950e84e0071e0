package users

import (
	"context"

	"github.com/dmitrijs2005/contactform/internal/server/models"
)

// Repository stores staff credentials. Photos live in the photos store.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, userName string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
