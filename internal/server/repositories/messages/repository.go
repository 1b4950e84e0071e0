package messages

import (
	"context"

	"github.com/dmitrijs2005/contactform/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.Message) error
	List(ctx context.Context) ([]*models.Message, error)
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
