package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/contactform/internal/common"
	"github.com/dmitrijs2005/contactform/internal/server/models"
	"github.com/dmitrijs2005/contactform/internal/server/repositories/photos"
)

// attachPhoto fills u.Photo. Users without a stored photo get "".
func attachPhoto(ctx context.Context, repo photos.Repository, u *models.User) error {
	photo, err := repo.Get(ctx, u.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			u.Photo = ""
			return nil
		}
		return fmt.Errorf("error loading photo: %w", err)
	}
	u.Photo = photo
	return nil
}
