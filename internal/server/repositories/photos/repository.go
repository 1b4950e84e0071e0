// Package photos stores the base64 photo text attached to each user.
package photos

import "context"

// Repository keys photos by user id. Get returns common.ErrorNotFound for a
// user that never had one.
type Repository interface {
	Put(ctx context.Context, userID int64, photo string) error
	Get(ctx context.Context, userID int64) (string, error)
}
