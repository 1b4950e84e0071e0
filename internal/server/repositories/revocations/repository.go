// Package revocations records session tokens that were logged out.
package revocations

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Repository is the revocation ledger. Add is idempotent. An entry only
// has to outlive expiresAt, after which the token fails expiry checks on
// its own.
type Repository interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
	Prune(ctx context.Context, now time.Time) (int64, error)
}

// TokenHash is the key under which a token is stored.
func TokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
