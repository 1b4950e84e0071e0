package revocations

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "contactform:revoked:"

// RedisRepository keeps one key per revoked token with a TTL matching the
// token's remaining lifetime, so expired entries disappear on their own.
type RedisRepository struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedisRepository(client redis.UniversalClient) *RedisRepository {
	return &RedisRepository{client: client, now: time.Now}
}

func (r *RedisRepository) Add(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	if err := r.client.SetNX(ctx, keyPrefix+TokenHash(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

func (r *RedisRepository) Contains(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+TokenHash(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis error: %w", err)
	}
	return n > 0, nil
}

// Prune is a no-op; Redis expires keys itself.
func (r *RedisRepository) Prune(context.Context, time.Time) (int64, error) {
	return 0, nil
}
