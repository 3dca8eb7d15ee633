package otp

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCodeNotFound = errors.New("otp code not found")

// Store keeps pending verification codes. Expiry is the store's job; a
// missing code means it was never issued or has already expired.
type Store interface {
	Save(ctx context.Context, email, code string) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisStore{client: client, ttl: ttl}
}

func key(email string) string {
	return "otp:" + email
}

func (s *redisStore) Save(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, key(email), code, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	return code, err
}

func (s *redisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, key(email)).Err()
}
