package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	autherrors "github.com/astralume/chirp/auth-service/internal/domain/user/errors"
)

// CooldownStore implements a claim-once window on top of SET NX with TTL.
type CooldownStore struct {
	client *redis.Client
}

func NewCooldownStore(client *redis.Client) *CooldownStore {
	return &CooldownStore{client: client}
}

func (s *CooldownStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, "cooldown:"+key, 1, ttl).Result()
	if err != nil {
		return false, autherrors.WrapInternal(err, "acquire cooldown")
	}
	return ok, nil
}
