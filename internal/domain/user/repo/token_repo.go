package repo

import (
	"context"
	"time"

	"github.com/astralume/chirp/auth-service/internal/domain/user"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// RefreshTokenRepo is the ledger of currently-valid refresh tokens.
type RefreshTokenRepo interface {
	Create(ctx context.Context, t user.RefreshToken) error

	// Delete removes the entry matching BOTH user id and token value, so a
	// stolen token value alone cannot revoke another user's session.
	// Returns false when no entry matched; repeated calls are safe.
	Delete(ctx context.Context, userID bson.ObjectID, token string) (bool, error)

	GetByToken(ctx context.Context, token string) (user.RefreshToken, error)
}

// FollowerRepo persists follow edges between users.
type FollowerRepo interface {
	// Create inserts the edge if absent; returns false when it already existed.
	Create(ctx context.Context, f user.Follower) (bool, error)

	// Delete removes the edge; returns false when it did not exist.
	Delete(ctx context.Context, userID, followedUserID bson.ObjectID) (bool, error)
}

// CooldownStore gates repeatable actions (verification email resends).
type CooldownStore interface {
	// Acquire claims key for ttl. Returns false while a prior claim is live.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
