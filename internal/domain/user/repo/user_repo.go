package repo

import (
	"context"

	"github.com/astralume/chirp/auth-service/internal/domain/user"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserRepo interface {
	Create(ctx context.Context, u user.User) (bson.ObjectID, error)

	GetByID(ctx context.Context, id bson.ObjectID) (user.User, error)

	GetByEmail(ctx context.Context, email string) (user.User, error)

	GetByUsername(ctx context.Context, username string) (user.User, error)

	// UpdateByID applies a partial patch plus an updated_at stamp and
	// returns the updated record.
	UpdateByID(ctx context.Context, id bson.ObjectID, patch map[string]any) (user.User, error)

	// SetEmailVerifyToken overwrites the pending verify token. The write is
	// conditional on the user still being unverified; returns false when the
	// condition did not match.
	SetEmailVerifyToken(ctx context.Context, id bson.ObjectID, token string) (bool, error)

	// ConsumeEmailVerifyToken atomically clears the stored token and flips
	// the user to Verified, but only if the stored token equals token and
	// the user is still unverified. Returns false when nothing matched.
	ConsumeEmailVerifyToken(ctx context.Context, id bson.ObjectID, token string) (bool, error)

	SetForgotPasswordToken(ctx context.Context, id bson.ObjectID, token string) error

	// ResetPassword atomically replaces the password hash and clears the
	// forgot-password token, conditional on the stored token equalling
	// token. Returns the updated record, or ErrNotFound when the condition
	// did not match.
	ResetPassword(ctx context.Context, id bson.ObjectID, token, passwordHash string) (user.User, error)
}
