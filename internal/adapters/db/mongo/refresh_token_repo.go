package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/astralume/chirp/auth-service/internal/domain/user"
	autherrors "github.com/astralume/chirp/auth-service/internal/domain/user/errors"
)

type RefreshTokenRepo struct {
	col *mongo.Collection
}

func NewRefreshTokenRepo(db *mongo.Database) *RefreshTokenRepo {
	return &RefreshTokenRepo{col: db.Collection("refresh_tokens")}
}

func (r *RefreshTokenRepo) Create(ctx context.Context, t user.RefreshToken) error {
	if _, err := r.col.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return autherrors.ErrAlreadyExists
		}
		return autherrors.WrapInternal(err, "create refresh token")
	}
	return nil
}

// Delete scopes the filter by both user id and token value. A matching token
// owned by someone else is left alone.
func (r *RefreshTokenRepo) Delete(ctx context.Context, userID bson.ObjectID, token string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "token": token})
	if err != nil {
		return false, autherrors.WrapInternal(err, "delete refresh token")
	}
	return res.DeletedCount == 1, nil
}

func (r *RefreshTokenRepo) GetByToken(ctx context.Context, token string) (user.RefreshToken, error) {
	var t user.RefreshToken
	err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.RefreshToken{}, autherrors.ErrNotFound
	}
	if err != nil {
		return user.RefreshToken{}, autherrors.WrapInternal(err, "get refresh token")
	}
	return t, nil
}
