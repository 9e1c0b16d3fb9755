package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/astralume/chirp/auth-service/internal/domain/user"
	autherrors "github.com/astralume/chirp/auth-service/internal/domain/user/errors"
)

type FollowerRepo struct {
	col *mongo.Collection
}

func NewFollowerRepo(db *mongo.Database) *FollowerRepo {
	return &FollowerRepo{col: db.Collection("followers")}
}

// Create upserts on the (user_id, followed_user_id) pair, so a concurrent
// double-follow inserts exactly one edge.
func (r *FollowerRepo) Create(ctx context.Context, f user.Follower) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": f.UserID, "followed_user_id": f.FollowedUserID},
		bson.M{"$setOnInsert": bson.M{
			"user_id":          f.UserID,
			"followed_user_id": f.FollowedUserID,
			"created_at":       f.CreatedAt,
		}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, autherrors.WrapInternal(err, "create follower")
	}
	return res.UpsertedCount == 1, nil
}

func (r *FollowerRepo) Delete(ctx context.Context, userID, followedUserID bson.ObjectID) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID, "followed_user_id": followedUserID})
	if err != nil {
		return false, autherrors.WrapInternal(err, "delete follower")
	}
	return res.DeletedCount == 1, nil
}
