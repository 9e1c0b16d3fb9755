package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/astralume/chirp/auth-service/internal/domain/user"
	autherrors "github.com/astralume/chirp/auth-service/internal/domain/user/errors"
)

type UserRepo struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{col: db.Collection("users")}
}

func (r *UserRepo) Create(ctx context.Context, u user.User) (bson.ObjectID, error) {
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.ObjectID{}, autherrors.ErrAlreadyExists
		}
		return bson.ObjectID{}, autherrors.WrapInternal(err, "create user")
	}
	return u.ID, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id bson.ObjectID) (user.User, error) {
	return r.getOne(ctx, bson.M{"_id": id}, "get user by id")
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getOne(ctx, bson.M{"email": email}, "get user by email")
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.getOne(ctx, bson.M{"username": username}, "get user by username")
}

func (r *UserRepo) UpdateByID(ctx context.Context, id bson.ObjectID, patch map[string]any) (user.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range patch {
		set[k] = v
	}

	var u user.User
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.User{}, autherrors.ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, autherrors.ErrAlreadyExists
		}
		return user.User{}, autherrors.WrapInternal(err, "update user")
	}
	return u, nil
}

func (r *UserRepo) SetEmailVerifyToken(ctx context.Context, id bson.ObjectID, token string) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "verify": user.Unverified},
		bson.M{"$set": bson.M{"email_verify_token": token, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, autherrors.WrapInternal(err, "set email verify token")
	}
	return res.MatchedCount == 1, nil
}

// ConsumeEmailVerifyToken is a single conditional update: clearing the token
// and flipping the status cannot be observed separately, so two concurrent
// consumers cannot both succeed.
func (r *UserRepo) ConsumeEmailVerifyToken(ctx context.Context, id bson.ObjectID, token string) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "email_verify_token": token, "verify": user.Unverified},
		bson.M{"$set": bson.M{
			"verify":             user.Verified,
			"email_verify_token": "",
			"updated_at":         time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, autherrors.WrapInternal(err, "consume email verify token")
	}
	return res.ModifiedCount == 1, nil
}

func (r *UserRepo) SetForgotPasswordToken(ctx context.Context, id bson.ObjectID, token string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"forgot_password_token": token, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return autherrors.WrapInternal(err, "set forgot password token")
	}
	if res.MatchedCount == 0 {
		return autherrors.ErrNotFound
	}
	return nil
}

func (r *UserRepo) ResetPassword(ctx context.Context, id bson.ObjectID, token, passwordHash string) (user.User, error) {
	var u user.User
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "forgot_password_token": token},
		bson.M{"$set": bson.M{
			"password":              passwordHash,
			"forgot_password_token": "",
			"updated_at":            time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.User{}, autherrors.ErrNotFound
	}
	if err != nil {
		return user.User{}, autherrors.WrapInternal(err, "reset password")
	}
	return u, nil
}

func (r *UserRepo) getOne(ctx context.Context, filter bson.M, op string) (user.User, error) {
	var u user.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.User{}, autherrors.ErrNotFound
	}
	if err != nil {
		return user.User{}, autherrors.WrapInternal(err, op)
	}
	return u, nil
}
