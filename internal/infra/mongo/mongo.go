package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Open connects to MongoDB and verifies the connection with a ping. The
// caller owns the client and must Disconnect it on shutdown.
func Open(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique indexes the service relies on. They are
// the authoritative guard against duplicate emails, usernames, refresh
// tokens and follow edges; service-level pre-checks are only an optimization.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	refresh := mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("refresh_tokens").Indexes().CreateOne(ctx, refresh); err != nil {
		return fmt.Errorf("refresh_tokens index: %w", err)
	}

	followers := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "followed_user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("followers").Indexes().CreateOne(ctx, followers); err != nil {
		return fmt.Errorf("followers index: %w", err)
	}
	return nil
}
