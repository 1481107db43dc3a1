// Package mongodb implements the domain repositories against MongoDB.
// Profiles live in the twitter_user collection; posts live in the tweets
// collection keyed by owner_id, so every post lookup is owner-scoped.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection = "twitter_user"
	PostsCollection = "tweets"
)

// Connect establishes and pings a MongoDB client.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	clientOptions.SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), timeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureIndexes configures the indexes both repositories rely on. Called on
// startup from main after Mongo has connected.
//
// The unique username index enforces directory uniqueness at write time, so
// two identity ids deriving the same username cannot produce duplicate
// profiles.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := db.Collection(UsersCollection)
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetName("uniq_username").SetUnique(true),
	}); err != nil {
		return err
	}

	posts := db.Collection(PostsCollection)
	models := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_owner_created"),
		},
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "text", Value: 1},
			},
			Options: options.Index().SetName("idx_owner_text"),
		},
	}
	for _, m := range models {
		if _, err := posts.Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
