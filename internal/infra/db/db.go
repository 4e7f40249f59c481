// Package db implements the repositories over a MongoDB database.
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serverSelectionTimeout = 5 * time.Second

// Connect opens a client for the given URI and verifies the connection with a
// ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the unique index on users.username. This index, not
// the pre-insert lookup, is what guarantees username uniqueness under
// concurrent registration.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
