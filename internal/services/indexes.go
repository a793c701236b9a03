package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique and lookup indexes the stores rely on.
// Safe to call on every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_username"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys:    bson.D{{Key: "reset_password_token", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_reset_token"),
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(campgroundsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "author.id", Value: 1}},
		Options: options.Index().SetName("idx_author"),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(commentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "campground_id", Value: 1}},
		Options: options.Index().SetName("idx_campground"),
	})
	return err
}
