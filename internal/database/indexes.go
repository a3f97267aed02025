package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pinet/pinet/internal/logger"
)

func EnsurePinIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	createdAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("createdAt_index"),
	}

	log.Info("EnsurePinIndexes: creating createdAt_index index")
	if _, err := db.Collection(pinsCollection).Indexes().CreateOne(ctx, createdAtIndex); err != nil {
		log.Error("EnsurePinIndexes: createdAt index error", "error", err)
		return err
	}
	log.Info("EnsurePinIndexes: createdAt_index index created")
	return nil
}

func EnsureUserIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("username_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
	}

	log.Info("EnsureUserIndexes: creating username_unique and email_unique indexes")
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("EnsureUserIndexes: index error", "error", err)
		return err
	}
	log.Info("EnsureUserIndexes: indexes created")
	return nil
}
