package database

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(UsersCollection).Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	if _, err := indexes.CreateOne(ctx, emailIndex); err != nil {
		slog.Error("EnsureUserIndexes: email index error", slog.String("error", err.Error()))
		return err
	}
	slog.Debug("EnsureUserIndexes: email_unique index created")
	return nil
}

func EnsureFoodIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(FoodsCollection).Indexes()

	categoryIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("category_createdAt"),
	}

	if _, err := indexes.CreateOne(ctx, categoryIndex); err != nil {
		slog.Error("EnsureFoodIndexes: category index error", slog.String("error", err.Error()))
		return err
	}
	slog.Debug("EnsureFoodIndexes: category_createdAt index created")
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection(OrdersCollection).Indexes()

	userIDIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("userId_createdAt"),
	}

	if _, err := indexes.CreateOne(ctx, userIDIndex); err != nil {
		slog.Error("EnsureOrderIndexes: userId index error", slog.String("error", err.Error()))
		return err
	}
	slog.Debug("EnsureOrderIndexes: userId_createdAt index created")
	return nil
}
