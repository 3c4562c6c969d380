package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodapi/internal/database"
	"foodapi/internal/models"
)

type MongoFoodRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoFoodRepo(db *mongo.Database, timeout time.Duration) *MongoFoodRepo {
	return &MongoFoodRepo{
		coll:    db.Collection(database.FoodsCollection),
		timeout: timeout,
	}
}

func (r *MongoFoodRepo) Create(ctx context.Context, food *models.Food) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, food)
	if err != nil {
		return fmt.Errorf("insert food: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		food.ID = id
	}
	return nil
}

func (r *MongoFoodRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Food, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var food models.Food
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&food)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find food: %w", err)
	}
	return &food, nil
}

// FindByIDs returns the foods that still exist, keyed by ID. Missing IDs are
// simply absent from the result.
func (r *MongoFoodRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Food, error) {
	out := make(map[primitive.ObjectID]models.Food, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find foods: %w", err)
	}
	defer cursor.Close(ctx)

	var foods []models.Food
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	for _, f := range foods {
		out[f.ID] = f
	}
	return out, nil
}

// List returns foods newest first. Pagination applies only when both Page
// and Limit are set; otherwise the whole catalog is returned.
func (r *MongoFoodRepo) List(ctx context.Context, filter FoodFilter) ([]models.Food, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Page > 0 && filter.Limit > 0 {
		findOptions.
			SetSkip((filter.Page - 1) * filter.Limit).
			SetLimit(filter.Limit)
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count foods: %w", err)
	}

	cursor, err := r.coll.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find foods: %w", err)
	}
	defer cursor.Close(ctx)

	foods := make([]models.Food, 0)
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, 0, fmt.Errorf("decode foods: %w", err)
	}
	return foods, total, nil
}

func (r *MongoFoodRepo) Delete(ctx context.Context, id primitive.ObjectID) (*models.Food, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var food models.Food
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&food)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete food: %w", err)
	}
	return &food, nil
}
