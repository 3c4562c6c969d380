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

// MongoUserRepo implements UserRepository and CartRepository on the users
// collection. The cart lives in the user document's cartData field.
type MongoUserRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoUserRepo(db *mongo.Database, timeout time.Duration) *MongoUserRepo {
	return &MongoUserRepo{
		coll:    db.Collection(database.UsersCollection),
		timeout: timeout,
	}
}

func (r *MongoUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (r *MongoUserRepo) SetRefreshToken(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"refreshToken": hash, "updatedAt": time.Now()},
	}, ErrNotFound)
}

func (r *MongoUserRepo) SwapRefreshToken(ctx context.Context, id primitive.ObjectID, oldHash, newHash string) error {
	return r.updateOne(ctx, bson.M{"_id": id, "refreshToken": oldHash}, bson.M{
		"$set": bson.M{"refreshToken": newHash, "updatedAt": time.Now()},
	}, ErrTokenMismatch)
}

func (r *MongoUserRepo) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{
		"$unset": bson.M{"refreshToken": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}, ErrNotFound)
}

func (r *MongoUserRepo) IncrementCartItem(ctx context.Context, userID primitive.ObjectID, foodID string) error {
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$inc": bson.M{cartField(foodID): 1},
	}, ErrNotFound)
}

func (r *MongoUserRepo) DecrementCartItem(ctx context.Context, userID primitive.ObjectID, foodID string) error {
	field := cartField(foodID)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, field: bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{field: -1}},
	)
	if err != nil {
		return fmt.Errorf("decrement cart item: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil
	}

	if _, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, field: bson.M{"$lte": 0}},
		bson.M{"$unset": bson.M{field: ""}},
	); err != nil {
		return fmt.Errorf("prune cart item: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) GetCart(ctx context.Context, userID primitive.ObjectID) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc struct {
		CartData map[string]int `bson:"cartData"`
	}
	err := r.coll.FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"cartData": 1}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	cart := make(map[string]int, len(doc.CartData))
	for id, qty := range doc.CartData {
		if qty > 0 {
			cart[id] = qty
		}
	}
	return cart, nil
}

func (r *MongoUserRepo) DeductCartItems(ctx context.Context, userID primitive.ObjectID, items map[string]int) error {
	inc := bson.M{}
	for foodID, qty := range items {
		if qty > 0 {
			inc[cartField(foodID)] = -qty
		}
	}
	if len(inc) == 0 {
		return nil
	}
	if err := r.updateOne(ctx, bson.M{"_id": userID}, bson.M{"$inc": inc}, ErrNotFound); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	for field := range inc {
		if _, err := r.coll.UpdateOne(ctx,
			bson.M{"_id": userID, field: bson.M{"$lte": 0}},
			bson.M{"$unset": bson.M{field: ""}},
		); err != nil {
			return fmt.Errorf("prune cart item: %w", err)
		}
	}
	return nil
}

func (r *MongoUserRepo) updateOne(ctx context.Context, filter, update bson.M, noMatch error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return noMatch
	}
	return nil
}

func cartField(foodID string) string {
	return "cartData." + foodID
}
