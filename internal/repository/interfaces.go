// Package repository defines the persistence interfaces and their MongoDB
// implementations. Every operation touches a single document.
package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapi/internal/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")

	// ErrTokenMismatch means the stored refresh-token hash was not the
	// expected one, so the compare-and-swap did not apply.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// UserRepository persists identities, their refresh-token hash and cart.
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// FindByEmail expects an already normalized email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create inserts user and sets its ID. Returns ErrDuplicate on email clash.
	Create(ctx context.Context, user *models.User) error

	// SetRefreshToken overwrites the stored hash unconditionally (last writer wins).
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, hash string) error
	// SwapRefreshToken replaces oldHash with newHash in one atomic update.
	SwapRefreshToken(ctx context.Context, id primitive.ObjectID, oldHash, newHash string) error
	// ClearRefreshToken removes the field from the document.
	ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error
}

// CartRepository stores the per-user item → quantity mapping.
type CartRepository interface {
	IncrementCartItem(ctx context.Context, userID primitive.ObjectID, foodID string) error
	// DecrementCartItem is a no-op when the item is absent or already zero.
	DecrementCartItem(ctx context.Context, userID primitive.ObjectID, foodID string) error
	GetCart(ctx context.Context, userID primitive.ObjectID) (map[string]int, error)
	// DeductCartItems subtracts the given quantities and drops lines that
	// reach zero. Items not listed are left alone.
	DeductCartItems(ctx context.Context, userID primitive.ObjectID, items map[string]int) error
}

type FoodFilter struct {
	Category string
	Page     int64
	Limit    int64
}

type FoodRepository interface {
	Create(ctx context.Context, food *models.Food) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Food, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Food, error)
	List(ctx context.Context, filter FoodFilter) ([]models.Food, int64, error)
	// Delete removes the document and returns what was removed.
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Food, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context, page, limit int64) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	// DeleteOwned deletes the order only if it belongs to userID.
	DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
