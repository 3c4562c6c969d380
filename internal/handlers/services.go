package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapi/internal/auth"
	"foodapi/internal/middleware"
	"foodapi/internal/models"
	"foodapi/internal/repository"
	"foodapi/internal/service"
)

// The interfaces below are what the handlers need from the service layer.
// The concrete services in internal/service satisfy them.

type AuthService interface {
	middleware.Authenticator
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, in service.LoginInput) (*service.Session, error)
	Rotate(ctx context.Context, refreshToken string) (*service.Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type CartService interface {
	AddItem(ctx context.Context, userID primitive.ObjectID, foodID string) error
	RemoveItem(ctx context.Context, userID primitive.ObjectID, foodID string) error
	GetCart(ctx context.Context, userID primitive.ObjectID) (map[string]int, error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID primitive.ObjectID, in service.PlaceOrderInput) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	CancelOrder(ctx context.Context, userID primitive.ObjectID, orderID string) error
	ListOrders(ctx context.Context, page, limit int64) ([]models.Order, int64, error)
	RemoveOrder(ctx context.Context, orderID string) error
	UpdateStatus(ctx context.Context, in service.StatusUpdateInput) error
}

type CatalogService interface {
	AddFood(ctx context.Context, in service.AddFoodInput) (*models.Food, error)
	ListFoods(ctx context.Context, filter repository.FoodFilter) ([]models.Food, int64, error)
	RemoveFood(ctx context.Context, foodID string) (*models.Food, error)
}

var (
	_ AuthService    = (*service.AuthService)(nil)
	_ CartService    = (*service.CartService)(nil)
	_ OrderService   = (*service.OrderService)(nil)
	_ CatalogService = (*service.CatalogService)(nil)
)
