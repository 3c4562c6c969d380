package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapi/internal/apperr"
	"foodapi/internal/repository"
)

// CartService maintains the per-user item → quantity mapping. The user id
// always comes from verified token claims.
type CartService struct {
	carts  repository.CartRepository
	foods  repository.FoodRepository
	logger *slog.Logger
}

func NewCartService(carts repository.CartRepository, foods repository.FoodRepository, logger *slog.Logger) *CartService {
	return &CartService{
		carts:  carts,
		foods:  foods,
		logger: loggerOrDefault(logger, "cart"),
	}
}

func (s *CartService) AddItem(ctx context.Context, userID primitive.ObjectID, foodID string) error {
	id, ok := parseID(foodID)
	if !ok {
		return apperr.Validation("invalid item id")
	}

	if _, err := s.foods.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("food not found")
		}
		return s.infra("add item: food lookup failed", err)
	}

	if err := s.carts.IncrementCartItem(ctx, userID, id.Hex()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return s.infra("add item: increment failed", err)
	}

	s.logger.Debug("cart item added", slog.String("user_id", userID.Hex()), slog.String("food_id", id.Hex()))
	return nil
}

// RemoveItem decrements by one. Removing an item that is not in the cart is
// a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID primitive.ObjectID, foodID string) error {
	id, ok := parseID(foodID)
	if !ok {
		return apperr.Validation("invalid item id")
	}

	if err := s.carts.DecrementCartItem(ctx, userID, id.Hex()); err != nil {
		return s.infra("remove item: decrement failed", err)
	}

	s.logger.Debug("cart item removed", slog.String("user_id", userID.Hex()), slog.String("food_id", id.Hex()))
	return nil
}

func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (map[string]int, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, s.infra("get cart failed", err)
	}
	return cart, nil
}

func (s *CartService) infra(msg string, err error) error {
	s.logger.Error(msg, slog.String("error", err.Error()))
	return apperr.Infrastructure("something went wrong", fmt.Errorf("%s: %w", msg, err))
}
