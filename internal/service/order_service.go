package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapi/internal/apperr"
	"foodapi/internal/models"
	"foodapi/internal/repository"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"

	maxOrderPage = 100
)

type PlaceOrderInput struct {
	Address       models.DeliveryAddress `json:"address" validate:"required"`
	PaymentMethod string                 `json:"paymentMethod" validate:"omitempty,oneof=cash card"`
}

type StatusUpdateInput struct {
	OrderID string `json:"orderId" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

type OrderService struct {
	orders repository.OrderRepository
	carts  repository.CartRepository
	foods  repository.FoodRepository
	events EventRecorder
	logger *slog.Logger
	now    func() time.Time
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, foods repository.FoodRepository, events EventRecorder, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		carts:  carts,
		foods:  foods,
		events: recorderOrNop(events),
		logger: loggerOrDefault(logger, "order"),
		now:    time.Now,
	}
}

// PlaceOrder turns the caller's current cart into an order. Prices are
// captured from the catalog at this moment; the cart is emptied afterwards.
func (s *OrderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, in PlaceOrderInput) (*models.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentCash
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, s.infra("place order: read cart failed", err)
	}

	ids := make([]primitive.ObjectID, 0, len(cart))
	quantities := make(map[primitive.ObjectID]int, len(cart))
	ordered := make(map[string]int, len(cart))
	for key, qty := range cart {
		if qty <= 0 {
			continue
		}
		id, ok := parseID(key)
		if !ok {
			return nil, apperr.NotFound(fmt.Sprintf("food not found: %s", key))
		}
		ids = append(ids, id)
		quantities[id] = qty
		ordered[key] = qty
	}
	if len(ids) == 0 {
		return nil, apperr.Validation("cart is empty")
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })

	foods, err := s.foods.FindByIDs(ctx, ids)
	if err != nil {
		return nil, s.infra("place order: food lookup failed", err)
	}

	items := make([]models.OrderItem, 0, len(ids))
	var total float64
	for _, id := range ids {
		food, ok := foods[id]
		if !ok {
			return nil, apperr.NotFound(fmt.Sprintf("food not found: %s", id.Hex()))
		}
		qty := quantities[id]
		items = append(items, models.OrderItem{
			FoodID:   id,
			Name:     food.Name,
			Price:    food.Price,
			Quantity: qty,
		})
		total += food.Price * float64(qty)
	}

	order := &models.Order{
		UserID:        userID,
		Items:         items,
		Amount:        roundCents(total),
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
		Status:        models.OrderStatusProcessing,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, s.infra("place order: insert failed", err)
	}

	// The order exists at this point; a failed deduction must not make the
	// client retry and place it twice. Items added since the cart was read
	// stay in the cart.
	if err := s.carts.DeductCartItems(ctx, userID, ordered); err != nil {
		s.logger.Error("place order: deduct cart failed",
			slog.String("order_id", order.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	s.events.OrderPlaced(order.Amount)
	s.logger.Info("order placed",
		slog.String("order_id", order.ID.Hex()),
		slog.String("user_id", userID.Hex()),
		slog.Int("lines", len(items)),
	)
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.infra("list user orders failed", err)
	}
	return orders, nil
}

// CancelOrder deletes one of the caller's own orders. An id belonging to
// someone else is reported exactly like a missing one.
func (s *OrderService) CancelOrder(ctx context.Context, userID primitive.ObjectID, orderID string) error {
	id, ok := parseID(orderID)
	if !ok {
		return apperr.NotFound("order not found")
	}

	if err := s.orders.DeleteOwned(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("order not found")
		}
		return s.infra("cancel order failed", err)
	}

	s.logger.Info("order cancelled", slog.String("order_id", id.Hex()), slog.String("user_id", userID.Hex()))
	return nil
}

// RemoveOrder deletes any order regardless of owner. Only the admin API
// calls it.
func (s *OrderService) RemoveOrder(ctx context.Context, orderID string) error {
	id, ok := parseID(orderID)
	if !ok {
		return apperr.NotFound("order not found")
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("order not found")
		}
		return s.infra("remove order failed", err)
	}

	s.logger.Info("order removed by admin", slog.String("order_id", id.Hex()))
	return nil
}

// ListOrders returns one page of all orders, newest first. A missing page
// or limit means the first maxOrderPage orders.
func (s *OrderService) ListOrders(ctx context.Context, page, limit int64) ([]models.Order, int64, error) {
	if page <= 0 || limit <= 0 {
		page, limit = 1, maxOrderPage
	}
	orders, total, err := s.orders.List(ctx, page, limit)
	if err != nil {
		return nil, 0, s.infra("list orders failed", err)
	}
	return orders, total, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, in StatusUpdateInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if !models.ValidOrderStatus(in.Status) {
		return apperr.Validation("invalid order status", fmt.Sprintf("status %q is not supported", in.Status))
	}
	id, ok := parseID(in.OrderID)
	if !ok {
		return apperr.NotFound("order not found")
	}

	if err := s.orders.UpdateStatus(ctx, id, in.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("order not found")
		}
		return s.infra("update order status failed", err)
	}

	s.logger.Info("order status updated", slog.String("order_id", id.Hex()), slog.String("status", in.Status))
	return nil
}

func (s *OrderService) infra(msg string, err error) error {
	s.logger.Error(msg, slog.String("error", err.Error()))
	return apperr.Infrastructure("something went wrong", fmt.Errorf("%s: %w", msg, err))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
