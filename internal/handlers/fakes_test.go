package handlers

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapi/internal/apperr"
	"foodapi/internal/auth"
	"foodapi/internal/models"
	"foodapi/internal/repository"
	"foodapi/internal/service"
)

var (
	testUserID  = primitive.NewObjectID()
	testAdminID = primitive.NewObjectID()
)

// --- mocks ---

type mockAuth struct {
	registerFn func(ctx context.Context, in service.RegisterInput) (*models.User, error)
	loginFn    func(ctx context.Context, in service.LoginInput) (*service.Session, error)
	rotateFn   func(ctx context.Context, token string) (*service.Session, error)
	logoutFn   func(ctx context.Context, claims *auth.Claims) error
}

func (m *mockAuth) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	switch token {
	case "user-token":
		return &auth.Claims{Role: models.RoleUser, RegisteredClaims: jwt.RegisteredClaims{Subject: testUserID.Hex(), ID: "jti-user"}}, nil
	case "admin-token":
		return &auth.Claims{Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: testAdminID.Hex(), ID: "jti-admin"}}, nil
	}
	return nil, apperr.Auth("unauthorized request")
}

func (m *mockAuth) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	return m.registerFn(ctx, in)
}

func (m *mockAuth) Login(ctx context.Context, in service.LoginInput) (*service.Session, error) {
	return m.loginFn(ctx, in)
}

func (m *mockAuth) Rotate(ctx context.Context, token string) (*service.Session, error) {
	return m.rotateFn(ctx, token)
}

func (m *mockAuth) Logout(ctx context.Context, claims *auth.Claims) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, claims)
	}
	return nil
}

func (m *mockAuth) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return &models.User{ID: userID, Name: "ann", Email: "ann@x.com", Role: models.RoleUser}, nil
}

type mockCart struct {
	addFn    func(ctx context.Context, userID primitive.ObjectID, foodID string) error
	removeFn func(ctx context.Context, userID primitive.ObjectID, foodID string) error
	cart     map[string]int
}

func (m *mockCart) AddItem(ctx context.Context, userID primitive.ObjectID, foodID string) error {
	return m.addFn(ctx, userID, foodID)
}

func (m *mockCart) RemoveItem(ctx context.Context, userID primitive.ObjectID, foodID string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, userID, foodID)
	}
	return nil
}

func (m *mockCart) GetCart(ctx context.Context, userID primitive.ObjectID) (map[string]int, error) {
	return m.cart, nil
}

type mockOrders struct {
	placeFn  func(ctx context.Context, userID primitive.ObjectID, in service.PlaceOrderInput) (*models.Order, error)
	cancelFn func(ctx context.Context, userID primitive.ObjectID, orderID string) error
	statusFn func(ctx context.Context, in service.StatusUpdateInput) error
	removeFn func(ctx context.Context, orderID string) error
	list     []models.Order

	listedPage, listedLimit int64
}

func (m *mockOrders) PlaceOrder(ctx context.Context, userID primitive.ObjectID, in service.PlaceOrderInput) (*models.Order, error) {
	return m.placeFn(ctx, userID, in)
}

func (m *mockOrders) ListUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return m.list, nil
}

func (m *mockOrders) CancelOrder(ctx context.Context, userID primitive.ObjectID, orderID string) error {
	return m.cancelFn(ctx, userID, orderID)
}

func (m *mockOrders) ListOrders(ctx context.Context, page, limit int64) ([]models.Order, int64, error) {
	m.listedPage, m.listedLimit = page, limit
	return m.list, int64(len(m.list)), nil
}

func (m *mockOrders) RemoveOrder(ctx context.Context, orderID string) error {
	return m.removeFn(ctx, orderID)
}

func (m *mockOrders) UpdateStatus(ctx context.Context, in service.StatusUpdateInput) error {
	return m.statusFn(ctx, in)
}

type mockCatalog struct {
	addFn    func(ctx context.Context, in service.AddFoodInput) (*models.Food, error)
	listFn   func(ctx context.Context, filter repository.FoodFilter) ([]models.Food, int64, error)
	removeFn func(ctx context.Context, foodID string) (*models.Food, error)
}

func (m *mockCatalog) AddFood(ctx context.Context, in service.AddFoodInput) (*models.Food, error) {
	return m.addFn(ctx, in)
}

func (m *mockCatalog) ListFoods(ctx context.Context, filter repository.FoodFilter) ([]models.Food, int64, error) {
	return m.listFn(ctx, filter)
}

func (m *mockCatalog) RemoveFood(ctx context.Context, foodID string) (*models.Food, error) {
	return m.removeFn(ctx, foodID)
}
