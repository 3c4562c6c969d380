package service

import (
	"context"
	"errors"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodapi/internal/auth"
	"foodapi/internal/models"
	"foodapi/internal/repository"
)

// --- in-memory stores ---

type memUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User

	findErr error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *memUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *memUserStore) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserStore) SetRefreshToken(ctx context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = hash
	return nil
}

func (m *memUserStore) SwapRefreshToken(ctx context.Context, id primitive.ObjectID, oldHash, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.RefreshToken == "" || u.RefreshToken != oldHash {
		return repository.ErrTokenMismatch
	}
	u.RefreshToken = newHash
	return nil
}

func (m *memUserStore) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = ""
	return nil
}

func (m *memUserStore) IncrementCartItem(ctx context.Context, userID primitive.ObjectID, foodID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.CartData == nil {
		u.CartData = make(map[string]int)
	}
	u.CartData[foodID]++
	return nil
}

func (m *memUserStore) DecrementCartItem(ctx context.Context, userID primitive.ObjectID, foodID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.CartData[foodID] <= 0 {
		return nil
	}
	u.CartData[foodID]--
	if u.CartData[foodID] <= 0 {
		delete(u.CartData, foodID)
	}
	return nil
}

func (m *memUserStore) GetCart(ctx context.Context, userID primitive.ObjectID) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := make(map[string]int, len(u.CartData))
	for k, v := range u.CartData {
		if v > 0 {
			out[k] = v
		}
	}
	return out, nil
}

func (m *memUserStore) DeductCartItems(ctx context.Context, userID primitive.ObjectID, items map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for foodID, qty := range items {
		if u.CartData == nil {
			break
		}
		u.CartData[foodID] -= qty
		if u.CartData[foodID] <= 0 {
			delete(u.CartData, foodID)
		}
	}
	return nil
}

// setCart writes raw cart data, including zero lines.
func (m *memUserStore) setCart(userID primitive.ObjectID, cart map[string]int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID].CartData = cart
}

func (m *memUserStore) stored(id primitive.ObjectID) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

type memFoodStore struct {
	mu    sync.Mutex
	foods map[primitive.ObjectID]models.Food

	createErr error
}

func newMemFoodStore() *memFoodStore {
	return &memFoodStore{foods: make(map[primitive.ObjectID]models.Food)}
}

func (m *memFoodStore) add(name string, price float64) models.Food {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := models.Food{ID: primitive.NewObjectID(), Name: name, Price: price, Category: "Main", CreatedAt: time.Now()}
	m.foods[f.ID] = f
	return f
}

func (m *memFoodStore) setPrice(id primitive.ObjectID, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.foods[id]
	f.Price = price
	m.foods[id] = f
}

func (m *memFoodStore) Create(ctx context.Context, food *models.Food) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	food.ID = primitive.NewObjectID()
	m.foods[food.ID] = *food
	return nil
}

func (m *memFoodStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Food, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.foods[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (m *memFoodStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Food, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[primitive.ObjectID]models.Food)
	for _, id := range ids {
		if f, ok := m.foods[id]; ok {
			out[id] = f
		}
	}
	return out, nil
}

func (m *memFoodStore) List(ctx context.Context, filter repository.FoodFilter) ([]models.Food, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Food, 0, len(m.foods))
	for _, f := range m.foods {
		if filter.Category == "" || f.Category == filter.Category {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (m *memFoodStore) Delete(ctx context.Context, id primitive.ObjectID) (*models.Food, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.foods[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.foods, id)
	return &f, nil
}

type memOrderStore struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]models.Order

	listedPage, listedLimit int64
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[primitive.ObjectID]models.Order)}
}

func (m *memOrderStore) Create(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	m.orders[order.ID] = *order
	return nil
}

func (m *memOrderStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrderStore) List(ctx context.Context, page, limit int64) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listedPage, m.listedLimit = page, limit
	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (m *memOrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

func (m *memOrderStore) DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *memOrderStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

// --- images ---

type fakeImageStore struct {
	mu        sync.Mutex
	uploadErr error
	deleteErr error
	stored    map[string]bool
	deleted   []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{stored: make(map[string]bool)}
}

func (f *fakeImageStore) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	name := primitive.NewObjectID().Hex() + ".png"
	f.stored[name] = true
	return name, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.stored, name)
	return nil
}

// --- events ---

type recordedEvents struct {
	mu     sync.Mutex
	auth   []string
	orders []float64
}

func (r *recordedEvents) AuthEvent(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auth = append(r.auth, event)
}

func (r *recordedEvents) OrderPlaced(amount float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, amount)
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(auth.TokenConfig{
		Secret:     testSecret,
		Issuer:     "foodapi-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
}
