package services

import (
	"context"
	"encoding/json"
	"sync"

	"pilates-studio/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// memoryStorage is an in-process CartStorage
type memoryStorage struct {
	mu      sync.Mutex
	values  map[string]string
	writes  int
	failSet error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{values: make(map[string]string)}
}

func (m *memoryStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *memoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.values[key] = value
	m.writes++
	return nil
}

// MockPaymentProvider is a testify mock of PaymentProvider
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateCheckoutSession(ctx context.Context, req *models.CheckoutSessionRequest) (*models.CheckoutSession, error) {
	args := m.Called(ctx, req)
	session, _ := args.Get(0).(*models.CheckoutSession)
	return session, args.Error(1)
}

func (m *MockPaymentProvider) GetCheckoutSession(ctx context.Context, id string) (*models.CheckoutSession, error) {
	args := m.Called(ctx, id)
	session, _ := args.Get(0).(*models.CheckoutSession)
	return session, args.Error(1)
}

// fakeCMS records created objects and serves canned classes
type fakeCMS struct {
	mu        sync.Mutex
	classes   []*models.PilatesClass
	created   []*CMSObject
	createErr error
	findCalls int
}

func (f *fakeCMS) FindObjects(ctx context.Context, q ObjectQuery, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++

	data, err := json.Marshal(map[string]any{"objects": f.classes})
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeCMS) FindOneObject(ctx context.Context, q ObjectQuery, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++

	for _, c := range f.classes {
		if c.Slug == q.Slug {
			data, err := json.Marshal(c)
			if err != nil {
				return err
			}
			return json.Unmarshal(data, out)
		}
	}
	return &models.ErrNotFound{Message: "not found"}
}

func (f *fakeCMS) CreateObject(ctx context.Context, obj *CMSObject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, obj)
	return nil
}

func (f *fakeCMS) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func item(id, price string) models.CartItemInput {
	return models.CartItemInput{
		ID:       id,
		Slug:     id,
		Title:    "Class " + id,
		Price:    decimal.RequireFromString(price),
		Image:    "https://imgix.cosmicjs.com/" + id + ".jpg",
		Duration: 45,
	}
}
