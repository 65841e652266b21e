package services

import (
	"encoding/json"
	"log"

	"pilates-studio/internal/models"
)

// CartStorage is the per-browser key/value document storage the cart lives in
type CartStorage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// ParseCart decodes a stored cart document. A missing, corrupt or null
// document yields an empty cart. The total is recomputed from the items.
func ParseCart(raw string) models.CartState {
	if raw == "" {
		return models.EmptyCart()
	}

	var stored models.CartState
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return models.EmptyCart()
	}

	return models.NewCartState(stored.Items)
}

// SerializeCart encodes a cart document for storage
func SerializeCart(cart models.CartState) (string, error) {
	data, err := json.Marshal(models.NewCartState(cart.Items))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// AddItem appends the item with quantity 1 unless its ID is already present.
// The second return value reports whether the cart changed.
func AddItem(cart models.CartState, in models.CartItemInput) (models.CartState, bool) {
	if cart.Contains(in.ID) {
		return cart, false
	}

	items := make([]models.CartItem, 0, len(cart.Items)+1)
	items = append(items, cart.Items...)
	items = append(items, in.ToCartItem())
	return models.NewCartState(items), true
}

// RemoveItem drops every item with the given ID
func RemoveItem(cart models.CartState, id string) models.CartState {
	items := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	return models.NewCartState(items)
}

// CartStore reads and writes the cart document in a CartStorage
type CartStore struct {
	storage CartStorage
}

// NewCartStore creates a cart store over the given storage
func NewCartStore(storage CartStorage) *CartStore {
	return &CartStore{storage: storage}
}

// GetCart returns the persisted cart, or an empty cart if none is readable
func (s *CartStore) GetCart() models.CartState {
	raw, ok := s.storage.Get(models.CartStorageKey)
	if !ok {
		return models.EmptyCart()
	}
	return ParseCart(raw)
}

// AddToCart adds a class to the cart. Re-adding a class already present is a no-op.
// When the change cannot be persisted the previously stored cart is returned.
func (s *CartStore) AddToCart(in models.CartItemInput) models.CartState {
	current := s.GetCart()
	cart, changed := AddItem(current, in)
	if !changed {
		return cart
	}
	return s.commit(current, cart)
}

// RemoveFromCart removes a class from the cart
func (s *CartStore) RemoveFromCart(id string) models.CartState {
	current := s.GetCart()
	return s.commit(current, RemoveItem(current, id))
}

// ClearCart empties the cart
func (s *CartStore) ClearCart() models.CartState {
	return s.commit(s.GetCart(), models.EmptyCart())
}

// ItemCount returns the number of classes in the persisted cart
func (s *CartStore) ItemCount() int {
	return s.GetCart().ItemCount()
}

func (s *CartStore) commit(previous, next models.CartState) models.CartState {
	data, err := SerializeCart(next)
	if err == nil {
		err = s.storage.Set(models.CartStorageKey, data)
	}
	if err != nil {
		log.Printf("Failed to persist cart, keeping previous state: %v", err)
		return previous
	}
	return next
}
