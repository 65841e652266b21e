package services

import (
	"sync"

	"pilates-studio/internal/models"
)

// CartContext is the request-scoped view of a browser's cart. Until the
// browser session has been read it is unmounted: it presents an empty cart
// and ignores mutations.
type CartContext struct {
	mu      sync.Mutex
	id      string
	store   *CartStore
	cart    models.CartState
	mounted bool
	noop    bool
}

// NewCartContext creates an unmounted cart context for the browser cart id
func NewCartContext(id string, store *CartStore) *CartContext {
	return &CartContext{
		id:    id,
		store: store,
		cart:  models.EmptyCart(),
	}
}

// NewNoopCartContext returns a cart context that never persists anything.
// It is handed out where no browser cart is in scope.
func NewNoopCartContext() *CartContext {
	return &CartContext{cart: models.EmptyCart(), noop: true}
}

// Mount loads the persisted cart and enables mutations
func (c *CartContext) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.noop || c.store == nil {
		return
	}
	c.cart = c.store.GetCart()
	c.mounted = true
}

// Mounted reports whether the persisted cart has been loaded
func (c *CartContext) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// ID returns the browser cart id, or "" for a no-op context
func (c *CartContext) ID() string {
	return c.id
}

// Cart returns the current cart snapshot
func (c *CartContext) Cart() models.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}

// AddToCart adds a class and returns the resulting cart
func (c *CartContext) AddToCart(in models.CartItemInput) models.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mounted {
		return c.cart
	}
	c.cart = c.store.AddToCart(in)
	return c.cart
}

// RemoveFromCart removes a class and returns the resulting cart
func (c *CartContext) RemoveFromCart(id string) models.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mounted {
		return c.cart
	}
	c.cart = c.store.RemoveFromCart(id)
	return c.cart
}

// ClearCart empties the cart and returns it
func (c *CartContext) ClearCart() models.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mounted {
		return c.cart
	}
	c.cart = c.store.ClearCart()
	return c.cart
}

// IsInCart reports whether the class is in the current cart snapshot
func (c *CartContext) IsInCart(id string) bool {
	return c.Cart().Contains(id)
}

// ItemCount returns the number of classes in the current cart snapshot
func (c *CartContext) ItemCount() int {
	return c.Cart().ItemCount()
}
