package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartContext_UnmountedIgnoresMutations(t *testing.T) {
	storage := newMemoryStorage()
	ctx := NewCartContext("cart-1", NewCartStore(storage))

	assert.False(t, ctx.Mounted())
	cart := ctx.AddToCart(item("A", "20"))

	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, storage.writes)
	assert.False(t, ctx.IsInCart("A"))
}

func TestCartContext_MountLoadsPersistedCart(t *testing.T) {
	storage := newMemoryStorage()
	NewCartStore(storage).AddToCart(item("A", "20"))

	ctx := NewCartContext("cart-1", NewCartStore(storage))
	assert.Empty(t, ctx.Cart().Items, "unmounted context presents an empty cart")

	ctx.Mount()

	assert.True(t, ctx.Mounted())
	assert.True(t, ctx.IsInCart("A"))
	assert.Equal(t, 1, ctx.ItemCount())
	assert.Equal(t, "cart-1", ctx.ID())
}

func TestCartContext_Mutations(t *testing.T) {
	storage := newMemoryStorage()
	ctx := NewCartContext("cart-1", NewCartStore(storage))
	ctx.Mount()

	ctx.AddToCart(item("A", "20"))
	ctx.AddToCart(item("B", "15.50"))
	assert.True(t, decimal.RequireFromString("35.50").Equal(ctx.Cart().Total))

	ctx.RemoveFromCart("A")
	assert.False(t, ctx.IsInCart("A"))
	assert.True(t, ctx.IsInCart("B"))

	ctx.ClearCart()
	assert.Equal(t, 0, ctx.ItemCount())
	assert.Equal(t, 0, NewCartStore(storage).ItemCount())
}

func TestNoopCartContext(t *testing.T) {
	ctx := NewNoopCartContext()
	ctx.Mount()

	assert.False(t, ctx.Mounted())
	assert.Empty(t, ctx.AddToCart(item("A", "20")).Items)
	assert.Empty(t, ctx.RemoveFromCart("A").Items)
	assert.Empty(t, ctx.ClearCart().Items)
	assert.False(t, ctx.IsInCart("A"))
	assert.Equal(t, "", ctx.ID())
}
