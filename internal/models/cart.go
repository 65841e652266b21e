package models

import (
	"github.com/shopspring/decimal"
)

// CartStorageKey is the key the serialized cart document is stored under
const CartStorageKey = "pilates-cart"

func init() {
	// Prices travel as JSON numbers, the same shape browsers send them in.
	decimal.MarshalJSONWithoutQuotes = true
}

// CartItem represents a purchasable class in the cart. Classes are
// one-time purchases so Quantity is always 1.
type CartItem struct {
	ID       string          `json:"id"`
	Slug     string          `json:"slug"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"` // major currency units
	Image    string          `json:"image"`
	Duration int             `json:"duration"` // minutes
	Quantity int             `json:"quantity"`
}

// CartItemInput is a cart item before it is placed in the cart
type CartItemInput struct {
	ID       string          `json:"id"`
	Slug     string          `json:"slug"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Duration int             `json:"duration"`
}

// CartState represents the shopping cart
type CartState struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// ToCartItem places the input in the cart with quantity 1
func (in CartItemInput) ToCartItem() CartItem {
	return CartItem{
		ID:       in.ID,
		Slug:     in.Slug,
		Title:    in.Title,
		Price:    in.Price,
		Image:    in.Image,
		Duration: in.Duration,
		Quantity: 1,
	}
}

// Subtotal returns price * quantity
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// EmptyCart returns a cart with no items and a zero total
func EmptyCart() CartState {
	return CartState{Items: []CartItem{}, Total: decimal.Zero}
}

// NewCartState builds a cart from items, computing the total. An item
// with a quantity below 1 is counted once.
func NewCartState(items []CartItem) CartState {
	normalized := make([]CartItem, len(items))
	for i, item := range items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		normalized[i] = item
	}
	return CartState{Items: normalized, Total: CartTotal(normalized)}
}

// CartTotal sums price * quantity over items
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Contains reports whether an item with the given id is in the cart
func (c CartState) Contains(id string) bool {
	for _, item := range c.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// ItemCount returns the number of classes in the cart
func (c CartState) ItemCount() int {
	return len(c.Items)
}

// IsEmpty returns true if the cart has no items
func (c CartState) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalMoney returns the cart total in the given currency
func (c CartState) TotalMoney() Money {
	return NewMoney(c.Total, DefaultCurrency)
}
