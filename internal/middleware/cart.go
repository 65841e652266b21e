package middleware

import (
	"context"
	"log"
	"net/http"

	"pilates-studio/internal/cache"
	"pilates-studio/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// CartIDKey is the session value holding the browser's cart id
const CartIDKey = "cart_id"

type cartContextKey struct{}

// CartMiddleware mounts the browser's cart for every request. The session
// cookie carries only the cart id; the cart document is kept in docs.
type CartMiddleware struct {
	store sessions.Store
	docs  cache.CartDocuments
}

// NewCartMiddleware creates a new cart middleware. A nil docs keeps carts in
// process memory.
func NewCartMiddleware(store sessions.Store, docs cache.CartDocuments) *CartMiddleware {
	if docs == nil {
		docs = cache.NewMemoryCartDocuments(cache.CartTTL)
	}
	return &CartMiddleware{store: store, docs: docs}
}

// LoadCart resolves the browser's cart id from the session and puts a
// mounted services.CartContext on the request context
func (m *CartMiddleware) LoadCart(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			// A cookie signed with an old secret still yields a fresh session
			log.Printf("Failed to decode session, starting a new one: %v", err)
		}
		if session == nil {
			next.ServeHTTP(w, r)
			return
		}

		sessionStorage := NewSessionStorage(session, w, r)
		cartID, ok := sessionStorage.Get(CartIDKey)
		if !ok || cartID == "" {
			cartID = uuid.NewString()
			if err := sessionStorage.Set(CartIDKey, cartID); err != nil {
				log.Printf("Failed to save cart id: %v", err)
			}
		}

		storage := &documentStorage{ctx: r.Context(), docs: m.docs, cartID: cartID}
		cart := services.NewCartContext(cartID, services.NewCartStore(storage))
		cart.Mount()

		ctx := context.WithValue(r.Context(), cartContextKey{}, cart)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CartFromContext returns the cart mounted by LoadCart
func CartFromContext(ctx context.Context) (*services.CartContext, bool) {
	cart, ok := ctx.Value(cartContextKey{}).(*services.CartContext)
	return cart, ok && cart != nil
}

// CartOrNoop returns the mounted cart, or a cart that ignores every change
// when none is in scope
func CartOrNoop(ctx context.Context) *services.CartContext {
	if cart, ok := CartFromContext(ctx); ok {
		return cart
	}
	return services.NewNoopCartContext()
}

// documentStorage is the services.CartStorage for one browser cart
type documentStorage struct {
	ctx    context.Context
	docs   cache.CartDocuments
	cartID string
}

func (s *documentStorage) Get(key string) (string, bool) {
	doc, ok, err := s.docs.Load(s.ctx, s.cartID+":"+key)
	if err != nil {
		log.Printf("Failed to load cart %s: %v", s.cartID, err)
		return "", false
	}
	return doc, ok
}

func (s *documentStorage) Set(key, value string) error {
	return s.docs.Save(context.WithoutCancel(s.ctx), s.cartID+":"+key, value)
}
