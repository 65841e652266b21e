package handlers

import (
	"errors"
	"log"
	"net/http"

	"pilates-studio/internal/middleware"
	"pilates-studio/internal/models"
	"pilates-studio/internal/services"
	"pilates-studio/web/templates/components"
	"pilates-studio/web/templates/pages"
)

// MsgCartNotSaved is shown when a cart change could not be stored
const MsgCartNotSaved = "Your cart could not be saved. Please try again."

// CartHandler handles shopping cart requests and the cart page checkout
type CartHandler struct {
	content services.ContentServiceInterface
	flow    *services.CheckoutFlow
	origins services.OriginPolicy
}

// NewCartHandler creates a new cart handler
func NewCartHandler(content services.ContentServiceInterface, flow *services.CheckoutFlow, origins services.OriginPolicy) *CartHandler {
	return &CartHandler{
		content: content,
		flow:    flow,
		origins: origins,
	}
}

// ViewCart displays the shopping cart
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	cart := middleware.CartOrNoop(r.Context())
	render(w, r, http.StatusOK, pages.CartPage(cart.Cart(), ""))
}

// CartJSON returns the cart state for client-side badges
func (h *CartHandler) CartJSON(w http.ResponseWriter, r *http.Request) {
	cart := middleware.CartOrNoop(r.Context()).Cart()
	writeJSON(w, http.StatusOK, struct {
		models.CartState
		Count int `json:"count"`
	}{cart, cart.ItemCount()})
}

// AddToCart adds a class by slug. The price always comes from the CMS.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	slug := r.FormValue("slug")
	if slug == "" {
		http.Error(w, "Class is required", http.StatusBadRequest)
		return
	}

	class, err := h.content.GetClassBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, models.ErrClassNotFound) || models.IsNotFound(err) {
			http.Error(w, "Class not found", http.StatusNotFound)
			return
		}
		log.Printf("Error fetching class %q: %v", slug, err)
		http.Error(w, "Failed to load class", http.StatusInternalServerError)
		return
	}

	if class.IsFree() {
		http.Error(w, models.ErrFreeClass.Error(), http.StatusBadRequest)
		return
	}

	cart := middleware.CartOrNoop(r.Context())
	state := cart.AddToCart(class.CartItemInput())
	if !state.Contains(class.ID) {
		h.handleCartNotSaved(w, r, state)
		return
	}

	if middleware.IsHTMXRequest(r) {
		render(w, r, http.StatusOK, pages.AddedToCart(state.ItemCount()))
		return
	}

	handleRedirect(w, r, "/cart", http.StatusSeeOther)
}

// handleCartNotSaved reports a mutation that could not be persisted
func (h *CartHandler) handleCartNotSaved(w http.ResponseWriter, r *http.Request, cart models.CartState) {
	if middleware.IsHTMXRequest(r) {
		render(w, r, http.StatusServiceUnavailable, components.Alert(components.AlertError, MsgCartNotSaved))
		return
	}
	render(w, r, http.StatusServiceUnavailable, pages.CartPage(cart, MsgCartNotSaved))
}

// RemoveFromCart removes a class from the cart
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	id := r.FormValue("id")
	if id == "" {
		http.Error(w, "Class is required", http.StatusBadRequest)
		return
	}

	middleware.CartOrNoop(r.Context()).RemoveFromCart(id)
	handleRedirect(w, r, "/cart", http.StatusSeeOther)
}

// ClearCart clears the shopping cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	middleware.CartOrNoop(r.Context()).ClearCart()
	handleRedirect(w, r, "/cart", http.StatusSeeOther)
}

// ProceedToCheckout starts a hosted checkout for the current cart and hands
// the browser off to it
func (h *CartHandler) ProceedToCheckout(w http.ResponseWriter, r *http.Request) {
	cart := middleware.CartOrNoop(r.Context())
	snapshot := cart.Cart()

	origin := h.origins.Resolve(r.Header.Get("Origin"))
	result := h.flow.Start(r.Context(), cart.ID(), snapshot, origin)

	if result.HandedOff() {
		handleRedirect(w, r, result.RedirectURL, http.StatusSeeOther)
		return
	}

	if result.ErrorMessage == "" {
		// Nothing to check out
		handleRedirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	h.handleCheckoutError(w, r, snapshot, result)
}

// handleCheckoutError re-renders the cart with the checkout failure
func (h *CartHandler) handleCheckoutError(w http.ResponseWriter, r *http.Request, cart models.CartState, result *services.CheckoutResult) {
	status := http.StatusUnprocessableEntity
	if errors.Is(result.Err, models.ErrCheckoutInProgress) {
		status = http.StatusConflict
	}

	if middleware.IsHTMXRequest(r) {
		render(w, r, status, components.Alert(components.AlertError, result.ErrorMessage))
		return
	}

	render(w, r, status, pages.CartPage(cart, result.ErrorMessage))
}
