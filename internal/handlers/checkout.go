package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pilates-studio/internal/middleware"
	"pilates-studio/internal/models"
	"pilates-studio/internal/services"
	"pilates-studio/web/templates/pages"
)

// CreateSessionRequest is the body of POST /api/checkout
type CreateSessionRequest struct {
	Items []models.CartItem `json:"items"`
}

// CreateSessionResponse is returned when a checkout session was created
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// CheckoutHandler serves the checkout API and the post-payment return page
type CheckoutHandler struct {
	sessions   services.CheckoutSessionCreator
	reconciler *services.OrderReconciler
	origins    services.OriginPolicy
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(sessions services.CheckoutSessionCreator, reconciler *services.OrderReconciler, origins services.OriginPolicy) *CheckoutHandler {
	return &CheckoutHandler{
		sessions:   sessions,
		reconciler: reconciler,
		origins:    origins,
	}
}

// CreateSession creates a hosted checkout session for the posted items
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Items) == 0 {
		writeJSONError(w, http.StatusBadRequest, services.MsgNoItemsInCart)
		return
	}

	origin := h.origins.Resolve(r.Header.Get("Origin"))
	session, err := h.sessions.CreateSession(r.Context(), req.Items, origin)
	if err != nil {
		if errors.Is(err, models.ErrEmptyCart) {
			writeJSONError(w, http.StatusBadRequest, services.MsgNoItemsInCart)
			return
		}
		// The provider error was logged by the service
		writeJSONError(w, http.StatusInternalServerError, services.MsgCheckoutFailed)
		return
	}

	writeJSON(w, http.StatusOK, CreateSessionResponse{SessionID: session.ID})
}

// Success reconciles the returning checkout session and empties the cart
func (h *CheckoutHandler) Success(w http.ResponseWriter, r *http.Request) {
	view := h.reconciler.Reconcile(r.Context(), r.URL.Query().Get("session_id"))

	middleware.CartOrNoop(r.Context()).ClearCart()

	render(w, r, http.StatusOK, pages.SuccessPage(view))
}
