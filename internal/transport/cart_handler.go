package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToCartRequest represents the cart add payload. The user id comes
// from the session, never from the body.
type AddToCartRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

// UpdateCartItemRequest represents the cart quantity update payload
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// CartHandler handles HTTP requests for the cart
type CartHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(s store.Store, logger *zap.Logger) *CartHandler {
	return &CartHandler{store: s, logger: logger}
}

// RegisterRoutes registers the cart routes; every one requires auth
func (h *CartHandler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/api/cart", h.List)
		r.Post("/api/cart", h.Add)
		r.Patch("/api/cart/{id}", h.UpdateQuantity)
		r.Delete("/api/cart/{id}", h.Remove)
	})
}

// List returns the caller's cart rows in creation order
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	items, err := h.store.GetCartItems(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list cart items", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list cart items")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Add appends a new cart row. Adding the same product twice creates
// two rows; quantities are never merged.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.store.AddToCart(r.Context(), store.NewCartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.logger.Error("Failed to add cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// UpdateQuantity changes the quantity on an existing cart row
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondNotFound(w, "Cart item not found")
		return
	}

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.store.UpdateCartItem(r.Context(), id, req.Quantity)
	if err != nil {
		if err == store.ErrCartItemNotFound {
			middleware.RespondNotFound(w, "Cart item not found")
			return
		}
		h.logger.Error("Failed to update cart item", zap.Error(err), zap.Int("id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart item")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Remove deletes a cart row. Removing an id that is already gone is
// still a 200; callers rely on the idempotent delete.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.store.RemoveFromCart(r.Context(), id); err != nil {
		h.logger.Error("Failed to remove cart item", zap.Error(err), zap.Int("id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove cart item")
		return
	}
	w.WriteHeader(http.StatusOK)
}
