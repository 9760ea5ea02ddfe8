package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToWishlistRequest represents the wishlist add payload
type AddToWishlistRequest struct {
	ProductID int `json:"productId" validate:"required,gt=0"`
}

// WishlistHandler handles HTTP requests for the wishlist
type WishlistHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(s store.Store, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{store: s, logger: logger}
}

// RegisterRoutes registers the wishlist routes; every one requires auth
func (h *WishlistHandler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/api/wishlist", h.List)
		r.Post("/api/wishlist", h.Add)
		r.Delete("/api/wishlist/{id}", h.Remove)
	})
}

// List returns the caller's wishlist entries in creation order
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	items, err := h.store.GetWishlistItems(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list wishlist items", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list wishlist items")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Add records a wishlist entry for the caller
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req AddToWishlistRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.store.AddToWishlist(r.Context(), store.NewWishlistItem{
		UserID:    userID,
		ProductID: req.ProductID,
	})
	if err != nil {
		h.logger.Error("Failed to add wishlist item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to wishlist")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// Remove deletes a wishlist entry; missing ids are a silent 200
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.store.RemoveFromWishlist(r.Context(), id); err != nil {
		h.logger.Error("Failed to remove wishlist item", zap.Error(err), zap.Int("id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove wishlist item")
		return
	}
	w.WriteHeader(http.StatusOK)
}
