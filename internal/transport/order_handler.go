package transport

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateOrderRequest represents the order creation payload. The items
// and total are recorded exactly as submitted; the server does not
// recompute the total against catalog prices or decrement stock.
type CreateOrderRequest struct {
	Items           []domain.OrderItem `json:"items" validate:"required,min=1,dive"`
	Total           float64            `json:"total" validate:"gte=0"`
	Status          domain.OrderStatus `json:"status"`
	ShippingAddress string             `json:"shippingAddress" validate:"required"`
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(s store.Store, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{store: s, logger: logger}
}

// RegisterRoutes registers the order routes; every one requires auth
func (h *OrderHandler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/api/orders", h.List)
		r.Post("/api/orders", h.Create)
		r.Patch("/api/orders/{id}", h.Update)
	})
}

// List returns the caller's orders in creation order
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	orders, err := h.store.GetOrders(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Create places an order for the caller. createdAt is stamped server
// side; the submitted status defaults to pending.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := req.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !status.Valid() {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "status", Message: "Invalid value"},
		})
		return
	}

	order, err := h.store.CreateOrder(r.Context(), store.NewOrder{
		UserID:          userID,
		Status:          status,
		Items:           req.Items,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("Failed to create order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	h.logger.Info("Order placed",
		zap.Int("order_id", order.ID),
		zap.Int("user_id", userID),
		zap.Float64("total", order.Total),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// Update applies a partial update, in practice a status change. The
// items snapshot cannot be modified.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondNotFound(w, "Order not found")
		return
	}

	var patch domain.OrderPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "status", Message: "Invalid value"},
		})
		return
	}

	order, err := h.store.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		if err == store.ErrOrderNotFound {
			middleware.RespondNotFound(w, "Order not found")
			return
		}
		h.logger.Error("Failed to update order", zap.Error(err), zap.Int("id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}
