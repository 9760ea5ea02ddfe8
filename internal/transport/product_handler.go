package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Images      []string `json:"images" validate:"required,min=1,dive,required"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
}

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	store  store.Store
	logger *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(s store.Store, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{store: s, logger: logger}
}

// RegisterRoutes registers the catalog routes. Reads are public;
// mutations sit behind the auth middleware.
func (h *ProductHandler) RegisterRoutes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Get("/api/products", h.List)
	r.Get("/api/products/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/api/products", h.Create)
		r.Patch("/api/products/{id}", h.Update)
	})
}

// List returns every product in insertion order
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.GetProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get returns a single product or a plain-text 404
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondNotFound(w, "Product not found")
		return
	}

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if err == store.ErrProductNotFound {
			middleware.RespondNotFound(w, "Product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err), zap.Int("id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.store.CreateProduct(r.Context(), store.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Stock:       req.Stock,
		Category:    req.Category,
	})
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.Int("id", product.ID), zap.String("name", product.Name))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update applies a partial update; absent fields keep their stored values
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondNotFound(w, "Product not found")
		return
	}

	var patch domain.ProductPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fieldErrors := validateProductPatch(patch); len(fieldErrors) > 0 {
		middleware.RespondWithValidationErrors(w, fieldErrors)
		return
	}

	product, err := h.store.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		if err == store.ErrProductNotFound {
			middleware.RespondNotFound(w, "Product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err), zap.Int("id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func validateProductPatch(patch domain.ProductPatch) []middleware.ValidationError {
	var fieldErrors []middleware.ValidationError
	if patch.Price != nil && *patch.Price < 0 {
		fieldErrors = append(fieldErrors, middleware.ValidationError{Field: "price", Message: "Value must be greater than or equal to 0"})
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		fieldErrors = append(fieldErrors, middleware.ValidationError{Field: "stock", Message: "Value must be greater than or equal to 0"})
	}
	if patch.Images != nil && len(*patch.Images) == 0 {
		fieldErrors = append(fieldErrors, middleware.ValidationError{Field: "images", Message: "Value is too small"})
	}
	return fieldErrors
}
