package store

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// NewUser carries the fields needed to create a user row
type NewUser struct {
	Username string
	Password string
}

// NewProduct carries the fields needed to create a product row
type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Images      []string
	Stock       int
	Category    string
}

// NewCartItem carries the fields needed to create a cart row
type NewCartItem struct {
	UserID    int
	ProductID int
	Quantity  int
}

// NewWishlistItem carries the fields needed to create a wishlist row
type NewWishlistItem struct {
	UserID    int
	ProductID int
}

// NewOrder carries the fields needed to create an order row. CreatedAt
// is stamped by the caller (the order handler) rather than trusted from
// the request body.
type NewOrder struct {
	UserID          int
	Status          domain.OrderStatus
	Items           []domain.OrderItem
	Total           float64
	ShippingAddress string
	CreatedAt       string
}

// Store is the single source of truth for all entity collections. Every
// create assigns the next id for its entity type; ids are strictly
// increasing and never reused, even after deletion. List operations
// return rows in creation order.
//
// Updates of a missing id fail with the entity's not-found error;
// deletes of a missing id are silent no-ops. Callers depend on both
// halves of that asymmetry.
type Store interface {
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, data NewUser) (*domain.User, error)

	GetProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	CreateProduct(ctx context.Context, data NewProduct) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error)

	GetCartItems(ctx context.Context, userID int) ([]*domain.CartItem, error)
	AddToCart(ctx context.Context, data NewCartItem) (*domain.CartItem, error)
	UpdateCartItem(ctx context.Context, id int, quantity int) (*domain.CartItem, error)
	RemoveFromCart(ctx context.Context, id int) error

	GetWishlistItems(ctx context.Context, userID int) ([]*domain.WishlistItem, error)
	AddToWishlist(ctx context.Context, data NewWishlistItem) (*domain.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, id int) error

	GetOrders(ctx context.Context, userID int) ([]*domain.Order, error)
	CreateOrder(ctx context.Context, data NewOrder) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int, patch domain.OrderPatch) (*domain.Order, error)
}
