package domain

// User is an account identity. The password field holds the scrypt
// hash in "hexhash.hexsalt" form and is never serialized to clients.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// Product represents a catalog entry
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
}

// CartItem is a single cart row. Repeated adds of the same product
// create separate rows; quantities are never merged.
type CartItem struct {
	ID        int `json:"id"`
	UserID    int `json:"userId"`
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// WishlistItem is an existence-only (user, product) relation
type WishlistItem struct {
	ID        int `json:"id"`
	UserID    int `json:"userId"`
	ProductID int `json:"productId"`
}

// OrderItem is an immutable snapshot of one requested line
type OrderItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Order captures the items, total and shipping address as submitted at
// creation time. Only the status is mutable afterwards.
type Order struct {
	ID              int         `json:"id"`
	UserID          int         `json:"userId"`
	Status          OrderStatus `json:"status"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shippingAddress"`
	CreatedAt       string      `json:"createdAt"`
}

// OrderStatus is the order fulfillment state
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
