package store

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

// arena holds one entity collection: an id-to-record map plus the
// creation order of the ids still present. The sequence counter only
// ever moves forward, so ids are never reused after a delete.
type arena[T any] struct {
	seq     int
	records map[int]*T
	order   []int
}

func newArena[T any]() arena[T] {
	return arena[T]{records: make(map[int]*T)}
}

func (a *arena[T]) insert(record *T) int {
	a.seq++
	a.records[a.seq] = record
	a.order = append(a.order, a.seq)
	return a.seq
}

func (a *arena[T]) remove(id int) {
	if _, ok := a.records[id]; !ok {
		return
	}
	delete(a.records, id)
	for i, existing := range a.order {
		if existing == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// MemoryStore keeps all collections in process memory. The original
// deployment of this service ran on a single-threaded event loop; Go
// serves requests on concurrent goroutines, so a mutex guards every
// operation to keep each read-modify-write atomic.
type MemoryStore struct {
	mu sync.Mutex

	users         arena[domain.User]
	products      arena[domain.Product]
	cartItems     arena[domain.CartItem]
	wishlistItems arena[domain.WishlistItem]
	orders        arena[domain.Order]
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         newArena[domain.User](),
		products:      newArena[domain.Product](),
		cartItems:     newArena[domain.CartItem](),
		wishlistItems: newArena[domain.WishlistItem](),
		orders:        newArena[domain.Order](),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) GetUser(ctx context.Context, id int) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users.records[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Case-sensitive exact match, first created wins
	for _, id := range s.users.order {
		if user := s.users.records[id]; user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) CreateUser(ctx context.Context, data NewUser) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &domain.User{
		Username: data.Username,
		Password: data.Password,
	}
	user.ID = s.users.insert(user)

	copied := *user
	return &copied, nil
}

func (s *MemoryStore) GetProducts(ctx context.Context) ([]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]*domain.Product, 0, len(s.products.order))
	for _, id := range s.products.order {
		products = append(products, copyProduct(s.products.records[id]))
	}
	return products, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products.records[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return copyProduct(product), nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, data NewProduct) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := &domain.Product{
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Images:      append([]string(nil), data.Images...),
		Stock:       data.Stock,
		Category:    data.Category,
	}
	product.ID = s.products.insert(product)

	return copyProduct(product), nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products.records[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	patch.Apply(product)
	return copyProduct(product), nil
}

func (s *MemoryStore) GetCartItems(ctx context.Context, userID int) ([]*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*domain.CartItem, 0)
	for _, id := range s.cartItems.order {
		if item := s.cartItems.records[id]; item.UserID == userID {
			copied := *item
			items = append(items, &copied)
		}
	}
	return items, nil
}

func (s *MemoryStore) AddToCart(ctx context.Context, data NewCartItem) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Always a fresh row; duplicate (user, product) pairs are permitted
	item := &domain.CartItem{
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
	}
	item.ID = s.cartItems.insert(item)

	copied := *item
	return &copied, nil
}

func (s *MemoryStore) UpdateCartItem(ctx context.Context, id int, quantity int) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cartItems.records[id]
	if !ok {
		return nil, ErrCartItemNotFound
	}
	item.Quantity = quantity

	copied := *item
	return &copied, nil
}

func (s *MemoryStore) RemoveFromCart(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cartItems.remove(id)
	return nil
}

func (s *MemoryStore) GetWishlistItems(ctx context.Context, userID int) ([]*domain.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*domain.WishlistItem, 0)
	for _, id := range s.wishlistItems.order {
		if item := s.wishlistItems.records[id]; item.UserID == userID {
			copied := *item
			items = append(items, &copied)
		}
	}
	return items, nil
}

func (s *MemoryStore) AddToWishlist(ctx context.Context, data NewWishlistItem) (*domain.WishlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &domain.WishlistItem{
		UserID:    data.UserID,
		ProductID: data.ProductID,
	}
	item.ID = s.wishlistItems.insert(item)

	copied := *item
	return &copied, nil
}

func (s *MemoryStore) RemoveFromWishlist(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wishlistItems.remove(id)
	return nil
}

func (s *MemoryStore) GetOrders(ctx context.Context, userID int) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]*domain.Order, 0)
	for _, id := range s.orders.order {
		if order := s.orders.records[id]; order.UserID == userID {
			orders = append(orders, copyOrder(order))
		}
	}
	return orders, nil
}

func (s *MemoryStore) CreateOrder(ctx context.Context, data NewOrder) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := &domain.Order{
		UserID:          data.UserID,
		Status:          data.Status,
		Items:           append([]domain.OrderItem(nil), data.Items...),
		Total:           data.Total,
		ShippingAddress: data.ShippingAddress,
		CreatedAt:       data.CreatedAt,
	}
	order.ID = s.orders.insert(order)

	return copyOrder(order), nil
}

func (s *MemoryStore) UpdateOrder(ctx context.Context, id int, patch domain.OrderPatch) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders.records[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	patch.Apply(order)
	return copyOrder(order), nil
}

// Records are copied on the way in and out so callers can never alias
// store internals through a returned pointer or slice.

func copyProduct(p *domain.Product) *domain.Product {
	copied := *p
	copied.Images = append([]string(nil), p.Images...)
	return &copied
}

func copyOrder(o *domain.Order) *domain.Order {
	copied := *o
	copied.Items = append([]domain.OrderItem(nil), o.Items...)
	return &copied
}
