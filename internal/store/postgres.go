package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"storefront/internal/domain"
)

// PostgresStore implements Store on top of a Postgres database. SERIAL
// primary keys give the same strictly-increasing, never-reused id
// behavior as the memory backend, and every list reads ORDER BY id to
// preserve creation-order iteration. Images and order items are stored
// as JSONB columns.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Store backed by db. The schema is managed
// by the goose migrations under migrations/.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) GetUser(ctx context.Context, id int) (*domain.User, error) {
	query := `SELECT id, username, password FROM users WHERE id = $1`

	user := &domain.User{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, password FROM users WHERE username = $1`

	user := &domain.User{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.Password)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, data NewUser) (*domain.User, error) {
	query := `INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`

	user := &domain.User{Username: data.Username, Password: data.Password}
	if err := s.db.QueryRowContext(ctx, query, data.Username, data.Password).Scan(&user.ID); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, description, price, images, stock, category
		FROM products
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, images, stock, category
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, data NewProduct) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, description, price, images, stock, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	images, err := json.Marshal(data.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product images: %w", err)
	}

	product := &domain.Product{
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		Images:      append([]string(nil), data.Images...),
		Stock:       data.Stock,
		Category:    data.Category,
	}
	err = s.db.QueryRowContext(
		ctx,
		query,
		data.Name,
		data.Description,
		data.Price,
		images,
		data.Stock,
		data.Category,
	).Scan(&product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	// Read-modify-write inside a transaction so the shallow merge is
	// atomic with respect to concurrent patches on the same row.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin update: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT id, name, description, price, images, stock, category
		FROM products
		WHERE id = $1
		FOR UPDATE
	`
	product, err := scanProduct(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	patch.Apply(product)

	images, err := json.Marshal(product.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product images: %w", err)
	}

	updateQuery := `
		UPDATE products
		SET name = $2, description = $3, price = $4, images = $5, stock = $6, category = $7
		WHERE id = $1
	`
	_, err = tx.ExecContext(
		ctx,
		updateQuery,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		images,
		product.Stock,
		product.Category,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit product update: %w", err)
	}
	return product, nil
}

func (s *PostgresStore) GetCartItems(ctx context.Context, userID int) ([]*domain.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.CartItem, 0)
	for rows.Next() {
		item := &domain.CartItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) AddToCart(ctx context.Context, data NewCartItem) (*domain.CartItem, error) {
	// No uniqueness constraint on (user_id, product_id); repeated adds
	// insert separate rows.
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	item := &domain.CartItem{
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
	}
	err := s.db.QueryRowContext(ctx, query, data.UserID, data.ProductID, data.Quantity).Scan(&item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) UpdateCartItem(ctx context.Context, id int, quantity int) (*domain.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $2
		WHERE id = $1
		RETURNING id, user_id, product_id, quantity
	`

	item := &domain.CartItem{}
	err := s.db.QueryRowContext(ctx, query, id, quantity).Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) RemoveFromCart(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetWishlistItems(ctx context.Context, userID int) ([]*domain.WishlistItem, error) {
	query := `
		SELECT id, user_id, product_id
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist items: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.WishlistItem, 0)
	for rows.Next() {
		item := &domain.WishlistItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) AddToWishlist(ctx context.Context, data NewWishlistItem) (*domain.WishlistItem, error) {
	query := `
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		RETURNING id
	`

	item := &domain.WishlistItem{
		UserID:    data.UserID,
		ProductID: data.ProductID,
	}
	if err := s.db.QueryRowContext(ctx, query, data.UserID, data.ProductID).Scan(&item.ID); err != nil {
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) RemoveFromWishlist(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetOrders(ctx context.Context, userID int) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, status, items, total, shipping_address, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (s *PostgresStore) CreateOrder(ctx context.Context, data NewOrder) (*domain.Order, error) {
	query := `
		INSERT INTO orders (user_id, status, items, total, shipping_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	items, err := json.Marshal(data.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	order := &domain.Order{
		UserID:          data.UserID,
		Status:          data.Status,
		Items:           append([]domain.OrderItem(nil), data.Items...),
		Total:           data.Total,
		ShippingAddress: data.ShippingAddress,
		CreatedAt:       data.CreatedAt,
	}
	err = s.db.QueryRowContext(
		ctx,
		query,
		data.UserID,
		string(data.Status),
		items,
		data.Total,
		data.ShippingAddress,
		data.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (s *PostgresStore) UpdateOrder(ctx context.Context, id int, patch domain.OrderPatch) (*domain.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin update: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT id, user_id, status, items, total, shipping_address, created_at
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`
	order, err := scanOrder(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	patch.Apply(order)

	updateQuery := `
		UPDATE orders
		SET status = $2, total = $3, shipping_address = $4
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, updateQuery, order.ID, string(order.Status), order.Total, order.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order update: %w", err)
	}
	return order, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*domain.Product, error) {
	product := &domain.Product{}
	var images []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&images,
		&product.Stock,
		&product.Category,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to decode product images: %w", err)
	}
	return product, nil
}

func scanOrder(row scanner) (*domain.Order, error) {
	order := &domain.Order{}
	var status string
	var items []byte

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&status,
		&items,
		&order.Total,
		&order.ShippingAddress,
		&order.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	order.Status = domain.OrderStatus(status)
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return order, nil
}
