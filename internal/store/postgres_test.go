package store

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	// Bring the schema up through the real migrations
	if err := goose.SetDialect("postgres"); err != nil {
		return dbContainer.Terminate, err
	}
	if err := goose.Up(testDB, "../../migrations"); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func resetTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"users", "products", "cart_items", "wishlist_items", "orders"} {
		if _, err := testDB.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("failed to reset %s: %v", table, err)
		}
	}
}

func TestPostgresCreatedIDsAreStrictlyIncreasing(t *testing.T) {
	resetTables(t)
	s := NewPostgresStore(testDB)
	ctx := context.Background()

	lastID := 0
	for i := 0; i < 5; i++ {
		product, err := s.CreateProduct(ctx, NewProduct{
			Name:        "p",
			Description: "d",
			Price:       1,
			Images:      []string{"u"},
			Stock:       1,
			Category:    "c",
		})
		if err != nil {
			t.Fatal(err)
		}
		if product.ID <= lastID {
			t.Fatalf("id %d not greater than previous %d", product.ID, lastID)
		}
		lastID = product.ID
	}
}

func TestPostgresCartRoundTrip(t *testing.T) {
	resetTables(t)
	s := NewPostgresStore(testDB)
	ctx := context.Background()

	first, err := s.AddToCart(ctx, NewCartItem{UserID: 1, ProductID: 10, Quantity: 2})
	if err != nil {
		t.Fatal(err)
	}
	// Duplicate add: a second row, not a merge
	second, err := s.AddToCart(ctx, NewCartItem{UserID: 1, ProductID: 10, Quantity: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddToCart(ctx, NewCartItem{UserID: 2, ProductID: 10, Quantity: 1}); err != nil {
		t.Fatal(err)
	}

	items, err := s.GetCartItems(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 rows for user 1, got %d", len(items))
	}
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Errorf("rows out of creation order: %+v", items)
	}

	updated, err := s.UpdateCartItem(ctx, first.ID, 9)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Quantity != 9 {
		t.Errorf("quantity not updated: %d", updated.Quantity)
	}

	if _, err := s.UpdateCartItem(ctx, 99999, 1); err != ErrCartItemNotFound {
		t.Errorf("update of missing id: got %v, want ErrCartItemNotFound", err)
	}

	// Idempotent delete
	if err := s.RemoveFromCart(ctx, 99999); err != nil {
		t.Errorf("delete of missing id errored: %v", err)
	}
	if err := s.RemoveFromCart(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	items, _ = s.GetCartItems(ctx, 1)
	if len(items) != 1 || items[0].ID != second.ID {
		t.Errorf("unexpected rows after delete: %+v", items)
	}
}

func TestPostgresProductPatchMergesFields(t *testing.T) {
	resetTables(t)
	s := NewPostgresStore(testDB)
	ctx := context.Background()

	product, err := s.CreateProduct(ctx, NewProduct{
		Name:        "Classic Leather Wallet",
		Description: "Bifold",
		Price:       79.99,
		Images:      []string{"a", "b"},
		Stock:       50,
		Category:    "Wallets",
	})
	if err != nil {
		t.Fatal(err)
	}

	stock := 40
	updated, err := s.UpdateProduct(ctx, product.ID, domain.ProductPatch{Stock: &stock})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Stock != 40 || updated.Name != product.Name || len(updated.Images) != 2 {
		t.Errorf("patch merge wrong: %+v", updated)
	}

	reread, err := s.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reread.Stock != 40 || reread.Price != 79.99 {
		t.Errorf("persisted row wrong: %+v", reread)
	}

	name := "X"
	if _, err := s.UpdateProduct(ctx, 99999, domain.ProductPatch{Name: &name}); err != ErrProductNotFound {
		t.Errorf("update of missing id: got %v, want ErrProductNotFound", err)
	}
}

func TestPostgresOrderSnapshotRoundTrip(t *testing.T) {
	resetTables(t)
	s := NewPostgresStore(testDB)
	ctx := context.Background()

	order, err := s.CreateOrder(ctx, NewOrder{
		UserID:          7,
		Status:          domain.OrderStatusPending,
		Items:           []domain.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
		Total:           459.97,
		ShippingAddress: "1 Main St",
		CreatedAt:       "2026-01-02T03:04:05Z",
	})
	if err != nil {
		t.Fatal(err)
	}

	orders, err := s.GetOrders(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	got := orders[0]
	if got.ID != order.ID || got.Total != 459.97 || got.CreatedAt != "2026-01-02T03:04:05Z" {
		t.Errorf("order round trip wrong: %+v", got)
	}
	if len(got.Items) != 2 || got.Items[0].ProductID != 1 || got.Items[1].Quantity != 1 {
		t.Errorf("items snapshot wrong: %+v", got.Items)
	}

	status := domain.OrderStatusShipped
	updated, err := s.UpdateOrder(ctx, order.ID, domain.OrderPatch{Status: &status})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != domain.OrderStatusShipped || len(updated.Items) != 2 {
		t.Errorf("status change disturbed the snapshot: %+v", updated)
	}
}

func TestPostgresUserLookups(t *testing.T) {
	resetTables(t)
	s := NewPostgresStore(testDB)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, NewUser{Username: "alice", Password: "h.s"})
	if err != nil {
		t.Fatal(err)
	}

	byID, err := s.GetUser(ctx, user.ID)
	if err != nil || byID.Username != "alice" {
		t.Fatalf("GetUser: %+v, %v", byID, err)
	}

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil || byName.ID != user.ID {
		t.Fatalf("GetUserByUsername: %+v, %v", byName, err)
	}

	if _, err := s.GetUserByUsername(ctx, "Alice"); err != ErrUserNotFound {
		t.Errorf("case-insensitive lookup succeeded: %v", err)
	}
	if _, err := s.GetUser(ctx, 99999); err != ErrUserNotFound {
		t.Errorf("missing user lookup: got %v, want ErrUserNotFound", err)
	}
}
