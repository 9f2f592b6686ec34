package repo

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/daisyverse/backend/internal/database"
	"github.com/daisyverse/backend/internal/domain"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed repo tests in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("daisyverse_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func testOrder(userID string) *domain.Order {
	order, err := domain.NewOrder(domain.CustomerDetails{
		UserID:  userID,
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Address: "12 MG Road",
		City:    "Bengaluru",
		State:   "Karnataka",
		ZipCode: "560001",
	}, []domain.LineItem{
		{ProductID: domain.CatalogRef("abc123"), Name: "Daisy Tote", Price: 499, Quantity: 2},
		{ProductID: domain.SyntheticRef("42"), Name: "Demo Pin", Price: 49, Quantity: 1},
	}, 1047, time.Time{})
	if err != nil {
		panic(err)
	}
	order.Customer.UserID = userID
	return order
}

func TestOrderRepo_CreateAndFind(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepo(db)
	ctx := context.Background()

	order := testOrder("user-1")
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.FindByOrderID(ctx, order.OrderID)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, order.OrderID, found.OrderID)
	assert.Equal(t, order.Customer, found.Customer)
	assert.Equal(t, order.TotalAmount, found.TotalAmount)
	assert.Equal(t, order.TaxAmount, found.TaxAmount)
	assert.Nil(t, found.PaymentDetails)
	require.Len(t, found.Items, 2)
	assert.False(t, found.Items[0].ProductID.Synthetic())
	assert.True(t, found.Items[1].ProductID.Synthetic())

	missing, err := repo.FindByOrderID(ctx, "DAISY404")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepo_DuplicateOrderID(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepo(db)
	ctx := context.Background()

	order := testOrder("user-1")
	require.NoError(t, repo.Create(ctx, order))

	dup := testOrder("user-1")
	dup.OrderID = order.OrderID
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDuplicateOrderID)
}

func TestOrderRepo_Update_PersistsPaidState(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepo(db)
	ctx := context.Background()

	order := testOrder("user-1")
	require.NoError(t, repo.Create(ctx, order))

	order.MarkPaid(domain.PaymentDetails{
		RazorpayOrderID:   "order_gw_1",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "sig",
	})
	require.NoError(t, repo.Update(ctx, order))

	found, err := repo.FindByOrderID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, found.PaymentStatus)
	assert.Equal(t, domain.OrderConfirmed, found.OrderStatus)
	require.NotNil(t, found.PaymentDetails)
	assert.Equal(t, "pay_1", found.PaymentDetails.RazorpayPaymentID)
}

func TestOrderRepo_ListByUser_NewestFirst(t *testing.T) {
	db := setupDB(t)
	repo := NewOrderRepo(db)
	ctx := context.Background()

	older := testOrder("user-1")
	older.OrderDate = time.Now().Add(-time.Hour)
	newer := testOrder("user-1")
	other := testOrder("user-2")

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, other))

	orders, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.OrderID, orders[0].OrderID)
	assert.Equal(t, older.OrderID, orders[1].OrderID)
}

func seedProduct(t *testing.T, db *sql.DB, id string, stock int) {
	t.Helper()
	_, err := db.Exec("INSERT INTO products (id, name, price, stock) VALUES ($1, $2, $3, $4)",
		id, "Daisy Tote", 499.0, stock)
	require.NoError(t, err)
}

func stockOf(t *testing.T, db *sql.DB, id string) int {
	t.Helper()
	var stock int
	require.NoError(t, db.QueryRow("SELECT stock FROM products WHERE id = $1", id).Scan(&stock))
	return stock
}

func TestProductRepo_ReserveStock(t *testing.T) {
	db := setupDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	seedProduct(t, db, "abc123", 5)

	ok, err := repo.ReserveStock(ctx, "abc123", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, stockOf(t, db, "abc123"))

	// A decrement past the floor is rejected and leaves the row untouched.
	ok, err = repo.ReserveStock(ctx, "abc123", 4)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, stockOf(t, db, "abc123"))

	require.NoError(t, repo.ReleaseStock(ctx, "abc123", 2))
	assert.Equal(t, 5, stockOf(t, db, "abc123"))
}

func TestProductRepo_ConcurrentReserve_NeverOversells(t *testing.T) {
	db := setupDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()

	const stock = 20
	const requests = 60
	seedProduct(t, db, "hot", stock)

	var g errgroup.Group
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < requests; i++ {
		g.Go(func() error {
			ok, err := repo.ReserveStock(ctx, "hot", 1)
			if err != nil {
				return err
			}
			if ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, stock, succeeded)
	assert.Equal(t, 0, stockOf(t, db, "hot"))
}
