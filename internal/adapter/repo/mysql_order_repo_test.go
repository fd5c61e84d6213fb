package repo

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

// Integration tests; they need a real MySQL. Point TEST_MYSQL_DSN at a
// scratch database, e.g.
//
//	TEST_MYSQL_DSN="root:root@tcp(localhost:3306)/stockpos_test?parseTime=true" go test ./internal/adapter/repo/
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set; skipping MySQL integration tests")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, EnsureSchema(ctx, db))

	for _, table := range []string{"order_items", "orders", "inventory_events", "items", "stores", "users"} {
		_, err := db.ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err)
	}
	return db
}

func insertItem(t *testing.T, db *sql.DB, sku, name string, qty int, priceCents int64) int64 {
	t.Helper()
	res, err := db.ExecContext(context.Background(), `
INSERT INTO items (sku, name, quantity, price_cents, created_at)
VALUES (?, ?, ?, ?, NOW())`, sku, name, qty, priceCents)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func itemQuantity(t *testing.T, db *sql.DB, id int64) int {
	t.Helper()
	var q int
	require.NoError(t, db.QueryRowContext(context.Background(),
		"SELECT quantity FROM items WHERE id = ?", id).Scan(&q))
	return q
}

func TestPlaceOrder_CommitsAllOrNothing(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLOrderRepo(db)
	ctx := context.Background()

	cable := insertItem(t, db, "SKU-001", "USB-C Cable", 120, 1250)
	mouse := insertItem(t, db, "SKU-002", "Wireless Mouse", 45, 2990)

	placed, err := repo.PlaceOrder(ctx, nil, []usecase.OrderLineInput{
		{ItemID: cable, Quantity: 2},
		{ItemID: mouse, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2*1250+2990), placed.TotalCents)
	assert.Equal(t, 118, itemQuantity(t, db, cable))
	assert.Equal(t, 44, itemQuantity(t, db, mouse))

	// one ledger row per line, with the movement deltas
	var ledgerRows int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM inventory_events WHERE action = ?", domain.MovementOrder).Scan(&ledgerRows))
	assert.Equal(t, 2, ledgerRows)

	require.Len(t, placed.Movements, 2)
	assert.Equal(t, -2, placed.Movements[0].Delta)
	assert.Equal(t, 118, placed.Movements[0].Remaining)
}

func TestPlaceOrder_MultiLineFailureRollsBack(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLOrderRepo(db)
	ctx := context.Background()

	cable := insertItem(t, db, "SKU-001", "USB-C Cable", 120, 1250)
	stand := insertItem(t, db, "SKU-003", "Laptop Stand", 2, 5400)

	_, err := repo.PlaceOrder(ctx, nil, []usecase.OrderLineInput{
		{ItemID: cable, Quantity: 1},
		{ItemID: stand, Quantity: 3}, // only 2 available
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// the valid first line must not have been committed either
	assert.Equal(t, 120, itemQuantity(t, db, cable))
	assert.Equal(t, 2, itemQuantity(t, db, stand))

	var orders int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&orders))
	assert.Zero(t, orders)
}

func TestPlaceOrder_UnknownItemRollsBack(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLOrderRepo(db)

	cable := insertItem(t, db, "SKU-001", "USB-C Cable", 10, 1250)

	_, err := repo.PlaceOrder(context.Background(), nil, []usecase.OrderLineInput{
		{ItemID: cable, Quantity: 1},
		{ItemID: cable + 1000, Quantity: 1},
	})
	require.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.Equal(t, 10, itemQuantity(t, db, cable))
}

func TestPlaceOrder_PriceSnapshotSurvivesPriceChange(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLOrderRepo(db)
	ctx := context.Background()

	cable := insertItem(t, db, "SKU-001", "USB-C Cable", 10, 1250)

	placed, err := repo.PlaceOrder(ctx, nil, []usecase.OrderLineInput{{ItemID: cable, Quantity: 2}})
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "UPDATE items SET price_cents = 9999 WHERE id = ?", cable)
	require.NoError(t, err)

	var snapshot int64
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT price_cents_each FROM order_items WHERE order_id = ?", placed.OrderID).Scan(&snapshot))
	assert.Equal(t, int64(1250), snapshot, "line keeps the price at placement time")
}

func TestPlaceOrder_ConcurrentSameItemNoOversell(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLOrderRepo(db)

	item := insertItem(t, db, "SKU-001", "USB-C Cable", 5, 1250)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.PlaceOrder(context.Background(), nil,
				[]usecase.OrderLineInput{{ItemID: item, Quantity: 3}})
		}(i)
	}
	wg.Wait()

	// exactly one of the two 3-unit orders can fit in 5 units of stock
	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			rejected++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 2, itemQuantity(t, db, item))
}

func TestPlaceOrder_OppositeLockOrdersDoNotDeadlock(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLOrderRepo(db)

	a := insertItem(t, db, "SKU-00A", "Item A", 50, 100)
	b := insertItem(t, db, "SKU-00B", "Item B", 50, 200)

	// both carts reference {a,b}, written in opposite order; the repo locks
	// in ascending id order so neither can deadlock the other
	var wg sync.WaitGroup
	errs := make([]error, 2)
	carts := [][]usecase.OrderLineInput{
		{{ItemID: a, Quantity: 1}, {ItemID: b, Quantity: 1}},
		{{ItemID: b, Quantity: 1}, {ItemID: a, Quantity: 1}},
	}
	for i, cart := range carts {
		wg.Add(1)
		go func(i int, cart []usecase.OrderLineInput) {
			defer wg.Done()
			_, errs[i] = repo.PlaceOrder(context.Background(), nil, cart)
		}(i, cart)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 48, itemQuantity(t, db, a))
	assert.Equal(t, 48, itemQuantity(t, db, b))
}

func TestList_GroupsLinesAndFiltersByUser(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLOrderRepo(db)
	users := NewMySQLUserRepo(db)
	ctx := context.Background()

	u := &domain.User{Email: "buyer@example.com", PasswordHash: "x", Role: domain.RoleEmployee}
	require.NoError(t, users.Create(ctx, u))

	cable := insertItem(t, db, "SKU-001", "USB-C Cable", 10, 1250)
	mouse := insertItem(t, db, "SKU-002", "Wireless Mouse", 10, 2990)

	_, err := repo.PlaceOrder(ctx, &u.ID, []usecase.OrderLineInput{
		{ItemID: cable, Quantity: 1},
		{ItemID: mouse, Quantity: 2},
	})
	require.NoError(t, err)
	_, err = repo.PlaceOrder(ctx, nil, []usecase.OrderLineInput{{ItemID: cable, Quantity: 1}})
	require.NoError(t, err)

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := repo.List(ctx, &u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "buyer@example.com", mine[0].UserEmail)
	assert.Len(t, mine[0].Items, 2)
}
