package usecase

import (
	"context"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
)

// OrderLineInput is one requested (item, quantity) pair. Duplicate item ids
// are kept as distinct lines; they share one row lock downstream.
type OrderLineInput struct {
	ItemID   int64
	Quantity int
}

// StockMovement describes one committed ledger entry, including the
// quantity remaining after the decrement (used for low-stock alerting).
type StockMovement struct {
	ItemID    int64
	SKU       string
	Delta     int
	Remaining int
}

// PlacedOrder is the result of a committed order placement transaction.
type PlacedOrder struct {
	OrderID    int64
	TotalCents int64
	Movements  []StockMovement
}

// OrderStore runs the order placement transaction: lock referenced catalog
// rows in ascending id order, check availability, persist the order header
// and lines with snapshot prices, decrement stock, append ledger rows, and
// commit as one atomic unit. Any failure rolls everything back.
type OrderStore interface {
	PlaceOrder(ctx context.Context, buyerID *int64, lines []OrderLineInput) (*PlacedOrder, error)

	// List returns committed orders with their lines; a nil userID means all
	// orders (admin view).
	List(ctx context.Context, userID *int64) ([]domain.Order, error)
}

// StockAdjuster applies an out-of-band stock delta through the same row-lock
// discipline as order placement, never driving quantity negative.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, itemID int64, delta int, reason, detail string) (*StockMovement, error)
}

type ItemStore interface {
	List(ctx context.Context) ([]domain.Item, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	Create(ctx context.Context, it *domain.Item) error
	Update(ctx context.Context, it *domain.Item) error
	Delete(ctx context.Context, id int64) error
}

type StoreStore interface {
	List(ctx context.Context) ([]domain.Store, error)
	Create(ctx context.Context, s *domain.Store) error
	Update(ctx context.Context, s *domain.Store) error
	Delete(ctx context.Context, id int64) error
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id int64, role string) error
}

type LedgerStore interface {
	List(ctx context.Context, limit int) ([]domain.InventoryEvent, error)
}

// MovementPublisher fans committed stock movements out to the message bus.
// Publishing happens after commit and is best-effort; the ledger rows in
// MySQL stay authoritative.
type MovementPublisher interface {
	PublishMovements(ctx context.Context, orderID int64, reason string, movements []StockMovement) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// CatalogCache caches the item listing; mutations and committed orders
// invalidate it.
type CatalogCache interface {
	GetItems(ctx context.Context) ([]domain.Item, bool, error)
	SetItems(ctx context.Context, items []domain.Item) error
	Invalidate(ctx context.Context) error
}
