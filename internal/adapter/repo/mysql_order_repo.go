package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

// lockedItem tracks what was observed under the row lock. remaining starts
// at the locked quantity and is drained per line, so duplicate lines for the
// same item can never jointly exceed stock. priceCents is the frozen
// snapshot every line of this order uses.
type lockedItem struct {
	sku        string
	priceCents int64
	remaining  int
}

// PlaceOrder runs the whole placement as one transaction:
// lock -> check -> persist -> decrement -> ledger -> commit.
// Any error (including ctx cancellation) rolls the entire unit back.
func (r *MySQLOrderRepo) PlaceOrder(ctx context.Context, buyerID *int64, lines []usecase.OrderLineInput) (*usecase.PlacedOrder, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := lockItems(ctx, tx, lines)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, ln := range lines {
		it := locked[ln.ItemID]
		if ln.Quantity > it.remaining {
			return nil, &domain.InsufficientStockError{
				ItemID:    ln.ItemID,
				Requested: ln.Quantity,
				Available: it.remaining,
			}
		}
		it.remaining -= ln.Quantity
		total += it.priceCents * int64(ln.Quantity)
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO orders (user_id, total_cents, created_at)
VALUES (?, ?, NOW())`, buyerID, total)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("order id: %w", err)
	}

	movements := make([]usecase.StockMovement, 0, len(lines))
	for _, ln := range lines {
		it := locked[ln.ItemID]

		if _, err := tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, item_id, quantity, price_cents_each)
VALUES (?, ?, ?, ?)`, orderID, ln.ItemID, ln.Quantity, it.priceCents); err != nil {
			return nil, fmt.Errorf("insert order line (item %d): %w", ln.ItemID, err)
		}

		// Unconditional subtract: the precondition was checked above under
		// the same lock, so this cannot go negative.
		if _, err := tx.ExecContext(ctx, `
UPDATE items SET quantity = quantity - ? WHERE id = ?`, ln.Quantity, ln.ItemID); err != nil {
			return nil, fmt.Errorf("decrement item %d: %w", ln.ItemID, err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO inventory_events (item_id, sku, action, detail, delta, created_at)
VALUES (?, ?, ?, ?, ?, NOW())`,
			ln.ItemID, nullString(it.sku), domain.MovementOrder, "Order placed", -ln.Quantity); err != nil {
			return nil, fmt.Errorf("ledger entry (item %d): %w", ln.ItemID, err)
		}

		movements = append(movements, usecase.StockMovement{
			ItemID:    ln.ItemID,
			SKU:       it.sku,
			Delta:     -ln.Quantity,
			Remaining: it.remaining,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	return &usecase.PlacedOrder{OrderID: orderID, TotalCents: total, Movements: movements}, nil
}

// lockItems acquires row locks on the distinct referenced items in ascending
// id order. Every concurrent placement requests locks in this same relative
// order, so contending transactions serialize instead of deadlocking.
func lockItems(ctx context.Context, tx *sql.Tx, lines []usecase.OrderLineInput) (map[int64]*lockedItem, error) {
	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]struct{}, len(lines))
	for _, ln := range lines {
		if _, ok := seen[ln.ItemID]; ok {
			continue
		}
		seen[ln.ItemID] = struct{}{}
		ids = append(ids, ln.ItemID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	locked := make(map[int64]*lockedItem, len(ids))
	for _, id := range ids {
		var it lockedItem
		var sku sql.NullString
		err := tx.QueryRowContext(ctx, `
SELECT sku, price_cents, quantity FROM items WHERE id = ? FOR UPDATE`, id).
			Scan(&sku, &it.priceCents, &it.remaining)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ItemNotFoundError{ItemID: id}
		}
		if err != nil {
			return nil, fmt.Errorf("lock item %d: %w", id, err)
		}
		it.sku = sku.String
		locked[id] = &it
	}
	return locked, nil
}

// List returns orders newest-first with their lines. A nil userID returns
// every order (admin view).
func (r *MySQLOrderRepo) List(ctx context.Context, userID *int64) ([]domain.Order, error) {
	q := `
SELECT
  o.id, o.user_id, o.total_cents, o.created_at,
  COALESCE(u.email, ''),
  oi.item_id, oi.quantity, oi.price_cents_each,
  COALESCE(i.sku, ''), COALESCE(i.name, '')
FROM orders o
LEFT JOIN users u ON u.id = o.user_id
LEFT JOIN order_items oi ON oi.order_id = o.id
LEFT JOIN items i ON i.id = oi.item_id`
	args := []any{}
	if userID != nil {
		q += `
WHERE o.user_id = ?`
		args = append(args, *userID)
	}
	q += `
ORDER BY o.created_at DESC, o.id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	idx := make(map[int64]int)
	for rows.Next() {
		var (
			o      domain.Order
			uid    sql.NullInt64
			itemID sql.NullInt64
			qty    sql.NullInt64
			price  sql.NullInt64
			sku    string
			name   string
		)
		if err := rows.Scan(&o.ID, &uid, &o.TotalCents, &o.CreatedAt,
			&o.UserEmail, &itemID, &qty, &price, &sku, &name); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		if uid.Valid {
			o.UserID = &uid.Int64
		}

		i, ok := idx[o.ID]
		if !ok {
			o.Items = []domain.OrderItem{}
			out = append(out, o)
			i = len(out) - 1
			idx[o.ID] = i
		}
		if itemID.Valid {
			out[i].Items = append(out[i].Items, domain.OrderItem{
				ItemID:         itemID.Int64,
				SKU:            sku,
				Name:           name,
				Quantity:       int(qty.Int64),
				PriceCentsEach: price.Int64,
			})
		}
	}
	return out, rows.Err()
}

var _ usecase.OrderStore = (*MySQLOrderRepo)(nil)
