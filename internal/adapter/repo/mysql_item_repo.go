package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

const mysqlErrDupEntry = 1062

type MySQLItemRepo struct{ db *sql.DB }

func NewMySQLItemRepo(db *sql.DB) *MySQLItemRepo { return &MySQLItemRepo{db: db} }

const itemColumns = `id, COALESCE(sku,''), name, store_id, COALESCE(category,''),
quantity, COALESCE(location,''), price_cents, COALESCE(image_url,''), created_at`

func scanItem(row interface{ Scan(...any) error }) (*domain.Item, error) {
	var it domain.Item
	var storeID sql.NullInt64
	if err := row.Scan(&it.ID, &it.SKU, &it.Name, &storeID, &it.Category,
		&it.Quantity, &it.Location, &it.PriceCents, &it.ImageURL, &it.CreatedAt); err != nil {
		return nil, err
	}
	if storeID.Valid {
		it.StoreID = &storeID.Int64
	}
	return &it, nil
}

func (r *MySQLItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+itemColumns+` FROM items ORDER BY id DESC LIMIT 200`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r *MySQLItemRepo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, `
SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ItemNotFoundError{ItemID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("query item %d: %w", id, err)
	}
	return it, nil
}

// Create inserts the item and its "create" ledger row in one transaction.
func (r *MySQLItemRepo) Create(ctx context.Context, it *domain.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
INSERT INTO items (sku, name, category, quantity, location, price_cents, image_url, store_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW())`,
		nullString(it.SKU), it.Name, nullString(it.Category), it.Quantity,
		nullString(it.Location), it.PriceCents, nullString(it.ImageURL), it.StoreID)
	if err != nil {
		if isDupEntry(err) {
			return domain.ErrSKUTaken
		}
		return fmt.Errorf("insert item: %w", err)
	}
	it.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("item id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO inventory_events (item_id, sku, action, detail, delta, created_at)
VALUES (?, ?, ?, ?, ?, NOW())`,
		it.ID, nullString(it.SKU), domain.MovementCreate, "Item created", it.Quantity); err != nil {
		return fmt.Errorf("ledger entry: %w", err)
	}

	return tx.Commit()
}

// Update rewrites the catalog row and appends an "update" ledger row. The
// quantity column is owned by the locking paths (orders, adjustments) and is
// deliberately not touched here.
func (r *MySQLItemRepo) Update(ctx context.Context, it *domain.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
UPDATE items
SET sku = ?, name = ?, category = ?, location = ?, price_cents = ?, image_url = ?, store_id = ?
WHERE id = ?`,
		nullString(it.SKU), it.Name, nullString(it.Category), nullString(it.Location),
		it.PriceCents, nullString(it.ImageURL), it.StoreID, it.ID)
	if err != nil {
		if isDupEntry(err) {
			return domain.ErrSKUTaken
		}
		return fmt.Errorf("update item %d: %w", it.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op update;
		// disambiguate with an existence check.
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM items WHERE id = ?`, it.ID).Scan(&one); err != nil {
			return &domain.ItemNotFoundError{ItemID: it.ID}
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO inventory_events (item_id, sku, action, detail, delta, created_at)
VALUES (?, ?, ?, ?, 0, NOW())`,
		it.ID, nullString(it.SKU), domain.MovementUpdate, "Item updated"); err != nil {
		return fmt.Errorf("ledger entry: %w", err)
	}

	return tx.Commit()
}

func (r *MySQLItemRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var sku sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT sku FROM items WHERE id = ?`, id).Scan(&sku)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.ItemNotFoundError{ItemID: id}
	}
	if err != nil {
		return fmt.Errorf("query item %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}

	// item_id is NULL after the FK sets it; keep the id in detail via sku
	if _, err := tx.ExecContext(ctx, `
INSERT INTO inventory_events (item_id, sku, action, detail, delta, created_at)
VALUES (NULL, ?, ?, ?, 0, NOW())`,
		sku, domain.MovementDelete, "Item deleted"); err != nil {
		return fmt.Errorf("ledger entry: %w", err)
	}

	return tx.Commit()
}

// AdjustStock applies an out-of-band delta under the item's row lock, the
// same discipline order placement uses, and appends the ledger row in the
// same transaction.
func (r *MySQLItemRepo) AdjustStock(ctx context.Context, itemID int64, delta int, reason, detail string) (*usecase.StockMovement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var sku sql.NullString
	var qty int
	err = tx.QueryRowContext(ctx, `
SELECT sku, quantity FROM items WHERE id = ? FOR UPDATE`, itemID).Scan(&sku, &qty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ItemNotFoundError{ItemID: itemID}
	}
	if err != nil {
		return nil, fmt.Errorf("lock item %d: %w", itemID, err)
	}

	newQty := qty + delta
	if newQty < 0 {
		return nil, &domain.InsufficientStockError{ItemID: itemID, Requested: -delta, Available: qty}
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE items SET quantity = ? WHERE id = ?`, newQty, itemID); err != nil {
		return nil, fmt.Errorf("adjust item %d: %w", itemID, err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO inventory_events (item_id, sku, action, detail, delta, created_at)
VALUES (?, ?, ?, ?, ?, NOW())`,
		itemID, sku, reason, nullString(detail), delta); err != nil {
		return nil, fmt.Errorf("ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit adjustment: %w", err)
	}
	return &usecase.StockMovement{ItemID: itemID, SKU: sku.String, Delta: delta, Remaining: newQty}, nil
}

func isDupEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlErrDupEntry
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var (
	_ usecase.ItemStore     = (*MySQLItemRepo)(nil)
	_ usecase.StockAdjuster = (*MySQLItemRepo)(nil)
)
