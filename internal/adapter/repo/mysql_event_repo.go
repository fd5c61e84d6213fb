package repo

import (
	"context"
	"database/sql"
	"fmt"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type MySQLEventRepo struct{ db *sql.DB }

func NewMySQLEventRepo(db *sql.DB) *MySQLEventRepo { return &MySQLEventRepo{db: db} }

// List returns the newest ledger rows. The ledger itself is written only
// inside the item/order transactions; this repo is read-only.
func (r *MySQLEventRepo) List(ctx context.Context, limit int) ([]domain.InventoryEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, item_id, COALESCE(sku,''), COALESCE(action,''), COALESCE(detail,''), COALESCE(delta,0), created_at
FROM inventory_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query inventory events: %w", err)
	}
	defer rows.Close()

	events := []domain.InventoryEvent{}
	for rows.Next() {
		var ev domain.InventoryEvent
		var itemID sql.NullInt64
		if err := rows.Scan(&ev.ID, &itemID, &ev.SKU, &ev.Action, &ev.Detail, &ev.Delta, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory event: %w", err)
		}
		if itemID.Valid {
			ev.ItemID = &itemID.Int64
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

var _ usecase.LedgerStore = (*MySQLEventRepo)(nil)
