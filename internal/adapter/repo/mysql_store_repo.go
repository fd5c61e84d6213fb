package repo

import (
	"context"
	"database/sql"
	"fmt"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type MySQLStoreRepo struct{ db *sql.DB }

func NewMySQLStoreRepo(db *sql.DB) *MySQLStoreRepo { return &MySQLStoreRepo{db: db} }

func (r *MySQLStoreRepo) List(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, COALESCE(location,''), created_at FROM stores ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	stores := []domain.Store{}
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func (r *MySQLStoreRepo) Create(ctx context.Context, s *domain.Store) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO stores (name, location, created_at) VALUES (?, ?, NOW())`,
		s.Name, nullString(s.Location))
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store id: %w", err)
	}
	return nil
}

func (r *MySQLStoreRepo) Update(ctx context.Context, s *domain.Store) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE stores SET name = ?, location = ? WHERE id = ?`,
		s.Name, nullString(s.Location), s.ID)
	if err != nil {
		return fmt.Errorf("update store %d: %w", s.ID, err)
	}
	return requireRow(res)
}

func (r *MySQLStoreRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete store %d: %w", id, err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ usecase.StoreStore = (*MySQLStoreRepo)(nil)
