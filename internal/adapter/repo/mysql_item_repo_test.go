package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
)

func TestItemRepo_CreateWritesLedgerRow(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLItemRepo(db)
	ctx := context.Background()

	it := &domain.Item{SKU: "SKU-100", Name: "Test Widget", Quantity: 7, PriceCents: 999}
	require.NoError(t, repo.Create(ctx, it))
	require.NotZero(t, it.ID)

	var action string
	var delta int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT action, delta FROM inventory_events WHERE item_id = ?", it.ID).Scan(&action, &delta))
	assert.Equal(t, domain.MovementCreate, action)
	assert.Equal(t, 7, delta)
}

func TestItemRepo_CreateDuplicateSKU(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLItemRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Item{SKU: "SKU-100", Name: "A", PriceCents: 1}))
	err := repo.Create(ctx, &domain.Item{SKU: "SKU-100", Name: "B", PriceCents: 2})
	assert.ErrorIs(t, err, domain.ErrSKUTaken)
}

func TestItemRepo_UpdateLeavesQuantityAlone(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLItemRepo(db)
	ctx := context.Background()

	id := insertItem(t, db, "SKU-100", "Widget", 9, 500)

	err := repo.Update(ctx, &domain.Item{ID: id, SKU: "SKU-100", Name: "Widget v2", PriceCents: 750})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", got.Name)
	assert.Equal(t, int64(750), got.PriceCents)
	assert.Equal(t, 9, got.Quantity, "update never touches quantity")
}

func TestItemRepo_UpdateMissingItem(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLItemRepo(db)

	err := repo.Update(context.Background(), &domain.Item{ID: 12345, Name: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemRepo_AdjustStock(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLItemRepo(db)
	ctx := context.Background()

	id := insertItem(t, db, "SKU-100", "Widget", 10, 500)

	mv, err := repo.AdjustStock(ctx, id, -4, domain.MovementAdjust, "shrinkage")
	require.NoError(t, err)
	assert.Equal(t, -4, mv.Delta)
	assert.Equal(t, 6, mv.Remaining)
	assert.Equal(t, 6, itemQuantity(t, db, id))

	// a delta that would go negative is rejected and changes nothing
	_, err = repo.AdjustStock(ctx, id, -7, domain.MovementAdjust, "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 6, itemQuantity(t, db, id))

	_, err = repo.AdjustStock(ctx, 99999, 1, domain.MovementAdjust, "")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemRepo_DeleteKeepsLedgerRow(t *testing.T) {
	db := testDB(t)
	repo := NewMySQLItemRepo(db)
	ctx := context.Background()

	id := insertItem(t, db, "SKU-100", "Widget", 3, 500)
	require.NoError(t, repo.Delete(ctx, id))

	_, err := repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM inventory_events WHERE sku = ? AND action = ?",
		"SKU-100", domain.MovementDelete).Scan(&count))
	assert.Equal(t, 1, count, "delete is recorded even though item_id is gone")
}
