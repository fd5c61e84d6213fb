package domain

import "time"

// Actions recorded in the inventory ledger.
const (
	MovementCreate = "create"
	MovementUpdate = "update"
	MovementDelete = "delete"
	MovementOrder  = "order"
	MovementAdjust = "adjust"
)

// InventoryEvent is one append-only ledger row. Rows are never mutated or
// deleted once written.
type InventoryEvent struct {
	ID        int64     `json:"id"`
	ItemID    *int64    `json:"itemId,omitempty"`
	SKU       string    `json:"sku,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Delta     int       `json:"delta"`
	CreatedAt time.Time `json:"createdAt"`
}
