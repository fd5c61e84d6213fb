package usecase

import "time"

// StockMovementMsg is published to the inventory.events exchange for each
// committed ledger entry.
type StockMovementMsg struct {
	EventID   string    `json:"event_id"`
	OrderID   int64     `json:"order_id,omitempty"`
	ItemID    int64     `json:"item_id"`
	SKU       string    `json:"sku,omitempty"`
	Delta     int       `json:"delta"`
	Remaining int       `json:"remaining"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

// StockAdjustmentMsg arrives on the stock.adjustments Kafka topic from
// external systems (warehouse intake, manual corrections).
type StockAdjustmentMsg struct {
	ItemID int64  `json:"item_id"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}
