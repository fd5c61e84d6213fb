package domain

import "time"

// Order is immutable once committed; this subsystem never updates or
// deletes it.
type Order struct {
	ID         int64       `json:"id"`
	UserID     *int64      `json:"userId,omitempty"`
	UserEmail  string      `json:"userEmail,omitempty"`
	TotalCents int64       `json:"totalCents"`
	CreatedAt  time.Time   `json:"createdAt"`
	Items      []OrderItem `json:"items"`
}

// OrderItem holds the quantity and the unit price captured at transaction
// time. The price is never recomputed from a later catalog state.
type OrderItem struct {
	ItemID         int64  `json:"itemId"`
	SKU            string `json:"sku,omitempty"`
	Name           string `json:"name,omitempty"`
	Quantity       int    `json:"quantity"`
	PriceCentsEach int64  `json:"priceCentsEach"`
}
