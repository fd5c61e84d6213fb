package domain

import "time"

// Item is a catalog row. Prices are kept in the smallest currency unit
// (cents) so line totals add exactly.
type Item struct {
	ID         int64     `json:"id"`
	SKU        string    `json:"sku,omitempty"`
	Name       string    `json:"name"`
	StoreID    *int64    `json:"storeId,omitempty"`
	Category   string    `json:"category,omitempty"`
	Quantity   int       `json:"quantity"`
	Location   string    `json:"location,omitempty"`
	PriceCents int64     `json:"priceCents"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
