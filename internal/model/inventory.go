package model

import "time"

// InventoryItem is one stocked item within a farm. Quantity is never
// negative after a committed adjustment; Version is the optimistic-locking
// counter the transaction engine conditions its writes on.
type InventoryItem struct {
	FarmID    string    `db:"farm_id"`
	ItemID    string    `db:"item_id"`
	Name      string    `db:"name"`
	Quantity  int64     `db:"quantity"`
	Version   int64     `db:"version"`
	UpdatedAt time.Time `db:"updated_at"`
}
