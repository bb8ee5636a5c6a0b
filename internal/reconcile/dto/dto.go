package dto

import "github.com/cc-visionary/liminetic/internal/model"

// ItemDelta is one signed quantity change within a planned adjustment:
// positive for restock, negative for consumption.
type ItemDelta struct {
	ItemID   string
	ItemName string
	Delta    int64
}

// PlannedAdjustment is the planner's output: the ordered per-item deltas
// plus the ledger entries documenting them. Additive plans carry only
// positive deltas and skip the read and validate phases entirely.
type PlannedAdjustment struct {
	Additive bool
	Deltas   []ItemDelta
	Entries  []model.LedgerEntry
}
