package model

// Event categories that carry an inventory effect. Any other category is a
// plain financial record and leaves stock untouched.
const (
	CategoryInventoryPurchase = "Inventory Purchase"
	CategoryInventorySale     = "Inventory Sale"
	CategoryTaskStatusChange  = "Task Status Change"
)

// TaskStatusCompleted is the terminal task status that triggers consumption
// of the task's linked inventory.
const TaskStatusCompleted = "completed"

// LineItem is one item-quantity pair within an event. Exactly one of
// QuantityAdded / QuantityUsed is populated, depending on whether the item
// was brought in or consumed.
type LineItem struct {
	ItemID        string `json:"itemId"`
	ItemName      string `json:"itemName"`
	QuantityAdded int64  `json:"quantityAdded,omitempty"`
	QuantityUsed  int64  `json:"quantityUsed,omitempty"`
}

// DomainEvent is a business event as delivered by the upstream store. The
// worker only reads it; the single exception is the Error field, which the
// failure recorder patches when an effect cannot be applied.
type DomainEvent struct {
	FarmID    string  `json:"farmId"`
	EventID   string  `json:"eventId"`
	Category  string  `json:"category"`
	ActorID   string  `json:"actorId"`
	ActorName string  `json:"actorName"`
	Amount    float64 `json:"amount"`
	Title     string  `json:"title"`

	LineItems []LineItem `json:"lineItems,omitempty"`

	// Task status-change fields, present only for task events.
	StatusBefore    string     `json:"statusBefore,omitempty"`
	StatusAfter     string     `json:"statusAfter,omitempty"`
	LinkedInventory []LineItem `json:"linkedInventory,omitempty"`

	// Error is the diagnostic annotation written back on failure.
	Error string `json:"error,omitempty"`
}
