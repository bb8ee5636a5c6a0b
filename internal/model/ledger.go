package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Ledger entry types, one per kind of inventory-affecting effect.
const (
	LedgerTypeRestock = "inventoryRestock"
	LedgerTypeSale    = "sale"
	LedgerTypeUsage   = "inventoryUsage"
)

// LedgerEntry is one immutable audit record in the farm logbook. The
// timestamp is assigned by the store at commit time, never by the caller.
type LedgerEntry struct {
	ID        string        `db:"id"`
	FarmID    string        `db:"farm_id"`
	Type      string        `db:"type"`
	Timestamp time.Time     `db:"timestamp"`
	ActorID   string        `db:"actor_id"`
	ActorName string        `db:"actor_name"`
	Payload   LedgerPayload `db:"payload"`
}

// LedgerPayload is the effect-specific body of a ledger entry. Batch
// entries (restock, sale) fill the counterparty, amount and items fields;
// task-usage entries fill the per-item fields.
type LedgerPayload struct {
	SupplierName string     `json:"supplierName,omitempty"`
	CustomerName string     `json:"customerName,omitempty"`
	TotalAmount  float64    `json:"totalAmount,omitempty"`
	Items        []LineItem `json:"items,omitempty"`

	Source       string `json:"source,omitempty"`
	TaskTitle    string `json:"taskTitle,omitempty"`
	ItemID       string `json:"itemId,omitempty"`
	ItemName     string `json:"itemName,omitempty"`
	QuantityUsed int64  `json:"quantityUsed,omitempty"`
}

// Value implements driver.Valuer so the payload persists as a JSONB column.
func (p LedgerPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *LedgerPayload) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = LedgerPayload{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("unsupported ledger payload type %T", src)
}
