package reconcile

import (
	"errors"
	"fmt"
)

// ErrWriteConflict is reported by a Repository when another transaction
// modified an item between the read phase and the commit. The engine
// restarts the whole protocol from the read phase.
var ErrWriteConflict = errors.New("write conflict")

// MalformedEventError marks an event that failed shape validation before
// any store access was attempted.
type MalformedEventError struct {
	Reason string
}

func (e *MalformedEventError) Error() string {
	return "malformed event: " + e.Reason
}

// ItemNotFoundError names an item id that does not resolve to a stored
// inventory record.
type ItemNotFoundError struct {
	ItemID   string
	ItemName string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %s not found", itemLabel(e.ItemID, e.ItemName))
}

// InsufficientStockError names the first item whose post-decrement
// quantity would be negative.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: need %d, have %d",
		itemLabel(e.ItemID, e.ItemName), e.Requested, e.Available)
}

// ConflictExhaustedError is surfaced when every retry attempt of a
// subtractive transaction lost a write conflict.
type ConflictExhaustedError struct {
	Attempts int
}

func (e *ConflictExhaustedError) Error() string {
	return fmt.Sprintf("transaction conflicted on all %d attempts", e.Attempts)
}

func (e *ConflictExhaustedError) Unwrap() error {
	return ErrWriteConflict
}

func itemLabel(id, name string) string {
	if name != "" {
		return name
	}
	return id
}
