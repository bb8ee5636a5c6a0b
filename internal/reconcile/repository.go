package reconcile

import (
	"context"

	"github.com/cc-visionary/liminetic/internal/model"
)

// ItemWrite replaces an item's quantity, conditional on the version the
// read phase observed.
type ItemWrite struct {
	ItemID      string
	NewQuantity int64
	Version     int64
}

// ItemIncrement is an unconditional, commutative quantity bump.
type ItemIncrement struct {
	ItemID string
	Delta  int64
}

// Repository is the store handle the engine runs against. The Postgres
// implementation lives in reconcile/repository; tests run against an
// in-memory fake implementing the same contract.
type Repository interface {
	// GetItems loads the current state of the referenced items. Ids that do
	// not resolve are simply absent from the returned map.
	GetItems(ctx context.Context, farmID string, itemIDs []string) (map[string]model.InventoryItem, error)

	// IncrementItems applies all increments and appends the ledger entries
	// in one atomic batch. An increment cannot drive a quantity negative,
	// so no prior read or version check is involved; referencing a missing
	// item fails the whole batch.
	IncrementItems(ctx context.Context, farmID string, incs []ItemIncrement, entries []model.LedgerEntry) error

	// CommitAdjustment writes the new quantities and the ledger entries in
	// one atomic transaction. Every write is conditional on its observed
	// version; if any item was concurrently modified, nothing is written
	// and ErrWriteConflict is returned.
	CommitAdjustment(ctx context.Context, farmID string, writes []ItemWrite, entries []model.LedgerEntry) error

	// AppendEntry appends a single ledger entry outside any adjustment. It
	// never reads or conditions on prior state.
	AppendEntry(ctx context.Context, farmID string, entry model.LedgerEntry) error

	// AnnotateEvent records an error message on the originating event
	// record. Diagnostic only: never rolled back, never retried.
	AnnotateEvent(ctx context.Context, farmID, eventID, message string) error
}
