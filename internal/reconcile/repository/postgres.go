package repository

import (
	"context"
	"fmt"

	"github.com/cc-visionary/liminetic/internal/model"
	"github.com/cc-visionary/liminetic/internal/reconcile"
	"github.com/jmoiron/sqlx"
)

// PGRepository is the Postgres-backed item/ledger/event store.
//
// Conflict detection is optimistic: quantity writes carry the version the
// caller observed, and a zero-row update means somebody got there first.
type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetItems(ctx context.Context, farmID string, itemIDs []string) (map[string]model.InventoryItem, error) {
	out := make(map[string]model.InventoryItem, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`
        SELECT farm_id, item_id, name, quantity, version, updated_at
        FROM inventory_items
        WHERE farm_id = ? AND item_id IN (?)
    `, farmID, itemIDs)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var items []model.InventoryItem
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ItemID] = item
	}
	return out, nil
}

func (r *PGRepository) IncrementItems(ctx context.Context, farmID string, incs []reconcile.ItemIncrement, entries []model.LedgerEntry) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, inc := range incs {
		// The version bump makes the increment visible to any in-flight
		// subtractive transaction, which then retries from a fresh read.
		res, err := tx.ExecContext(ctx, `
            UPDATE inventory_items
            SET quantity = quantity + $1, version = version + 1, updated_at = now()
            WHERE farm_id = $2 AND item_id = $3
        `, inc.Delta, farmID, inc.ItemID)
		if err != nil {
			return fmt.Errorf("increment item %s: %w", inc.ItemID, err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return &reconcile.ItemNotFoundError{ItemID: inc.ItemID}
		}
	}

	if err := appendEntriesTx(ctx, tx, farmID, entries); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) CommitAdjustment(ctx context.Context, farmID string, writes []reconcile.ItemWrite, entries []model.LedgerEntry) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, w := range writes {
		res, err := tx.ExecContext(ctx, `
            UPDATE inventory_items
            SET quantity = $1, version = version + 1, updated_at = now()
            WHERE farm_id = $2 AND item_id = $3 AND version = $4
        `, w.NewQuantity, farmID, w.ItemID, w.Version)
		if err != nil {
			return fmt.Errorf("update item %s: %w", w.ItemID, err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return reconcile.ErrWriteConflict
		}
	}

	if err := appendEntriesTx(ctx, tx, farmID, entries); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) AppendEntry(ctx context.Context, farmID string, entry model.LedgerEntry) error {
	_, err := r.DB.ExecContext(ctx, insertEntryQuery,
		entry.ID, farmID, entry.Type, entry.ActorID, entry.ActorName, entry.Payload)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (r *PGRepository) AnnotateEvent(ctx context.Context, farmID, eventID, message string) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE events
        SET error = $1
        WHERE farm_id = $2 AND event_id = $3
    `, message, farmID, eventID)
	return err
}

// The store assigns the entry timestamp at commit, so entries within one
// transaction share a non-decreasing clock.
const insertEntryQuery = `
    INSERT INTO logbook (id, farm_id, type, timestamp, actor_id, actor_name, payload)
    VALUES ($1, $2, $3, now(), $4, $5, $6)
`

func appendEntriesTx(ctx context.Context, tx *sqlx.Tx, farmID string, entries []model.LedgerEntry) error {
	for _, entry := range entries {
		_, err := tx.ExecContext(ctx, insertEntryQuery,
			entry.ID, farmID, entry.Type, entry.ActorID, entry.ActorName, entry.Payload)
		if err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}
	}
	return nil
}
