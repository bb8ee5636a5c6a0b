package usecase

import (
	"context"
	"errors"

	"github.com/cc-visionary/liminetic/internal/model"
	"github.com/cc-visionary/liminetic/internal/reconcile"
	"github.com/cc-visionary/liminetic/internal/reconcile/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds the subtractive transaction's conflict retries.
const DefaultMaxAttempts = 5

type reconcileUseCase struct {
	repo        reconcile.Repository
	maxAttempts int
	logger      *zap.Logger
}

// NewReconcileUseCase builds the adjustment transaction engine. A
// maxAttempts of zero or less falls back to DefaultMaxAttempts.
func NewReconcileUseCase(repo reconcile.Repository, maxAttempts int, logger *zap.Logger) reconcile.UseCase {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &reconcileUseCase{
		repo:        repo,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

func (uc *reconcileUseCase) ProcessEvent(ctx context.Context, event *model.DomainEvent) error {
	effect := reconcile.Classify(event)
	if noop, ok := effect.(reconcile.NoOp); ok {
		uc.logger.Info("event has no inventory effect",
			zap.String("event_id", event.EventID),
			zap.String("category", event.Category),
			zap.String("reason", noop.Reason),
		)
		return nil
	}

	if err := uc.apply(ctx, event, effect); err != nil {
		uc.logger.Error("failed to apply inventory effect",
			zap.String("event_id", event.EventID),
			zap.String("category", event.Category),
			zap.Error(err),
		)
		uc.recordFailure(ctx, event, err)
		return err
	}
	return nil
}

func (uc *reconcileUseCase) apply(ctx context.Context, event *model.DomainEvent, effect reconcile.Effect) error {
	plan, err := reconcile.Plan(effect)
	if err != nil {
		return err
	}
	if plan == nil {
		return nil
	}

	entries := make([]model.LedgerEntry, len(plan.Entries))
	for i, entry := range plan.Entries {
		entry.ID = uuid.New().String()
		entry.FarmID = event.FarmID
		entries[i] = entry
	}

	if plan.Additive {
		incs := make([]reconcile.ItemIncrement, len(plan.Deltas))
		for i, d := range plan.Deltas {
			incs[i] = reconcile.ItemIncrement{ItemID: d.ItemID, Delta: d.Delta}
		}
		if err := uc.repo.IncrementItems(ctx, event.FarmID, incs, entries); err != nil {
			return err
		}
		uc.logger.Info("restock committed",
			zap.String("event_id", event.EventID),
			zap.Int("items", len(incs)),
		)
		return nil
	}

	return uc.commitSubtractive(ctx, event, plan.Deltas, entries)
}

// commitSubtractive runs the validate-then-commit protocol with bounded
// retries. Every attempt re-reads fresh item state; a version conflict on
// commit restarts from the read phase. Validation failures abort before
// any write is issued.
func (uc *reconcileUseCase) commitSubtractive(ctx context.Context, event *model.DomainEvent, deltas []dto.ItemDelta, entries []model.LedgerEntry) error {
	itemIDs := make([]string, len(deltas))
	for i, d := range deltas {
		itemIDs[i] = d.ItemID
	}

	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		items, err := uc.repo.GetItems(ctx, event.FarmID, itemIDs)
		if err != nil {
			return err
		}

		// Validate every item before issuing any write.
		writes := make([]reconcile.ItemWrite, 0, len(deltas))
		for _, d := range deltas {
			item, ok := items[d.ItemID]
			if !ok {
				return &reconcile.ItemNotFoundError{ItemID: d.ItemID, ItemName: d.ItemName}
			}
			newQuantity := item.Quantity + d.Delta
			if newQuantity < 0 {
				return &reconcile.InsufficientStockError{
					ItemID:    d.ItemID,
					ItemName:  d.ItemName,
					Requested: -d.Delta,
					Available: item.Quantity,
				}
			}
			writes = append(writes, reconcile.ItemWrite{
				ItemID:      d.ItemID,
				NewQuantity: newQuantity,
				Version:     item.Version,
			})
		}

		err = uc.repo.CommitAdjustment(ctx, event.FarmID, writes, entries)
		if err == nil {
			uc.logger.Info("consumption committed",
				zap.String("event_id", event.EventID),
				zap.Int("items", len(writes)),
				zap.Int("ledger_entries", len(entries)),
			)
			return nil
		}
		if !errors.Is(err, reconcile.ErrWriteConflict) {
			return err
		}
		uc.logger.Warn("write conflict, retrying from read phase",
			zap.String("event_id", event.EventID),
			zap.Int("attempt", attempt),
		)
	}

	return &reconcile.ConflictExhaustedError{Attempts: uc.maxAttempts}
}

// recordFailure writes the error text onto the originating event record.
// It runs only after the effect application has definitively failed, and
// its own failure is logged rather than propagated.
func (uc *reconcileUseCase) recordFailure(ctx context.Context, event *model.DomainEvent, cause error) {
	if event.EventID == "" {
		return
	}
	if err := uc.repo.AnnotateEvent(ctx, event.FarmID, event.EventID, cause.Error()); err != nil {
		uc.logger.Error("failed to annotate event with error",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
}
