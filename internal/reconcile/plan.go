package reconcile

import (
	"fmt"

	"github.com/cc-visionary/liminetic/internal/model"
	"github.com/cc-visionary/liminetic/internal/reconcile/dto"
)

// Plan turns a classified effect into concrete per-item deltas and the
// ledger entries to commit alongside them. All shape validation happens
// here, so a malformed event is rejected before any store access. A NoOp
// plans to nothing and returns a nil adjustment.
//
// Ledger entry ids, farm ids and timestamps are assigned later: ids by the
// engine, timestamps by the store at commit.
func Plan(effect Effect) (*dto.PlannedAdjustment, error) {
	switch eff := effect.(type) {
	case Restock:
		if len(eff.Items) == 0 {
			return nil, &MalformedEventError{Reason: "purchase has no line items"}
		}
		plan := &dto.PlannedAdjustment{Additive: true}
		for _, item := range eff.Items {
			if err := validateLine(item, item.QuantityAdded); err != nil {
				return nil, err
			}
			plan.Deltas = append(plan.Deltas, dto.ItemDelta{
				ItemID:   item.ItemID,
				ItemName: item.ItemName,
				Delta:    item.QuantityAdded,
			})
		}
		plan.Entries = []model.LedgerEntry{{
			Type:      model.LedgerTypeRestock,
			ActorID:   eff.Actor.ID,
			ActorName: eff.Actor.Name,
			Payload: model.LedgerPayload{
				SupplierName: eff.Supplier,
				TotalAmount:  eff.Amount,
				Items:        eff.Items,
			},
		}}
		return plan, nil

	case Consume:
		if len(eff.Items) == 0 {
			return nil, &MalformedEventError{Reason: "consumption has no line items"}
		}
		plan := &dto.PlannedAdjustment{}
		for _, item := range eff.Items {
			if err := validateLine(item, item.QuantityUsed); err != nil {
				return nil, err
			}
			plan.Deltas = append(plan.Deltas, dto.ItemDelta{
				ItemID:   item.ItemID,
				ItemName: item.ItemName,
				Delta:    -item.QuantityUsed,
			})
		}
		switch eff.Source.Kind {
		case ConsumeSale:
			// One batched entry for the whole sale.
			plan.Entries = []model.LedgerEntry{{
				Type:      model.LedgerTypeSale,
				ActorID:   eff.Actor.ID,
				ActorName: eff.Actor.Name,
				Payload: model.LedgerPayload{
					CustomerName: eff.Source.Customer,
					TotalAmount:  eff.Source.Amount,
					Items:        eff.Items,
				},
			}}
		case ConsumeTask:
			// One entry per item, keeping per-item provenance back to the task.
			for _, item := range eff.Items {
				plan.Entries = append(plan.Entries, model.LedgerEntry{
					Type:      model.LedgerTypeUsage,
					ActorID:   eff.Actor.ID,
					ActorName: eff.Actor.Name,
					Payload: model.LedgerPayload{
						Source:       "Task Completion",
						TaskTitle:    eff.Source.TaskTitle,
						ItemID:       item.ItemID,
						ItemName:     item.ItemName,
						QuantityUsed: item.QuantityUsed,
					},
				})
			}
		default:
			return nil, &MalformedEventError{Reason: fmt.Sprintf("unknown consumption source %q", eff.Source.Kind)}
		}
		return plan, nil

	case NoOp:
		return nil, nil

	default:
		return nil, &MalformedEventError{Reason: fmt.Sprintf("unknown effect type %T", effect)}
	}
}

func validateLine(item model.LineItem, magnitude int64) error {
	if item.ItemID == "" {
		return &MalformedEventError{Reason: "line item has no item id"}
	}
	if magnitude <= 0 {
		return &MalformedEventError{
			Reason: fmt.Sprintf("line item %s has non-positive quantity %d", itemLabel(item.ItemID, item.ItemName), magnitude),
		}
	}
	return nil
}
