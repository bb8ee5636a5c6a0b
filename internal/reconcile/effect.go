package reconcile

import (
	"strings"

	"github.com/cc-visionary/liminetic/internal/model"
)

// Effect is the classified intent of a domain event. The set is closed:
// every consumer type-switches over Restock, Consume and NoOp.
type Effect interface {
	isEffect()
}

// Actor identifies who caused the effect, for the audit trail.
type Actor struct {
	ID   string
	Name string
}

// Restock adds stock for a batch of purchased items.
type Restock struct {
	Items    []model.LineItem
	Supplier string
	Amount   float64
	Actor    Actor
}

// ConsumeKind distinguishes the two consumption provenances, which carry
// different ledger policies.
type ConsumeKind string

const (
	// ConsumeSale batches one ledger entry for the whole sale.
	ConsumeSale ConsumeKind = "sale"
	// ConsumeTask emits one ledger entry per consumed item.
	ConsumeTask ConsumeKind = "task"
)

// ConsumeSource describes where a consumption originated.
type ConsumeSource struct {
	Kind      ConsumeKind
	Customer  string  // sale only
	Amount    float64 // sale only
	TaskTitle string  // task only
}

// Consume subtracts stock for a sale or a completed task.
type Consume struct {
	Items  []model.LineItem
	Source ConsumeSource
	Actor  Actor
}

// NoOp is an event with no inventory effect.
type NoOp struct {
	Reason string
}

func (Restock) isEffect() {}
func (Consume) isEffect() {}
func (NoOp) isEffect()    {}

// Title prefixes the upstream app uses when it generates transaction
// titles; the counterparty name is everything after the prefix.
const (
	purchaseTitlePrefix = "Purchase from "
	saleTitlePrefix     = "Sale to "
)

// Classify inspects an event's category and state transition and returns
// the effect to apply. It is pure: no store access, no mutation.
func Classify(event *model.DomainEvent) Effect {
	actor := Actor{ID: event.ActorID, Name: event.ActorName}
	if actor.ID == "" {
		actor.ID = "system"
	}
	if actor.Name == "" {
		actor.Name = "System"
	}

	switch event.Category {
	case model.CategoryInventoryPurchase:
		return Restock{
			Items:    event.LineItems,
			Supplier: strings.TrimPrefix(event.Title, purchaseTitlePrefix),
			Amount:   event.Amount,
			Actor:    actor,
		}

	case model.CategoryInventorySale:
		return Consume{
			Items: event.LineItems,
			Source: ConsumeSource{
				Kind:     ConsumeSale,
				Customer: strings.TrimPrefix(event.Title, saleTitlePrefix),
				Amount:   event.Amount,
			},
			Actor: actor,
		}

	case model.CategoryTaskStatusChange:
		// Only a transition landing on "completed" from some other status
		// consumes stock; re-saving an already completed task does not.
		if event.StatusBefore == model.TaskStatusCompleted || event.StatusAfter != model.TaskStatusCompleted {
			return NoOp{Reason: "task status did not transition to completed"}
		}
		if len(event.LinkedInventory) == 0 {
			return NoOp{Reason: "completed task has no linked inventory"}
		}
		return Consume{
			Items: event.LinkedInventory,
			Source: ConsumeSource{
				Kind:      ConsumeTask,
				TaskTitle: event.Title,
			},
			Actor: actor,
		}

	default:
		return NoOp{Reason: "category has no inventory effect"}
	}
}
