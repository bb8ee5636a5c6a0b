package reconcile

import (
	"context"

	"github.com/cc-visionary/liminetic/internal/model"
)

// UseCase processes one domain event end to end: classify, plan, commit,
// and on failure annotate the originating event record.
type UseCase interface {
	ProcessEvent(ctx context.Context, event *model.DomainEvent) error
}
