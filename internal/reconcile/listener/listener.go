package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cc-visionary/liminetic/internal/model"
	"github.com/cc-visionary/liminetic/internal/reconcile"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types on the farm event bus that this worker reacts to. Everything
// else is skipped without a store access.
const (
	EventTypeTransactionCreated = "TransactionCreated"
	EventTypeTaskUpdated        = "TaskUpdated"
)

// Envelope is the bus message wrapper around a domain event.
type Envelope struct {
	EventID   string            `json:"eventId"`
	EventType string            `json:"eventType"`
	Payload   model.DomainEvent `json:"payload"`
	Timestamp time.Time         `json:"timestamp"`
}

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// EventListener consumes farm events and feeds them to the reconciliation
// engine. Delivery semantics (retries, fan-out) belong to the broker; a
// failed effect is annotated on the event record and not re-attempted here.
type EventListener struct {
	reader MessageReader
	uc     reconcile.UseCase
	logger *zap.Logger
}

func NewEventListener(reader MessageReader, uc reconcile.UseCase, logger *zap.Logger) *EventListener {
	return &EventListener{
		reader: reader,
		uc:     uc,
		logger: logger,
	}
}

func (l *EventListener) Start(ctx context.Context) {
	l.logger.Info("starting inventory event listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping inventory event listener")
			return
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *EventListener) processMessage(ctx context.Context, value []byte) {
	var env Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		l.logger.Error("failed to unmarshal event envelope", zap.Error(err))
		return
	}

	switch env.EventType {
	case EventTypeTransactionCreated, EventTypeTaskUpdated:
	default:
		return
	}

	event := env.Payload
	if event.EventID == "" {
		event.EventID = env.EventID
	}
	if event.Category == "" && env.EventType == EventTypeTaskUpdated {
		event.Category = model.CategoryTaskStatusChange
	}

	l.logger.Info("processing event",
		zap.String("event_id", event.EventID),
		zap.String("event_type", env.EventType),
		zap.String("category", event.Category),
	)

	if err := l.uc.ProcessEvent(ctx, &event); err != nil {
		// Already recorded on the event record by the engine.
		l.logger.Error("event processing failed",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
}
