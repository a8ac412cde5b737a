package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
	"shipping-system/internal/events"
	"shipping-system/internal/repositories"
	"shipping-system/pkg/eventbus"
)

// Outbox records side effects inside the caller's transaction and wakes the
// dispatcher once that transaction has committed.
type Outbox struct {
	repo   repositories.OutboxRepositoryInterface
	bus    *eventbus.Bus
	logger *zap.Logger
}

func NewOutbox(repo repositories.OutboxRepositoryInterface, bus *eventbus.Bus, logger *zap.Logger) *Outbox {
	return &Outbox{repo: repo, bus: bus, logger: logger}
}

// Enqueue stores payload as a pending event in tx. The event id doubles as
// the broker message id, which consumers use to drop redeliveries.
func (o *Outbox) Enqueue(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, eventType, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode outbox payload: %w", err)
	}
	_, err = o.repo.Enqueue(ctx, tx, entities.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		RoutingKey:    routingKey,
		Payload:       body,
	})
	return err
}

// EnqueueCommunication queues delivery of a freshly inserted communication.
func (o *Outbox) EnqueueCommunication(ctx context.Context, tx pgx.Tx, wf *entities.WorkflowInstance, c *entities.CommunicationThread) error {
	return o.Enqueue(ctx, tx,
		events.AggregateCommunication, c.ID, events.EventCommunicationCreated,
		"communication."+c.ParticipantType,
		events.CommunicationPayload{
			CommunicationID: c.ID,
			WorkflowID:      wf.ID,
			TrackingNumber:  wf.TrackingNumber,
			ParticipantType: c.ParticipantType,
			ParticipantID:   c.ParticipantID.String,
			MessageType:     c.MessageType,
			MessageContent:  c.MessageContent,
			Channel:         c.Channel,
			CreatedAt:       c.CreatedAt,
		})
}

// Notify wakes the dispatcher. It must be called after commit: a wake-up that
// arrives before the event is visible finds nothing to claim, and the event
// then waits for the next poll.
func (o *Outbox) Notify(ctx context.Context, source string) {
	if o.bus == nil {
		return
	}
	o.bus.Publish(ctx, events.OutboxQueued{Source: source})
}
