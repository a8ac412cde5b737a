package listeners

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	"shipping-system/internal/events"
	"shipping-system/internal/repositories"
	"shipping-system/internal/services"
	"shipping-system/pkg/broker"
	"shipping-system/pkg/config"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/eventbus"
	"shipping-system/pkg/mailer"
)

var shipmentEmails = map[string]struct {
	template string
	subject  string
}{
	entities.ShipmentStatusReceived:  {mailer.TemplateShipmentReceived, "Package Received - %s"},
	entities.ShipmentStatusShipped:   {mailer.TemplateShipmentShipped, "Package Shipped - %s"},
	entities.ShipmentStatusDelivered: {mailer.TemplateShipmentDelivered, "Package Delivered - %s"},
}

// OutboxDispatcher delivers queued outbox events. It claims one event per
// transaction and records the outcome in that same transaction.
type OutboxDispatcher struct {
	txManager           repositories.TxManagerInterface
	outboxRepo          repositories.OutboxRepositoryInterface
	commRepo            repositories.CommunicationRepositoryInterface
	workflowRepo        repositories.WorkflowRepositoryInterface
	participantRepo     repositories.ParticipantRepositoryInterface
	notificationService services.NotificationServiceInterface
	publisher           broker.Publisher
	cfg                 config.DispatcherConfig
	trackingBaseURL     string
	logger              *zap.Logger
	now                 func() time.Time
	wake                chan struct{}
}

func NewOutboxDispatcher(
	txManager repositories.TxManagerInterface,
	outboxRepo repositories.OutboxRepositoryInterface,
	commRepo repositories.CommunicationRepositoryInterface,
	workflowRepo repositories.WorkflowRepositoryInterface,
	participantRepo repositories.ParticipantRepositoryInterface,
	notificationService services.NotificationServiceInterface,
	publisher broker.Publisher,
	cfg config.DispatcherConfig,
	trackingBaseURL string,
	logger *zap.Logger,
) *OutboxDispatcher {
	return &OutboxDispatcher{
		txManager:           txManager,
		outboxRepo:          outboxRepo,
		commRepo:            commRepo,
		workflowRepo:        workflowRepo,
		participantRepo:     participantRepo,
		notificationService: notificationService,
		publisher:           publisher,
		cfg:                 cfg,
		trackingBaseURL:     trackingBaseURL,
		logger:              logger,
		now:                 time.Now,
		wake:                make(chan struct{}, 1),
	}
}

func (d *OutboxDispatcher) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OutboxQueued{}.Name(), d.handleQueued)
	d.logger.Info("outbox dispatcher subscribed", zap.String("event", events.OutboxQueued{}.Name()))
}

func (d *OutboxDispatcher) handleQueued(_ context.Context, event eventbus.Event) error {
	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run drains the outbox on every tick and every wake-up until ctx is done.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	d.logger.Info("outbox dispatcher started", zap.Duration("poll_interval", d.cfg.PollInterval))
	for {
		d.Drain(ctx)
		select {
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher stopped")
			return
		case <-ticker.C:
		case <-d.wake:
		}
	}
}

// maxConsecutiveFailures ends a drain when the store keeps failing; the next
// tick starts over.
const maxConsecutiveFailures = 3

// Drain processes due events until none is left and returns how many it
// handled. A failed event is logged and the drain moves on.
func (d *OutboxDispatcher) Drain(ctx context.Context) int {
	handled, failures := 0, 0
	for ctx.Err() == nil {
		ok, err := d.ProcessNext(ctx)
		if err != nil {
			failures++
			d.logger.Error("outbox dispatch failed", zap.Int("consecutive_failures", failures), zap.Error(err))
			if failures >= maxConsecutiveFailures {
				d.logger.Warn("outbox drain paused until next tick", zap.Int("handled", handled))
				return handled
			}
			continue
		}
		failures = 0
		if !ok {
			return handled
		}
		handled++
	}
	return handled
}

// ProcessNext claims and delivers one due event. It reports false when the
// outbox has nothing due. Everything the delivery writes, notification logs
// included, shares the claim transaction, so a rollback leaves the event
// pending with no trace of the attempt.
func (d *OutboxDispatcher) ProcessNext(ctx context.Context) (bool, error) {
	claimed := false
	err := d.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		now := d.now()
		event, err := d.outboxRepo.ClaimNext(ctx, tx, now)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to claim outbox event: %w", err)
		}
		claimed = true

		deliveryErr := d.deliver(ctx, tx, event)
		if deliveryErr == nil {
			d.logger.Debug("outbox event delivered", zap.String("event_id", event.ID), zap.String("event_type", event.EventType))
			return d.outboxRepo.MarkSent(ctx, tx, event.ID, now)
		}
		return d.recordFailure(ctx, tx, event, deliveryErr, now)
	})
	return claimed, err
}

func (d *OutboxDispatcher) recordFailure(ctx context.Context, tx pgx.Tx, event *entities.OutboxEvent, cause error, now time.Time) error {
	attempt := event.RetryCount + 1
	reason := cause.Error()
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.Int("attempt", attempt),
		zap.Error(cause),
	}

	if attempt < d.cfg.MaxAttempts {
		next := now.Add(d.cfg.RetryBackoff * time.Duration(attempt))
		d.logger.Warn("outbox delivery failed, will retry", append(fields, zap.Time("next_attempt_at", next))...)
		return d.outboxRepo.MarkRetry(ctx, tx, event.ID, reason, next)
	}

	d.logger.Error("outbox delivery failed permanently", fields...)
	if err := d.outboxRepo.MarkFailed(ctx, tx, event.ID, reason, now); err != nil {
		return err
	}
	if event.AggregateType == events.AggregateCommunication {
		return d.commRepo.MarkFailed(ctx, tx, event.AggregateID, reason)
	}
	return nil
}

func (d *OutboxDispatcher) deliver(ctx context.Context, tx pgx.Tx, event *entities.OutboxEvent) error {
	switch event.EventType {
	case events.EventCommunicationCreated:
		return d.deliverCommunication(ctx, tx, event)
	case events.EventShipmentStatusChange:
		return d.deliverShipmentEmail(ctx, tx, event)
	default:
		return fmt.Errorf("unknown outbox event type %q", event.EventType)
	}
}

func (d *OutboxDispatcher) deliverCommunication(ctx context.Context, tx pgx.Tx, event *entities.OutboxEvent) error {
	var payload events.CommunicationPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode communication payload: %w", err)
	}

	if err := d.publisher.Publish(ctx, broker.Message{
		MessageID:  event.ID,
		Type:       event.EventType,
		RoutingKey: event.RoutingKey,
		Body:       event.Payload,
	}); err != nil {
		return err
	}

	switch payload.Channel {
	case entities.ChannelEmail:
		if err := d.emailParticipant(ctx, tx, payload); err != nil {
			return err
		}
	case entities.ChannelWhatsApp:
		if err := d.whatsAppCustomer(ctx, tx, payload); err != nil {
			return err
		}
	}

	if err := d.commRepo.MarkDelivered(ctx, tx, payload.CommunicationID); err != nil {
		return err
	}
	return d.workflowRepo.MarkSynced(ctx, tx, payload.WorkflowID, payload.ParticipantType)
}

func (d *OutboxDispatcher) emailParticipant(ctx context.Context, tx pgx.Tx, payload events.CommunicationPayload) error {
	to, name, err := d.recipient(ctx, tx, payload)
	if err != nil {
		return err
	}
	res, err := d.notificationService.DeliverEmail(ctx, tx, dto.SendEmailDTO{
		ToEmail:      to,
		Subject:      fmt.Sprintf("Update on shipment %s", payload.TrackingNumber),
		TextContent:  payload.MessageContent,
		TemplateType: mailer.TemplateGeneral,
		TemplateData: map[string]string{
			"customerName":   name,
			"trackingNumber": payload.TrackingNumber,
			"message":        payload.MessageContent,
		},
		CustomerID: customerID(payload),
	})
	if err != nil {
		return err
	}
	if res.Status == entities.NotificationFailed {
		return fmt.Errorf("email to %s failed: %s", to, res.NotificationLog.ErrorMessage.String)
	}
	return nil
}

// whatsAppCustomer messages the customer's phone. Customers who turned
// WhatsApp off are skipped, and the communication still counts as delivered.
func (d *OutboxDispatcher) whatsAppCustomer(ctx context.Context, tx pgx.Tx, payload events.CommunicationPayload) error {
	if payload.ParticipantType != entities.ParticipantCustomer || payload.ParticipantID == "" {
		return fmt.Errorf("communication %s: whatsapp needs a customer participant", payload.CommunicationID)
	}
	customer, err := d.participantRepo.FindCustomer(ctx, tx, payload.ParticipantID)
	if err != nil {
		return fmt.Errorf("failed to resolve customer %s: %w", payload.ParticipantID, err)
	}
	if !customer.WhatsAppNotifications {
		d.logger.Info("customer opted out of whatsapp", zap.String("customer_id", customer.ID), zap.String("communication_id", payload.CommunicationID))
		return nil
	}
	if !customer.Phone.Valid || strings.TrimSpace(customer.Phone.String) == "" {
		return fmt.Errorf("customer %s has no phone number", payload.ParticipantID)
	}

	res, err := d.notificationService.DeliverWhatsApp(ctx, tx, dto.SendWhatsAppDTO{
		PhoneNumber: customer.Phone.String,
		Message:     fmt.Sprintf("Update on shipment %s: %s", payload.TrackingNumber, payload.MessageContent),
		CustomerID:  customer.ID,
	})
	if err != nil {
		return err
	}
	if res.Status == entities.NotificationFailed {
		return fmt.Errorf("whatsapp to %s failed: %s", customer.Phone.String, res.NotificationLog.ErrorMessage.String)
	}
	return nil
}

func (d *OutboxDispatcher) recipient(ctx context.Context, tx pgx.Tx, payload events.CommunicationPayload) (email, name string, err error) {
	if payload.ParticipantID == "" {
		return "", "", fmt.Errorf("communication %s has no participant to email", payload.CommunicationID)
	}
	switch payload.ParticipantType {
	case entities.ParticipantCustomer:
		customer, err := d.participantRepo.FindCustomer(ctx, tx, payload.ParticipantID)
		if err != nil {
			return "", "", fmt.Errorf("failed to resolve customer %s: %w", payload.ParticipantID, err)
		}
		if !customer.Email.Valid || strings.TrimSpace(customer.Email.String) == "" {
			return "", "", fmt.Errorf("customer %s has no email address", payload.ParticipantID)
		}
		return customer.Email.String, customer.FullName, nil
	case entities.ParticipantStaff:
		staff, err := d.participantRepo.FindStaff(ctx, tx, payload.ParticipantID)
		if err != nil {
			return "", "", fmt.Errorf("failed to resolve staff %s: %w", payload.ParticipantID, err)
		}
		return staff.Email, staff.FullName, nil
	default:
		return "", "", fmt.Errorf("cannot email participant type %q", payload.ParticipantType)
	}
}

func customerID(payload events.CommunicationPayload) string {
	if payload.ParticipantType == entities.ParticipantCustomer {
		return payload.ParticipantID
	}
	return ""
}

func (d *OutboxDispatcher) deliverShipmentEmail(ctx context.Context, tx pgx.Tx, event *entities.OutboxEvent) error {
	var payload events.ShipmentPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode shipment payload: %w", err)
	}
	email, ok := shipmentEmails[payload.Status]
	if !ok {
		return fmt.Errorf("no email template for shipment status %q", payload.Status)
	}

	occurred := payload.OccurredAt.Format("January 2, 2006")
	data := map[string]string{
		"customerName":      payload.CustomerName,
		"trackingNumber":    payload.TrackingNumber,
		"destination":       payload.Destination,
		"trackingUrl":       d.trackingBaseURL + "?number=" + payload.TrackingNumber,
		"estimatedDelivery": payload.EstimatedDelivery,
		"deliveredTo":       payload.Location,
	}
	switch payload.Status {
	case entities.ShipmentStatusReceived:
		data["receivedDate"] = occurred
	case entities.ShipmentStatusShipped:
		data["shipDate"] = occurred
	case entities.ShipmentStatusDelivered:
		data["deliveryDate"] = occurred
	}

	res, err := d.notificationService.DeliverEmail(ctx, tx, dto.SendEmailDTO{
		ToEmail:      payload.CustomerEmail,
		Subject:      fmt.Sprintf(email.subject, payload.TrackingNumber),
		TemplateType: email.template,
		TemplateData: data,
		ShipmentID:   payload.ShipmentID,
	})
	if err != nil {
		return err
	}
	if res.Status == entities.NotificationFailed {
		return fmt.Errorf("shipment email to %s failed: %s", payload.CustomerEmail, res.NotificationLog.ErrorMessage.String)
	}
	return nil
}
