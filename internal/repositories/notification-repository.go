package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
)

type NotificationLogRepositoryInterface interface {
	CreateLog(ctx context.Context, tx pgx.Tx, log entities.NotificationLog) (*entities.NotificationLog, error)
}

type NotificationLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNotificationLogRepository(storage *pgxpool.Pool, logger *zap.Logger) NotificationLogRepositoryInterface {
	return &NotificationLogRepository{storage: storage, logger: logger}
}

func (r *NotificationLogRepository) CreateLog(ctx context.Context, tx pgx.Tx, l entities.NotificationLog) (*entities.NotificationLog, error) {
	var created entities.NotificationLog
	err := getQuerier(r.storage, tx).QueryRow(ctx, `
		INSERT INTO notification_logs (customer_id, shipment_id, notification_type, channel, recipient,
		                               subject, message_content, status, error_message, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text, customer_id::text, shipment_id::text, notification_type, channel, recipient,
		          subject, message_content, status, error_message, sent_at, created_at`,
		l.CustomerID, l.ShipmentID, l.NotificationType, l.Channel, l.Recipient,
		l.Subject, l.MessageContent, l.Status, l.ErrorMessage, l.SentAt,
	).Scan(
		&created.ID, &created.CustomerID, &created.ShipmentID, &created.NotificationType, &created.Channel, &created.Recipient,
		&created.Subject, &created.MessageContent, &created.Status, &created.ErrorMessage, &created.SentAt, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to log notification: %w", translateError(err))
	}
	return &created, nil
}
