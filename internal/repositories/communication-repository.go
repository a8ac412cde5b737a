package repositories

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
)

var communicationColumns = []string{
	"id::text", "workflow_id::text", "participant_type", "participant_id::text",
	"message_content", "message_type", "COALESCE(channel, 'in_app')",
	"COALESCE(delivery_status, 'pending')", "delivery_error", "parent_message_id::text",
	"created_at", "delivered_at",
}

type CommunicationRepositoryInterface interface {
	CreateCommunication(ctx context.Context, tx pgx.Tx, c entities.CommunicationThread) (*entities.CommunicationThread, error)
	FindCommunication(ctx context.Context, tx pgx.Tx, id string) (*entities.CommunicationThread, error)
	MarkDelivered(ctx context.Context, tx pgx.Tx, id string) error
	MarkFailed(ctx context.Context, tx pgx.Tx, id, reason string) error
	GetTimeline(ctx context.Context, trackingNumber string) ([]entities.TimelineEntry, error)
}

type CommunicationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCommunicationRepository(storage *pgxpool.Pool, logger *zap.Logger) CommunicationRepositoryInterface {
	return &CommunicationRepository{storage: storage, logger: logger}
}

func scanCommunication(row pgx.Row) (*entities.CommunicationThread, error) {
	var c entities.CommunicationThread
	err := row.Scan(
		&c.ID, &c.WorkflowID, &c.ParticipantType, &c.ParticipantID,
		&c.MessageContent, &c.MessageType, &c.Channel,
		&c.DeliveryStatus, &c.DeliveryError, &c.ParentMessageID,
		&c.CreatedAt, &c.DeliveredAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

// CreateCommunication inserts a thread message in delivery state pending.
func (r *CommunicationRepository) CreateCommunication(ctx context.Context, tx pgx.Tx, c entities.CommunicationThread) (*entities.CommunicationThread, error) {
	query := fmt.Sprintf(`
		INSERT INTO communication_threads (workflow_id, participant_type, participant_id, message_content,
		                                   message_type, channel, parent_message_id, is_automated, delivery_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '%s')
		RETURNING %s`, entities.DeliveryPending, strings.Join(communicationColumns, ", "))

	isAutomated := c.ParticipantType == entities.ParticipantSystem
	created, err := scanCommunication(getQuerier(r.storage, tx).QueryRow(ctx, query,
		c.WorkflowID, c.ParticipantType, c.ParticipantID, c.MessageContent,
		c.MessageType, c.Channel, c.ParentMessageID, isAutomated,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create communication: %w", err)
	}
	return created, nil
}

func (r *CommunicationRepository) FindCommunication(ctx context.Context, tx pgx.Tx, id string) (*entities.CommunicationThread, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(communicationColumns...).
		From("communication_threads").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanCommunication(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *CommunicationRepository) MarkDelivered(ctx context.Context, tx pgx.Tx, id string) error {
	query := fmt.Sprintf(`
		UPDATE communication_threads
		SET delivery_status = '%s', delivery_error = NULL, delivered_at = NOW()
		WHERE id = $1`, entities.DeliverySent)
	return r.execOne(ctx, tx, query, id)
}

func (r *CommunicationRepository) MarkFailed(ctx context.Context, tx pgx.Tx, id, reason string) error {
	query := fmt.Sprintf(`
		UPDATE communication_threads
		SET delivery_status = '%s', delivery_error = $2
		WHERE id = $1`, entities.DeliveryFailed)
	return r.execOne(ctx, tx, query, id, reason)
}

func (r *CommunicationRepository) execOne(ctx context.Context, tx pgx.Tx, query string, args ...any) error {
	result, err := getQuerier(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

// GetTimeline returns the unified timeline of one workflow, newest first.
func (r *CommunicationRepository) GetTimeline(ctx context.Context, trackingNumber string) ([]entities.TimelineEntry, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(
			"id::text", "workflow_id::text", "tracking_number", "participant_type", "participant_id::text",
			"participant_name", "message_subject", "message_content", "message_type",
			"COALESCE(channel, 'in_app')", "COALESCE(is_read, false)", "COALESCE(action_required, false)",
			"created_at", "COALESCE(delivery_status, 'pending')", "COALESCE(response_count, 0)",
			"parent_message_id::text",
		).
		From("unified_communication_timeline").
		Where(sq.Eq{"tracking_number": trackingNumber}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	timeline := make([]entities.TimelineEntry, 0)
	for rows.Next() {
		var e entities.TimelineEntry
		if err := rows.Scan(
			&e.ID, &e.WorkflowID, &e.TrackingNumber, &e.ParticipantType, &e.ParticipantID,
			&e.ParticipantName, &e.MessageSubject, &e.MessageContent, &e.MessageType,
			&e.Channel, &e.IsRead, &e.ActionRequired,
			&e.CreatedAt, &e.DeliveryStatus, &e.ResponseCount,
			&e.ParentMessageID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan timeline entry: %w", err)
		}
		timeline = append(timeline, e)
	}
	return timeline, rows.Err()
}
