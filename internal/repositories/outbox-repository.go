package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
)

const outboxColumns = `id::text, aggregate_type, aggregate_id, event_type, routing_key, payload, status,
	retry_count, last_error, next_attempt_at, created_at, processed_at`

type OutboxRepositoryInterface interface {
	Enqueue(ctx context.Context, tx pgx.Tx, event entities.OutboxEvent) (*entities.OutboxEvent, error)
	// ClaimNext locks the oldest due pending event for the rest of tx.
	ClaimNext(ctx context.Context, tx pgx.Tx, now time.Time) (*entities.OutboxEvent, error)
	MarkSent(ctx context.Context, tx pgx.Tx, id string, at time.Time) error
	MarkRetry(ctx context.Context, tx pgx.Tx, id, reason string, nextAttempt time.Time) error
	MarkFailed(ctx context.Context, tx pgx.Tx, id, reason string, at time.Time) error
}

type OutboxRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOutboxRepository(storage *pgxpool.Pool, logger *zap.Logger) OutboxRepositoryInterface {
	return &OutboxRepository{storage: storage, logger: logger}
}

func scanOutbox(row pgx.Row) (*entities.OutboxEvent, error) {
	var e entities.OutboxEvent
	err := row.Scan(
		&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.RoutingKey, &e.Payload, &e.Status,
		&e.RetryCount, &e.LastError, &e.NextAttemptAt, &e.CreatedAt, &e.ProcessedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &e, nil
}

// Enqueue keeps a caller-assigned id; the broker message id is the event id,
// so it must be stable across redeliveries.
func (r *OutboxRepository) Enqueue(ctx context.Context, tx pgx.Tx, e entities.OutboxEvent) (*entities.OutboxEvent, error) {
	query := fmt.Sprintf(`
		INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, routing_key, payload, status, next_attempt_at)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, '%s', NOW())
		RETURNING %s`, entities.OutboxPending, outboxColumns)

	created, err := scanOutbox(getQuerier(r.storage, tx).QueryRow(ctx, query,
		e.ID, e.AggregateType, e.AggregateID, e.EventType, e.RoutingKey, []byte(e.Payload),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue outbox event: %w", err)
	}
	return created, nil
}

// ClaimNext locks the oldest due pending event for the rest of tx. SKIP LOCKED
// lets several dispatchers drain the table without waiting on each other; a
// locked row is simply somebody else's.
func (r *OutboxRepository) ClaimNext(ctx context.Context, tx pgx.Tx, now time.Time) (*entities.OutboxEvent, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM outbox_events
		WHERE status = '%s' AND next_attempt_at <= $1
		ORDER BY next_attempt_at, created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED`, outboxColumns, entities.OutboxPending)

	return scanOutbox(tx.QueryRow(ctx, query, now))
}

func (r *OutboxRepository) MarkSent(ctx context.Context, tx pgx.Tx, id string, at time.Time) error {
	_, err := getQuerier(r.storage, tx).Exec(ctx,
		`UPDATE outbox_events SET status = $1, processed_at = $2, last_error = NULL WHERE id = $3`,
		entities.OutboxSent, at, id)
	return err
}

// MarkRetry keeps the event pending; it is due again at nextAttempt.
func (r *OutboxRepository) MarkRetry(ctx context.Context, tx pgx.Tx, id, reason string, nextAttempt time.Time) error {
	_, err := getQuerier(r.storage, tx).Exec(ctx,
		`UPDATE outbox_events SET retry_count = retry_count + 1, last_error = $1, next_attempt_at = $2 WHERE id = $3`,
		reason, nextAttempt, id)
	return err
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, tx pgx.Tx, id, reason string, at time.Time) error {
	_, err := getQuerier(r.storage, tx).Exec(ctx,
		`UPDATE outbox_events SET status = $1, retry_count = retry_count + 1, last_error = $2, processed_at = $3 WHERE id = $4`,
		entities.OutboxFailed, reason, at, id)
	return err
}
