package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
)

const workflowTable = "workflow_instances"

var workflowColumns = []string{
	"id::text", "tracking_number", "customer_id::text", "assigned_staff_id::text",
	"workflow_status", "workflow_type", "COALESCE(priority_level, 3)", "COALESCE(source_channel, '')",
	"COALESCE(intake_at, created_at)", "assigned_at", "completed_at",
	"COALESCE(estimated_revenue, 0)::float8", "actual_revenue::float8",
	"COALESCE(is_customer_notified, false)", "COALESCE(is_staff_notified, false)", "COALESCE(is_business_updated, false)",
	"created_at", "updated_at",
}

// syncFlagColumns maps a participant type to the workflow flag its delivery sets.
var syncFlagColumns = map[string]string{
	entities.ParticipantCustomer: "is_customer_notified",
	entities.ParticipantStaff:    "is_staff_notified",
	entities.ParticipantBusiness: "is_business_updated",
	entities.ParticipantSystem:   "is_business_updated",
}

type WorkflowRepositoryInterface interface {
	CreateWorkflow(ctx context.Context, tx pgx.Tx, workflow entities.WorkflowInstance) (*entities.WorkflowInstance, error)
	FindByTrackingNumber(ctx context.Context, tx pgx.Tx, trackingNumber string) (*entities.WorkflowInstance, error)
	AssignStaff(ctx context.Context, tx pgx.Tx, trackingNumber, staffID string, at time.Time) (*entities.WorkflowInstance, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, trackingNumber, status string, at time.Time) (*entities.WorkflowInstance, error)
	MarkSynced(ctx context.Context, tx pgx.Tx, workflowID, participantType string) error
}

type WorkflowRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorkflowRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkflowRepositoryInterface {
	return &WorkflowRepository{storage: storage, logger: logger}
}

func scanWorkflow(row pgx.Row) (*entities.WorkflowInstance, error) {
	var w entities.WorkflowInstance
	err := row.Scan(
		&w.ID, &w.TrackingNumber, &w.CustomerID, &w.AssignedStaffID,
		&w.WorkflowStatus, &w.WorkflowType, &w.PriorityLevel, &w.SourceChannel,
		&w.IntakeAt, &w.AssignedAt, &w.CompletedAt,
		&w.EstimatedRevenue, &w.ActualRevenue,
		&w.IsCustomerNotified, &w.IsStaffNotified, &w.IsBusinessUpdated,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &w, nil
}

func (r *WorkflowRepository) CreateWorkflow(ctx context.Context, tx pgx.Tx, w entities.WorkflowInstance) (*entities.WorkflowInstance, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (tracking_number, customer_id, workflow_status, workflow_type, priority_level,
		                source_channel, intake_at, estimated_revenue, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $7, $7)
		RETURNING %s`, workflowTable, strings.Join(workflowColumns, ", "))

	created, err := scanWorkflow(getQuerier(r.storage, tx).QueryRow(ctx, query,
		w.TrackingNumber, w.CustomerID, w.WorkflowStatus, w.WorkflowType, w.PriorityLevel,
		w.SourceChannel, w.IntakeAt, w.EstimatedRevenue,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}
	return created, nil
}

func (r *WorkflowRepository) FindByTrackingNumber(ctx context.Context, tx pgx.Tx, trackingNumber string) (*entities.WorkflowInstance, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(workflowColumns...).
		From(workflowTable).
		Where(sq.Eq{"tracking_number": trackingNumber}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanWorkflow(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *WorkflowRepository) AssignStaff(ctx context.Context, tx pgx.Tx, trackingNumber, staffID string, at time.Time) (*entities.WorkflowInstance, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET assigned_staff_id = $1, assigned_at = $2, workflow_status = 'assigned', updated_at = $2
		WHERE tracking_number = $3
		RETURNING %s`, workflowTable, strings.Join(workflowColumns, ", "))

	return scanWorkflow(getQuerier(r.storage, tx).QueryRow(ctx, query, staffID, at, trackingNumber))
}

// UpdateStatus stores status verbatim; "completed" also stamps completed_at.
func (r *WorkflowRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, trackingNumber, status string, at time.Time) (*entities.WorkflowInstance, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET workflow_status = $1,
		    updated_at = $2,
		    completed_at = CASE WHEN $1 = '%s' THEN $2 ELSE completed_at END
		WHERE tracking_number = $3
		RETURNING %s`, workflowTable, entities.WorkflowStatusCompleted, strings.Join(workflowColumns, ", "))

	return scanWorkflow(getQuerier(r.storage, tx).QueryRow(ctx, query, status, at, trackingNumber))
}

func (r *WorkflowRepository) MarkSynced(ctx context.Context, tx pgx.Tx, workflowID, participantType string) error {
	column, ok := syncFlagColumns[participantType]
	if !ok {
		return fmt.Errorf("no sync flag for participant type %q", participantType)
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, updated_at = NOW() WHERE id = $1`, workflowTable, column)
	result, err := getQuerier(r.storage, tx).Exec(ctx, query, workflowID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}
