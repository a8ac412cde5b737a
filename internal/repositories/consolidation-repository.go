package repositories

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
)

var consolidationColumns = []string{
	"id::text", "customer_id::text", "consolidation_name", "COALESCE(status, 'pending')", "destination_country",
	"COALESCE(total_weight, 0)::float8", "COALESCE(total_packages, 0)", "COALESCE(estimated_savings, 0)::float8",
	"consolidated_shipment_id::text", "special_instructions",
	"COALESCE(requested_date, created_at)", "created_at", "updated_at",
}

var consolidationItemColumns = []string{
	"id::text", "consolidation_request_id::text", "shipment_id::text", "tracking_number",
	"package_description", "weight_lbs::float8", "dimensions",
	"COALESCE(added_date, created_at)", "created_at",
}

type ConsolidationRepositoryInterface interface {
	CreateRequest(ctx context.Context, tx pgx.Tx, req entities.ConsolidationRequest) (*entities.ConsolidationRequest, error)
	LockRequest(ctx context.Context, tx pgx.Tx, id string) error
	AddItem(ctx context.Context, tx pgx.Tx, item entities.ConsolidationItem) (*entities.ConsolidationItem, error)
	RemoveItem(ctx context.Context, tx pgx.Tx, itemID, requestID string) error
	SumItems(ctx context.Context, tx pgx.Tx, requestID string) (packages int, weight float64, err error)
	UpdateTotals(ctx context.Context, tx pgx.Tx, requestID string, totals entities.ConsolidationTotals) error
	GetCustomerConsolidations(ctx context.Context, customerID string) ([]entities.ConsolidationRequest, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id, status string, consolidatedShipmentID null.String) (*entities.ConsolidationRequest, error)
}

type ConsolidationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewConsolidationRepository(storage *pgxpool.Pool, logger *zap.Logger) ConsolidationRepositoryInterface {
	return &ConsolidationRepository{storage: storage, logger: logger}
}

func scanConsolidation(row pgx.Row) (*entities.ConsolidationRequest, error) {
	var c entities.ConsolidationRequest
	err := row.Scan(
		&c.ID, &c.CustomerID, &c.ConsolidationName, &c.Status, &c.DestinationCountry,
		&c.TotalWeight, &c.TotalPackages, &c.EstimatedSavings,
		&c.ConsolidatedShipmentID, &c.SpecialInstructions,
		&c.RequestedDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func scanConsolidationItem(row pgx.Row) (*entities.ConsolidationItem, error) {
	var i entities.ConsolidationItem
	err := row.Scan(
		&i.ID, &i.ConsolidationRequestID, &i.ShipmentID, &i.TrackingNumber,
		&i.PackageDescription, &i.WeightLbs, &i.Dimensions,
		&i.AddedDate, &i.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &i, nil
}

func (r *ConsolidationRepository) CreateRequest(ctx context.Context, tx pgx.Tx, req entities.ConsolidationRequest) (*entities.ConsolidationRequest, error) {
	query := fmt.Sprintf(`
		INSERT INTO consolidation_requests (customer_id, consolidation_name, status, destination_country,
		                                    special_instructions, requested_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW(), NOW())
		RETURNING %s`, strings.Join(consolidationColumns, ", "))

	created, err := scanConsolidation(getQuerier(r.storage, tx).QueryRow(ctx, query,
		req.CustomerID, req.ConsolidationName, req.Status, req.DestinationCountry, req.SpecialInstructions,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create consolidation request: %w", err)
	}
	return created, nil
}

// LockRequest takes a row lock on the request for the rest of tx. Every item
// change locks its request first, so SumItems and UpdateTotals see a stable
// item set. A missing request reads as ErrNotFound.
func (r *ConsolidationRepository) LockRequest(ctx context.Context, tx pgx.Tx, id string) error {
	var locked string
	err := tx.QueryRow(ctx, `SELECT id::text FROM consolidation_requests WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	return translateError(err)
}

// AddItem falls back to the shipment's tracking number when none is given.
func (r *ConsolidationRepository) AddItem(ctx context.Context, tx pgx.Tx, item entities.ConsolidationItem) (*entities.ConsolidationItem, error) {
	query := fmt.Sprintf(`
		INSERT INTO consolidation_items (consolidation_request_id, shipment_id, tracking_number,
		                                 package_description, weight_lbs, dimensions, added_date, created_at)
		VALUES ($1, $2,
		        COALESCE(NULLIF($3, ''), (SELECT s.tracking_number FROM shipments s WHERE s.id = $2), ''),
		        $4, $5, $6, NOW(), NOW())
		RETURNING %s`, strings.Join(consolidationItemColumns, ", "))

	created, err := scanConsolidationItem(getQuerier(r.storage, tx).QueryRow(ctx, query,
		item.ConsolidationRequestID, item.ShipmentID, item.TrackingNumber,
		item.PackageDescription, item.WeightLbs, item.Dimensions,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to add consolidation item: %w", err)
	}
	return created, nil
}

func (r *ConsolidationRepository) RemoveItem(ctx context.Context, tx pgx.Tx, itemID, requestID string) error {
	result, err := getQuerier(r.storage, tx).Exec(ctx,
		`DELETE FROM consolidation_items WHERE id = $1 AND consolidation_request_id = $2`, itemID, requestID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

// SumItems aggregates the request's items; a missing weight counts as zero.
func (r *ConsolidationRepository) SumItems(ctx context.Context, tx pgx.Tx, requestID string) (int, float64, error) {
	var packages int
	var weight float64
	err := getQuerier(r.storage, tx).QueryRow(ctx, `
		SELECT COUNT(*)::int, COALESCE(SUM(weight_lbs), 0)::float8
		FROM consolidation_items
		WHERE consolidation_request_id = $1`, requestID).Scan(&packages, &weight)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sum consolidation items: %w", err)
	}
	return packages, weight, nil
}

func (r *ConsolidationRepository) UpdateTotals(ctx context.Context, tx pgx.Tx, requestID string, totals entities.ConsolidationTotals) error {
	result, err := getQuerier(r.storage, tx).Exec(ctx, `
		UPDATE consolidation_requests
		SET total_packages = $1, total_weight = $2, estimated_savings = $3, updated_at = NOW()
		WHERE id = $4`,
		totals.TotalPackages, totals.TotalWeight, totals.EstimatedSavings, requestID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

// GetCustomerConsolidations returns the customer's requests newest first,
// each with its items.
func (r *ConsolidationRepository) GetCustomerConsolidations(ctx context.Context, customerID string) ([]entities.ConsolidationRequest, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	requests, err := queryAll(ctx, r.storage,
		psql.Select(consolidationColumns...).
			From("consolidation_requests").
			Where(sq.Eq{"customer_id": customerID}).
			OrderBy("created_at DESC"),
		func(rows pgx.Rows) (entities.ConsolidationRequest, error) {
			c, err := scanConsolidation(rows)
			if err != nil {
				return entities.ConsolidationRequest{}, err
			}
			return *c, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to get consolidations: %w", err)
	}
	if len(requests) == 0 {
		return requests, nil
	}

	ids := make([]string, 0, len(requests))
	for _, req := range requests {
		ids = append(ids, req.ID)
	}
	items, err := queryAll(ctx, r.storage,
		psql.Select(consolidationItemColumns...).
			From("consolidation_items").
			Where(sq.Eq{"consolidation_request_id": ids}).
			OrderBy("added_date ASC"),
		func(rows pgx.Rows) (entities.ConsolidationItem, error) {
			i, err := scanConsolidationItem(rows)
			if err != nil {
				return entities.ConsolidationItem{}, err
			}
			return *i, nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to get consolidation items: %w", err)
	}

	byRequest := make(map[string][]entities.ConsolidationItem, len(requests))
	for _, item := range items {
		byRequest[item.ConsolidationRequestID] = append(byRequest[item.ConsolidationRequestID], item)
	}
	for i := range requests {
		requests[i].Items = byRequest[requests[i].ID]
		if requests[i].Items == nil {
			requests[i].Items = []entities.ConsolidationItem{}
		}
	}
	return requests, nil
}

func (r *ConsolidationRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id, status string, consolidatedShipmentID null.String) (*entities.ConsolidationRequest, error) {
	query := fmt.Sprintf(`
		UPDATE consolidation_requests
		SET status = $1,
		    consolidated_shipment_id = COALESCE($2, consolidated_shipment_id),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING %s`, strings.Join(consolidationColumns, ", "))

	return scanConsolidation(getQuerier(r.storage, tx).QueryRow(ctx, query, status, consolidatedShipmentID, id))
}
