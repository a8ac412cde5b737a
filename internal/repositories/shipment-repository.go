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

var shipmentColumns = []string{
	"id::text", "tracking_number", "customer_name", "customer_email",
	"destination_address", "destination_country", "package_type", "package_description",
	"service_type", "weight_lbs::float8", "dimensions", "status",
	"estimated_delivery", "received_at", "shipped_at", "delivered_at", "created_at",
}

var trackingEventColumns = []string{
	"id::text", "shipment_id::text", "event_type", "event_description",
	"location", "staff_member", `"timestamp"`, "notes",
}

type ShipmentRepositoryInterface interface {
	CreateShipment(ctx context.Context, tx pgx.Tx, shipment entities.Shipment) error
	FindByTrackingNumber(ctx context.Context, tx pgx.Tx, trackingNumber string) (*entities.Shipment, error)
	FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Shipment, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id, status string, at time.Time) error
	GetTrackingEvents(ctx context.Context, shipmentID string) ([]entities.TrackingEvent, error)
	CreateTrackingEvent(ctx context.Context, tx pgx.Tx, event entities.TrackingEvent) (*entities.TrackingEvent, error)
	CreateScanLog(ctx context.Context, tx pgx.Tx, scan entities.ScanLog) error
	GetAvailableForConsolidation(ctx context.Context, customerEmail string) ([]entities.Shipment, error)
	ListShipments(ctx context.Context, filter entities.ShipmentFilter) ([]entities.Shipment, error)
	CountOpenByStatus(ctx context.Context) (map[string]int, error)
}

type ShipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewShipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) ShipmentRepositoryInterface {
	return &ShipmentRepository{storage: storage, logger: logger}
}

func scanShipment(row pgx.Row) (*entities.Shipment, error) {
	var s entities.Shipment
	err := row.Scan(
		&s.ID, &s.TrackingNumber, &s.CustomerName, &s.CustomerEmail,
		&s.DestinationAddress, &s.DestinationCountry, &s.PackageType, &s.PackageDescription,
		&s.ServiceType, &s.WeightLbs, &s.Dimensions, &s.Status,
		&s.EstimatedDelivery, &s.ReceivedAt, &s.ShippedAt, &s.DeliveredAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &s, nil
}

// CreateShipment is idempotent on tracking number.
func (r *ShipmentRepository) CreateShipment(ctx context.Context, tx pgx.Tx, s entities.Shipment) error {
	_, err := getQuerier(r.storage, tx).Exec(ctx, `
		INSERT INTO shipments (tracking_number, customer_name, customer_email, destination_address,
		                       destination_country, package_type, package_description, service_type,
		                       weight_lbs, dimensions, status, estimated_delivery, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (tracking_number) DO NOTHING`,
		s.TrackingNumber, s.CustomerName, s.CustomerEmail, s.DestinationAddress,
		s.DestinationCountry, s.PackageType, s.PackageDescription, s.ServiceType,
		s.WeightLbs, s.Dimensions, s.Status, s.EstimatedDelivery, s.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create shipment %s: %w", s.TrackingNumber, err)
	}
	return nil
}

func (r *ShipmentRepository) findOne(ctx context.Context, q Querier, where sq.Eq, lock bool) (*entities.Shipment, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(shipmentColumns...).
		From("shipments").
		Where(where)
	// Lookups inside a transaction lock the row, so concurrent status updates
	// for one shipment apply one after another.
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanShipment(q.QueryRow(ctx, query, args...))
}

// FindByTrackingNumber locks the row when called inside a transaction.
func (r *ShipmentRepository) FindByTrackingNumber(ctx context.Context, tx pgx.Tx, trackingNumber string) (*entities.Shipment, error) {
	return r.findOne(ctx, getQuerier(r.storage, tx), sq.Eq{"tracking_number": trackingNumber}, tx != nil)
}

func (r *ShipmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id string) (*entities.Shipment, error) {
	return r.findOne(ctx, getQuerier(r.storage, tx), sq.Eq{"id": id}, false)
}

// UpdateStatus stamps received_at, shipped_at or delivered_at for the
// matching status.
func (r *ShipmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id, status string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE shipments
		SET status = $1,
		    received_at  = CASE WHEN $1 = '%s' THEN $2 ELSE received_at END,
		    shipped_at   = CASE WHEN $1 = '%s' THEN $2 ELSE shipped_at END,
		    delivered_at = CASE WHEN $1 = '%s' THEN $2 ELSE delivered_at END
		WHERE id = $3`,
		entities.ShipmentStatusReceived, entities.ShipmentStatusShipped, entities.ShipmentStatusDelivered)

	result, err := getQuerier(r.storage, tx).Exec(ctx, query, status, at, id)
	if err != nil {
		return fmt.Errorf("failed to update shipment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

func (r *ShipmentRepository) GetTrackingEvents(ctx context.Context, shipmentID string) ([]entities.TrackingEvent, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(trackingEventColumns...).
		From("tracking_events").
		Where(sq.Eq{"shipment_id": shipmentID}).
		OrderBy(`"timestamp" ASC`)

	return queryAll(ctx, r.storage, builder, func(rows pgx.Rows) (entities.TrackingEvent, error) {
		var e entities.TrackingEvent
		err := rows.Scan(&e.ID, &e.ShipmentID, &e.EventType, &e.EventDescription,
			&e.Location, &e.StaffMember, &e.Timestamp, &e.Notes)
		return e, err
	})
}

func (r *ShipmentRepository) CreateTrackingEvent(ctx context.Context, tx pgx.Tx, e entities.TrackingEvent) (*entities.TrackingEvent, error) {
	query := fmt.Sprintf(`
		INSERT INTO tracking_events (shipment_id, event_type, event_description, location, staff_member, "timestamp", notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, strings.Join(trackingEventColumns, ", "))

	var created entities.TrackingEvent
	err := getQuerier(r.storage, tx).QueryRow(ctx, query,
		e.ShipmentID, e.EventType, e.EventDescription, e.Location, e.StaffMember, e.Timestamp, e.Notes,
	).Scan(&created.ID, &created.ShipmentID, &created.EventType, &created.EventDescription,
		&created.Location, &created.StaffMember, &created.Timestamp, &created.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracking event: %w", translateError(err))
	}
	return &created, nil
}

func (r *ShipmentRepository) CreateScanLog(ctx context.Context, tx pgx.Tx, s entities.ScanLog) error {
	_, err := getQuerier(r.storage, tx).Exec(ctx, `
		INSERT INTO scan_logs (shipment_id, barcode, scan_type, scanned_by, scan_timestamp, device_info, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ShipmentID, s.Barcode, s.ScanType, s.ScannedBy, s.ScanTimestamp, s.DeviceInfo, s.Location,
	)
	if err != nil {
		return fmt.Errorf("failed to create scan log: %w", err)
	}
	return nil
}

// GetAvailableForConsolidation lists the customer's received shipments that
// are not part of any consolidation yet.
func (r *ShipmentRepository) GetAvailableForConsolidation(ctx context.Context, customerEmail string) ([]entities.Shipment, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(shipmentColumns...).
		From("shipments s").
		Where(sq.Eq{"s.customer_email": customerEmail, "s.status": entities.ShipmentStatusReceived}).
		Where("NOT EXISTS (SELECT 1 FROM consolidation_items ci WHERE ci.shipment_id = s.id)").
		OrderBy("s.created_at DESC")

	return queryAll(ctx, r.storage, builder, func(rows pgx.Rows) (entities.Shipment, error) {
		s, err := scanShipment(rows)
		if err != nil {
			return entities.Shipment{}, err
		}
		return *s, nil
	})
}

// ListShipments pages through shipments newest first. Search matches the
// tracking number, customer name or customer email case-insensitively.
func (r *ShipmentRepository) ListShipments(ctx context.Context, filter entities.ShipmentFilter) ([]entities.Shipment, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(shipmentColumns...).
		From("shipments").
		OrderBy("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset)

	if filter.Status != "" && filter.Status != "all" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pat := "%" + search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"tracking_number": pat},
			sq.ILike{"customer_name": pat},
			sq.ILike{"customer_email": pat},
		})
	}

	shipments, err := queryAll(ctx, r.storage, builder, func(rows pgx.Rows) (entities.Shipment, error) {
		s, err := scanShipment(rows)
		if err != nil {
			return entities.Shipment{}, err
		}
		return *s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	return shipments, nil
}

// CountOpenByStatus counts shipments that are not delivered yet, per status.
func (r *ShipmentRepository) CountOpenByStatus(ctx context.Context) (map[string]int, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("status", "COUNT(*)").
		From("shipments").
		Where(sq.NotEq{"status": entities.ShipmentStatusDelivered}).
		GroupBy("status")

	type statusCount struct {
		status string
		count  int
	}
	rows, err := queryAll(ctx, r.storage, builder, func(rows pgx.Rows) (statusCount, error) {
		var c statusCount
		err := rows.Scan(&c.status, &c.count)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count shipments: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, c := range rows {
		counts[c.status] = c.count
	}
	return counts, nil
}
