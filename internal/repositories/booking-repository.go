package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shipping-system/internal/entities"
	apperrors "shipping-system/pkg/errors"
)

var bookingColumns = []string{
	"b.id::text", "b.customer_id::text", "b.service_type", "to_char(b.booking_date, 'YYYY-MM-DD')", "b.time_slot",
	"b.pickup_address_id::text", "b.delivery_address_id::text", "b.special_instructions",
	"COALESCE(b.status, 'pending')", "COALESCE(b.estimated_cost, 0)::float8", "b.confirmation_number",
	"b.created_at", "b.updated_at",
}

// ErrConfirmationTaken means the generated confirmation number already exists.
var ErrConfirmationTaken = errors.New("confirmation number already taken")

type BookingRepositoryInterface interface {
	LockDate(ctx context.Context, tx pgx.Tx, date string) error
	GetBookedSlots(ctx context.Context, tx pgx.Tx, date string) ([]string, error)
	CreateBooking(ctx context.Context, tx pgx.Tx, booking entities.ServiceBooking) (*entities.ServiceBooking, error)
	GetCustomerBookings(ctx context.Context, customerID string) ([]entities.ServiceBooking, error)
	GetAllBookings(ctx context.Context) ([]entities.BookingWithCustomer, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id, status string) (*entities.ServiceBooking, error)
}

type BookingRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewBookingRepository(storage *pgxpool.Pool, logger *zap.Logger) BookingRepositoryInterface {
	return &BookingRepository{storage: storage, logger: logger}
}

func scanBooking(row pgx.Row, extra ...any) (*entities.ServiceBooking, error) {
	var b entities.ServiceBooking
	dest := []any{
		&b.ID, &b.CustomerID, &b.ServiceType, &b.BookingDate, &b.TimeSlot,
		&b.PickupAddressID, &b.DeliveryAddressID, &b.SpecialInstructions,
		&b.Status, &b.EstimatedCost, &b.ConfirmationNumber,
		&b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, translateError(err)
	}
	return &b, nil
}

// returning strips the table alias so the column list fits RETURNING.
func returning(columns []string) string {
	return strings.ReplaceAll(strings.Join(columns, ", "), "b.", "")
}

// LockDate serializes slot booking for one date until tx ends. The lock is a
// transaction-scoped advisory lock keyed by the date, so a second booking for
// the same date waits here and then sees the first one in GetBookedSlots.
// Other dates are not blocked.
func (r *BookingRepository) LockDate(ctx context.Context, tx pgx.Tx, date string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "service_bookings:"+date)
	if err != nil {
		return fmt.Errorf("failed to lock booking date: %w", err)
	}
	return nil
}

// GetBookedSlots lists the occupied slots of date. Cancelled bookings free their slot.
func (r *BookingRepository) GetBookedSlots(ctx context.Context, tx pgx.Tx, date string) ([]string, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("DISTINCT time_slot").
		From("service_bookings").
		Where("booking_date = ?::date", date).
		Where(sq.NotEq{"status": entities.BookingStatusCancelled})

	return queryAll(ctx, getQuerier(r.storage, tx), builder, func(rows pgx.Rows) (string, error) {
		var slot string
		err := rows.Scan(&slot)
		return slot, err
	})
}

// CreateBooking returns ErrConfirmationTaken when the confirmation number
// collides with an existing booking.
func (r *BookingRepository) CreateBooking(ctx context.Context, tx pgx.Tx, b entities.ServiceBooking) (*entities.ServiceBooking, error) {
	query := fmt.Sprintf(`
		INSERT INTO service_bookings (customer_id, service_type, booking_date, time_slot, pickup_address_id,
		                              delivery_address_id, special_instructions, status, estimated_cost,
		                              confirmation_number, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (confirmation_number) DO NOTHING
		RETURNING %s`, returning(bookingColumns))

	created, err := scanBooking(getQuerier(r.storage, tx).QueryRow(ctx, query,
		b.CustomerID, b.ServiceType, b.BookingDate, b.TimeSlot, b.PickupAddressID,
		b.DeliveryAddressID, b.SpecialInstructions, b.Status, b.EstimatedCost,
		b.ConfirmationNumber,
	))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrConfirmationTaken
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return created, nil
}

func (r *BookingRepository) GetCustomerBookings(ctx context.Context, customerID string) ([]entities.ServiceBooking, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(bookingColumns...).
		From("service_bookings b").
		Where(sq.Eq{"b.customer_id": customerID}).
		OrderBy("b.booking_date DESC", "b.created_at DESC")

	return queryAll(ctx, r.storage, builder, func(rows pgx.Rows) (entities.ServiceBooking, error) {
		b, err := scanBooking(rows)
		if err != nil {
			return entities.ServiceBooking{}, err
		}
		return *b, nil
	})
}

// GetAllBookings enriches every booking with its customer in one join.
func (r *BookingRepository) GetAllBookings(ctx context.Context) ([]entities.BookingWithCustomer, error) {
	columns := append(append([]string{}, bookingColumns...),
		"COALESCE(ca.full_name, 'Unknown Customer')", "COALESCE(ca.email, '')")
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(columns...).
		From("service_bookings b").
		LeftJoin("customer_accounts ca ON ca.id = b.customer_id").
		OrderBy("b.booking_date DESC", "b.created_at DESC")

	return queryAll(ctx, r.storage, builder, func(rows pgx.Rows) (entities.BookingWithCustomer, error) {
		var out entities.BookingWithCustomer
		b, err := scanBooking(rows, &out.CustomerName, &out.CustomerEmail)
		if err != nil {
			return out, err
		}
		out.ServiceBooking = *b
		return out, nil
	})
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id, status string) (*entities.ServiceBooking, error) {
	query := fmt.Sprintf(`
		UPDATE service_bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s`, returning(bookingColumns))

	return scanBooking(getQuerier(r.storage, tx).QueryRow(ctx, query, status, id))
}
