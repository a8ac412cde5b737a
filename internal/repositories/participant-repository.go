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

// The preference columns are nullable with defaults, so reads coalesce them
// to the same defaults.
var customerColumns = []string{
	"id::text", "user_id::text", "full_name", "email", "phone", "primary_address_id::text",
	"COALESCE(whatsapp_notifications, TRUE)", "COALESCE(email_notifications, TRUE)",
	"COALESCE(sms_notifications, FALSE)", "COALESCE(is_active, TRUE)",
	"COALESCE(created_at, NOW())", "COALESCE(updated_at, NOW())",
}

var addressColumns = []string{
	"id::text", "customer_id::text", "COALESCE(address_type, 'delivery')", "street_address", "city",
	"state_province", "postal_code", "country", "COALESCE(is_default, FALSE)",
	"COALESCE(created_at, NOW())", "COALESCE(updated_at, NOW())",
}

type ParticipantRepositoryInterface interface {
	FindCustomer(ctx context.Context, tx pgx.Tx, id string) (*entities.CustomerAccount, error)
	FindCustomerByUserID(ctx context.Context, tx pgx.Tx, userID string) (*entities.CustomerAccount, error)
	CreateCustomerAccount(ctx context.Context, tx pgx.Tx, customer entities.CustomerAccount) (*entities.CustomerAccount, error)
	UpdateCustomerAccount(ctx context.Context, tx pgx.Tx, userID string, patch entities.CustomerAccountPatch, at time.Time) (*entities.CustomerAccount, error)
	FindStaff(ctx context.Context, tx pgx.Tx, id string) (*entities.StaffUser, error)
	UpsertCustomer(ctx context.Context, tx pgx.Tx, customer entities.CustomerAccount) (string, error)
	UpsertStaff(ctx context.Context, tx pgx.Tx, staff entities.StaffUser) (string, error)

	ListAddresses(ctx context.Context, customerID string) ([]entities.CustomerAddress, error)
	CreateAddress(ctx context.Context, tx pgx.Tx, address entities.CustomerAddress) (*entities.CustomerAddress, error)
	UpdateAddress(ctx context.Context, tx pgx.Tx, customerID, addressID string, patch entities.CustomerAddressPatch, at time.Time) (*entities.CustomerAddress, error)
	DeleteAddress(ctx context.Context, tx pgx.Tx, customerID, addressID string) error
	ClearDefaultAddress(ctx context.Context, tx pgx.Tx, customerID string) error
}

type ParticipantRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewParticipantRepository(storage *pgxpool.Pool, logger *zap.Logger) ParticipantRepositoryInterface {
	return &ParticipantRepository{storage: storage, logger: logger}
}

func scanCustomer(row pgx.Row) (*entities.CustomerAccount, error) {
	var c entities.CustomerAccount
	err := row.Scan(
		&c.ID, &c.UserID, &c.FullName, &c.Email, &c.Phone, &c.PrimaryAddressID,
		&c.WhatsAppNotifications, &c.EmailNotifications, &c.SMSNotifications, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func scanAddress(row pgx.Row) (*entities.CustomerAddress, error) {
	var a entities.CustomerAddress
	err := row.Scan(
		&a.ID, &a.CustomerID, &a.AddressType, &a.StreetAddress, &a.City,
		&a.StateProvince, &a.PostalCode, &a.Country, &a.IsDefault,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

func (r *ParticipantRepository) findOneCustomer(ctx context.Context, q Querier, where sq.Eq) (*entities.CustomerAccount, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(customerColumns...).
		From("customer_accounts").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build customer query: %w", err)
	}
	return scanCustomer(q.QueryRow(ctx, query, args...))
}

func (r *ParticipantRepository) FindCustomer(ctx context.Context, tx pgx.Tx, id string) (*entities.CustomerAccount, error) {
	return r.findOneCustomer(ctx, getQuerier(r.storage, tx), sq.Eq{"id": id})
}

func (r *ParticipantRepository) FindCustomerByUserID(ctx context.Context, tx pgx.Tx, userID string) (*entities.CustomerAccount, error) {
	return r.findOneCustomer(ctx, getQuerier(r.storage, tx), sq.Eq{"user_id": userID})
}

func (r *ParticipantRepository) CreateCustomerAccount(ctx context.Context, tx pgx.Tx, c entities.CustomerAccount) (*entities.CustomerAccount, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert("customer_accounts").
		SetMap(map[string]interface{}{
			"user_id":                c.UserID,
			"full_name":              c.FullName,
			"email":                  c.Email,
			"phone":                  c.Phone,
			"whatsapp_notifications": c.WhatsAppNotifications,
			"email_notifications":    c.EmailNotifications,
			"sms_notifications":      c.SMSNotifications,
		}).
		Suffix("RETURNING " + strings.Join(customerColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build customer insert: %w", err)
	}
	created, err := scanCustomer(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create customer account: %w", err)
	}
	return created, nil
}

// UpdateCustomerAccount applies the non-nil fields of patch to the account
// owned by userID.
func (r *ParticipantRepository) UpdateCustomerAccount(ctx context.Context, tx pgx.Tx, userID string, p entities.CustomerAccountPatch, at time.Time) (*entities.CustomerAccount, error) {
	set := map[string]interface{}{"updated_at": at}
	putString(set, "full_name", p.FullName)
	putString(set, "phone", p.Phone)
	putString(set, "primary_address_id", p.PrimaryAddressID)
	putBool(set, "whatsapp_notifications", p.WhatsAppNotifications)
	putBool(set, "email_notifications", p.EmailNotifications)
	putBool(set, "sms_notifications", p.SMSNotifications)

	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update("customer_accounts").
		SetMap(set).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + strings.Join(customerColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build customer update: %w", err)
	}
	return scanCustomer(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *ParticipantRepository) FindStaff(ctx context.Context, tx pgx.Tx, id string) (*entities.StaffUser, error) {
	var s entities.StaffUser
	err := getQuerier(r.storage, tx).QueryRow(ctx,
		`SELECT id::text, email, full_name, role FROM staff_users WHERE id = $1`, id,
	).Scan(&s.ID, &s.Email, &s.FullName, &s.Role)
	if err != nil {
		return nil, translateError(err)
	}
	return &s, nil
}

// UpsertCustomer keys customers by email.
func (r *ParticipantRepository) UpsertCustomer(ctx context.Context, tx pgx.Tx, c entities.CustomerAccount) (string, error) {
	var id string
	err := getQuerier(r.storage, tx).QueryRow(ctx, `
		INSERT INTO customer_accounts (full_name, email, phone)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name, updated_at = NOW()
		RETURNING id::text`, c.FullName, c.Email, c.Phone).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert customer %s: %w", c.Email.String, err)
	}
	return id, nil
}

func (r *ParticipantRepository) UpsertStaff(ctx context.Context, tx pgx.Tx, s entities.StaffUser) (string, error) {
	var id string
	err := getQuerier(r.storage, tx).QueryRow(ctx, `
		INSERT INTO staff_users (email, full_name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name, role = EXCLUDED.role
		RETURNING id::text`, s.Email, s.FullName, s.Role).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert staff %s: %w", s.Email, err)
	}
	return id, nil
}

// ListAddresses returns the default address first, then newest first.
func (r *ParticipantRepository) ListAddresses(ctx context.Context, customerID string) ([]entities.CustomerAddress, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(addressColumns...).
		From("customer_addresses").
		Where(sq.Eq{"customer_id": customerID}).
		OrderBy("is_default DESC NULLS LAST", "created_at DESC")

	return queryAll(ctx, r.storage, builder, func(rows pgx.Rows) (entities.CustomerAddress, error) {
		a, err := scanAddress(rows)
		if err != nil {
			return entities.CustomerAddress{}, err
		}
		return *a, nil
	})
}

func (r *ParticipantRepository) CreateAddress(ctx context.Context, tx pgx.Tx, a entities.CustomerAddress) (*entities.CustomerAddress, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert("customer_addresses").
		SetMap(map[string]interface{}{
			"customer_id":    a.CustomerID,
			"address_type":   a.AddressType,
			"street_address": a.StreetAddress,
			"city":           a.City,
			"state_province": a.StateProvince,
			"postal_code":    a.PostalCode,
			"country":        a.Country,
			"is_default":     a.IsDefault,
		}).
		Suffix("RETURNING " + strings.Join(addressColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build address insert: %w", err)
	}
	created, err := scanAddress(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to add address: %w", err)
	}
	return created, nil
}

// UpdateAddress only touches an address that belongs to customerID; any
// other id reads as not found.
func (r *ParticipantRepository) UpdateAddress(ctx context.Context, tx pgx.Tx, customerID, addressID string, p entities.CustomerAddressPatch, at time.Time) (*entities.CustomerAddress, error) {
	set := map[string]interface{}{"updated_at": at}
	putString(set, "address_type", p.AddressType)
	putString(set, "street_address", p.StreetAddress)
	putString(set, "city", p.City)
	putString(set, "state_province", p.StateProvince)
	putString(set, "postal_code", p.PostalCode)
	putString(set, "country", p.Country)
	putBool(set, "is_default", p.IsDefault)

	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Update("customer_addresses").
		SetMap(set).
		Where(sq.Eq{"id": addressID, "customer_id": customerID}).
		Suffix("RETURNING " + strings.Join(addressColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build address update: %w", err)
	}
	return scanAddress(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *ParticipantRepository) DeleteAddress(ctx context.Context, tx pgx.Tx, customerID, addressID string) error {
	result, err := getQuerier(r.storage, tx).Exec(ctx,
		`DELETE FROM customer_addresses WHERE id = $1 AND customer_id = $2`, addressID, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if result.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}

func (r *ParticipantRepository) ClearDefaultAddress(ctx context.Context, tx pgx.Tx, customerID string) error {
	_, err := getQuerier(r.storage, tx).Exec(ctx,
		`UPDATE customer_addresses SET is_default = FALSE WHERE customer_id = $1 AND is_default`, customerID)
	if err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}

func putString(set map[string]interface{}, column string, v *string) {
	if v != nil {
		set[column] = *v
	}
}

func putBool(set map[string]interface{}, column string, v *bool) {
	if v != nil {
		set[column] = *v
	}
}
