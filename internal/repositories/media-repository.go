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

var photoColumns = []string{
	"id::text", "shipment_id::text", "photo_type", "photo_url", "caption", "taken_by::text",
	"file_size", "mime_type", "created_at",
}

var documentColumns = []string{
	"id::text", "customer_id::text", "document_type", "document_name", "file_url", "file_size",
	"mime_type", "associated_shipment_id::text", "COALESCE(is_verified, FALSE)", "upload_date", "created_at",
}

// MediaRepositoryInterface stores metadata of uploaded files; the bytes live
// in file storage.
type MediaRepositoryInterface interface {
	CreatePackagePhoto(ctx context.Context, tx pgx.Tx, photo entities.PackagePhoto) (*entities.PackagePhoto, error)
	CreateCustomerDocument(ctx context.Context, tx pgx.Tx, doc entities.CustomerDocument) (*entities.CustomerDocument, error)
}

type MediaRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMediaRepository(storage *pgxpool.Pool, logger *zap.Logger) MediaRepositoryInterface {
	return &MediaRepository{storage: storage, logger: logger}
}

func (r *MediaRepository) CreatePackagePhoto(ctx context.Context, tx pgx.Tx, p entities.PackagePhoto) (*entities.PackagePhoto, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert("package_photos").
		SetMap(map[string]interface{}{
			"shipment_id": p.ShipmentID,
			"photo_type":  p.PhotoType,
			"photo_url":   p.PhotoURL,
			"caption":     p.Caption,
			"taken_by":    p.TakenBy,
			"file_size":   p.FileSize,
			"mime_type":   p.MimeType,
		}).
		Suffix("RETURNING " + strings.Join(photoColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build photo insert: %w", err)
	}

	var created entities.PackagePhoto
	err = getQuerier(r.storage, tx).QueryRow(ctx, query, args...).Scan(
		&created.ID, &created.ShipmentID, &created.PhotoType, &created.PhotoURL, &created.Caption, &created.TakenBy,
		&created.FileSize, &created.MimeType, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save package photo: %w", translateError(err))
	}
	return &created, nil
}

func (r *MediaRepository) CreateCustomerDocument(ctx context.Context, tx pgx.Tx, d entities.CustomerDocument) (*entities.CustomerDocument, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert("customer_documents").
		SetMap(map[string]interface{}{
			"customer_id":            d.CustomerID,
			"document_type":          d.DocumentType,
			"document_name":          d.DocumentName,
			"file_url":               d.FileURL,
			"file_size":              d.FileSize,
			"mime_type":              d.MimeType,
			"associated_shipment_id": d.AssociatedShipmentID,
		}).
		Suffix("RETURNING " + strings.Join(documentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build document insert: %w", err)
	}

	var created entities.CustomerDocument
	err = getQuerier(r.storage, tx).QueryRow(ctx, query, args...).Scan(
		&created.ID, &created.CustomerID, &created.DocumentType, &created.DocumentName, &created.FileURL, &created.FileSize,
		&created.MimeType, &created.AssociatedShipmentID, &created.IsVerified, &created.UploadDate, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save customer document: %w", translateError(err))
	}
	return &created, nil
}
