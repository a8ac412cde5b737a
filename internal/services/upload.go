package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"path"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"shipping-system/internal/dto"
	"shipping-system/internal/entities"
	"shipping-system/internal/repositories"
	apperrors "shipping-system/pkg/errors"
	"shipping-system/pkg/filestorage"
)

const (
	photoPrefix    = "package-photos"
	documentPrefix = "customer-documents"
)

type UploadServiceInterface interface {
	UploadPackagePhoto(ctx context.Context, takenBy string, in dto.UploadPhotoDTO) (*dto.UploadPhotoResultDTO, error)
	UploadCustomerDocument(ctx context.Context, userID string, in dto.UploadDocumentDTO) (*dto.UploadDocumentResultDTO, error)
}

// UploadService writes the file first and its metadata row second. When the
// row cannot be written the file is removed again.
type UploadService struct {
	files           filestorage.FileStorageInterface
	mediaRepo       repositories.MediaRepositoryInterface
	participantRepo repositories.ParticipantRepositoryInterface
	logger          *zap.Logger
}

func NewUploadService(
	files filestorage.FileStorageInterface,
	mediaRepo repositories.MediaRepositoryInterface,
	participantRepo repositories.ParticipantRepositoryInterface,
	logger *zap.Logger,
) UploadServiceInterface {
	return &UploadService{files: files, mediaRepo: mediaRepo, participantRepo: participantRepo, logger: logger}
}

func (s *UploadService) UploadPackagePhoto(ctx context.Context, takenBy string, in dto.UploadPhotoDTO) (*dto.UploadPhotoResultDTO, error) {
	if in.ImageData == "" || in.FileName == "" || in.ShipmentID == "" || in.PhotoType == "" {
		return nil, apperrors.NewValidationError("Image data, filename, shipment ID, and photo type are required")
	}
	mimeType, data, err := decodeDataURL(in.ImageData)
	if err != nil {
		return nil, err
	}

	stored, size, err := s.files.Save(bytes.NewReader(data), in.FileName, path.Join(photoPrefix, in.ShipmentID, in.PhotoType))
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Upload failed")
	}
	publicURL := s.files.PublicURL(stored)

	photo, err := s.mediaRepo.CreatePackagePhoto(ctx, nil, entities.PackagePhoto{
		ShipmentID: in.ShipmentID,
		PhotoType:  in.PhotoType,
		PhotoURL:   publicURL,
		Caption:    in.Caption,
		TakenBy:    null.NewString(takenBy, isUUID(takenBy)),
		FileSize:   size,
		MimeType:   mimeType,
	})
	if err != nil {
		s.discard(stored)
		return nil, apperrors.NewPersistenceError(err, "Database insert failed")
	}

	s.logger.Info("package photo uploaded",
		zap.String("shipment_id", in.ShipmentID),
		zap.String("photo_type", in.PhotoType),
		zap.Int64("file_size", size))
	return &dto.UploadPhotoResultDTO{PublicURL: publicURL, Photo: photo}, nil
}

// UploadCustomerDocument only accepts documents for the caller's own account.
func (s *UploadService) UploadCustomerDocument(ctx context.Context, userID string, in dto.UploadDocumentDTO) (*dto.UploadDocumentResultDTO, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("Authorization header is required")
	}
	if in.FileData == "" || in.FileName == "" || in.DocumentType == "" || in.CustomerID == "" {
		return nil, apperrors.NewValidationError("File data, filename, document type, and customer ID are required")
	}

	account, err := s.participantRepo.FindCustomerByUserID(ctx, nil, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewPersistenceError(err, "Failed to verify customer account")
	}
	if account == nil || account.ID != in.CustomerID {
		return nil, apperrors.NewValidationError("Access denied: Invalid customer ID or insufficient permissions")
	}

	mimeType, data, err := decodeDataURL(in.FileData)
	if err != nil {
		return nil, err
	}
	if in.MimeType != "" {
		mimeType = in.MimeType
	}
	if strings.HasSuffix(strings.ToLower(in.FileName), ".pdf") {
		mimeType = "application/pdf"
	}

	stored, size, err := s.files.Save(bytes.NewReader(data), in.FileName, path.Join(documentPrefix, in.CustomerID, in.DocumentType))
	if err != nil {
		return nil, apperrors.NewPersistenceError(err, "Upload failed")
	}
	publicURL := s.files.PublicURL(stored)

	doc, err := s.mediaRepo.CreateCustomerDocument(ctx, nil, entities.CustomerDocument{
		CustomerID:           in.CustomerID,
		DocumentType:         in.DocumentType,
		DocumentName:         in.FileName,
		FileURL:              publicURL,
		FileSize:             size,
		MimeType:             mimeType,
		AssociatedShipmentID: null.NewString(in.ShipmentID, in.ShipmentID != ""),
	})
	if err != nil {
		s.discard(stored)
		return nil, apperrors.NewPersistenceError(err, "Database insert failed")
	}

	s.logger.Info("customer document uploaded",
		zap.String("customer_id", in.CustomerID),
		zap.String("document_type", in.DocumentType),
		zap.Int64("file_size", size))
	return &dto.UploadDocumentResultDTO{PublicURL: publicURL, Document: doc}, nil
}

func (s *UploadService) discard(stored string) {
	if err := s.files.Delete(stored); err != nil {
		s.logger.Warn("failed to remove orphaned upload", zap.String("path", stored), zap.Error(err))
	}
}

// decodeDataURL splits "data:<mime>;base64,<payload>" into its mime type and
// decoded bytes.
func decodeDataURL(raw string) (string, []byte, error) {
	header, payload, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", nil, apperrors.NewValidationError("File data must be a base64 data URL")
	}
	mimeType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, apperrors.NewValidationError("File data is not valid base64")
	}
	if len(data) == 0 {
		return "", nil, apperrors.NewValidationError("File is empty")
	}
	return mimeType, data, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
