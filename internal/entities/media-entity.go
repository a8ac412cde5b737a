package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type PackagePhoto struct {
	ID         string      `json:"id"`
	ShipmentID string      `json:"shipment_id"`
	PhotoType  string      `json:"photo_type"`
	PhotoURL   string      `json:"photo_url"`
	Caption    string      `json:"caption"`
	TakenBy    null.String `json:"taken_by"`
	FileSize   int64       `json:"file_size"`
	MimeType   string      `json:"mime_type"`
	CreatedAt  time.Time   `json:"created_at"`
}

type CustomerDocument struct {
	ID                   string      `json:"id"`
	CustomerID           string      `json:"customer_id"`
	DocumentType         string      `json:"document_type"`
	DocumentName         string      `json:"document_name"`
	FileURL              string      `json:"file_url"`
	FileSize             int64       `json:"file_size"`
	MimeType             string      `json:"mime_type"`
	AssociatedShipmentID null.String `json:"associated_shipment_id"`
	IsVerified           bool        `json:"is_verified"`
	UploadDate           time.Time   `json:"upload_date"`
	CreatedAt            time.Time   `json:"created_at"`
}
