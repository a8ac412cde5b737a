package dto

import "shipping-system/internal/entities"

// File fields carry data URLs ("data:<mime>;base64,<payload>").
type UploadPhotoDTO struct {
	ImageData  string `json:"imageData"`
	FileName   string `json:"fileName" validate:"omitempty,max=255"`
	ShipmentID string `json:"shipmentId" validate:"omitempty,uuid"`
	PhotoType  string `json:"photoType" validate:"omitempty,max=50,excludesall=/\\"`
	Caption    string `json:"caption"`
}

type UploadPhotoResultDTO struct {
	PublicURL string                 `json:"publicUrl"`
	Photo     *entities.PackagePhoto `json:"photo"`
}

type UploadDocumentDTO struct {
	FileData     string `json:"fileData"`
	FileName     string `json:"fileName" validate:"omitempty,max=255"`
	DocumentType string `json:"documentType" validate:"omitempty,max=100,excludesall=/\\"`
	CustomerID   string `json:"customerId" validate:"omitempty,uuid"`
	ShipmentID   string `json:"shipmentId" validate:"omitempty,uuid"`
	MimeType     string `json:"mimeType" validate:"omitempty,max=100"`
}

type UploadDocumentResultDTO struct {
	PublicURL string                     `json:"publicUrl"`
	Document  *entities.CustomerDocument `json:"document"`
}
