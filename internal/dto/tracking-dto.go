package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"shipping-system/internal/entities"
)

type TrackShipmentDTO struct {
	TrackingNumber string `json:"trackingNumber"`
}

type TrackedShipmentDTO struct {
	ID                 string    `json:"id"`
	TrackingNumber     string    `json:"tracking_number"`
	CustomerName       string    `json:"customer_name"`
	DestinationAddress string    `json:"destination_address"`
	DestinationCountry string    `json:"destination_country"`
	PackageType        string    `json:"package_type"`
	ServiceType        string    `json:"service_type"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	EstimatedDelivery  null.Time `json:"estimated_delivery"`
}

type StatusInfoDTO struct {
	Display     string `json:"display"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
	Color       string `json:"color"`
}

type TrackShipmentResultDTO struct {
	Shipment       TrackedShipmentDTO       `json:"shipment"`
	TrackingEvents []entities.TrackingEvent `json:"tracking_events"`
	StatusInfo     StatusInfoDTO            `json:"status_info"`
	LastUpdated    time.Time                `json:"last_updated"`
}

type UpdateTrackingStatusDTO struct {
	TrackingNumber string `json:"tracking_number" validate:"omitempty,max=255"`
	NewStatus      string `json:"new_status" validate:"omitempty,max=50"`
	StaffEmail     string `json:"staff_email"`
	Notes          string `json:"notes"`
	Location       string `json:"location"`
	DeviceInfo     string `json:"device_info"`
}

type UpdateTrackingResultDTO struct {
	Success        bool      `json:"success"`
	ShipmentID     string    `json:"shipment_id"`
	TrackingNumber string    `json:"tracking_number"`
	NewStatus      string    `json:"new_status"`
	Timestamp      time.Time `json:"timestamp"`
}

type TrackingInfoDTO struct {
	TrackingNumber string `json:"tracking_number" validate:"omitempty,max=255"`
}

// TrackingInfoResultDTO carries the whole shipment row, with
// estimated_delivery filled in from the destination when it was never set.
type TrackingInfoResultDTO struct {
	Shipment       entities.Shipment        `json:"shipment"`
	TrackingEvents []entities.TrackingEvent `json:"tracking_events"`
	StatusInfo     StatusInfoDTO            `json:"status_info"`
	LastUpdated    time.Time                `json:"last_updated"`
}

type StaffShipmentsDTO struct {
	StatusFilter string `json:"status_filter" validate:"omitempty,max=50"`
	SearchTerm   string `json:"search_term" validate:"omitempty,max=255"`
	Limit        *int   `json:"limit" validate:"omitempty,min=1,max=500"`
	Offset       *int   `json:"offset" validate:"omitempty,min=0"`
}

// ShipmentStatsDTO counts open shipments, so Delivered stays zero.
type ShipmentStatsDTO struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Received   int `json:"received"`
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Delivered  int `json:"delivered"`
}

type PaginationDTO struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

type StaffShipmentsResultDTO struct {
	Shipments  []entities.Shipment `json:"shipments"`
	Stats      ShipmentStatsDTO    `json:"stats"`
	Pagination PaginationDTO       `json:"pagination"`
}
