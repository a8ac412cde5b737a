package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

const (
	ShipmentStatusPending    = "pending"
	ShipmentStatusReceived   = "received"
	ShipmentStatusProcessing = "processing"
	ShipmentStatusShipped    = "shipped"
	ShipmentStatusDelivered  = "delivered"
)

type Shipment struct {
	ID                 string       `json:"id"`
	TrackingNumber     string       `json:"tracking_number"`
	CustomerName       string       `json:"customer_name"`
	CustomerEmail      null.String  `json:"customer_email"`
	DestinationAddress string       `json:"destination_address"`
	DestinationCountry string       `json:"destination_country"`
	PackageType        string       `json:"package_type"`
	PackageDescription null.String  `json:"package_description"`
	ServiceType        string       `json:"service_type"`
	WeightLbs          null.Float64 `json:"weight_lbs"`
	Dimensions         null.String  `json:"dimensions"`
	Status             string       `json:"status"`
	EstimatedDelivery  null.Time    `json:"estimated_delivery"`
	ReceivedAt         null.Time    `json:"received_at"`
	ShippedAt          null.Time    `json:"shipped_at"`
	DeliveredAt        null.Time    `json:"delivered_at"`
	CreatedAt          time.Time    `json:"created_at"`
}

type TrackingEvent struct {
	ID               string      `json:"id"`
	ShipmentID       string      `json:"shipment_id"`
	EventType        string      `json:"event_type"`
	EventDescription null.String `json:"event_description"`
	Location         null.String `json:"location"`
	StaffMember      null.String `json:"staff_member"`
	Timestamp        time.Time   `json:"timestamp"`
	Notes            null.String `json:"notes"`
}

type ScanLog struct {
	ID            string    `json:"id"`
	ShipmentID    string    `json:"shipment_id"`
	Barcode       string    `json:"barcode"`
	ScanType      string    `json:"scan_type"`
	ScannedBy     string    `json:"scanned_by"`
	ScanTimestamp time.Time `json:"scan_timestamp"`
	DeviceInfo    string    `json:"device_info"`
	Location      string    `json:"location"`
}

// ShipmentFilter narrows the staff shipment list. An empty Status or Status
// "all" matches every status.
type ShipmentFilter struct {
	Status string
	Search string
	Limit  uint64
	Offset uint64
}
