package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type ConsolidationRequest struct {
	ID                     string              `json:"id"`
	CustomerID             string              `json:"customer_id"`
	ConsolidationName      null.String         `json:"consolidation_name"`
	Status                 string              `json:"status"`
	DestinationCountry     string              `json:"destination_country"`
	TotalWeight            float64             `json:"total_weight"`
	TotalPackages          int                 `json:"total_packages"`
	EstimatedSavings       float64             `json:"estimated_savings"`
	ConsolidatedShipmentID null.String         `json:"consolidated_shipment_id"`
	SpecialInstructions    null.String         `json:"special_instructions"`
	RequestedDate          time.Time           `json:"requested_date"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
	Items                  []ConsolidationItem `json:"items,omitempty"`
}

type ConsolidationItem struct {
	ID                     string       `json:"id"`
	ConsolidationRequestID string       `json:"consolidation_request_id"`
	ShipmentID             null.String  `json:"shipment_id"`
	TrackingNumber         string       `json:"tracking_number"`
	PackageDescription     null.String  `json:"package_description"`
	WeightLbs              null.Float64 `json:"weight_lbs"`
	Dimensions             null.String  `json:"dimensions"`
	AddedDate              time.Time    `json:"added_date"`
	CreatedAt              time.Time    `json:"created_at"`
}

type ConsolidationTotals struct {
	TotalPackages    int     `json:"total_packages"`
	TotalWeight      float64 `json:"total_weight"`
	EstimatedSavings float64 `json:"estimated_savings"`
}
