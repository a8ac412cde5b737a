package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusCancelled = "cancelled"
)

type ServiceBooking struct {
	ID                  string      `json:"id"`
	CustomerID          string      `json:"customer_id"`
	ServiceType         string      `json:"service_type"`
	BookingDate         string      `json:"booking_date"`
	TimeSlot            string      `json:"time_slot"`
	PickupAddressID     null.String `json:"pickup_address_id"`
	DeliveryAddressID   null.String `json:"delivery_address_id"`
	SpecialInstructions null.String `json:"special_instructions"`
	Status              string      `json:"status"`
	EstimatedCost       float64     `json:"estimated_cost"`
	ConfirmationNumber  string      `json:"confirmation_number"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// BookingWithCustomer is a booking enriched for the staff dashboard.
type BookingWithCustomer struct {
	ServiceBooking
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}
