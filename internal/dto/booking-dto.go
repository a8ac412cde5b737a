package dto

type AvailableSlotsDTO struct {
	Date        string `json:"date" validate:"required,iso_date"`
	ServiceType string `json:"serviceType"`
}

type AvailableSlotsResultDTO struct {
	AvailableSlots []string `json:"availableSlots"`
	BookedSlots    []string `json:"bookedSlots"`
}

type CreateBookingDTO struct {
	CustomerID          string `json:"customerId" validate:"required"`
	ServiceType         string `json:"serviceType" validate:"required,max=100"`
	BookingDate         string `json:"bookingDate" validate:"required,iso_date"`
	TimeSlot            string `json:"timeSlot" validate:"required,time_slot"`
	PickupAddressID     string `json:"pickupAddressId"`
	DeliveryAddressID   string `json:"deliveryAddressId"`
	SpecialInstructions string `json:"specialInstructions"`
	IdempotencyKey      string `json:"idempotencyKey" validate:"omitempty,max=255"`
}

type CustomerBookingsDTO struct {
	CustomerID string `json:"customerId" validate:"required"`
}

type UpdateBookingStatusDTO struct {
	BookingID string `json:"bookingId" validate:"required"`
	Status    string `json:"status" validate:"required,max=50"`
}

type CancelBookingDTO struct {
	BookingID string `json:"bookingId" validate:"required"`
}
