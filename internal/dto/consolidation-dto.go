package dto

type CreateConsolidationDTO struct {
	CustomerID          string `json:"customerId" validate:"required"`
	DestinationCountry  string `json:"destinationCountry" validate:"required,max=100"`
	SpecialInstructions string `json:"specialInstructions"`
	ConsolidationName   string `json:"consolidationName" validate:"omitempty,max=255"`
}

type AddPackageDTO struct {
	ConsolidationRequestID string   `json:"consolidationRequestId" validate:"required"`
	ShipmentID             string   `json:"shipmentId"`
	TrackingNumber         string   `json:"trackingNumber"`
	PackageDescription     string   `json:"packageDescription"`
	WeightLbs              *float64 `json:"weightLbs" validate:"omitempty,gte=0"`
	Dimensions             string   `json:"dimensions" validate:"omitempty,max=100"`
}

type RemovePackageDTO struct {
	ItemID                 string `json:"itemId" validate:"required"`
	ConsolidationRequestID string `json:"consolidationRequestId" validate:"required"`
}

type CustomerConsolidationsDTO struct {
	CustomerID string `json:"customerId" validate:"required"`
}

type AvailablePackagesDTO struct {
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
}

type SavingsPackageDTO struct {
	WeightLbs *float64 `json:"weight_lbs" validate:"omitempty,gte=0"`
}

type CalculateSavingsDTO struct {
	Packages []SavingsPackageDTO `json:"packages" validate:"required,dive"`
}

type SavingsDTO struct {
	IndividualCost    float64 `json:"individualCost"`
	ConsolidatedCost  float64 `json:"consolidatedCost"`
	Savings           float64 `json:"savings"`
	SavingsPercentage int     `json:"savingsPercentage"`
}

type UpdateConsolidationStatusDTO struct {
	ConsolidationID        string `json:"consolidationId" validate:"required"`
	Status                 string `json:"status" validate:"required,max=50"`
	ConsolidatedShipmentID string `json:"consolidatedShipmentId"`
}

type RemovePackageResultDTO struct {
	Success bool `json:"success"`
}
