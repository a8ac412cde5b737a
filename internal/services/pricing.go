package services

import "math"

// Prices are in USD.
const (
	// Flat rate for each package shipped on its own.
	individualPackageCost = 45.0
	// A consolidated parcel costs consolidatedPerPound per pound but never
	// less than consolidatedMinimum.
	consolidatedMinimum  = 35.0
	consolidatedPerPound = 3.0
	// Assumed weight of a package with no recorded weight.
	defaultPackageWeight = 5.0
	// Price of a service type missing from serviceCosts.
	defaultServiceCost = 25.0
)

// serviceCosts holds the estimate stored on a booking when it is created.
var serviceCosts = map[string]float64{
	"pickup":           25,
	"delivery":         30,
	"express_pickup":   40,
	"express_delivery": 50,
	"barrel_service":   35,
	"consolidation":    15,
}

// ServiceCost is the estimated price of one booked service.
func ServiceCost(serviceType string) float64 {
	if cost, ok := serviceCosts[serviceType]; ok {
		return cost
	}
	return defaultServiceCost
}

// ConsolidationQuote prices packages shipped one by one against the same
// packages shipped as one consolidated parcel of totalWeight pounds.
func ConsolidationQuote(packages int, totalWeight float64) (individual, consolidated, savings float64) {
	if packages == 0 {
		return 0, 0, 0
	}
	individual = float64(packages) * individualPackageCost
	consolidated = math.Max(consolidatedMinimum, totalWeight*consolidatedPerPound)
	return individual, consolidated, individual - consolidated
}

// SavingsPercentage rounds savings as a share of individual; zero when there
// is nothing to compare against.
func SavingsPercentage(individual, savings float64) int {
	if individual == 0 {
		return 0
	}
	return int(math.Round(savings / individual * 100))
}
