package seeders

import "shipping-system/internal/entities"

var staffData = []entities.StaffUser{
	{Email: "ops@chrisdanenterprises.com", FullName: "Operations Desk", Role: "admin"},
	{Email: "warehouse@chrisdanenterprises.com", FullName: "Warehouse Team", Role: "staff"},
	{Email: "support@chrisdanenterprises.com", FullName: "Customer Support", Role: "staff"},
}

var customersData = []struct {
	FullName string
	Email    string
	Phone    string
}{
	{FullName: "Jane Brown", Email: "jane.brown@example.com", Phone: "+1 718 555 0101"},
	{FullName: "Marcus Campbell", Email: "marcus.campbell@example.com", Phone: "+1 718 555 0102"},
	{FullName: "Alicia Reid", Email: "alicia.reid@example.com", Phone: ""},
}

var shipmentsData = []struct {
	TrackingNumber     string
	CustomerIndex      int
	DestinationAddress string
	DestinationCountry string
	PackageType        string
	Description        string
	ServiceType        string
	WeightLbs          float64
	Dimensions         string
	Status             string
	DeliveryInDays     int
}{
	{"CE10000001", 0, "12 Hope Road, Kingston", "Jamaica", "box", "Kitchen appliances", "standard", 18.5, "20x14x12", entities.ShipmentStatusReceived, 10},
	{"CE10000002", 0, "12 Hope Road, Kingston", "Jamaica", "barrel", "Household goods", "standard", 62, "", entities.ShipmentStatusShipped, 7},
	{"CE10000003", 1, "4 Main Street, Georgetown", "Guyana", "envelope", "Documents", "express", 0.5, "", entities.ShipmentStatusReceived, 3},
	{"CE10000004", 2, "88 Frederick Street, Port of Spain", "Trinidad and Tobago", "box", "Clothing", "standard", 9, "16x12x8", entities.ShipmentStatusDelivered, 0},
}
