package entities

import "github.com/aarondl/null/v8"

type DailyRevenue struct {
	Date              string  `json:"date"`
	TotalWorkflows    int64   `json:"total_workflows"`
	DailyRevenue      float64 `json:"daily_revenue"`
	AvgSatisfaction   float64 `json:"avg_satisfaction"`
	AvgProcessingTime float64 `json:"avg_processing_time"`
}

type StaffPerformance struct {
	StaffEmail            string  `json:"staff_email"`
	TotalAssignments      int64   `json:"total_assignments"`
	AvgCustomerRating     float64 `json:"avg_customer_rating"`
	TotalRevenueGenerated float64 `json:"total_revenue_generated"`
	AvgProcessingTime     float64 `json:"avg_processing_time"`
}

type CustomerInsight struct {
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   null.String `json:"customer_email"`
	TotalShipments  int64       `json:"total_shipments"`
	TotalSpent      float64     `json:"total_spent"`
	AvgSatisfaction float64     `json:"avg_satisfaction"`
	LastActivity    null.Time   `json:"last_activity"`
	RepeatCustomer  bool        `json:"repeat_customer"`
}
