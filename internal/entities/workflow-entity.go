package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

const (
	WorkflowStatusIntake    = "intake"
	WorkflowStatusAssigned  = "assigned"
	WorkflowStatusCompleted = "completed"
)

type WorkflowInstance struct {
	ID                 string       `json:"id"`
	TrackingNumber     string       `json:"tracking_number"`
	CustomerID         null.String  `json:"customer_id"`
	AssignedStaffID    null.String  `json:"assigned_staff_id"`
	WorkflowStatus     string       `json:"workflow_status"`
	WorkflowType       string       `json:"workflow_type"`
	PriorityLevel      int          `json:"priority_level"`
	SourceChannel      string       `json:"source_channel"`
	IntakeAt           time.Time    `json:"intake_at"`
	AssignedAt         null.Time    `json:"assigned_at"`
	CompletedAt        null.Time    `json:"completed_at"`
	EstimatedRevenue   float64      `json:"estimated_revenue"`
	ActualRevenue      null.Float64 `json:"actual_revenue"`
	IsCustomerNotified bool         `json:"is_customer_notified"`
	IsStaffNotified    bool         `json:"is_staff_notified"`
	IsBusinessUpdated  bool         `json:"is_business_updated"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}
