package dto

import "shipping-system/internal/entities"

type CreateWorkflowDTO struct {
	TrackingNumber   string   `json:"trackingNumber" validate:"required,max=255"`
	CustomerID       string   `json:"customerId" validate:"required"`
	WorkflowType     string   `json:"workflowType" validate:"omitempty,max=50"`
	PriorityLevel    *int     `json:"priorityLevel" validate:"omitempty,gte=1,lte=5"`
	EstimatedRevenue *float64 `json:"estimatedRevenue" validate:"omitempty,gte=0"`
	SourceChannel    string   `json:"sourceChannel" validate:"omitempty,max=50"`
	IdempotencyKey   string   `json:"idempotencyKey" validate:"omitempty,max=255"`
}

type AssignStaffDTO struct {
	TrackingNumber string `json:"trackingNumber" validate:"required"`
	StaffID        string `json:"staffId" validate:"required"`
}

// UpdateWorkflowStatusDTO takes the new status from messageContent; newStatus
// is accepted as an alias.
type UpdateWorkflowStatusDTO struct {
	TrackingNumber string `json:"trackingNumber" validate:"required"`
	MessageContent string `json:"messageContent"`
	NewStatus      string `json:"newStatus"`
}

func (d UpdateWorkflowStatusDTO) Status() string {
	if d.MessageContent != "" {
		return d.MessageContent
	}
	return d.NewStatus
}

type SendCommunicationDTO struct {
	TrackingNumber  string `json:"trackingNumber" validate:"required"`
	ParticipantType string `json:"participantType" validate:"omitempty,participant_type"`
	ParticipantID   string `json:"participantId"`
	CustomerID      string `json:"customerId"`
	StaffID         string `json:"staffId"`
	MessageContent  string `json:"messageContent" validate:"required"`
	MessageType     string `json:"messageType" validate:"omitempty,max=50"`
	Channel         string `json:"channel" validate:"omitempty,max=50"`
	ParentMessageID string `json:"parentMessageId"`
}

type TimelineRequestDTO struct {
	TrackingNumber string `json:"trackingNumber" validate:"required"`
}

type WorkflowResultDTO struct {
	Workflow *entities.WorkflowInstance `json:"workflow"`
	Message  string                     `json:"message"`
}

type CommunicationResultDTO struct {
	Communication *entities.CommunicationThread `json:"communication"`
	Message       string                        `json:"message"`
}

type TimelineDTO struct {
	Timeline []entities.TimelineEntry `json:"timeline"`
	Count    int                      `json:"count"`
}

type InsightsSummaryDTO struct {
	TotalWorkflows  int64   `json:"total_workflows"`
	TotalRevenue    float64 `json:"total_revenue"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
	TotalCustomers  int     `json:"total_customers"`
	// DaysReported is 0 when there is no revenue data; avg_satisfaction is
	// then 0 rather than undefined.
	DaysReported int `json:"days_reported"`
}

type BusinessInsightsDTO struct {
	DailyRevenue     []entities.DailyRevenue     `json:"daily_revenue"`
	StaffPerformance []entities.StaffPerformance `json:"staff_performance"`
	CustomerInsights []entities.CustomerInsight  `json:"customer_insights"`
	Summary          InsightsSummaryDTO          `json:"summary"`
}
