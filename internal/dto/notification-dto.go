package dto

import "shipping-system/internal/entities"

// SendEmailDTO leaves presence checks to the service so a missing field is
// reported with one combined message.
type SendEmailDTO struct {
	ToEmail      string            `json:"toEmail" validate:"omitempty,email"`
	Subject      string            `json:"subject" validate:"omitempty,max=255"`
	HTMLContent  string            `json:"htmlContent"`
	TextContent  string            `json:"textContent"`
	TemplateType string            `json:"templateType"`
	TemplateData map[string]string `json:"templateData"`
	CustomerID   string            `json:"customerId"`
	ShipmentID   string            `json:"shipmentId"`
}

type SendEmailResultDTO struct {
	Status          string                    `json:"status"`
	Message         string                    `json:"message"`
	NotificationLog *entities.NotificationLog `json:"notificationLog"`
}

type SendWhatsAppDTO struct {
	PhoneNumber  string `json:"phoneNumber" validate:"omitempty,max=50"`
	Message      string `json:"message" validate:"omitempty,max=4096"`
	TemplateName string `json:"templateName" validate:"omitempty,max=100"`
	CustomerID   string `json:"customerId"`
	ShipmentID   string `json:"shipmentId"`
}

type SendWhatsAppResultDTO struct {
	Status          string                    `json:"status"`
	Message         string                    `json:"message"`
	NotificationLog *entities.NotificationLog `json:"notificationLog"`
}
