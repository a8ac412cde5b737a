package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

const (
	ParticipantCustomer = "customer"
	ParticipantStaff    = "staff"
	ParticipantSystem   = "system"
	ParticipantBusiness = "business"

	DeliveryPending = "pending"
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"

	ChannelEmail    = "email"
	ChannelInApp    = "in_app"
	ChannelWhatsApp = "whatsapp"
)

type CommunicationThread struct {
	ID              string      `json:"id"`
	WorkflowID      string      `json:"workflow_id"`
	ParticipantType string      `json:"participant_type"`
	ParticipantID   null.String `json:"participant_id"`
	MessageContent  string      `json:"message_content"`
	MessageType     string      `json:"message_type"`
	Channel         string      `json:"channel"`
	DeliveryStatus  string      `json:"delivery_status"`
	DeliveryError   null.String `json:"delivery_error"`
	ParentMessageID null.String `json:"parent_message_id"`
	CreatedAt       time.Time   `json:"created_at"`
	DeliveredAt     null.Time   `json:"delivered_at"`
}

// TimelineEntry is one row of unified_communication_timeline.
type TimelineEntry struct {
	ID              string      `json:"id"`
	WorkflowID      string      `json:"workflow_id"`
	TrackingNumber  string      `json:"tracking_number"`
	ParticipantType string      `json:"participant_type"`
	ParticipantID   null.String `json:"participant_id"`
	ParticipantName null.String `json:"participant_name"`
	MessageSubject  null.String `json:"message_subject"`
	MessageContent  string      `json:"message_content"`
	MessageType     string      `json:"message_type"`
	Channel         string      `json:"channel"`
	IsRead          bool        `json:"is_read"`
	ActionRequired  bool        `json:"action_required"`
	CreatedAt       time.Time   `json:"created_at"`
	DeliveryStatus  string      `json:"delivery_status"`
	ResponseCount   int         `json:"response_count"`
	ParentMessageID null.String `json:"parent_message_id"`
}
