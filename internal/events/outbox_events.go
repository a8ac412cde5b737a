package events

import "time"

// Outbox event types and the aggregates they belong to.
const (
	EventCommunicationCreated = "communication.created"
	EventShipmentStatusChange = "shipment.status_changed"

	AggregateCommunication = "communication"
	AggregateShipment      = "shipment"
)

// OutboxQueued is published on the in-process bus after a transaction that
// wrote outbox rows has committed. It only wakes the dispatcher.
type OutboxQueued struct {
	Source string
}

func (e OutboxQueued) Name() string {
	return "outbox.queued"
}

// CommunicationPayload is the body of a communication.created event and of
// the broker message published for it.
type CommunicationPayload struct {
	CommunicationID string    `json:"communication_id"`
	WorkflowID      string    `json:"workflow_id"`
	TrackingNumber  string    `json:"tracking_number"`
	ParticipantType string    `json:"participant_type"`
	ParticipantID   string    `json:"participant_id,omitempty"`
	MessageType     string    `json:"message_type"`
	MessageContent  string    `json:"message_content"`
	Channel         string    `json:"channel"`
	CreatedAt       time.Time `json:"created_at"`
}

// ShipmentPayload is the body of a shipment.status_changed event.
type ShipmentPayload struct {
	ShipmentID        string    `json:"shipment_id"`
	TrackingNumber    string    `json:"tracking_number"`
	Status            string    `json:"status"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email"`
	Destination       string    `json:"destination"`
	Location          string    `json:"location"`
	EstimatedDelivery string    `json:"estimated_delivery,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
