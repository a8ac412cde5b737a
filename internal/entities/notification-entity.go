package entities

import (
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
)

const (
	NotificationSent   = "sent"
	NotificationFailed = "failed"
	NotificationDemo   = "demo"
)

type NotificationLog struct {
	ID               string      `json:"id"`
	CustomerID       null.String `json:"customer_id"`
	ShipmentID       null.String `json:"shipment_id"`
	NotificationType string      `json:"notification_type"`
	Channel          string      `json:"channel"`
	Recipient        string      `json:"recipient"`
	Subject          null.String `json:"subject"`
	MessageContent   null.String `json:"message_content"`
	Status           string      `json:"status"`
	ErrorMessage     null.String `json:"error_message"`
	SentAt           null.Time   `json:"sent_at"`
	CreatedAt        time.Time   `json:"created_at"`
}

const (
	OutboxPending    = "pending"
	OutboxProcessing = "processing"
	OutboxSent       = "sent"
	OutboxFailed     = "failed"
)

// OutboxEvent is a side effect recorded in the same transaction as the
// change that caused it and delivered later by the dispatcher.
type OutboxEvent struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	RoutingKey    string          `json:"routing_key"`
	Payload       json.RawMessage `json:"payload"`
	Status        string          `json:"status"`
	RetryCount    int             `json:"retry_count"`
	LastError     null.String     `json:"last_error"`
	NextAttemptAt time.Time       `json:"next_attempt_at"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   null.Time       `json:"processed_at"`
}
