package models

import "time"

// Event types
const (
	EventTypeSessionCreated         = "CHECKOUT_SESSION_CREATED"
	EventTypeOrderRecorded          = "ORDER_RECORDED"
	EventTypeLoyaltyCredited        = "LOYALTY_CREDITED"
	EventTypeLoyaltyCreditRequested = "LOYALTY_CREDIT_REQUESTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionCreatedEvent published when a checkout session is opened with the gateway
type SessionCreatedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
	ItemCount int    `json:"item_count"`
	Currency  string `json:"currency"`
}

// OrderRecordedEvent published when a paid session is converted into an order
type OrderRecordedEvent struct {
	BaseEvent
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id,omitempty"`
	TotalAmount int64  `json:"total_amount"`
	Currency    string `json:"currency"`
}

// LoyaltyCreditedEvent published when a loyalty credit lands
type LoyaltyCreditedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Points    int64  `json:"points"`
}

// LoyaltyCreditRequestedEvent published when a synchronous credit fails and
// should be retried by the loyalty worker
type LoyaltyCreditRequestedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Points    int64  `json:"points"`
}
