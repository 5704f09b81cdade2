package payment

import (
	"encoding/json"
	"time"
)

// Payment is one charge attempt against an order. Reference is the
// per-attempt correlation key; MoneiPaymentID arrives with the gateway's
// answer.
type Payment struct {
	ID             uint
	OrderID        uint
	Reference      string
	MoneiPaymentID string
	Amount         int64
	Currency       string
	Status         string
	GenerateToken  bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WebhookEvent is a received notification, stored before processing so
// redeliveries can be detected by (provider, event id).
type WebhookEvent struct {
	ID         int64
	Provider   string
	EventID    string
	Reference  string
	Payload    json.RawMessage
	ReceivedAt time.Time
}
