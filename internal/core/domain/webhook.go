package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebhookStatus represents the delivery state of a merchant callback.
type WebhookStatus string

const (
	WebhookStatusPending   WebhookStatus = "PENDING"
	WebhookStatusDelivered WebhookStatus = "DELIVERED"
	WebhookStatusFailed    WebhookStatus = "FAILED" // schedule exhausted, awaiting manual resend
)

// WebhookRetrySchedule is the fixed backoff applied after each failed
// delivery attempt. After the last interval the delivery is marked FAILED.
var WebhookRetrySchedule = []time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	1 * time.Hour,
	6 * time.Hour,
}

// WebhookDelivery records one order-event notification and its retries.
// Retried attempts increment Attempt on the same record.
type WebhookDelivery struct {
	ID          uuid.UUID     `json:"id"`
	OrderID     uuid.UUID     `json:"order_id"`
	MerchantID  uuid.UUID     `json:"merchant_id"`
	URL         string        `json:"url"`
	Payload     string        `json:"payload"` // JSON snapshot taken at enqueue time
	Signature   string        `json:"signature"`
	Attempt     int           `json:"attempt"`
	Status      WebhookStatus `json:"status"`
	NextRetryAt *time.Time    `json:"next_retry_at,omitempty"`
	LastHTTP    *int          `json:"last_http_status,omitempty"`
	LastError   *string       `json:"last_error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
