package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus represents the outcome of a delivery attempt.
type DeliveryStatus string

// DeliveryStatus constants define the possible log entry outcomes.
const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// DeliveryLog is one append-only audit record: exactly one per subscriber
// per run in which a delivery was attempted. Never mutated or deleted.
type DeliveryLog struct {
	ID             uuid.UUID      `json:"id" gorm:"column:id;type:uuid;primaryKey"`
	SubscriberID   uuid.UUID      `json:"subscriber_id" gorm:"column:subscriber_id;type:uuid"`
	VerseReference string         `json:"verse_reference" gorm:"column:verse_reference"`
	VerseText      string         `json:"verse_text" gorm:"column:verse_text"`
	DeliveryMethod DeliveryMethod `json:"delivery_method" gorm:"column:delivery_method"`
	Status         DeliveryStatus `json:"status" gorm:"column:status"`
	ErrorMessage   *string        `json:"error_message,omitempty" gorm:"column:error_message"`
	SentAt         time.Time      `json:"sent_at" gorm:"column:sent_at;autoCreateTime"`
}

// TableName maps the model onto the delivery_logs table.
func (DeliveryLog) TableName() string {
	return "delivery_logs"
}
