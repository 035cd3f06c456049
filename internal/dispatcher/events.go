package dispatcher

import (
	"time"

	"github.com/google/uuid"

	"github.com/bibletext/dailyverse/internal/models"
)

// Event subjects for delivery outcomes.
const (
	SubjectVerseSent   = "verse.sent"
	SubjectVerseFailed = "verse.failed"
)

// DeliveryEvent is published after each delivery attempt.
type DeliveryEvent struct {
	SubscriberID uuid.UUID             `json:"subscriber_id"`
	Reference    string                `json:"reference"`
	Method       models.DeliveryMethod `json:"method"`
	Status       models.DeliveryStatus `json:"status"`
	At           time.Time             `json:"at"`
}

// Subject returns the NATS subject for the event's outcome.
func (e DeliveryEvent) Subject() string {
	if e.Status == models.DeliveryStatusSent {
		return SubjectVerseSent
	}
	return SubjectVerseFailed
}
