// Package publisher emits delivery events to NATS.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/bibletext/dailyverse/internal/dispatcher"
)

// NATSClient interface to allow mocking.
type NATSClient interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher implements dispatcher.EventPublisher.
type NATSPublisher struct {
	conn NATSClient
}

// NewNATSPublisher creates a new publisher over an established connection.
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// PublishDelivery publishes one delivery event on its outcome subject.
func (p *NATSPublisher) PublishDelivery(_ context.Context, event dispatcher.DeliveryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.conn.Publish(event.Subject(), data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}
