// Package mailer sends outbound email through a pluggable provider.
// SMS delivery uses the same primitive with a carrier gateway address.
package mailer

import "context"

// Message represents one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string // plain-text body; the only part SMS gateways relay
}

// Sender is the interface for outbound mail providers.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
