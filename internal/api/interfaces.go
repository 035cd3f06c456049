package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bibletext/dailyverse/internal/dispatcher"
	"github.com/bibletext/dailyverse/internal/models"
	"github.com/bibletext/dailyverse/internal/subscription"
)

// Dispatcher runs a dispatch cycle.
type Dispatcher interface {
	Run(ctx context.Context, frequency models.Frequency, now time.Time) (*dispatcher.RunSummary, error)
}

// SubscriptionService handles the subscriber lifecycle.
type SubscriptionService interface {
	Signup(ctx context.Context, req *subscription.SignupRequest) error
	Verify(ctx context.Context, email, code string) error
	Unsubscribe(ctx context.Context, email string) error
}

// SubscriberReader looks up subscribers for the logs endpoint.
type SubscriberReader interface {
	GetByEmail(ctx context.Context, email string) (*models.Subscriber, error)
}

// LogReader lists delivery history.
type LogReader interface {
	ListBySubscriber(ctx context.Context, subscriberID uuid.UUID, limit int) ([]*models.DeliveryLog, error)
}
