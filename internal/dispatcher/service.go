// Package dispatcher decides which subscribers are due and orchestrates
// fetch, send and audit logging for one dispatch run.
package dispatcher

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/bibletext/dailyverse/internal/logger"
	"github.com/bibletext/dailyverse/internal/mailer"
	"github.com/bibletext/dailyverse/internal/models"
	"github.com/bibletext/dailyverse/internal/smsgateway"
)

// VerseProvider supplies verse content. This allows mocking in tests.
type VerseProvider interface {
	RandomVerse(ctx context.Context, version string) (*models.Verse, error)
}

// SubscriberStore loads the candidate set for a run.
type SubscriberStore interface {
	ListCandidates(ctx context.Context, frequency models.Frequency) ([]*models.Subscriber, error)
}

// LogStore appends to the delivery audit trail.
type LogStore interface {
	Append(ctx context.Context, entry *models.DeliveryLog) error
}

// EventPublisher publishes delivery events. Optional; nil disables publishing.
type EventPublisher interface {
	PublishDelivery(ctx context.Context, event DeliveryEvent) error
}

// Service is the dispatch orchestrator.
type Service struct {
	subscribers SubscriberStore
	logs        LogStore
	verses      VerseProvider
	mail        mailer.Sender
	limiter     *rate.Limiter
	events      EventPublisher
	appURL      string
	log         *logger.Logger
}

// NewService creates a dispatch service. events may be nil.
func NewService(
	subscribers SubscriberStore,
	logs LogStore,
	verses VerseProvider,
	mail mailer.Sender,
	limiter *rate.Limiter,
	events EventPublisher,
	appURL string,
	log *logger.Logger,
) *Service {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	return &Service{
		subscribers: subscribers,
		logs:        logs,
		verses:      verses,
		mail:        mail,
		limiter:     limiter,
		events:      events,
		appURL:      appURL,
		log:         log,
	}
}

// RunSummary aggregates the outcome of one dispatch run.
// Processed is the candidate-set size regardless of due-ness.
type RunSummary struct {
	Processed int       `json:"processed"`
	Sent      int       `json:"sent"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}

// Run executes one dispatch pass. Subscribers are processed sequentially
// and in isolation: one failure never aborts the loop. Only a failure to
// load the candidate set is fatal.
func (s *Service) Run(ctx context.Context, frequency models.Frequency, now time.Time) (*RunSummary, error) {
	subs, err := s.subscribers.ListCandidates(ctx, frequency)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	summary := &RunSummary{Processed: len(subs), Timestamp: now.UTC()}

	if len(subs) == 0 {
		s.log.Debug().Str("frequency", string(frequency)).Msg("no subscribers to process")
		return summary, nil
	}

	for _, sub := range subs {
		if !Due(now, sub) {
			continue
		}

		if err := s.deliver(ctx, sub); err != nil {
			summary.Failed++
			s.log.Error().
				Err(err).
				Str("subscriber_id", sub.ID.String()).
				Str("email", sub.Email).
				Msg("delivery failed")
			continue
		}
		summary.Sent++
	}

	s.log.Info().
		Str("frequency", string(frequency)).
		Int("processed", summary.Processed).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("dispatch run complete")

	return summary, nil
}

// deliver runs the fetch-send-log cycle for one subscriber. A panic from a
// collaborator is converted into an error at this boundary so the run
// continues with the remaining subscribers.
func (s *Service) deliver(ctx context.Context, sub *models.Subscriber) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during delivery: %v", rec)
		}
	}()

	// Content fetch failure short-circuits before delivery-method
	// resolution: counted as failed, no audit entry.
	verse, err := s.verses.RandomVerse(ctx, sub.Version)
	if err != nil {
		return fmt.Errorf("fetch verse: %w", err)
	}

	method := models.DeliveryEmail
	var msg mailer.Message

	if sub.DeliveryMethod == models.DeliverySMS {
		// An sms subscriber with an unresolvable gateway is a failure,
		// never a silent fallback to email.
		if !sub.WantsSMS() {
			return fmt.Errorf("sms subscriber %s missing phone or carrier", sub.Email)
		}
		addr, ok := smsgateway.Address(*sub.Phone, *sub.Carrier)
		if !ok {
			return fmt.Errorf("no sms gateway for carrier %q", *sub.Carrier)
		}
		method = models.DeliverySMS
		msg = mailer.SMSMessage(addr, smsgateway.FormatVerse(verse))
	} else {
		msg = mailer.VerseMessage(verse, sub.Email, s.appURL)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send throttle: %w", err)
	}

	sendErr := s.mail.Send(ctx, msg)

	entry := &models.DeliveryLog{
		SubscriberID:   sub.ID,
		VerseReference: verse.Reference,
		VerseText:      verse.Text,
		DeliveryMethod: method,
		Status:         models.DeliveryStatusSent,
		SentAt:         time.Now().UTC(),
	}
	if sendErr != nil {
		entry.Status = models.DeliveryStatusFailed
		errMsg := fmt.Sprintf("%s send failed: %v", method, sendErr)
		entry.ErrorMessage = &errMsg
	}

	// Audit write failures are operator-visible but never affect the
	// run's counters.
	if logErr := s.logs.Append(ctx, entry); logErr != nil {
		s.log.Error().
			Err(logErr).
			Str("subscriber_id", sub.ID.String()).
			Msg("failed to append delivery log")
	}

	s.publish(ctx, DeliveryEvent{
		SubscriberID: sub.ID,
		Reference:    verse.Reference,
		Method:       method,
		Status:       entry.Status,
		At:           entry.SentAt,
	})

	if sendErr != nil {
		return fmt.Errorf("send via %s: %w", method, sendErr)
	}

	return nil
}

func (s *Service) publish(ctx context.Context, event DeliveryEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishDelivery(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("subject", event.Subject()).Msg("failed to publish delivery event")
	}
}
