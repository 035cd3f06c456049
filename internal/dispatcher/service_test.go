package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibletext/dailyverse/internal/logger"
	"github.com/bibletext/dailyverse/internal/mailer"
	"github.com/bibletext/dailyverse/internal/models"
)

// Mock SubscriberStore for testing
type mockSubscriberStore struct {
	subs []*models.Subscriber
	err  error
}

func (m *mockSubscriberStore) ListCandidates(ctx context.Context, frequency models.Frequency) ([]*models.Subscriber, error) {
	return m.subs, m.err
}

// Mock LogStore for testing
type mockLogStore struct {
	entries []*models.DeliveryLog
	err     error
}

func (m *mockLogStore) Append(ctx context.Context, entry *models.DeliveryLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

// Mock VerseProvider for testing
type mockVerseProvider struct {
	randomVerseFunc func(ctx context.Context, version string) (*models.Verse, error)
}

func (m *mockVerseProvider) RandomVerse(ctx context.Context, version string) (*models.Verse, error) {
	if m.randomVerseFunc != nil {
		return m.randomVerseFunc(ctx, version)
	}
	return &models.Verse{Reference: "John 3:16", Text: "For God so loved the world", Version: version}, nil
}

// Mock Sender for testing
type mockSender struct {
	sent     []mailer.Message
	sendFunc func(ctx context.Context, msg mailer.Message) error
}

func (m *mockSender) Send(ctx context.Context, msg mailer.Message) error {
	if m.sendFunc != nil {
		if err := m.sendFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Mock EventPublisher for testing
type mockPublisher struct {
	events []DeliveryEvent
}

func (m *mockPublisher) PublishDelivery(ctx context.Context, event DeliveryEvent) error {
	m.events = append(m.events, event)
	return nil
}

func hourlyEmailSubscriber(email string) *models.Subscriber {
	return &models.Subscriber{
		ID:             uuid.New(),
		Email:          email,
		DeliveryMethod: models.DeliveryEmail,
		Language:       "en",
		Version:        "KJV",
		Frequency:      models.FrequencyHourly,
		DeliveryTime:   "08:00",
		Timezone:       "UTC",
		IsActive:       true,
		IsVerified:     true,
	}
}

func newTestService(subs *mockSubscriberStore, logs *mockLogStore, verses *mockVerseProvider, mail *mockSender) *Service {
	return NewService(subs, logs, verses, mail, nil, nil, "https://bibletext.app", logger.Get())
}

func TestRun_EmptyCandidateSet(t *testing.T) {
	logs := &mockLogStore{}
	mail := &mockSender{}
	svc := newTestService(&mockSubscriberStore{}, logs, &mockVerseProvider{}, mail)

	summary, err := svc.Run(context.Background(), "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 0, summary.Failed)
	assert.Empty(t, logs.entries, "no log writes for an empty run")
	assert.Empty(t, mail.sent)
}

func TestRun_SubscriberStoreErrorIsFatal(t *testing.T) {
	svc := newTestService(&mockSubscriberStore{err: errors.New("db down")}, &mockLogStore{}, &mockVerseProvider{}, &mockSender{})

	_, err := svc.Run(context.Background(), "", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list candidates")
}

func TestRun_SendsAndLogs(t *testing.T) {
	sub := hourlyEmailSubscriber("a@example.com")
	logs := &mockLogStore{}
	mail := &mockSender{}
	svc := newTestService(&mockSubscriberStore{subs: []*models.Subscriber{sub}}, logs, &mockVerseProvider{}, mail)

	summary, err := svc.Run(context.Background(), "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 0, summary.Failed)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "a@example.com", mail.sent[0].To)

	// round-trip: one sent-status entry referencing the subscriber
	require.Len(t, logs.entries, 1)
	assert.Equal(t, sub.ID, logs.entries[0].SubscriberID)
	assert.Equal(t, models.DeliveryStatusSent, logs.entries[0].Status)
	assert.Equal(t, "John 3:16", logs.entries[0].VerseReference)
	assert.Nil(t, logs.entries[0].ErrorMessage)
}

func TestRun_NotDueSubscribersAreSkippedButProcessed(t *testing.T) {
	due := hourlyEmailSubscriber("due@example.com")
	notDue := hourlyEmailSubscriber("later@example.com")
	notDue.Frequency = models.FrequencyDaily
	notDue.DeliveryTime = "08:00"

	logs := &mockLogStore{}
	mail := &mockSender{}
	svc := newTestService(&mockSubscriberStore{subs: []*models.Subscriber{due, notDue}}, logs, &mockVerseProvider{}, mail)

	// 12:00 UTC: the daily 08:00 UTC subscriber is not due
	now := time.Date(2025, time.June, 3, 12, 0, 0, 0, time.UTC)
	summary, err := svc.Run(context.Background(), "", now)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed, "processed equals candidate-set size")
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 0, summary.Failed)
	require.Len(t, logs.entries, 1)
	assert.Equal(t, due.ID, logs.entries[0].SubscriberID)
}

func TestRun_ContentFetchFailureIsIsolated(t *testing.T) {
	subA := hourlyEmailSubscriber("a@example.com")
	subB := hourlyEmailSubscriber("b@example.com")

	// fail only the first fetch
	calls := 0
	verses := &mockVerseProvider{
		randomVerseFunc: func(ctx context.Context, version string) (*models.Verse, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("provider down")
			}
			return &models.Verse{Reference: "Genesis 1:1", Text: "In the beginning", Version: version}, nil
		},
	}

	logs := &mockLogStore{}
	mail := &mockSender{}
	svc := newTestService(&mockSubscriberStore{subs: []*models.Subscriber{subA, subB}}, logs, verses, mail)

	summary, err := svc.Run(context.Background(), "", time.Now())
	require.NoError(t, err, "per-subscriber failures must not abort the run")

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Sent)
	assert.Equal(t, 1, summary.Failed)

	// content-fetch failures leave no audit entry
	require.Len(t, logs.entries, 1)
	assert.Equal(t, subB.ID, logs.entries[0].SubscriberID)
}

func TestRun_SendFailureWritesFailedEntry(t *testing.T) {
	sub := hourlyEmailSubscriber("a@example.com")
	logs := &mockLogStore{}
	mail := &mockSender{
		sendFunc: func(ctx context.Context, msg mailer.Message) error {
			return errors.New("smtp refused")
		},
	}
	svc := newTestService(&mockSubscriberStore{subs: []*models.Subscriber{sub}}, logs, &mockVerseProvider{}, mail)

	summary, err := svc.Run(context.Background(), "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 1, summary.Failed)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, models.DeliveryStatusFailed, logs.entries[0].Status)
	require.NotNil(t, logs.entries[0].ErrorMessage)
	assert.Contains(t, *logs.entries[0].ErrorMessage, "email send failed")
}

func TestRun_UnknownCarrierIsFailureWithoutFallback(t *testing.T) {
	phone := "5551234567"
	carrier := "pigeon-post"
	sub := hourlyEmailSubscriber("sms@example.com")
	sub.DeliveryMethod = models.DeliverySMS
	sub.Phone = &phone
	sub.Carrier = &carrier

	logs := &mockLogStore{}
	mail := &mockSender{}
	svc := newTestService(&mockSubscriberStore{subs: []*models.Subscriber{sub}}, logs, &mockVerseProvider{}, mail)

	summary, err := svc.Run(context.Background(), "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, mail.sent, "must not fabricate a gateway address or fall back to email")
	assert.Empty(t, logs.entries, "destination resolution failure leaves no audit entry")
}

func TestRun_SMSMissingPhoneIsFailure(t *testing.T) {
	sub := hourlyEmailSubscriber("sms@example.com")
	sub.DeliveryMethod = models.DeliverySMS

	logs := &mockLogStore{}
	mail := &mockSender{}
	svc := newTestService(&mockSubscriberStore{subs: []*models.Subscriber{sub}}, logs, &mockVerseProvider{}, mail)

	summary, err := svc.Run(context.Background(), "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, mail.sent)
}

func TestRun_SMSDeliveryUsesGatewayAndCompactFormat(t *testing.T) {
	phone := "(555) 123-4567"
	carrier := "att"
	sub := hourlyEmailSubscriber("sms@example.com")
	sub.DeliveryMethod = models.DeliverySMS
	sub.Phone = &phone
	sub.Carrier = &carrier

	logs := &mockLogStore{}
	mail := &mockSender{}
	svc := newTestService(&mockSubscriberStore{subs: []*models.Subscriber{sub}}, logs, &mockVerseProvider{}, mail)

	summary, err := svc.Run(context.Background(), "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)

	require.Len(t, mail.sent, 1)
	msg := mail.sent[0]
	assert.Equal(t, "5551234567@txt.att.net", msg.To)
	assert.Empty(t, msg.HTML)
	assert.Contains(t, msg.Text, "John 3:16")
	assert.LessOrEqual(t, len(msg.Text), 160)

	require.Len(t, logs.entries, 1)
	assert.Equal(t, models.DeliverySMS, logs.entries[0].DeliveryMethod)
	assert.Equal(t, models.DeliveryStatusSent, logs.entries[0].Status)
}

func TestRun_PanicInProviderIsRecovered(t *testing.T) {
	subA := hourlyEmailSubscriber("a@example.com")
	subB := hourlyEmailSubscriber("b@example.com")

	calls := 0
	verses := &mockVerseProvider{
		randomVerseFunc: func(ctx context.Context, version string) (*models.Verse, error) {
			calls++
			if calls == 1 {
				panic("boom")
			}
			return &models.Verse{Reference: "Psalm 23:1", Text: "The Lord is my shepherd", Version: version}, nil
		},
	}

	logs := &mockLogStore{}
	mail := &mockSender{}
	svc := newTestService(&mockSubscriberStore{subs: []*models.Subscriber{subA, subB}}, logs, verses, mail)

	summary, err := svc.Run(context.Background(), "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Sent)
}

func TestRun_LogWriteFailureDoesNotAffectCounters(t *testing.T) {
	sub := hourlyEmailSubscriber("a@example.com")
	logs := &mockLogStore{err: errors.New("disk full")}
	mail := &mockSender{}
	svc := newTestService(&mockSubscriberStore{subs: []*models.Subscriber{sub}}, logs, &mockVerseProvider{}, mail)

	summary, err := svc.Run(context.Background(), "", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Sent, "audit write failure must not turn a sent delivery into a failure")
	assert.Equal(t, 0, summary.Failed)
}

func TestRun_PublishesDeliveryEvents(t *testing.T) {
	sub := hourlyEmailSubscriber("a@example.com")
	pub := &mockPublisher{}
	svc := NewService(
		&mockSubscriberStore{subs: []*models.Subscriber{sub}},
		&mockLogStore{},
		&mockVerseProvider{},
		&mockSender{},
		nil,
		pub,
		"https://bibletext.app",
		logger.Get(),
	)

	_, err := svc.Run(context.Background(), "", time.Now())
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, sub.ID, pub.events[0].SubscriberID)
	assert.Equal(t, SubjectVerseSent, pub.events[0].Subject())
}
