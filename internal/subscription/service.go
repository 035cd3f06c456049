// Package subscription implements signup, verification and unsubscribe flows.
package subscription

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bibletext/dailyverse/internal/bible"
	"github.com/bibletext/dailyverse/internal/logger"
	"github.com/bibletext/dailyverse/internal/mailer"
	"github.com/bibletext/dailyverse/internal/models"
	"github.com/bibletext/dailyverse/internal/smsgateway"
)

// validation and flow errors
var (
	ErrInvalidEmail       = errors.New("valid email is required")
	ErrInvalidLanguage    = errors.New("invalid language")
	ErrInvalidVersion     = errors.New("invalid version for selected language")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidDeliveryDay = errors.New("delivery day must be between 0 and 6")
	ErrInvalidPhone       = errors.New("sms delivery requires a 10-digit US phone number and a known carrier")
	ErrAlreadySubscribed  = errors.New("this email is already subscribed")
	ErrInvalidCode        = errors.New("invalid verification link")
	ErrNotFound           = errors.New("subscription not found")
)

// SubscriberStore is the persistence surface the flows need.
type SubscriberStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	Create(ctx context.Context, sub *models.Subscriber) error
	UpdatePreferences(ctx context.Context, sub *models.Subscriber) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, email string) (bool, error)
}

// Service handles the subscriber lifecycle around dispatching.
type Service struct {
	store  SubscriberStore
	mail   mailer.Sender
	appURL string
	log    *logger.Logger
}

// NewService creates a subscription service.
func NewService(store SubscriberStore, mail mailer.Sender, appURL string, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		mail:   mail,
		appURL: appURL,
		log:    log,
	}
}

// SignupRequest carries the signup form fields.
type SignupRequest struct {
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	DeliveryMethod string `json:"delivery_method,omitempty"`
	Language       string `json:"language"`
	Version        string `json:"version"`
	Frequency      string `json:"frequency"`
	DeliveryTime   string `json:"delivery_time,omitempty"`
	DeliveryDay    *int   `json:"delivery_day,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
}

// Validate performs field validation before any store access.
func (r *SignupRequest) Validate() error {
	if !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	if !bible.ValidLanguage(r.Language) {
		return ErrInvalidLanguage
	}
	if !bible.ValidVersion(r.Language, r.Version) {
		return ErrInvalidVersion
	}

	switch models.Frequency(r.Frequency) {
	case models.FrequencyHourly, models.FrequencyDaily, models.FrequencyWeekly:
	default:
		return ErrInvalidFrequency
	}

	if r.DeliveryDay != nil && (*r.DeliveryDay < 0 || *r.DeliveryDay > 6) {
		return ErrInvalidDeliveryDay
	}

	if models.DeliveryMethod(r.DeliveryMethod) == models.DeliverySMS {
		if _, ok := smsgateway.Address(r.Phone, r.Carrier); !ok {
			return ErrInvalidPhone
		}
	}

	return nil
}

// Signup registers a new subscriber, or refreshes an unverified one, and
// sends the verification email. A verified duplicate is a conflict.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	sub := subscriberFromRequest(req)
	sub.Normalize()

	code := newVerificationCode()
	sub.VerificationCode = &code

	existing, err := s.store.GetByEmail(ctx, sub.Email)
	if err != nil {
		return fmt.Errorf("look up subscriber: %w", err)
	}

	if existing != nil {
		if existing.IsVerified {
			return ErrAlreadySubscribed
		}

		// unverified re-signup: refresh preferences and resend the code
		sub.ID = existing.ID
		if err := s.store.UpdatePreferences(ctx, sub); err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
	} else {
		sub.IsActive = true
		sub.IsVerified = false
		if err := s.store.Create(ctx, sub); err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
	}

	msg := mailer.VerificationMessage(sub.Email, code, s.appURL)
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	s.log.Info().Str("email", sub.Email).Msg("verification email sent")

	return nil
}

// Verify consumes a verification code. Verifying an already-verified
// subscriber succeeds without change.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" {
		return ErrInvalidCode
	}

	sub, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("look up subscriber: %w", err)
	}
	if sub == nil {
		return ErrInvalidCode
	}

	if sub.IsVerified {
		return nil
	}

	if sub.VerificationCode == nil || !strings.EqualFold(*sub.VerificationCode, code) {
		return ErrInvalidCode
	}

	if err := s.store.MarkVerified(ctx, sub.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	return nil
}

// Unsubscribe deactivates the subscription for an email address.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrNotFound
	}

	ok, err := s.store.Deactivate(ctx, email)
	if err != nil {
		return fmt.Errorf("deactivate subscriber: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	return nil
}

func subscriberFromRequest(req *SignupRequest) *models.Subscriber {
	sub := &models.Subscriber{
		Email:          req.Email,
		DeliveryMethod: models.DeliveryMethod(req.DeliveryMethod),
		Language:       req.Language,
		Version:        req.Version,
		Frequency:      models.Frequency(req.Frequency),
		DeliveryTime:   req.DeliveryTime,
		DeliveryDay:    req.DeliveryDay,
		Timezone:       req.Timezone,
	}

	if req.Phone != "" {
		phone := req.Phone
		sub.Phone = &phone
	}
	if req.Carrier != "" {
		carrier := req.Carrier
		sub.Carrier = &carrier
	}

	return sub
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newVerificationCode returns a 6-character uppercase code.
func newVerificationCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble
		panic(fmt.Sprintf("subscription: read random: %v", err))
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
