package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Frequency represents how often a subscriber receives a verse.
type Frequency string

// Frequency constants define the supported delivery cadences.
const (
	FrequencyHourly Frequency = "hourly"
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// DeliveryMethod represents the channel a verse is delivered through.
type DeliveryMethod string

// DeliveryMethod constants define the supported delivery channels.
const (
	DeliveryEmail DeliveryMethod = "email"
	DeliverySMS   DeliveryMethod = "sms"
)

// Default preference values applied by Normalize.
const (
	DefaultDeliveryTime = "08:00"
	DefaultTimezone     = "America/New_York"
)

// Subscriber represents a contact record with delivery and content preferences.
type Subscriber struct {
	ID uuid.UUID `json:"id" db:"id"`

	// contact identity
	Email   string  `json:"email" db:"email"`
	Phone   *string `json:"phone,omitempty" db:"phone"`
	Carrier *string `json:"carrier,omitempty" db:"carrier"`

	// delivery preference
	DeliveryMethod DeliveryMethod `json:"delivery_method" db:"delivery_method"`

	// content preference
	Language string `json:"language" db:"language"`
	Version  string `json:"version" db:"version"`

	// schedule preference
	Frequency    Frequency `json:"frequency" db:"frequency"`
	DeliveryTime string    `json:"delivery_time" db:"delivery_time"` // HH:MM in the subscriber's zone
	DeliveryDay  *int      `json:"delivery_day,omitempty" db:"delivery_day"`
	Timezone     string    `json:"timezone" db:"timezone"`

	// lifecycle
	IsActive         bool    `json:"is_active" db:"is_active"`
	IsVerified       bool    `json:"is_verified" db:"is_verified"`
	VerificationCode *string `json:"-" db:"verification_code"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Normalize applies defaults in one place so call sites never have to guess.
// DeliveryDay is only meaningful for weekly subscribers and is cleared
// otherwise; a weekly subscriber without a day gets Sunday.
func (s *Subscriber) Normalize() {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))

	if s.DeliveryMethod == "" {
		s.DeliveryMethod = DeliveryEmail
	}
	if s.DeliveryTime == "" {
		s.DeliveryTime = DefaultDeliveryTime
	}
	if s.Timezone == "" {
		s.Timezone = DefaultTimezone
	}

	if s.Frequency == FrequencyWeekly {
		if s.DeliveryDay == nil {
			day := 0 // Sunday
			s.DeliveryDay = &day
		}
	} else {
		s.DeliveryDay = nil
	}
}

// DeliveryHour parses the hour component of DeliveryTime.
// The minute component is ignored: dispatch runs at the top of the hour.
// An unparseable or out-of-range value falls back to 0.
func (s *Subscriber) DeliveryHour() int {
	part, _, _ := strings.Cut(s.DeliveryTime, ":")
	hour, err := strconv.Atoi(part)
	if err != nil || hour < 0 || hour > 23 {
		return 0
	}
	return hour
}

// IsCandidate reports whether the subscriber may receive deliveries at all.
func (s *Subscriber) IsCandidate() bool {
	return s.IsActive && s.IsVerified
}

// WantsSMS reports whether the subscriber asked for SMS delivery and has
// the fields needed to attempt it.
func (s *Subscriber) WantsSMS() bool {
	return s.DeliveryMethod == DeliverySMS && s.Phone != nil && *s.Phone != "" && s.Carrier != nil && *s.Carrier != ""
}

// IsValidFrequency reports whether the frequency is one of the supported cadences.
func (s *Subscriber) IsValidFrequency() bool {
	switch s.Frequency {
	case FrequencyHourly, FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}
