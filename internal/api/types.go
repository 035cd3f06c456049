package api

import (
	"time"

	"github.com/bibletext/dailyverse/internal/models"
)

// DispatchResponse reports one dispatch cycle.
type DispatchResponse struct {
	Success   bool      `json:"success"`
	Processed int       `json:"processed"`
	Sent      int       `json:"sent"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}

// SignupResponse confirms a signup request was accepted.
type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LogsResponse wraps a subscriber's delivery history.
type LogsResponse struct {
	Email string                `json:"email"`
	Logs  []*models.DeliveryLog `json:"logs"`
}
