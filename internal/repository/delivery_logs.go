package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bibletext/dailyverse/internal/logger"
	"github.com/bibletext/dailyverse/internal/models"
)

// DeliveryLogsRepository appends to and reads the delivery audit trail.
// The table is append-only; there are no update or delete operations.
type DeliveryLogsRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDeliveryLogsRepository creates a new delivery logs repository.
func NewDeliveryLogsRepository(db *gorm.DB, log *logger.Logger) *DeliveryLogsRepository {
	return &DeliveryLogsRepository{db: db, log: log}
}

// Append writes one delivery log entry.
func (r *DeliveryLogsRepository) Append(ctx context.Context, entry *models.DeliveryLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append delivery log: %w", err)
	}

	return nil
}

// ListBySubscriber returns the most recent entries for one subscriber.
func (r *DeliveryLogsRepository) ListBySubscriber(ctx context.Context, subscriberID uuid.UUID, limit int) ([]*models.DeliveryLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []*models.DeliveryLog
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ?", subscriberID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list delivery logs: %w", err)
	}

	return entries, nil
}
