// Package repository provides database access for subscribers and
// delivery logs.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibletext/dailyverse/internal/logger"
	"github.com/bibletext/dailyverse/internal/models"
)

const subscriberColumns = `id, email, phone, carrier, delivery_method, language, version,
       frequency, delivery_time, delivery_day, timezone,
       is_active, verification_code, is_verified, created_at, updated_at`

// SubscribersRepository handles subscriber CRUD operations.
type SubscribersRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewSubscribersRepository creates a new subscribers repository.
func NewSubscribersRepository(pool *pgxpool.Pool, log *logger.Logger) *SubscribersRepository {
	return &SubscribersRepository{pool: pool, log: log}
}

// ListCandidates returns active, verified subscribers. A non-empty
// frequency narrows the set; this is an optimization, the due check still
// gates each subscriber individually.
func (r *SubscribersRepository) ListCandidates(ctx context.Context, frequency models.Frequency) ([]*models.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + `
		FROM subscribers
		WHERE is_active = true AND is_verified = true`
	args := []any{}

	if frequency != "" {
		query += ` AND frequency = $1`
		args = append(args, string(frequency))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}

// GetByEmail returns the subscriber with the given email, or nil when none exists.
func (r *SubscribersRepository) GetByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+subscriberColumns+`
		FROM subscribers WHERE email = $1`, email)

	sub, err := scanSubscriber(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscriber by email: %w", err)
	}

	return sub, nil
}

// Create inserts a new subscriber record.
func (r *SubscribersRepository) Create(ctx context.Context, sub *models.Subscriber) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO subscribers (
			id, email, phone, carrier, delivery_method, language, version,
			frequency, delivery_time, delivery_day, timezone,
			is_active, verification_code, is_verified
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`, sub.ID, sub.Email, sub.Phone, sub.Carrier, string(sub.DeliveryMethod), sub.Language, sub.Version,
		string(sub.Frequency), sub.DeliveryTime, sub.DeliveryDay, sub.Timezone,
		sub.IsActive, sub.VerificationCode, sub.IsVerified,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}

	r.log.Info().
		Str("id", sub.ID.String()).
		Str("email", sub.Email).
		Str("frequency", string(sub.Frequency)).
		Msg("created subscriber")

	return nil
}

// UpdatePreferences rewrites the preference fields and verification code of
// an existing subscriber. Used when an unverified subscriber signs up again.
func (r *SubscribersRepository) UpdatePreferences(ctx context.Context, sub *models.Subscriber) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE subscribers
		SET phone = $2, carrier = $3, delivery_method = $4, language = $5, version = $6,
		    frequency = $7, delivery_time = $8, delivery_day = $9, timezone = $10,
		    verification_code = $11
		WHERE id = $1
	`, sub.ID, sub.Phone, sub.Carrier, string(sub.DeliveryMethod), sub.Language, sub.Version,
		string(sub.Frequency), sub.DeliveryTime, sub.DeliveryDay, sub.Timezone,
		sub.VerificationCode)

	if err != nil {
		return fmt.Errorf("update subscriber preferences: %w", err)
	}

	return nil
}

// MarkVerified flags the subscriber as verified and consumes the code.
func (r *SubscribersRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE subscribers
		SET is_verified = true, verification_code = NULL
		WHERE id = $1
	`, id)

	if err != nil {
		return fmt.Errorf("mark subscriber verified: %w", err)
	}

	r.log.Info().Str("id", id.String()).Msg("subscriber verified")

	return nil
}

// Deactivate unsubscribes the address. Returns false when no subscriber
// with that email exists.
func (r *SubscribersRepository) Deactivate(ctx context.Context, email string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE subscribers SET is_active = false WHERE email = $1
	`, email)
	if err != nil {
		return false, fmt.Errorf("deactivate subscriber: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return false, nil
	}

	r.log.Info().Str("email", email).Msg("subscriber deactivated")

	return true, nil
}

// scanSubscriber reads one subscriber from a pgx row.
func scanSubscriber(row pgx.Row) (*models.Subscriber, error) {
	var sub models.Subscriber
	var method, frequency string

	err := row.Scan(
		&sub.ID, &sub.Email, &sub.Phone, &sub.Carrier, &method, &sub.Language, &sub.Version,
		&frequency, &sub.DeliveryTime, &sub.DeliveryDay, &sub.Timezone,
		&sub.IsActive, &sub.VerificationCode, &sub.IsVerified, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.DeliveryMethod = models.DeliveryMethod(method)
	sub.Frequency = models.Frequency(frequency)

	return &sub, nil
}
