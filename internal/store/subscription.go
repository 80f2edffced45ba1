// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// subscription.go reads subscription state written by the external
// billing processor's webhook worker. This service never mutates
// billing rows; it only gates publishing on them.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// SubscriptionStore provides read access to subscription state.
type SubscriptionStore struct {
	db *sql.DB
}

// NewSubscriptionStore returns a new SubscriptionStore.
func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

const subscriptionColumns = `id, user_id, plan, status, current_period_end, created_at, updated_at`

// scanSubscription scans a row into a Subscription struct.
func scanSubscription(scanner interface{ Scan(...any) error }) (*models.Subscription, error) {
	var sub models.Subscription
	err := scanner.Scan(&sub.ID, &sub.UserID, &sub.Plan, &sub.Status,
		&sub.CurrentPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindByUser returns the user's most recent subscription, or nil when
// the user has never subscribed.
func (s *SubscriptionStore) FindByUser(userID uuid.UUID) (*models.Subscription, error) {
	row := s.db.QueryRow(`
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return sub, nil
}

// HasActive reports whether the user currently holds an active or
// trialing subscription. Used to gate menu publishing.
func (s *SubscriptionStore) HasActive(userID uuid.UUID) (bool, error) {
	sub, err := s.FindByUser(userID)
	if err != nil {
		return false, err
	}
	return sub != nil && sub.IsActive(), nil
}
