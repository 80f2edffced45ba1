// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package shortlink derives and verifies the short public menu URLs
// (/m/{hash}/{menuID}). Both identifiers are pure functions of the
// restaurant id, so creating a link twice always lands on the same URL.
package shortlink

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"menupress/internal/models"
)

// ErrVerificationFailed means the link row was written but never became
// visible through the public reader. The URL must not be handed out.
var ErrVerificationFailed = errors.New("shortlink: verification failed")

const (
	// hashLen is the number of hex characters in the restaurant hash.
	hashLen = 10

	// verifyAttempts caps the visibility checks after creation.
	verifyAttempts = 5

	// verifyBaseDelay is the first backoff step; later steps double.
	verifyBaseDelay = 100 * time.Millisecond
)

// State tracks where a link is in its creation lifecycle.
type State int

const (
	StateNotRequested State = iota
	StateCreating
	StateVerifying
	StateVerified
	StateFailed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateNotRequested:
		return "not-requested"
	case StateCreating:
		return "creating"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// HashFor derives the public restaurant hash from the restaurant id:
// the first 10 hex characters of the sha256 digest of its string form.
func HashFor(restaurantID uuid.UUID) string {
	sum := sha256.Sum256([]byte(restaurantID.String()))
	return hex.EncodeToString(sum[:])[:hashLen]
}

// MenuIDFor derives the 5-digit menu id (10000-99999) from the same
// digest, so hash and menu id always travel together.
func MenuIDFor(restaurantID uuid.UUID) string {
	sum := sha256.Sum256([]byte(restaurantID.String()))
	n := binary.BigEndian.Uint32(sum[4:8])%90000 + 10000
	return fmt.Sprintf("%d", n)
}

// Links is the persistence surface the resolver needs.
type Links interface {
	Upsert(restaurantID uuid.UUID, restaurantHash, menuID string) (*models.MenuLink, error)
	FindActiveByRestaurant(restaurantID uuid.UUID) (*models.MenuLink, error)
	FindByHash(restaurantHash, menuID string) (*models.MenuLink, error)
}

// Resolver creates short links and verifies they resolve publicly
// before anyone is given the URL.
type Resolver struct {
	links Links

	// OnState, when set, observes lifecycle transitions. Used by the
	// share dialog to show progress.
	OnState func(State)
}

// NewResolver returns a resolver over the given link store.
func NewResolver(links Links) *Resolver {
	return &Resolver{links: links}
}

func (r *Resolver) setState(s State) {
	if r.OnState != nil {
		r.OnState(s)
	}
}

// Ensure returns the restaurant's verified short link, creating and
// verifying it first if needed. An existing active row is returned
// as-is: it was verified when it was created. On verification failure
// ErrVerificationFailed is returned and no URL should be shown.
func (r *Resolver) Ensure(ctx context.Context, restaurantID uuid.UUID) (*models.MenuLink, error) {
	existing, err := r.links.FindActiveByRestaurant(restaurantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		r.setState(StateVerified)
		return existing, nil
	}

	r.setState(StateCreating)
	hash := HashFor(restaurantID)
	menuID := MenuIDFor(restaurantID)
	link, err := r.links.Upsert(restaurantID, hash, menuID)
	if err != nil {
		r.setState(StateFailed)
		return nil, fmt.Errorf("create short link: %w", err)
	}

	r.setState(StateVerifying)
	if err := r.verify(ctx, hash, menuID); err != nil {
		r.setState(StateFailed)
		return nil, err
	}

	r.setState(StateVerified)
	slog.Info("short link verified", "restaurant_id", restaurantID, "hash", hash, "menu_id", menuID)
	return link, nil
}

// verify polls the public reader until the link resolves, with capped
// exponential backoff. Exhausting all attempts is terminal.
func (r *Resolver) verify(ctx context.Context, hash, menuID string) error {
	attempt := 0
	backoff := retry.WithMaxRetries(verifyAttempts-1, retry.NewExponential(verifyBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		link, err := r.links.FindByHash(hash, menuID)
		if err != nil {
			slog.Debug("short link verify attempt errored", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		if link == nil {
			slog.Debug("short link not yet visible", "attempt", attempt)
			return retry.RetryableError(errors.New("not yet visible"))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w after %d attempts: %v", ErrVerificationFailed, attempt, err)
	}
	return nil
}

// URL renders the public path for a link.
func URL(baseURL string, link *models.MenuLink) string {
	return fmt.Sprintf("%s/m/%s/%s", baseURL, link.RestaurantHash, link.MenuID)
}
