// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// menu.go provides the tiered reader for full-menu snapshots:
//
//	1. the live in-process editing state, served as-is when held —
//	   it may contain optimistic edits and is never refreshed here;
//	2. a Valkey JSON entry with a short TTL;
//	3. the database loader, which repopulates tier 2 on its way out.
//
// Stale Valkey entries self-correct through the TTL and through the
// invalidation hints broadcast after every write.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"menupress/internal/models"
)

const (
	// menuKeyPrefix is the Valkey key prefix for menu snapshots.
	menuKeyPrefix = "menu:"

	// DefaultMenuTTL is how long a menu snapshot stays in Valkey.
	DefaultMenuTTL = 5 * time.Minute
)

// LiveSource exposes the in-process editing state, if any is held for a
// restaurant. Implemented by the menu state manager.
type LiveSource interface {
	Peek(restaurantID uuid.UUID) (*models.FullMenu, bool)
}

// Loader fetches the authoritative snapshot from the database.
type Loader func(ctx context.Context, restaurantID uuid.UUID) (*models.FullMenu, error)

// MenuCache is the tiered full-menu reader.
type MenuCache struct {
	live   LiveSource
	client *redis.Client
	ttl    time.Duration
	loader Loader
}

// NewMenuCache wires the three tiers together. live may be nil when no
// in-process editing state exists (e.g. a read-only public instance).
func NewMenuCache(live LiveSource, client *redis.Client, ttl time.Duration, loader Loader) *MenuCache {
	if ttl == 0 {
		ttl = DefaultMenuTTL
	}
	return &MenuCache{live: live, client: client, ttl: ttl, loader: loader}
}

// Get returns the menu snapshot for a restaurant, walking the tiers in
// order. Returns nil without error when the restaurant does not exist.
func (c *MenuCache) Get(ctx context.Context, restaurantID uuid.UUID) (*models.FullMenu, error) {
	if c.live != nil {
		if menu, ok := c.live.Peek(restaurantID); ok {
			slog.Debug("menu cache hit", "tier", "live", "restaurant_id", restaurantID)
			return menu, nil
		}
	}

	if menu, ok := c.fromValkey(ctx, restaurantID); ok {
		slog.Debug("menu cache hit", "tier", "valkey", "restaurant_id", restaurantID)
		return menu, nil
	}

	return c.Refetch(ctx, restaurantID)
}

// Refetch bypasses both cache tiers, loads from the database, and
// repopulates the Valkey entry.
func (c *MenuCache) Refetch(ctx context.Context, restaurantID uuid.UUID) (*models.FullMenu, error) {
	menu, err := c.loader(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("load menu snapshot: %w", err)
	}
	if menu == nil {
		return nil, nil
	}
	c.store(ctx, restaurantID, menu)
	return menu, nil
}

// Invalidate drops the Valkey entry for a restaurant. The live tier is
// managed by its own owner and is not touched here.
func (c *MenuCache) Invalidate(ctx context.Context, restaurantID uuid.UUID) {
	if err := c.client.Del(ctx, menuKeyPrefix+restaurantID.String()).Err(); err != nil {
		slog.Warn("menu cache invalidate error", "restaurant_id", restaurantID, "error", err)
	}
}

func (c *MenuCache) fromValkey(ctx context.Context, restaurantID uuid.UUID) (*models.FullMenu, bool) {
	raw, err := c.client.Get(ctx, menuKeyPrefix+restaurantID.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("menu cache get error", "restaurant_id", restaurantID, "error", err)
		return nil, false
	}
	var menu models.FullMenu
	if err := json.Unmarshal(raw, &menu); err != nil {
		// A snapshot that no longer decodes is dropped, not served.
		slog.Warn("menu cache decode error", "restaurant_id", restaurantID, "error", err)
		c.Invalidate(ctx, restaurantID)
		return nil, false
	}
	return &menu, true
}

func (c *MenuCache) store(ctx context.Context, restaurantID uuid.UUID, menu *models.FullMenu) {
	raw, err := json.Marshal(menu)
	if err != nil {
		slog.Warn("menu cache encode error", "restaurant_id", restaurantID, "error", err)
		return
	}
	if err := c.client.Set(ctx, menuKeyPrefix+restaurantID.String(), raw, c.ttl).Err(); err != nil {
		slog.Warn("menu cache set error", "restaurant_id", restaurantID, "error", err)
	}
}
