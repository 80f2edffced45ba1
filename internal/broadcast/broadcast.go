// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package broadcast carries cache invalidation hints between instances
// over Valkey pub/sub. Hints name what changed, never what it changed
// to — receivers drop caches and refetch; they never apply a hint as
// state. A missed hint therefore self-corrects on the next fetch.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel is the Valkey pub/sub channel the hints travel on.
const Channel = "menupress:updates"

// HintType names what kind of change happened.
type HintType string

const (
	// HintMenuUpdated: the menu tree changed (any level).
	HintMenuUpdated HintType = "menu-updated"
	// HintRestaurantUpdated: restaurant settings or theme changed.
	HintRestaurantUpdated HintType = "restaurant-updated"
	// HintPublishChanged: the menu went public or was unpublished.
	HintPublishChanged HintType = "publish-changed"
)

// Hint is the wire form of an invalidation event.
type Hint struct {
	Type         HintType  `json:"type"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	TS           time.Time `json:"ts"`
}

// Broadcaster publishes and receives hints on the shared channel.
type Broadcaster struct {
	client *redis.Client
}

// New returns a broadcaster over the given Valkey client.
func New(client *redis.Client) *Broadcaster {
	return &Broadcaster{client: client}
}

// Publish sends a hint. Failures are logged, not returned: a lost hint
// only delays invalidation until the TTL catches it.
func (b *Broadcaster) Publish(ctx context.Context, hintType HintType, restaurantID uuid.UUID) {
	hint := Hint{Type: hintType, RestaurantID: restaurantID, TS: time.Now()}
	raw, err := json.Marshal(hint)
	if err != nil {
		slog.Warn("broadcast encode error", "type", hintType, "error", err)
		return
	}
	if err := b.client.Publish(ctx, Channel, raw).Err(); err != nil {
		slog.Warn("broadcast publish error", "type", hintType, "error", err)
		return
	}
	slog.Debug("broadcast hint published", "type", hintType, "restaurant_id", restaurantID)
}

// Listen subscribes to the channel and delivers each hint to handler
// until the context is canceled. Blocks; run it in a goroutine.
func (b *Broadcaster) Listen(ctx context.Context, handler func(Hint)) error {
	sub := b.client.Subscribe(ctx, Channel)
	defer sub.Close()

	// Fail fast if the subscription itself cannot be established.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", Channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var hint Hint
			if err := json.Unmarshal([]byte(msg.Payload), &hint); err != nil {
				slog.Warn("broadcast decode error", "payload", msg.Payload, "error", err)
				continue
			}
			handler(hint)
		}
	}
}
