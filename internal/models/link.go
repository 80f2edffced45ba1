// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuLink maps a restaurant to its public short-link identifiers.
// Both values are derived deterministically from the restaurant UUID,
// so the same restaurant always yields the same link. The active flag
// enables or disables public resolution without deleting the row.
type MenuLink struct {
	ID             uuid.UUID `json:"id"`
	RestaurantID   uuid.UUID `json:"restaurant_id"`
	RestaurantHash string    `json:"restaurant_hash"`
	MenuID         string    `json:"menu_id"` // 5 decimal digits
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}
