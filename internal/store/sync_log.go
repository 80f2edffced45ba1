// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// sync_log.go records cache invalidation events in the database for
// audit and debugging purposes. Each entry captures which menu entity
// was invalidated, when, and why (create/update/delete/reorder).
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SyncLogStore handles cache invalidation log operations.
type SyncLogStore struct {
	db *sql.DB
}

// NewSyncLogStore creates a new SyncLogStore.
func NewSyncLogStore(db *sql.DB) *SyncLogStore {
	return &SyncLogStore{db: db}
}

// Log records a cache invalidation event.
func (s *SyncLogStore) Log(entityType string, entityID uuid.UUID, action string) {
	_, err := s.db.Exec(`
		INSERT INTO cache_invalidation_log (entity_type, entity_id, action)
		VALUES ($1, $2, $3)
	`, entityType, entityID, action)
	if err != nil {
		// Log but don't fail — invalidation logging is best-effort.
		slog.Warn("failed to log cache invalidation",
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("cache invalidation logged",
		"entity_type", entityType,
		"entity_id", entityID,
		"action", action,
	)
}

// RecentEntries returns the most recent cache invalidation events for
// debugging. Limited to the specified count.
func (s *SyncLogStore) RecentEntries(limit int) ([]SyncLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, entity_type, entity_id, action, invalidated_at
		FROM cache_invalidation_log
		ORDER BY invalidated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sync log: %w", err)
	}
	defer rows.Close()

	var entries []SyncLogEntry
	for rows.Next() {
		var e SyncLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.InvalidatedAt); err != nil {
			return nil, fmt.Errorf("scan sync log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SyncLogEntry represents a single cache invalidation event.
type SyncLogEntry struct {
	ID            int64
	EntityType    string
	EntityID      uuid.UUID
	Action        string
	InvalidatedAt string
}
