// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package menustate

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// Manager keeps the live optimistic stores, one per restaurant being
// edited. A live store is always served as-is — it may hold optimistic
// edits that are still syncing, and those must not be clobbered by a
// background refresh.
type Manager struct {
	mu        sync.RWMutex
	stores    map[uuid.UUID]*Store
	persister Persister
	notifier  Notifier
}

// NewManager returns an empty registry backed by the given persister.
func NewManager(persister Persister, notifier Notifier) *Manager {
	return &Manager{
		stores:    make(map[uuid.UUID]*Store),
		persister: persister,
		notifier:  notifier,
	}
}

// Get returns the live store for a restaurant, loading the full menu
// from the database on first access. Returns nil without error when the
// restaurant does not exist.
func (m *Manager) Get(ctx context.Context, restaurantID uuid.UUID) (*Store, error) {
	m.mu.RLock()
	st, ok := m.stores[restaurantID]
	m.mu.RUnlock()
	if ok {
		return st, nil
	}

	menu, err := m.persister.FullMenu(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("load menu state: %w", err)
	}
	if menu == nil {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another goroutine may have loaded it while we were querying.
	if st, ok := m.stores[restaurantID]; ok {
		return st, nil
	}
	st = NewStore(FromFullMenu(menu), m.persister, m.notifier)
	m.stores[restaurantID] = st
	return st, nil
}

// Peek returns the live snapshot tree if a store exists, without
// touching the database. This is the first cache tier for reads.
func (m *Manager) Peek(restaurantID uuid.UUID) (*models.FullMenu, bool) {
	m.mu.RLock()
	st, ok := m.stores[restaurantID]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return st.Tree(), true
}

// Invalidate drops the live store so the next access reloads from the
// database. Called when a broadcast hint or a restaurant deletion makes
// the held state stale.
func (m *Manager) Invalidate(restaurantID uuid.UUID) {
	m.mu.Lock()
	delete(m.stores, restaurantID)
	m.mu.Unlock()
}

// Refetch reconciles a live store with the database, if one is held.
func (m *Manager) Refetch(ctx context.Context, restaurantID uuid.UUID) error {
	m.mu.RLock()
	st, ok := m.stores[restaurantID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	return st.Refetch(ctx)
}
