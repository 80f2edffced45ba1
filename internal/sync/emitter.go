// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sync fans menu-state changes out to in-process subscribers.
// The emitter is constructor-injected wherever it is needed; there is
// no package-level singleton to reset between tests.
package sync

import (
	"log/slog"
	stdsync "sync"

	"github.com/google/uuid"

	"menupress/internal/menustate"
)

// Updater transforms a subscriber's view of the snapshot. Returning nil
// means "no change" and subscribers leave their state untouched.
type Updater func(*menustate.Snapshot) *menustate.Snapshot

// Subscriber receives each emission for its restaurant and applies the
// updater to whatever state it holds.
type Subscriber func(Updater)

// Emitter delivers updaters to every subscriber of a restaurant.
type Emitter struct {
	mu     stdsync.Mutex
	subs   map[uuid.UUID]map[int]Subscriber
	nextID int
}

// NewEmitter returns an emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[uuid.UUID]map[int]Subscriber)}
}

// Subscribe registers fn for a restaurant's emissions and returns the
// function that removes the registration. Unsubscribing twice is safe.
func (e *Emitter) Subscribe(restaurantID uuid.UUID, fn Subscriber) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	if e.subs[restaurantID] == nil {
		e.subs[restaurantID] = make(map[int]Subscriber)
	}
	e.subs[restaurantID][id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if subs, ok := e.subs[restaurantID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(e.subs, restaurantID)
			}
		}
	}
}

// EmitAll delivers the updater to every subscriber of the restaurant.
// A panicking subscriber is recovered and skipped; the rest still
// receive the emission.
func (e *Emitter) EmitAll(restaurantID uuid.UUID, update func(*menustate.Snapshot) *menustate.Snapshot) {
	e.mu.Lock()
	fns := make([]Subscriber, 0, len(e.subs[restaurantID]))
	for _, fn := range e.subs[restaurantID] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		deliver(restaurantID, fn, update)
	}
}

// deliver invokes one subscriber, isolating its panics.
func deliver(restaurantID uuid.UUID, fn Subscriber, update Updater) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("menu sync subscriber panicked",
				"restaurant_id", restaurantID,
				"panic", r,
			)
		}
	}()
	fn(update)
}

// SubscriberCount reports how many subscribers a restaurant has.
func (e *Emitter) SubscriberCount(restaurantID uuid.UUID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs[restaurantID])
}
