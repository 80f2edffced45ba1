package sync

import (
	"testing"

	"github.com/google/uuid"

	"menupress/internal/menustate"
)

func TestEmitAllReachesAllSubscribers(t *testing.T) {
	e := NewEmitter()
	restaurantID := uuid.New()

	var got []int
	for i := 0; i < 3; i++ {
		i := i
		e.Subscribe(restaurantID, func(Updater) { got = append(got, i) })
	}

	e.EmitAll(restaurantID, func(s *menustate.Snapshot) *menustate.Snapshot { return s })
	if len(got) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(got))
	}
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	e := NewEmitter()
	restaurantID := uuid.New()

	delivered := 0
	e.Subscribe(restaurantID, func(Updater) { delivered++ })
	e.Subscribe(restaurantID, func(Updater) { panic("subscriber bug") })
	e.Subscribe(restaurantID, func(Updater) { delivered++ })

	e.EmitAll(restaurantID, nil)
	if delivered != 2 {
		t.Errorf("expected both healthy subscribers to run, got %d", delivered)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	e := NewEmitter()
	restaurantID := uuid.New()

	delivered := 0
	unsubscribe := e.Subscribe(restaurantID, func(Updater) { delivered++ })
	e.EmitAll(restaurantID, nil)
	unsubscribe()
	unsubscribe() // second call is a no-op
	e.EmitAll(restaurantID, nil)

	if delivered != 1 {
		t.Errorf("expected 1 delivery, got %d", delivered)
	}
	if e.SubscriberCount(restaurantID) != 0 {
		t.Error("expected empty subscriber set after unsubscribe")
	}
}

func TestEmissionsAreScopedPerRestaurant(t *testing.T) {
	e := NewEmitter()
	a, b := uuid.New(), uuid.New()

	aCount, bCount := 0, 0
	e.Subscribe(a, func(Updater) { aCount++ })
	e.Subscribe(b, func(Updater) { bCount++ })

	e.EmitAll(a, nil)
	if aCount != 1 || bCount != 0 {
		t.Errorf("emission leaked across restaurants: a=%d b=%d", aCount, bCount)
	}
}
