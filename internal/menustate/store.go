// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package menustate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// SyncOutcome tags how an optimistic edit was reconciled with the
// database.
type SyncOutcome int

const (
	// SyncOK: the background write succeeded; local and stored state agree.
	SyncOK SyncOutcome = iota
	// SyncKeptLocal: the write failed but the local edit was kept. The
	// authoritative row wins on the next refetch.
	SyncKeptLocal
	// SyncRolledBack: the write failed and the optimistic node was removed.
	SyncRolledBack
	// SyncRefetched: the write failed and the whole snapshot was reloaded
	// from the database.
	SyncRefetched
)

// String returns the outcome name for logging.
func (o SyncOutcome) String() string {
	switch o {
	case SyncOK:
		return "ok"
	case SyncKeptLocal:
		return "kept-local"
	case SyncRolledBack:
		return "rolled-back"
	case SyncRefetched:
		return "refetched"
	}
	return "unknown"
}

// Result is delivered on an operation's completion callback once the
// background write has settled.
type Result struct {
	Outcome SyncOutcome
	Err     error
}

// DoneFunc receives the settled result of a background write. May be nil.
type DoneFunc func(Result)

// Persister is the write side the store syncs against. Implemented by
// the database stores; faked in tests.
type Persister interface {
	CreateCategory(c *models.Category) (*models.Category, error)
	RenameCategory(id uuid.UUID, name string) error
	DeleteCategory(id uuid.UUID) error

	CreateSubcategory(sc *models.Subcategory) (*models.Subcategory, error)
	RenameSubcategory(id uuid.UUID, name string) error
	DeleteSubcategory(id uuid.UUID) error

	CreateDish(d *models.Dish) (*models.Dish, error)
	UpdateDish(d *models.Dish) error
	DeleteDish(id uuid.UUID) error

	Reorder(ctx context.Context, table string, updates []OrderUpdate) error
	UpdateRestaurant(r *models.Restaurant) error
	FullMenu(ctx context.Context, restaurantID uuid.UUID) (*models.FullMenu, error)
}

// OrderUpdate mirrors the batched order-index write's row assignment.
type OrderUpdate struct {
	ID         uuid.UUID
	OrderIndex int
}

// Notifier receives change notifications after each local mutation.
// Implemented by the sync emitter; may be nil.
type Notifier interface {
	EmitAll(restaurantID uuid.UUID, update func(*Snapshot) *Snapshot)
}

// Store is the mutex-guarded optimistic menu state for one restaurant.
// Operations mutate the snapshot synchronously and persist in the
// background; each operation's recovery policy on write failure is
// fixed: updates keep the local edit, creates drop the optimistic node,
// deletes and reorders refetch the whole snapshot.
type Store struct {
	mu        sync.Mutex
	snap      *Snapshot
	persister Persister
	notifier  Notifier
}

// NewStore wraps a snapshot with its persistence and notification wiring.
func NewStore(snap *Snapshot, persister Persister, notifier Notifier) *Store {
	return &Store{snap: snap, persister: persister, notifier: notifier}
}

// RestaurantID returns the id of the restaurant this store holds.
func (s *Store) RestaurantID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Restaurant.ID
}

// Tree returns the current snapshot re-nested for serialization.
func (s *Store) Tree() *models.FullMenu {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Tree()
}

// emit notifies subscribers that the snapshot changed. The updater hands
// each subscriber a fresh deep copy of the current tree; the copy is
// built per delivery, so emitting with no subscribers costs nothing.
// Callers must not hold the mutex.
func (s *Store) emit(restaurantID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	s.notifier.EmitAll(restaurantID, func(*Snapshot) *Snapshot {
		return FromFullMenu(s.Tree())
	})
}

// settle invokes the completion callback and logs non-OK outcomes.
func settle(done DoneFunc, op string, res Result) {
	if res.Err != nil {
		slog.Warn("menu write failed",
			"op", op,
			"outcome", res.Outcome.String(),
			"error", res.Err,
		)
	}
	if done != nil {
		done(res)
	}
}

// Refetch replaces the snapshot with the authoritative database state.
func (s *Store) Refetch(ctx context.Context) error {
	s.mu.Lock()
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()

	menu, err := s.persister.FullMenu(ctx, restaurantID)
	if err != nil {
		return err
	}
	if menu == nil {
		return nil
	}

	s.mu.Lock()
	s.snap = FromFullMenu(menu)
	s.mu.Unlock()
	s.emit(restaurantID)
	return nil
}

// refetchAfterFailure reloads the snapshot after a failed destructive
// write and settles the callback with the refetch outcome.
func (s *Store) refetchAfterFailure(op string, writeErr error, done DoneFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Refetch(ctx); err != nil {
		slog.Error("refetch after failed write also failed", "op", op, "error", err)
	}
	settle(done, op, Result{Outcome: SyncRefetched, Err: writeErr})
}

// --- Dishes ---

// UpdateDish merges a patch into the dish wherever it sits in the tree
// and persists the merged row. No-op if the dish is unknown. On write
// failure the local edit is kept.
func (s *Store) UpdateDish(id uuid.UUID, patch models.DishPatch, done DoneFunc) {
	s.mu.Lock()
	dish, ok := s.snap.Dishes[id]
	if !ok {
		s.mu.Unlock()
		settle(done, "update-dish", Result{Outcome: SyncOK})
		return
	}
	patch.Apply(&dish.Dish)
	row := dish.Dish
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go func() {
		if err := s.persister.UpdateDish(&row); err != nil {
			settle(done, "update-dish", Result{Outcome: SyncKeptLocal, Err: err})
			return
		}
		settle(done, "update-dish", Result{Outcome: SyncOK})
	}()
}

// AddDish appends a dish to a subcategory under a client-generated id,
// visible immediately. On success the server identity replaces the
// client id at the same position; on failure the node is removed.
func (s *Store) AddDish(subcategoryID uuid.UUID, draft models.Dish, done DoneFunc) uuid.UUID {
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	draft.SubcategoryID = subcategoryID
	draft.Price = models.NormalizePrice(draft.Price)
	draft.Allergens = models.FilterAllergens(draft.Allergens)

	s.mu.Lock()
	sub, ok := s.snap.Subcategories[subcategoryID]
	if !ok {
		s.mu.Unlock()
		settle(done, "add-dish", Result{Outcome: SyncRolledBack, Err: errUnknownParent})
		return uuid.Nil
	}
	draft.OrderIndex = len(sub.DishIDs)
	clientID := draft.ID
	s.snap.Dishes[clientID] = &DishNode{Dish: draft}
	sub.DishIDs = append(sub.DishIDs, clientID)
	row := draft
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go func() {
		created, err := s.persister.CreateDish(&row)
		if err != nil {
			s.mu.Lock()
			delete(s.snap.Dishes, clientID)
			if sub, ok := s.snap.Subcategories[subcategoryID]; ok {
				sub.DishIDs = removeID(sub.DishIDs, clientID)
				s.snap.renumberDishes(sub)
			}
			s.mu.Unlock()
			s.emit(restaurantID)
			settle(done, "add-dish", Result{Outcome: SyncRolledBack, Err: err})
			return
		}

		if created.ID != clientID {
			s.mu.Lock()
			if node, ok := s.snap.Dishes[clientID]; ok {
				delete(s.snap.Dishes, clientID)
				node.Dish = *created
				s.snap.Dishes[created.ID] = node
				if sub, ok := s.snap.Subcategories[subcategoryID]; ok {
					replaceID(sub.DishIDs, clientID, created.ID)
				}
			}
			s.mu.Unlock()
			s.emit(restaurantID)
		}
		settle(done, "add-dish", Result{Outcome: SyncOK})
	}()
	return clientID
}

// DeleteDish removes a dish immediately and renumbers its siblings. On
// write failure the whole snapshot is refetched.
func (s *Store) DeleteDish(id uuid.UUID, done DoneFunc) {
	s.mu.Lock()
	sub := s.snap.subcategoryOf(id)
	if sub == nil {
		s.mu.Unlock()
		settle(done, "delete-dish", Result{Outcome: SyncOK})
		return
	}
	delete(s.snap.Dishes, id)
	sub.DishIDs = removeID(sub.DishIDs, id)
	s.snap.renumberDishes(sub)
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go func() {
		if err := s.persister.DeleteDish(id); err != nil {
			s.refetchAfterFailure("delete-dish", err, done)
			return
		}
		settle(done, "delete-dish", Result{Outcome: SyncOK})
	}()
}

// ReorderDishes rewrites a subcategory's dish order to match orderedIDs,
// which must be a permutation of the current siblings. One batched
// write; on failure the whole snapshot is refetched.
func (s *Store) ReorderDishes(subcategoryID uuid.UUID, orderedIDs []uuid.UUID, done DoneFunc) error {
	s.mu.Lock()
	sub, ok := s.snap.Subcategories[subcategoryID]
	if !ok {
		s.mu.Unlock()
		return errUnknownParent
	}
	if err := validateOrdering(sub.DishIDs, orderedIDs); err != nil {
		s.mu.Unlock()
		return err
	}
	sub.DishIDs = append([]uuid.UUID(nil), orderedIDs...)
	s.snap.renumberDishes(sub)
	updates := orderUpdates(orderedIDs)
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go s.persistReorder("dishes", updates, done)
	return nil
}

// --- Subcategories ---

// AddSubcategory appends a subcategory to a category under a
// client-generated id. Same recovery as AddDish.
func (s *Store) AddSubcategory(categoryID uuid.UUID, name string, done DoneFunc) uuid.UUID {
	clientID := uuid.New()

	s.mu.Lock()
	cat, ok := s.snap.Categories[categoryID]
	if !ok {
		s.mu.Unlock()
		settle(done, "add-subcategory", Result{Outcome: SyncRolledBack, Err: errUnknownParent})
		return uuid.Nil
	}
	draft := models.Subcategory{
		ID:         clientID,
		CategoryID: categoryID,
		Name:       name,
		OrderIndex: len(cat.SubcategoryIDs),
	}
	s.snap.Subcategories[clientID] = &SubcategoryNode{Subcategory: draft}
	cat.SubcategoryIDs = append(cat.SubcategoryIDs, clientID)
	row := draft
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go func() {
		created, err := s.persister.CreateSubcategory(&row)
		if err != nil {
			s.mu.Lock()
			delete(s.snap.Subcategories, clientID)
			if cat, ok := s.snap.Categories[categoryID]; ok {
				cat.SubcategoryIDs = removeID(cat.SubcategoryIDs, clientID)
				s.snap.renumberSubcategories(cat)
			}
			s.mu.Unlock()
			s.emit(restaurantID)
			settle(done, "add-subcategory", Result{Outcome: SyncRolledBack, Err: err})
			return
		}
		if created.ID != clientID {
			s.mu.Lock()
			if node, ok := s.snap.Subcategories[clientID]; ok {
				delete(s.snap.Subcategories, clientID)
				node.Subcategory = *created
				s.snap.Subcategories[created.ID] = node
				if cat, ok := s.snap.Categories[categoryID]; ok {
					replaceID(cat.SubcategoryIDs, clientID, created.ID)
				}
			}
			s.mu.Unlock()
			s.emit(restaurantID)
		}
		settle(done, "add-subcategory", Result{Outcome: SyncOK})
	}()
	return clientID
}

// RenameSubcategory updates a subcategory's name. Keeps local on failure.
func (s *Store) RenameSubcategory(id uuid.UUID, name string, done DoneFunc) {
	s.mu.Lock()
	sub, ok := s.snap.Subcategories[id]
	if !ok {
		s.mu.Unlock()
		settle(done, "rename-subcategory", Result{Outcome: SyncOK})
		return
	}
	sub.Name = name
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go func() {
		if err := s.persister.RenameSubcategory(id, name); err != nil {
			settle(done, "rename-subcategory", Result{Outcome: SyncKeptLocal, Err: err})
			return
		}
		settle(done, "rename-subcategory", Result{Outcome: SyncOK})
	}()
}

// DeleteSubcategory removes a subcategory and its dishes immediately.
// Refetches on failure.
func (s *Store) DeleteSubcategory(id uuid.UUID, done DoneFunc) {
	s.mu.Lock()
	cat := s.snap.categoryOf(id)
	sub, ok := s.snap.Subcategories[id]
	if !ok || cat == nil {
		s.mu.Unlock()
		settle(done, "delete-subcategory", Result{Outcome: SyncOK})
		return
	}
	for _, dishID := range sub.DishIDs {
		delete(s.snap.Dishes, dishID)
	}
	delete(s.snap.Subcategories, id)
	cat.SubcategoryIDs = removeID(cat.SubcategoryIDs, id)
	s.snap.renumberSubcategories(cat)
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go func() {
		if err := s.persister.DeleteSubcategory(id); err != nil {
			s.refetchAfterFailure("delete-subcategory", err, done)
			return
		}
		settle(done, "delete-subcategory", Result{Outcome: SyncOK})
	}()
}

// ReorderSubcategories rewrites a category's subcategory order.
func (s *Store) ReorderSubcategories(categoryID uuid.UUID, orderedIDs []uuid.UUID, done DoneFunc) error {
	s.mu.Lock()
	cat, ok := s.snap.Categories[categoryID]
	if !ok {
		s.mu.Unlock()
		return errUnknownParent
	}
	if err := validateOrdering(cat.SubcategoryIDs, orderedIDs); err != nil {
		s.mu.Unlock()
		return err
	}
	cat.SubcategoryIDs = append([]uuid.UUID(nil), orderedIDs...)
	s.snap.renumberSubcategories(cat)
	updates := orderUpdates(orderedIDs)
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go s.persistReorder("subcategories", updates, done)
	return nil
}

// --- Categories ---

// AddCategory appends a top-level category under a client-generated id.
func (s *Store) AddCategory(name string, done DoneFunc) uuid.UUID {
	clientID := uuid.New()

	s.mu.Lock()
	draft := models.Category{
		ID:           clientID,
		RestaurantID: s.snap.Restaurant.ID,
		Name:         name,
		OrderIndex:   len(s.snap.CategoryIDs),
	}
	s.snap.Categories[clientID] = &CategoryNode{Category: draft}
	s.snap.CategoryIDs = append(s.snap.CategoryIDs, clientID)
	row := draft
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go func() {
		created, err := s.persister.CreateCategory(&row)
		if err != nil {
			s.mu.Lock()
			delete(s.snap.Categories, clientID)
			s.snap.CategoryIDs = removeID(s.snap.CategoryIDs, clientID)
			s.snap.renumberCategories()
			s.mu.Unlock()
			s.emit(restaurantID)
			settle(done, "add-category", Result{Outcome: SyncRolledBack, Err: err})
			return
		}
		if created.ID != clientID {
			s.mu.Lock()
			if node, ok := s.snap.Categories[clientID]; ok {
				delete(s.snap.Categories, clientID)
				node.Category = *created
				s.snap.Categories[created.ID] = node
				replaceID(s.snap.CategoryIDs, clientID, created.ID)
			}
			s.mu.Unlock()
			s.emit(restaurantID)
		}
		settle(done, "add-category", Result{Outcome: SyncOK})
	}()
	return clientID
}

// RenameCategory updates a category's name. Keeps local on failure.
func (s *Store) RenameCategory(id uuid.UUID, name string, done DoneFunc) {
	s.mu.Lock()
	cat, ok := s.snap.Categories[id]
	if !ok {
		s.mu.Unlock()
		settle(done, "rename-category", Result{Outcome: SyncOK})
		return
	}
	cat.Name = name
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go func() {
		if err := s.persister.RenameCategory(id, name); err != nil {
			settle(done, "rename-category", Result{Outcome: SyncKeptLocal, Err: err})
			return
		}
		settle(done, "rename-category", Result{Outcome: SyncOK})
	}()
}

// DeleteCategory removes a category and everything under it immediately.
// Refetches on failure.
func (s *Store) DeleteCategory(id uuid.UUID, done DoneFunc) {
	s.mu.Lock()
	cat, ok := s.snap.Categories[id]
	if !ok {
		s.mu.Unlock()
		settle(done, "delete-category", Result{Outcome: SyncOK})
		return
	}
	for _, subID := range cat.SubcategoryIDs {
		if sub, ok := s.snap.Subcategories[subID]; ok {
			for _, dishID := range sub.DishIDs {
				delete(s.snap.Dishes, dishID)
			}
		}
		delete(s.snap.Subcategories, subID)
	}
	delete(s.snap.Categories, id)
	s.snap.CategoryIDs = removeID(s.snap.CategoryIDs, id)
	s.snap.renumberCategories()
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go func() {
		if err := s.persister.DeleteCategory(id); err != nil {
			s.refetchAfterFailure("delete-category", err, done)
			return
		}
		settle(done, "delete-category", Result{Outcome: SyncOK})
	}()
}

// ReorderCategories rewrites the restaurant's category order.
func (s *Store) ReorderCategories(orderedIDs []uuid.UUID, done DoneFunc) error {
	s.mu.Lock()
	if err := validateOrdering(s.snap.CategoryIDs, orderedIDs); err != nil {
		s.mu.Unlock()
		return err
	}
	s.snap.CategoryIDs = append([]uuid.UUID(nil), orderedIDs...)
	s.snap.renumberCategories()
	updates := orderUpdates(orderedIDs)
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go s.persistReorder("categories", updates, done)
	return nil
}

// --- Restaurant ---

// UpdateRestaurant shallow-merges a patch into the restaurant row and
// persists the merged row. Keeps local on failure.
func (s *Store) UpdateRestaurant(patch models.RestaurantPatch, done DoneFunc) {
	s.mu.Lock()
	patch.Apply(&s.snap.Restaurant)
	row := s.snap.Restaurant
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)

	go func() {
		if err := s.persister.UpdateRestaurant(&row); err != nil {
			settle(done, "update-restaurant", Result{Outcome: SyncKeptLocal, Err: err})
			return
		}
		settle(done, "update-restaurant", Result{Outcome: SyncOK})
	}()
}

// ReplaceDishExtras swaps a dish's options and modifiers in the snapshot
// after the database replacement already committed. Unlike the other
// operations the write happens first: the editor dialog saves a whole
// set at once and there is no meaningful optimistic intermediate.
func (s *Store) ReplaceDishExtras(dishID uuid.UUID, options []models.DishOption, modifiers []models.DishModifier) {
	s.mu.Lock()
	if dish, ok := s.snap.Dishes[dishID]; ok {
		dish.Options = options
		dish.Modifiers = modifiers
		dish.HasOptions = len(options) > 0
	}
	restaurantID := s.snap.Restaurant.ID
	s.mu.Unlock()
	s.emit(restaurantID)
}

// persistReorder runs the batched order-index write and refetches on
// failure.
func (s *Store) persistReorder(table string, updates []OrderUpdate, done DoneFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.persister.Reorder(ctx, table, updates); err != nil {
		s.refetchAfterFailure("reorder-"+table, err, done)
		return
	}
	settle(done, "reorder-"+table, Result{Outcome: SyncOK})
}

// orderUpdates maps slice positions to order-index assignments.
func orderUpdates(orderedIDs []uuid.UUID) []OrderUpdate {
	updates := make([]OrderUpdate, len(orderedIDs))
	for i, id := range orderedIDs {
		updates[i] = OrderUpdate{ID: id, OrderIndex: i}
	}
	return updates
}
