// store_test.go covers the optimistic menu store: immediate local
// mutation, order-index contiguity, and the per-operation recovery
// policy when the background write fails.
package menustate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"menupress/internal/models"
)

var errBoom = errors.New("database unavailable")

// fakePersister records writes and fails on demand.
type fakePersister struct {
	mu            sync.Mutex
	failCreate    bool
	failUpdate    bool
	failDelete    bool
	failReorder   bool
	serverIDs     bool // assign fresh server ids on create
	menu          *models.FullMenu
	fullMenuCalls int
	reorders      []string
}

func (f *fakePersister) CreateCategory(c *models.Category) (*models.Category, error) {
	return createRow(f, c, func(c *models.Category, id uuid.UUID) { c.ID = id })
}

func (f *fakePersister) CreateSubcategory(sc *models.Subcategory) (*models.Subcategory, error) {
	return createRow(f, sc, func(sc *models.Subcategory, id uuid.UUID) { sc.ID = id })
}

func (f *fakePersister) CreateDish(d *models.Dish) (*models.Dish, error) {
	return createRow(f, d, func(d *models.Dish, id uuid.UUID) { d.ID = id })
}

// createRow implements the shared create behavior for all three levels.
func createRow[T any](f *fakePersister, row *T, setID func(*T, uuid.UUID)) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, errBoom
	}
	out := *row
	if f.serverIDs {
		setID(&out, uuid.New())
	}
	return &out, nil
}

func (f *fakePersister) RenameCategory(uuid.UUID, string) error    { return f.updateErr() }
func (f *fakePersister) RenameSubcategory(uuid.UUID, string) error { return f.updateErr() }
func (f *fakePersister) UpdateDish(*models.Dish) error             { return f.updateErr() }
func (f *fakePersister) UpdateRestaurant(*models.Restaurant) error { return f.updateErr() }

func (f *fakePersister) updateErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errBoom
	}
	return nil
}

func (f *fakePersister) DeleteCategory(uuid.UUID) error    { return f.deleteErr() }
func (f *fakePersister) DeleteSubcategory(uuid.UUID) error { return f.deleteErr() }
func (f *fakePersister) DeleteDish(uuid.UUID) error        { return f.deleteErr() }

func (f *fakePersister) deleteErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errBoom
	}
	return nil
}

func (f *fakePersister) Reorder(_ context.Context, table string, _ []OrderUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReorder {
		return errBoom
	}
	f.reorders = append(f.reorders, table)
	return nil
}

func (f *fakePersister) FullMenu(_ context.Context, _ uuid.UUID) (*models.FullMenu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fullMenuCalls++
	return f.menu, nil
}

// fixtureMenu builds Drinks → Hot Drinks → Espresso/Cappuccino plus an
// empty Food category.
func fixtureMenu() *models.FullMenu {
	restaurant := models.Restaurant{ID: uuid.New(), Name: "Fixture", Slug: "fixture"}
	espresso := models.Dish{ID: uuid.New(), Name: "Espresso", Price: "3.00", OrderIndex: 0}
	cappuccino := models.Dish{ID: uuid.New(), Name: "Cappuccino", Price: "4.00", OrderIndex: 1}
	hotDrinks := models.Subcategory{ID: uuid.New(), Name: "Hot Drinks", OrderIndex: 0}
	espresso.SubcategoryID = hotDrinks.ID
	cappuccino.SubcategoryID = hotDrinks.ID
	drinks := models.Category{ID: uuid.New(), RestaurantID: restaurant.ID, Name: "Drinks", OrderIndex: 0}
	hotDrinks.CategoryID = drinks.ID
	food := models.Category{ID: uuid.New(), RestaurantID: restaurant.ID, Name: "Food", OrderIndex: 1}

	return &models.FullMenu{
		Restaurant: restaurant,
		Categories: []models.CategoryTree{
			{
				Category: drinks,
				Subcategories: []models.SubcategoryTree{
					{
						Subcategory: hotDrinks,
						Dishes: []models.DishTree{
							{Dish: espresso},
							{Dish: cappuccino},
						},
					},
				},
			},
			{Category: food},
		},
	}
}

// newTestStore builds a store over the fixture menu.
func newTestStore(t *testing.T, fake *fakePersister) (*Store, *models.FullMenu) {
	t.Helper()
	menu := fixtureMenu()
	fake.menu = menu
	return NewStore(FromFullMenu(menu), fake, nil), menu
}

// await waits for an operation's background write to settle.
func await(t *testing.T, done chan Result) Result {
	t.Helper()
	select {
	case res := <-done:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("background write never settled")
		return Result{}
	}
}

func collect(done chan Result) DoneFunc {
	return func(r Result) { done <- r }
}

func TestSnapshotRoundTrip(t *testing.T) {
	menu := fixtureMenu()
	tree := FromFullMenu(menu).Tree()

	if len(tree.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(tree.Categories))
	}
	if tree.Categories[0].Name != "Drinks" || tree.Categories[1].Name != "Food" {
		t.Errorf("category order lost: %s, %s", tree.Categories[0].Name, tree.Categories[1].Name)
	}
	dishes := tree.Categories[0].Subcategories[0].Dishes
	if len(dishes) != 2 || dishes[0].Name != "Espresso" {
		t.Errorf("dish order lost")
	}
}

func TestAddDishAssignsNextOrderIndex(t *testing.T) {
	fake := &fakePersister{}
	st, menu := newTestStore(t, fake)
	subID := menu.Categories[0].Subcategories[0].ID

	done := make(chan Result, 1)
	st.AddDish(subID, models.Dish{Name: "Latte", Price: "4.5"}, collect(done))
	if res := await(t, done); res.Outcome != SyncOK {
		t.Fatalf("expected SyncOK, got %v (%v)", res.Outcome, res.Err)
	}

	dishes := st.Tree().Categories[0].Subcategories[0].Dishes
	if len(dishes) != 3 {
		t.Fatalf("expected 3 dishes, got %d", len(dishes))
	}
	latte := dishes[2]
	if latte.OrderIndex != 2 {
		t.Errorf("expected order_index 2, got %d", latte.OrderIndex)
	}
	if latte.Price != "4.50" {
		t.Errorf("expected normalized price 4.50, got %s", latte.Price)
	}
}

func TestAddDishSwapsServerIdentity(t *testing.T) {
	fake := &fakePersister{serverIDs: true}
	st, menu := newTestStore(t, fake)
	subID := menu.Categories[0].Subcategories[0].ID

	done := make(chan Result, 1)
	clientID := st.AddDish(subID, models.Dish{Name: "Latte", Price: "4.50"}, collect(done))
	await(t, done)

	dishes := st.Tree().Categories[0].Subcategories[0].Dishes
	latte := dishes[2]
	if latte.ID == clientID {
		t.Error("expected server id to replace the client id")
	}
	if latte.Name != "Latte" || latte.OrderIndex != 2 {
		t.Error("identity swap moved or altered the dish")
	}
}

func TestAddDishRollsBackOnFailure(t *testing.T) {
	fake := &fakePersister{failCreate: true}
	st, menu := newTestStore(t, fake)
	subID := menu.Categories[0].Subcategories[0].ID

	done := make(chan Result, 1)
	st.AddDish(subID, models.Dish{Name: "Latte", Price: "4.50"}, collect(done))
	res := await(t, done)
	if res.Outcome != SyncRolledBack {
		t.Fatalf("expected SyncRolledBack, got %v", res.Outcome)
	}
	if !errors.Is(res.Err, errBoom) {
		t.Errorf("expected wrapped write error, got %v", res.Err)
	}

	dishes := st.Tree().Categories[0].Subcategories[0].Dishes
	if len(dishes) != 2 {
		t.Fatalf("optimistic dish not removed: %d dishes", len(dishes))
	}
	assertContiguous(t, st)
}

func TestUpdateDishKeepsLocalOnFailure(t *testing.T) {
	fake := &fakePersister{failUpdate: true}
	st, menu := newTestStore(t, fake)
	dishID := menu.Categories[0].Subcategories[0].Dishes[0].ID

	newName := "Double Espresso"
	done := make(chan Result, 1)
	st.UpdateDish(dishID, models.DishPatch{Name: &newName}, collect(done))
	res := await(t, done)
	if res.Outcome != SyncKeptLocal {
		t.Fatalf("expected SyncKeptLocal, got %v", res.Outcome)
	}

	got := st.Tree().Categories[0].Subcategories[0].Dishes[0].Name
	if got != newName {
		t.Errorf("local edit lost: got %s", got)
	}
}

func TestDeleteDishRefetchesOnFailure(t *testing.T) {
	fake := &fakePersister{failDelete: true}
	st, menu := newTestStore(t, fake)
	dishID := menu.Categories[0].Subcategories[0].Dishes[0].ID

	done := make(chan Result, 1)
	st.DeleteDish(dishID, collect(done))
	res := await(t, done)
	if res.Outcome != SyncRefetched {
		t.Fatalf("expected SyncRefetched, got %v", res.Outcome)
	}

	// The refetch restored the authoritative fixture, espresso included.
	dishes := st.Tree().Categories[0].Subcategories[0].Dishes
	if len(dishes) != 2 {
		t.Errorf("expected refetched snapshot with 2 dishes, got %d", len(dishes))
	}
	fake.mu.Lock()
	calls := fake.fullMenuCalls
	fake.mu.Unlock()
	if calls == 0 {
		t.Error("expected a full-menu refetch")
	}
}

func TestReorderCategoriesDrinksFood(t *testing.T) {
	fake := &fakePersister{}
	st, menu := newTestStore(t, fake)
	drinksID := menu.Categories[0].ID
	foodID := menu.Categories[1].ID

	done := make(chan Result, 1)
	if err := st.ReorderCategories([]uuid.UUID{foodID, drinksID}, collect(done)); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if res := await(t, done); res.Outcome != SyncOK {
		t.Fatalf("expected SyncOK, got %v", res.Outcome)
	}

	tree := st.Tree()
	if tree.Categories[0].Name != "Food" || tree.Categories[1].Name != "Drinks" {
		t.Errorf("reorder not applied: %s, %s", tree.Categories[0].Name, tree.Categories[1].Name)
	}
	assertContiguous(t, st)
}

func TestReorderRejectsNonPermutation(t *testing.T) {
	fake := &fakePersister{}
	st, menu := newTestStore(t, fake)
	subID := menu.Categories[0].Subcategories[0].ID

	err := st.ReorderDishes(subID, []uuid.UUID{uuid.New(), uuid.New()}, nil)
	if err == nil {
		t.Fatal("expected rejection of foreign ids")
	}
}

func TestOrderIndexContiguityAcrossOps(t *testing.T) {
	fake := &fakePersister{}
	st, menu := newTestStore(t, fake)
	subID := menu.Categories[0].Subcategories[0].ID

	// add two, delete the original first dish, reorder the rest
	for _, name := range []string{"Latte", "Mocha"} {
		done := make(chan Result, 1)
		st.AddDish(subID, models.Dish{Name: name, Price: "4.00"}, collect(done))
		await(t, done)
	}

	done := make(chan Result, 1)
	st.DeleteDish(menu.Categories[0].Subcategories[0].Dishes[0].ID, collect(done))
	await(t, done)

	tree := st.Tree()
	dishes := tree.Categories[0].Subcategories[0].Dishes
	ids := make([]uuid.UUID, len(dishes))
	for i, d := range dishes {
		ids[len(dishes)-1-i] = d.ID // reverse
	}
	done = make(chan Result, 1)
	if err := st.ReorderDishes(subID, ids, collect(done)); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	await(t, done)

	assertContiguous(t, st)
}

func TestUpdateRestaurantMergesPatch(t *testing.T) {
	fake := &fakePersister{}
	st, _ := newTestStore(t, fake)

	name := "Renamed Bistro"
	published := true
	done := make(chan Result, 1)
	st.UpdateRestaurant(models.RestaurantPatch{Name: &name, Published: &published}, collect(done))
	await(t, done)

	got := st.Tree().Restaurant
	if got.Name != name || !got.Published {
		t.Errorf("patch not merged: %+v", got)
	}
	if got.Slug != "fixture" {
		t.Errorf("untouched field changed: %s", got.Slug)
	}
}

func TestConcurrentEditsSmoke(t *testing.T) {
	fake := &fakePersister{}
	st, menu := newTestStore(t, fake)
	subID := menu.Categories[0].Subcategories[0].ID

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			done := make(chan Result, 1)
			st.AddDish(subID, models.Dish{Name: fmt.Sprintf("Dish %d", i), Price: "1.00"}, collect(done))
			<-done
		}(i)
	}
	wg.Wait()

	dishes := st.Tree().Categories[0].Subcategories[0].Dishes
	if len(dishes) != 22 {
		t.Fatalf("expected 22 dishes, got %d", len(dishes))
	}
	assertContiguous(t, st)
}

// assertContiguous checks the ordering invariant: sibling order_index
// values equal array positions at every level.
func assertContiguous(t *testing.T, st *Store) {
	t.Helper()
	tree := st.Tree()
	for i, cat := range tree.Categories {
		if cat.OrderIndex != i {
			t.Errorf("category %s: order_index %d at position %d", cat.Name, cat.OrderIndex, i)
		}
		for j, sub := range cat.Subcategories {
			if sub.OrderIndex != j {
				t.Errorf("subcategory %s: order_index %d at position %d", sub.Name, sub.OrderIndex, j)
			}
			for k, dish := range sub.Dishes {
				if dish.OrderIndex != k {
					t.Errorf("dish %s: order_index %d at position %d", dish.Name, dish.OrderIndex, k)
				}
			}
		}
	}
}

// fakeNotifier records the updaters passed to EmitAll.
type fakeNotifier struct {
	mu       sync.Mutex
	updaters []func(*Snapshot) *Snapshot
}

func (n *fakeNotifier) EmitAll(_ uuid.UUID, update func(*Snapshot) *Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updaters = append(n.updaters, update)
}

func (n *fakeNotifier) last() func(*Snapshot) *Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.updaters) == 0 {
		return nil
	}
	return n.updaters[len(n.updaters)-1]
}

func TestEmitCarriesMutatedState(t *testing.T) {
	fake := &fakePersister{}
	notifier := &fakeNotifier{}
	menu := fixtureMenu()
	fake.menu = menu
	st := NewStore(FromFullMenu(menu), fake, notifier)
	drinksID := menu.Categories[0].ID

	done := make(chan Result, 1)
	st.RenameCategory(drinksID, "Beverages", collect(done))
	await(t, done)

	update := notifier.last()
	if update == nil {
		t.Fatal("mutation emitted nothing")
	}
	snap := update(nil)
	if snap == nil {
		t.Fatal("updater returned no snapshot")
	}
	cat, ok := snap.Categories[drinksID]
	if !ok || cat.Name != "Beverages" {
		t.Fatal("emitted snapshot does not carry the rename")
	}

	// Subscribers get an independent copy, not the live arena.
	cat.Name = "scribbled"
	if got := st.Tree().Categories[0].Name; got != "Beverages" {
		t.Errorf("subscriber copy aliases the live snapshot: %q", got)
	}
}
