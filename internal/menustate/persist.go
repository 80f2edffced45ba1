// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package menustate

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"menupress/internal/models"
	"menupress/internal/store"
)

// errUnknownParent is returned when an operation targets a parent node
// missing from the snapshot.
var errUnknownParent = errors.New("menustate: unknown parent node")

// StorePersister adapts the database stores to the Persister interface.
type StorePersister struct {
	Categories    *store.CategoryStore
	Subcategories *store.SubcategoryStore
	Dishes        *store.DishStore
	Restaurants   *store.RestaurantStore
	Menus         *store.MenuStore
	SyncLog       *store.SyncLogStore
}

// NewStorePersister wires the database stores behind one persister.
func NewStorePersister(db *sql.DB) *StorePersister {
	return &StorePersister{
		Categories:    store.NewCategoryStore(db),
		Subcategories: store.NewSubcategoryStore(db),
		Dishes:        store.NewDishStore(db),
		Restaurants:   store.NewRestaurantStore(db),
		Menus:         store.NewMenuStore(db),
		SyncLog:       store.NewSyncLogStore(db),
	}
}

func (p *StorePersister) CreateCategory(c *models.Category) (*models.Category, error) {
	created, err := p.Categories.Create(c)
	if err == nil {
		p.logInvalidation("category", created.ID, "create")
	}
	return created, err
}

func (p *StorePersister) RenameCategory(id uuid.UUID, name string) error {
	err := p.Categories.Rename(id, name)
	if err == nil {
		p.logInvalidation("category", id, "update")
	}
	return err
}

func (p *StorePersister) DeleteCategory(id uuid.UUID) error {
	err := p.Categories.Delete(id)
	if err == nil {
		p.logInvalidation("category", id, "delete")
	}
	return err
}

func (p *StorePersister) CreateSubcategory(sc *models.Subcategory) (*models.Subcategory, error) {
	created, err := p.Subcategories.Create(sc)
	if err == nil {
		p.logInvalidation("subcategory", created.ID, "create")
	}
	return created, err
}

func (p *StorePersister) RenameSubcategory(id uuid.UUID, name string) error {
	err := p.Subcategories.Rename(id, name)
	if err == nil {
		p.logInvalidation("subcategory", id, "update")
	}
	return err
}

func (p *StorePersister) DeleteSubcategory(id uuid.UUID) error {
	err := p.Subcategories.Delete(id)
	if err == nil {
		p.logInvalidation("subcategory", id, "delete")
	}
	return err
}

func (p *StorePersister) CreateDish(d *models.Dish) (*models.Dish, error) {
	created, err := p.Dishes.Create(d)
	if err == nil {
		p.logInvalidation("dish", created.ID, "create")
	}
	return created, err
}

func (p *StorePersister) UpdateDish(d *models.Dish) error {
	err := p.Dishes.Update(d)
	if err == nil {
		p.logInvalidation("dish", d.ID, "update")
	}
	return err
}

func (p *StorePersister) DeleteDish(id uuid.UUID) error {
	err := p.Dishes.Delete(id)
	if err == nil {
		p.logInvalidation("dish", id, "delete")
	}
	return err
}

func (p *StorePersister) Reorder(ctx context.Context, table string, updates []OrderUpdate) error {
	rows := make([]store.OrderUpdate, len(updates))
	for i, u := range updates {
		rows[i] = store.OrderUpdate{ID: u.ID, OrderIndex: u.OrderIndex}
	}
	err := p.Menus.BatchUpdateOrderIndexes(ctx, table, rows)
	if err == nil && len(updates) > 0 {
		p.logInvalidation(table, updates[0].ID, "reorder")
	}
	return err
}

func (p *StorePersister) UpdateRestaurant(r *models.Restaurant) error {
	err := p.Restaurants.Update(r)
	if err == nil {
		p.logInvalidation("restaurant", r.ID, "update")
	}
	return err
}

func (p *StorePersister) FullMenu(ctx context.Context, restaurantID uuid.UUID) (*models.FullMenu, error) {
	return p.Menus.FullMenu(ctx, restaurantID)
}

// logInvalidation records the audit entry; best-effort by contract.
func (p *StorePersister) logInvalidation(entityType string, entityID uuid.UUID, action string) {
	if p.SyncLog != nil {
		p.SyncLog.Log(entityType, entityID, action)
	}
}
