// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"restaubot/internal/models"
)

// MenuItemStore handles the purchasing-side menu item records.
type MenuItemStore struct {
	db *sql.DB
}

// NewMenuItemStore creates a new MenuItemStore with the given database connection.
func NewMenuItemStore(db *sql.DB) *MenuItemStore {
	return &MenuItemStore{db: db}
}

const menuItemColumns = `id, restaurant_id, name, category, menu_price, production_cost, instructions, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (*models.MenuItem, error) {
	m := &models.MenuItem{}
	err := row.Scan(
		&m.ID, &m.RestaurantID, &m.Name, &m.Category, &m.MenuPrice,
		&m.ProductionCost, &m.Instructions, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List returns all menu items for a restaurant, alphabetically.
func (s *MenuItemStore) List(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+menuItemColumns+` FROM menu_items
		WHERE restaurant_id = $1 ORDER BY name ASC
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var out []models.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// GetByID retrieves one menu item. Returns nil if not found.
func (s *MenuItemStore) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*models.MenuItem, error) {
	m, err := scanMenuItem(s.db.QueryRowContext(ctx, `
		SELECT `+menuItemColumns+` FROM menu_items
		WHERE restaurant_id = $1 AND id = $2
	`, restaurantID, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return m, nil
}

// Create inserts a new menu item.
func (s *MenuItemStore) Create(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	m, err := scanMenuItem(s.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (restaurant_id, name, category, menu_price, production_cost, instructions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+menuItemColumns+`
	`, item.RestaurantID, item.Name, item.Category, item.MenuPrice, item.ProductionCost, item.Instructions))
	if err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return m, nil
}

// Update changes a menu item's fields. A nil production cost clears the
// manual cost override.
func (s *MenuItemStore) Update(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	m, err := scanMenuItem(s.db.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = $1, category = $2, menu_price = $3, production_cost = $4, instructions = $5, updated_at = NOW()
		WHERE restaurant_id = $6 AND id = $7
		RETURNING `+menuItemColumns+`
	`, item.Name, item.Category, item.MenuPrice, item.ProductionCost, item.Instructions, item.RestaurantID, item.ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return m, nil
}

// SetProductionCost updates only the manual production cost. Pass nil to
// revert the item to computed recipe costing.
func (s *MenuItemStore) SetProductionCost(ctx context.Context, restaurantID, id uuid.UUID, cost *float64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE menu_items SET production_cost = $1, updated_at = NOW()
		WHERE restaurant_id = $2 AND id = $3
	`, cost, restaurantID, id)
	if err != nil {
		return fmt.Errorf("set production cost: %w", err)
	}
	return nil
}

// Delete removes a menu item; its recipe lines and orders cascade.
func (s *MenuItemStore) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM menu_items WHERE restaurant_id = $1 AND id = $2
	`, restaurantID, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}

// BootstrapFromNames inserts menu items for any of the given names that
// don't exist yet, leaving existing items untouched. Used to seed the
// purchasing catalog from a restaurant's menu document. Returns the
// number of items created.
func (s *MenuItemStore) BootstrapFromNames(ctx context.Context, restaurantID uuid.UUID, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("bootstrap begin: %w", err)
	}
	defer tx.Rollback()

	created := 0
	for _, name := range names {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO menu_items (restaurant_id, name)
			VALUES ($1, $2)
			ON CONFLICT (restaurant_id, name) DO NOTHING
		`, restaurantID, name)
		if err != nil {
			return 0, fmt.Errorf("bootstrap insert %q: %w", name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			created++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("bootstrap commit: %w", err)
	}
	return created, nil
}
