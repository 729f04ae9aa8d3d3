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
	"restaubot/internal/recipecost"
)

// RecipeStore handles recipe lines linking ingredients to menu items.
// It satisfies recipecost.Store so edit-session diffs can be persisted
// directly through it.
type RecipeStore struct {
	db *sql.DB
}

// NewRecipeStore creates a new RecipeStore with the given database connection.
func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// ListByMenuItem returns the recipe lines of one menu item.
func (s *RecipeStore) ListByMenuItem(ctx context.Context, restaurantID, menuItemID uuid.UUID) ([]models.RecipeLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT restaurant_id, menu_item_id, ingredient_id, quantity_per_unit
		FROM recipes WHERE restaurant_id = $1 AND menu_item_id = $2
	`, restaurantID, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("list recipe lines: %w", err)
	}
	defer rows.Close()

	var out []models.RecipeLine
	for rows.Next() {
		var line models.RecipeLine
		if err := rows.Scan(&line.RestaurantID, &line.MenuItemID, &line.IngredientID, &line.QuantityPerUnit); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

// ListAll returns every recipe line of a restaurant, used for sales
// aggregation and cost listings.
func (s *RecipeStore) ListAll(ctx context.Context, restaurantID uuid.UUID) ([]models.RecipeLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT restaurant_id, menu_item_id, ingredient_id, quantity_per_unit
		FROM recipes WHERE restaurant_id = $1
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list all recipe lines: %w", err)
	}
	defer rows.Close()

	var out []models.RecipeLine
	for rows.Next() {
		var line models.RecipeLine
		if err := rows.Scan(&line.RestaurantID, &line.MenuItemID, &line.IngredientID, &line.QuantityPerUnit); err != nil {
			return nil, fmt.Errorf("scan recipe line: %w", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

// EditLines loads a menu item's recipe joined with the ingredient catalog
// and stock cost basis, in the shape the edit session works on.
func (s *RecipeStore) EditLines(ctx context.Context, restaurantID, menuItemID uuid.UUID) ([]recipecost.Line, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.ingredient_id, i.name, i.unit, COALESCE(st.unit_cost, 0), r.quantity_per_unit
		FROM recipes r
		JOIN ingredients i ON i.id = r.ingredient_id
		LEFT JOIN ingredient_stock st
			ON st.restaurant_id = r.restaurant_id AND st.ingredient_id = r.ingredient_id
		WHERE r.restaurant_id = $1 AND r.menu_item_id = $2
		ORDER BY i.name ASC
	`, restaurantID, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("load edit lines: %w", err)
	}
	defer rows.Close()

	var out []recipecost.Line
	for rows.Next() {
		var line recipecost.Line
		if err := rows.Scan(&line.IngredientID, &line.Name, &line.Unit, &line.UnitCost, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan edit line: %w", err)
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

// UpsertRecipeLine creates or replaces one recipe line.
func (s *RecipeStore) UpsertRecipeLine(ctx context.Context, restaurantID, menuItemID uuid.UUID, line recipecost.Line) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes (restaurant_id, menu_item_id, ingredient_id, quantity_per_unit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (restaurant_id, menu_item_id, ingredient_id) DO UPDATE SET
			quantity_per_unit = EXCLUDED.quantity_per_unit
	`, restaurantID, menuItemID, line.IngredientID, line.Quantity)
	if err != nil {
		return fmt.Errorf("upsert recipe line: %w", err)
	}
	return nil
}

// DeleteRecipeLine removes one ingredient from a menu item's recipe.
func (s *RecipeStore) DeleteRecipeLine(ctx context.Context, restaurantID, menuItemID, ingredientID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM recipes
		WHERE restaurant_id = $1 AND menu_item_id = $2 AND ingredient_id = $3
	`, restaurantID, menuItemID, ingredientID)
	if err != nil {
		return fmt.Errorf("delete recipe line: %w", err)
	}
	return nil
}

// UpdateIngredientUnit changes an ingredient's master unit. Called during
// recipe saves when a line's unit was edited.
func (s *RecipeStore) UpdateIngredientUnit(ctx context.Context, restaurantID, ingredientID uuid.UUID, unit string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE ingredients SET unit = $1, updated_at = NOW()
		WHERE restaurant_id = $2 AND id = $3
	`, unit, restaurantID, ingredientID)
	if err != nil {
		return fmt.Errorf("update ingredient unit: %w", err)
	}
	return nil
}

// ReplaceLines swaps a menu item's entire recipe for the given lines in
// one transaction. Used by the bulk recipe upsert endpoint.
func (s *RecipeStore) ReplaceLines(ctx context.Context, restaurantID, menuItemID uuid.UUID, lines []models.RecipeLine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace lines begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM recipes WHERE restaurant_id = $1 AND menu_item_id = $2
	`, restaurantID, menuItemID); err != nil {
		return fmt.Errorf("replace lines clear: %w", err)
	}

	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (restaurant_id, menu_item_id, ingredient_id, quantity_per_unit)
			VALUES ($1, $2, $3, $4)
		`, restaurantID, menuItemID, line.IngredientID, line.QuantityPerUnit); err != nil {
			return fmt.Errorf("replace lines insert: %w", err)
		}
	}

	return tx.Commit()
}

var _ recipecost.Store = (*RecipeStore)(nil)
