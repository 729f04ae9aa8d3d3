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

// IngredientStore handles the ingredient catalog and its stock levels.
type IngredientStore struct {
	db *sql.DB
}

// NewIngredientStore creates a new IngredientStore with the given database connection.
func NewIngredientStore(db *sql.DB) *IngredientStore {
	return &IngredientStore{db: db}
}

// List returns all ingredients for a restaurant, alphabetically.
func (s *IngredientStore) List(ctx context.Context, restaurantID uuid.UUID) ([]models.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, restaurant_id, name, unit, default_supplier_id, created_at, updated_at
		FROM ingredients WHERE restaurant_id = $1 ORDER BY name ASC
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()

	var out []models.Ingredient
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(
			&ing.ID, &ing.RestaurantID, &ing.Name, &ing.Unit,
			&ing.DefaultSupplierID, &ing.CreatedAt, &ing.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// GetByID retrieves one ingredient. Returns nil if not found.
func (s *IngredientStore) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, restaurant_id, name, unit, default_supplier_id, created_at, updated_at
		FROM ingredients WHERE restaurant_id = $1 AND id = $2
	`, restaurantID, id).Scan(
		&ing.ID, &ing.RestaurantID, &ing.Name, &ing.Unit,
		&ing.DefaultSupplierID, &ing.CreatedAt, &ing.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

// Create inserts a new catalog ingredient.
func (s *IngredientStore) Create(ctx context.Context, restaurantID uuid.UUID, name, unit string, defaultSupplierID *uuid.UUID) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO ingredients (restaurant_id, name, unit, default_supplier_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, restaurant_id, name, unit, default_supplier_id, created_at, updated_at
	`, restaurantID, name, unit, defaultSupplierID).Scan(
		&ing.ID, &ing.RestaurantID, &ing.Name, &ing.Unit,
		&ing.DefaultSupplierID, &ing.CreatedAt, &ing.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return ing, nil
}

// Update changes an ingredient's name, unit and default supplier.
func (s *IngredientStore) Update(ctx context.Context, restaurantID, id uuid.UUID, name, unit string, defaultSupplierID *uuid.UUID) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	err := s.db.QueryRowContext(ctx, `
		UPDATE ingredients
		SET name = $1, unit = $2, default_supplier_id = $3, updated_at = NOW()
		WHERE restaurant_id = $4 AND id = $5
		RETURNING id, restaurant_id, name, unit, default_supplier_id, created_at, updated_at
	`, name, unit, defaultSupplierID, restaurantID, id).Scan(
		&ing.ID, &ing.RestaurantID, &ing.Name, &ing.Unit,
		&ing.DefaultSupplierID, &ing.CreatedAt, &ing.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	return ing, nil
}

// Delete removes an ingredient; recipe lines and stock rows cascade.
func (s *IngredientStore) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM ingredients WHERE restaurant_id = $1 AND id = $2
	`, restaurantID, id)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}

// ListStock returns the stock rows for all of a restaurant's ingredients.
// Ingredients with no stock row yet are absent from the result.
func (s *IngredientStore) ListStock(ctx context.Context, restaurantID uuid.UUID) ([]models.IngredientStock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT restaurant_id, ingredient_id, current_stock, safety_stock, unit_cost, last_manual_update_at
		FROM ingredient_stock WHERE restaurant_id = $1
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var out []models.IngredientStock
	for rows.Next() {
		var st models.IngredientStock
		if err := rows.Scan(
			&st.RestaurantID, &st.IngredientID, &st.CurrentStock,
			&st.SafetyStock, &st.UnitCost, &st.LastManualUpdateAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GetStock retrieves the stock row for one ingredient. Returns nil if none exists.
func (s *IngredientStore) GetStock(ctx context.Context, restaurantID, ingredientID uuid.UUID) (*models.IngredientStock, error) {
	st := &models.IngredientStock{}
	err := s.db.QueryRowContext(ctx, `
		SELECT restaurant_id, ingredient_id, current_stock, safety_stock, unit_cost, last_manual_update_at
		FROM ingredient_stock WHERE restaurant_id = $1 AND ingredient_id = $2
	`, restaurantID, ingredientID).Scan(
		&st.RestaurantID, &st.IngredientID, &st.CurrentStock,
		&st.SafetyStock, &st.UnitCost, &st.LastManualUpdateAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return st, nil
}

// UpsertStock creates or replaces the stock row for an ingredient and
// stamps the manual update time.
func (s *IngredientStore) UpsertStock(ctx context.Context, restaurantID, ingredientID uuid.UUID, currentStock, safetyStock, unitCost float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredient_stock (restaurant_id, ingredient_id, current_stock, safety_stock, unit_cost, last_manual_update_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (restaurant_id, ingredient_id) DO UPDATE SET
			current_stock = EXCLUDED.current_stock,
			safety_stock = EXCLUDED.safety_stock,
			unit_cost = EXCLUDED.unit_cost,
			last_manual_update_at = NOW()
	`, restaurantID, ingredientID, currentStock, safetyStock, unitCost)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// UpdateSafetyStock sets only the safety stock threshold, creating the
// stock row when missing.
func (s *IngredientStore) UpdateSafetyStock(ctx context.Context, restaurantID, ingredientID uuid.UUID, safetyStock float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredient_stock (restaurant_id, ingredient_id, safety_stock)
		VALUES ($1, $2, $3)
		ON CONFLICT (restaurant_id, ingredient_id) DO UPDATE SET
			safety_stock = EXCLUDED.safety_stock
	`, restaurantID, ingredientID, safetyStock)
	if err != nil {
		return fmt.Errorf("update safety stock: %w", err)
	}
	return nil
}

// DecrementStock subtracts consumed quantities from current stock,
// flooring at zero. Ingredients without a stock row are skipped.
func (s *IngredientStore) DecrementStock(ctx context.Context, restaurantID uuid.UUID, consumption map[uuid.UUID]float64) error {
	if len(consumption) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("decrement stock begin: %w", err)
	}
	defer tx.Rollback()

	for ingredientID, qty := range consumption {
		if qty <= 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE ingredient_stock
			SET current_stock = GREATEST(0, current_stock - $1)
			WHERE restaurant_id = $2 AND ingredient_id = $3
		`, qty, restaurantID, ingredientID); err != nil {
			return fmt.Errorf("decrement stock for %s: %w", ingredientID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("decrement stock commit: %w", err)
	}
	return nil
}
