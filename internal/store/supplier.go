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

// SupplierStore handles suppliers and per-ingredient supplier overrides.
type SupplierStore struct {
	db *sql.DB
}

// NewSupplierStore creates a new SupplierStore with the given database connection.
func NewSupplierStore(db *sql.DB) *SupplierStore {
	return &SupplierStore{db: db}
}

// List returns all suppliers for a restaurant, alphabetically.
func (s *SupplierStore) List(ctx context.Context, restaurantID uuid.UUID) ([]models.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, restaurant_id, name, contact_email, default_lead_time_days, created_at
		FROM suppliers WHERE restaurant_id = $1 ORDER BY name ASC
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []models.Supplier
	for rows.Next() {
		var sup models.Supplier
		if err := rows.Scan(
			&sup.ID, &sup.RestaurantID, &sup.Name, &sup.ContactEmail,
			&sup.DefaultLeadTimeDays, &sup.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, sup)
	}
	return out, rows.Err()
}

// GetByID retrieves one supplier. Returns nil if not found.
func (s *SupplierStore) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*models.Supplier, error) {
	sup := &models.Supplier{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, restaurant_id, name, contact_email, default_lead_time_days, created_at
		FROM suppliers WHERE restaurant_id = $1 AND id = $2
	`, restaurantID, id).Scan(
		&sup.ID, &sup.RestaurantID, &sup.Name, &sup.ContactEmail,
		&sup.DefaultLeadTimeDays, &sup.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return sup, nil
}

// Create inserts a new supplier.
func (s *SupplierStore) Create(ctx context.Context, restaurantID uuid.UUID, name, contactEmail string, defaultLeadTimeDays int) (*models.Supplier, error) {
	sup := &models.Supplier{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO suppliers (restaurant_id, name, contact_email, default_lead_time_days)
		VALUES ($1, $2, $3, $4)
		RETURNING id, restaurant_id, name, contact_email, default_lead_time_days, created_at
	`, restaurantID, name, contactEmail, defaultLeadTimeDays).Scan(
		&sup.ID, &sup.RestaurantID, &sup.Name, &sup.ContactEmail,
		&sup.DefaultLeadTimeDays, &sup.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return sup, nil
}

// Update changes a supplier's details.
func (s *SupplierStore) Update(ctx context.Context, restaurantID, id uuid.UUID, name, contactEmail string, defaultLeadTimeDays int) (*models.Supplier, error) {
	sup := &models.Supplier{}
	err := s.db.QueryRowContext(ctx, `
		UPDATE suppliers
		SET name = $1, contact_email = $2, default_lead_time_days = $3
		WHERE restaurant_id = $4 AND id = $5
		RETURNING id, restaurant_id, name, contact_email, default_lead_time_days, created_at
	`, name, contactEmail, defaultLeadTimeDays, restaurantID, id).Scan(
		&sup.ID, &sup.RestaurantID, &sup.Name, &sup.ContactEmail,
		&sup.DefaultLeadTimeDays, &sup.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}
	return sup, nil
}

// Delete removes a supplier. Ingredient default references are nulled by
// the schema; overrides cascade.
func (s *SupplierStore) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM suppliers WHERE restaurant_id = $1 AND id = $2
	`, restaurantID, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	return nil
}

// ListOverrides returns per-ingredient supplier overrides for a restaurant.
func (s *SupplierStore) ListOverrides(ctx context.Context, restaurantID uuid.UUID) ([]models.IngredientSupplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT restaurant_id, ingredient_id, supplier_id, lead_time_days
		FROM ingredient_suppliers WHERE restaurant_id = $1
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list supplier overrides: %w", err)
	}
	defer rows.Close()

	var out []models.IngredientSupplier
	for rows.Next() {
		var ov models.IngredientSupplier
		if err := rows.Scan(&ov.RestaurantID, &ov.IngredientID, &ov.SupplierID, &ov.LeadTimeDays); err != nil {
			return nil, fmt.Errorf("scan supplier override: %w", err)
		}
		out = append(out, ov)
	}
	return out, rows.Err()
}

// SetOverride creates or replaces an ingredient's supplier override.
func (s *SupplierStore) SetOverride(ctx context.Context, restaurantID, ingredientID, supplierID uuid.UUID, leadTimeDays *int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingredient_suppliers (restaurant_id, ingredient_id, supplier_id, lead_time_days)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (restaurant_id, ingredient_id) DO UPDATE SET
			supplier_id = EXCLUDED.supplier_id,
			lead_time_days = EXCLUDED.lead_time_days
	`, restaurantID, ingredientID, supplierID, leadTimeDays)
	if err != nil {
		return fmt.Errorf("set supplier override: %w", err)
	}
	return nil
}

// DeleteOverride removes an ingredient's supplier override.
func (s *SupplierStore) DeleteOverride(ctx context.Context, restaurantID, ingredientID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM ingredient_suppliers WHERE restaurant_id = $1 AND ingredient_id = $2
	`, restaurantID, ingredientID)
	if err != nil {
		return fmt.Errorf("delete supplier override: %w", err)
	}
	return nil
}
