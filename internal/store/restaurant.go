// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"restaubot/internal/models"
)

// RestaurantStore handles restaurant records and their menu documents.
type RestaurantStore struct {
	db *sql.DB
}

// NewRestaurantStore creates a new RestaurantStore with the given database connection.
func NewRestaurantStore(db *sql.DB) *RestaurantStore {
	return &RestaurantStore{db: db}
}

const restaurantColumns = `id, tenant_id, display_name, slug, menu_document, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...any) error }) (*models.Restaurant, error) {
	r := &models.Restaurant{}
	err := row.Scan(&r.ID, &r.TenantID, &r.DisplayName, &r.Slug, &r.MenuDocument, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetByID retrieves a restaurant by ID. Returns nil if not found.
func (s *RestaurantStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	r, err := scanRestaurant(s.db.QueryRowContext(ctx, `
		SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

// GetBySlug retrieves a restaurant by its public slug. Returns nil if not found.
func (s *RestaurantStore) GetBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	r, err := scanRestaurant(s.db.QueryRowContext(ctx, `
		SELECT `+restaurantColumns+` FROM restaurants WHERE slug = $1
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant by slug: %w", err)
	}
	return r, nil
}

// ListByTenant returns all restaurants belonging to a tenant, oldest first.
func (s *RestaurantStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+restaurantColumns+` FROM restaurants
		WHERE tenant_id = $1 ORDER BY created_at ASC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var out []models.Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Create inserts a new restaurant with its initial menu document.
func (s *RestaurantStore) Create(ctx context.Context, tenantID uuid.UUID, displayName, slug string, menuDocument json.RawMessage) (*models.Restaurant, error) {
	if len(menuDocument) == 0 {
		menuDocument = json.RawMessage(`{}`)
	}
	r, err := scanRestaurant(s.db.QueryRowContext(ctx, `
		INSERT INTO restaurants (tenant_id, display_name, slug, menu_document)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING `+restaurantColumns+`
	`, tenantID, displayName, slug, string(menuDocument)))
	if err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return r, nil
}

// Update changes a restaurant's display name, slug and menu document.
func (s *RestaurantStore) Update(ctx context.Context, id uuid.UUID, displayName, slug string, menuDocument json.RawMessage) (*models.Restaurant, error) {
	if len(menuDocument) == 0 {
		menuDocument = json.RawMessage(`{}`)
	}
	r, err := scanRestaurant(s.db.QueryRowContext(ctx, `
		UPDATE restaurants
		SET display_name = $1, slug = $2, menu_document = $3::jsonb, updated_at = NOW()
		WHERE id = $4
		RETURNING `+restaurantColumns+`
	`, displayName, slug, string(menuDocument), id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	return r, nil
}

// UpdateMenuDocument replaces only the menu document.
func (s *RestaurantStore) UpdateMenuDocument(ctx context.Context, id uuid.UUID, menuDocument json.RawMessage) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE restaurants SET menu_document = $1::jsonb, updated_at = NOW() WHERE id = $2
	`, string(menuDocument), id)
	if err != nil {
		return fmt.Errorf("update menu document: %w", err)
	}
	return nil
}

// SlugExists reports whether any restaurant already uses the given slug.
func (s *RestaurantStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM restaurants WHERE slug = $1)
	`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// CountByTenant returns how many restaurants a tenant owns.
func (s *RestaurantStore) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM restaurants WHERE tenant_id = $1
	`, tenantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	return count, nil
}

// Delete removes a restaurant and, via cascades, all its purchasing and
// chat data.
func (s *RestaurantStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	return nil
}
