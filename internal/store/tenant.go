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

// TenantStore handles tenant accounts and user membership.
type TenantStore struct {
	db *sql.DB
}

// NewTenantStore creates a new TenantStore with the given database connection.
func NewTenantStore(db *sql.DB) *TenantStore {
	return &TenantStore{db: db}
}

// Create inserts a new tenant.
func (s *TenantStore) Create(ctx context.Context, name string) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tenants (name) VALUES ($1)
		RETURNING id, name, created_at
	`, name).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return t, nil
}

// GetByID retrieves a tenant by ID. Returns nil if not found.
func (s *TenantStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM tenants WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// ForUser returns the tenant a user belongs to. Returns nil if the user
// has no membership yet.
func (s *TenantStore) ForUser(ctx context.Context, userID uuid.UUID) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := s.db.QueryRowContext(ctx, `
		SELECT t.id, t.name, t.created_at
		FROM tenants t
		JOIN user_tenants ut ON ut.tenant_id = t.id
		WHERE ut.user_id = $1
	`, userID).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tenant for user: %w", err)
	}
	return t, nil
}

// Delete removes a tenant. Memberships and owned rows cascade.
func (s *TenantStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return nil
}

// LinkUser records a user's membership in a tenant.
func (s *TenantStore) LinkUser(ctx context.Context, userID, tenantID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_tenants (user_id, tenant_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, tenantID)
	if err != nil {
		return fmt.Errorf("link user to tenant: %w", err)
	}
	return nil
}
