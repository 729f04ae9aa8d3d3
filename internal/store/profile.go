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

// ProfileStore handles operator profile records. The profile ID is the
// owning user's ID.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get retrieves the profile for a user. Returns nil if not found.
func (s *ProfileStore) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p := &models.Profile{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, company_name, country, timezone, phone_number, plan, created_at, updated_at
		FROM profiles WHERE id = $1
	`, userID).Scan(
		&p.ID, &p.FullName, &p.CompanyName, &p.Country, &p.Timezone,
		&p.PhoneNumber, &p.Plan, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Upsert creates or replaces the profile for a user.
func (s *ProfileStore) Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	out := &models.Profile{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, full_name, company_name, country, timezone, phone_number, plan)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			company_name = EXCLUDED.company_name,
			country = EXCLUDED.country,
			timezone = EXCLUDED.timezone,
			phone_number = EXCLUDED.phone_number,
			plan = EXCLUDED.plan,
			updated_at = NOW()
		RETURNING id, full_name, company_name, country, timezone, phone_number, plan, created_at, updated_at
	`, p.ID, p.FullName, p.CompanyName, p.Country, p.Timezone, p.PhoneNumber, p.Plan).Scan(
		&out.ID, &out.FullName, &out.CompanyName, &out.Country, &out.Timezone,
		&out.PhoneNumber, &out.Plan, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return out, nil
}

// UpdatePlan changes only the subscription plan on a profile.
func (s *ProfileStore) UpdatePlan(ctx context.Context, userID uuid.UUID, plan string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET plan = $1, updated_at = NOW() WHERE id = $2
	`, plan, userID)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}
