// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the billing account that owns one or more restaurants.
// Every signup creates exactly one tenant.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserTenant links a user to the tenant they belong to. Signup creates
// exactly one membership; the table exists so a tenant can later invite
// additional staff accounts.
type UserTenant struct {
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// Plan names as stored on profiles. Presets (price, cycle) live in the
// dashboard package.
const (
	PlanDiscovery = "Plan Découverte"
	PlanPro       = "Plan Pro"
	PlanPremium   = "Plan Premium"
)

// Profile holds the operator-facing account details shown on the profile
// and billing pages. The ID is the owning user's ID.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	CompanyName string    `json:"company_name"`
	Country     string    `json:"country"`
	Timezone    string    `json:"timezone"`
	PhoneNumber string    `json:"phone_number"`
	Plan        string    `json:"plan"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
