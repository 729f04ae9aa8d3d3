// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Restaurant is one establishment belonging to a tenant. MenuDocument is
// the persisted JSON menu tree; it is normalized through the menudoc
// package at every write and served verbatim to the chat widget and the
// public menu page.
type Restaurant struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	DisplayName  string          `json:"display_name"`
	Slug         string          `json:"slug"`
	MenuDocument json.RawMessage `json:"menu_document"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
