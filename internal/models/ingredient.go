// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient is one entry in a restaurant's ingredient catalog.
type Ingredient struct {
	ID                uuid.UUID  `json:"id"`
	RestaurantID      uuid.UUID  `json:"restaurant_id"`
	Name              string     `json:"name"`
	Unit              string     `json:"unit"`
	DefaultSupplierID *uuid.UUID `json:"default_supplier_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IngredientStock tracks the stock level and cost basis of one ingredient.
// UnitCost may be zero for newly linked ingredients whose cost basis has
// not been entered yet.
type IngredientStock struct {
	RestaurantID       uuid.UUID  `json:"restaurant_id"`
	IngredientID       uuid.UUID  `json:"ingredient_id"`
	CurrentStock       float64    `json:"current_stock"`
	SafetyStock        float64    `json:"safety_stock"`
	UnitCost           float64    `json:"unit_cost"`
	LastManualUpdateAt *time.Time `json:"last_manual_update_at,omitempty"`
}

// Supplier is a purchasing partner of a restaurant.
type Supplier struct {
	ID                  uuid.UUID `json:"id"`
	RestaurantID        uuid.UUID `json:"restaurant_id"`
	Name                string    `json:"name"`
	ContactEmail        string    `json:"contact_email"`
	DefaultLeadTimeDays int       `json:"default_lead_time_days"`
	CreatedAt           time.Time `json:"created_at"`
}

// IngredientSupplier overrides the supplier and lead time for one
// ingredient, taking precedence over the ingredient's default supplier.
type IngredientSupplier struct {
	RestaurantID uuid.UUID `json:"restaurant_id"`
	IngredientID uuid.UUID `json:"ingredient_id"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	LeadTimeDays *int      `json:"lead_time_days,omitempty"`
}
