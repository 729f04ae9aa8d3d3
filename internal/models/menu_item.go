// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuItem is the purchasing-side record of one dish: the entity recipes,
// orders and costing attach to. It is distinct from the display entries in
// a restaurant's menu document, from which it can be bootstrapped.
type MenuItem struct {
	ID             uuid.UUID `json:"id"`
	RestaurantID   uuid.UUID `json:"restaurant_id"`
	Name           string    `json:"name"`
	Category       *string   `json:"category,omitempty"`
	MenuPrice      *float64  `json:"menu_price,omitempty"`
	ProductionCost *float64  `json:"production_cost,omitempty"`
	Instructions   *string   `json:"instructions,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasManualCost reports whether the item carries an explicit production
// cost that supersedes the sum of its recipe lines.
func (m *MenuItem) HasManualCost() bool {
	return m.ProductionCost != nil
}

// RecipeLine links one ingredient to one menu item with the quantity
// needed per unit of the dish. The (menu_item_id, ingredient_id) pair is
// unique per restaurant.
type RecipeLine struct {
	RestaurantID    uuid.UUID `json:"restaurant_id"`
	MenuItemID      uuid.UUID `json:"menu_item_id"`
	IngredientID    uuid.UUID `json:"ingredient_id"`
	QuantityPerUnit float64   `json:"quantity_per_unit"`
}
