// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Order records one sale of a menu item. Source distinguishes where the
// sale was entered ("manual", "manual_dashboard", "chat").
type Order struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	MenuItemID   uuid.UUID `json:"menu_item_id"`
	Quantity     int       `json:"quantity"`
	Source       string    `json:"source"`
	OrderedAt    time.Time `json:"ordered_at"`
}

// PurchaseOrderStatus is the lifecycle state of a supplier order.
type PurchaseOrderStatus string

const (
	PurchaseOrderDraft PurchaseOrderStatus = "draft"
	PurchaseOrderSent  PurchaseOrderStatus = "sent"
)

// PurchaseOrder is one order placed with a supplier.
type PurchaseOrder struct {
	ID                   uuid.UUID           `json:"id"`
	RestaurantID         uuid.UUID           `json:"restaurant_id"`
	SupplierID           uuid.UUID           `json:"supplier_id"`
	Status               PurchaseOrderStatus `json:"status"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty"`
	Notes                *string             `json:"notes,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`

	// Populated by store methods.
	Lines []PurchaseOrderLine `json:"lines,omitempty"`
}

// PurchaseOrderLine is one ingredient quantity within a purchase order.
type PurchaseOrderLine struct {
	ID              uuid.UUID `json:"id"`
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	IngredientID    uuid.UUID `json:"ingredient_id"`
	QuantityOrdered float64   `json:"quantity_ordered"`
	Unit            string    `json:"unit"`

	// Populated by store methods.
	IngredientName string `json:"ingredient_name,omitempty"`
}
