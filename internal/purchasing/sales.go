// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package purchasing

import (
	"sort"

	"github.com/google/uuid"

	"restaubot/internal/models"
)

// MenuItemSales is the sold quantity of one dish over the period.
type MenuItemSales struct {
	MenuItemID   uuid.UUID `json:"menu_item_id"`
	MenuItemName string    `json:"menu_item_name"`
	QuantitySold float64   `json:"quantity_sold"`
}

// SalesHistory is the aggregated consumption of a period: how much of
// each ingredient the sold dishes consumed, plus dish-level totals.
type SalesHistory struct {
	Consumption  map[uuid.UUID]float64
	TotalDishes  float64
	TopMenuItems []MenuItemSales
}

// AggregateSales folds orders through their recipes into per-ingredient
// consumption. Orders without a positive quantity are skipped, as are
// recipe lines without a positive quantity per unit. TopMenuItems holds
// at most the five best-selling dishes; dishes without a known name fall
// back to "Plat".
func AggregateSales(orders []models.Order, recipes []models.RecipeLine, menuItemNames map[uuid.UUID]string) SalesHistory {
	recipesByItem := make(map[uuid.UUID][]models.RecipeLine, len(recipes))
	for _, line := range recipes {
		recipesByItem[line.MenuItemID] = append(recipesByItem[line.MenuItemID], line)
	}

	history := SalesHistory{Consumption: make(map[uuid.UUID]float64)}
	menuTotals := make(map[uuid.UUID]float64)
	for _, order := range orders {
		quantity := float64(order.Quantity)
		if order.MenuItemID == uuid.Nil || quantity <= 0 {
			continue
		}
		menuTotals[order.MenuItemID] += quantity
		history.TotalDishes += quantity
		for _, line := range recipesByItem[order.MenuItemID] {
			if line.IngredientID == uuid.Nil || line.QuantityPerUnit <= 0 {
				continue
			}
			history.Consumption[line.IngredientID] += quantity * line.QuantityPerUnit
		}
	}

	for itemID, sold := range menuTotals {
		name := menuItemNames[itemID]
		if name == "" {
			name = "Plat"
		}
		history.TopMenuItems = append(history.TopMenuItems, MenuItemSales{
			MenuItemID:   itemID,
			MenuItemName: name,
			QuantitySold: sold,
		})
	}
	sort.Slice(history.TopMenuItems, func(i, j int) bool {
		a, b := history.TopMenuItems[i], history.TopMenuItems[j]
		if a.QuantitySold != b.QuantitySold {
			return a.QuantitySold > b.QuantitySold
		}
		return a.MenuItemName < b.MenuItemName
	})
	if len(history.TopMenuItems) > 5 {
		history.TopMenuItems = history.TopMenuItems[:5]
	}
	return history
}
