// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package purchasing

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// TopIngredient is one entry of the summary's most-needed ingredients.
type TopIngredient struct {
	IngredientID             uuid.UUID `json:"ingredient_id"`
	IngredientName           string    `json:"ingredient_name"`
	Status                   Status    `json:"status"`
	RecommendedOrderQuantity float64   `json:"recommended_order_quantity"`
}

// Summary holds the aggregated KPIs of the purchasing dashboard.
type Summary struct {
	DateFrom        time.Time       `json:"date_from"`
	DateTo          time.Time       `json:"date_to"`
	TotalDishesSold float64         `json:"total_dishes_sold"`
	CountLow        int             `json:"count_low"`
	CountCritical   int             `json:"count_critical"`
	CountNoData     int             `json:"count_no_data"`
	CountOK         int             `json:"count_ok"`
	TopIngredients  []TopIngredient `json:"top_ingredients"`
	TopMenuItems    []MenuItemSales `json:"top_menu_items"`
}

// BuildSummary aggregates recommendations and sales history into the
// dashboard summary. Top ingredients are the five with the largest
// recommended order quantity.
func BuildSummary(recs []Recommendation, history SalesHistory, p Params) Summary {
	summary := Summary{
		DateFrom:        p.DateFrom,
		DateTo:          p.DateTo,
		TotalDishesSold: history.TotalDishes,
		TopMenuItems:    history.TopMenuItems,
	}

	top := make([]TopIngredient, 0, len(recs))
	for _, rec := range recs {
		switch rec.Status {
		case StatusLow:
			summary.CountLow++
		case StatusCritical:
			summary.CountCritical++
		case StatusNoData:
			summary.CountNoData++
		case StatusOK:
			summary.CountOK++
		}
		top = append(top, TopIngredient{
			IngredientID:             rec.IngredientID,
			IngredientName:           rec.IngredientName,
			Status:                   rec.Status,
			RecommendedOrderQuantity: rec.RecommendedOrderQuantity,
		})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].RecommendedOrderQuantity > top[j].RecommendedOrderQuantity
	})
	if len(top) > 5 {
		top = top[:5]
	}
	summary.TopIngredients = top
	return summary
}

// ResolveDateRange fills in the default one-week window: the end defaults
// to today, the start to six days before the end. An inverted explicit
// range is an error.
func ResolveDateRange(from, to *time.Time, now time.Time) (time.Time, time.Time, error) {
	end := now.Truncate(24 * time.Hour)
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -6)
	if from != nil {
		start = *from
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrDateRange
	}
	return start, end, nil
}
