// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package purchasing computes reorder recommendations and purchase
// planning summaries from consumption history, stock levels and supplier
// lead times. It is independent of the database layer; the store feeds
// it plain values.
package purchasing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status classifies how urgent a recommendation is.
type Status string

const (
	// StatusNoData means no consumption was recorded in the period.
	StatusNoData Status = "NO_DATA"

	// StatusOK means current stock covers the planning horizon.
	StatusOK Status = "OK"

	// StatusLow means stock runs out within the planning horizon.
	StatusLow Status = "LOW"

	// StatusCritical means stock runs out before a new delivery can arrive.
	StatusCritical Status = "CRITICAL"
)

// ErrDateRange is returned when the requested period ends before it starts.
var ErrDateRange = errors.New("purchasing: date_to must be on or after date_from")

// Ingredient is one catalog entry fed into the recommendation engine.
type Ingredient struct {
	ID                uuid.UUID
	Name              string
	Unit              string
	DefaultSupplierID *uuid.UUID
	LastOrderDate     *time.Time
	LastOrderQuantity *float64
}

// StockLevel is the stored stock state of one ingredient.
type StockLevel struct {
	CurrentStock float64
	SafetyStock  float64
}

// Supplier is a supplier record with its default lead time.
type Supplier struct {
	ID                  uuid.UUID
	Name                string
	ContactEmail        string
	DefaultLeadTimeDays *int
}

// SupplierOverride is a per-ingredient supplier assignment that takes
// precedence over the ingredient's default supplier.
type SupplierOverride struct {
	SupplierID   uuid.UUID
	LeadTimeDays *int
}

// SupplierRef is the minimal supplier info attached to a recommendation.
type SupplierRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Recommendation is the purchasing suggestion for a single ingredient.
type Recommendation struct {
	IngredientID             uuid.UUID    `json:"ingredient_id"`
	IngredientName           string       `json:"ingredient_name"`
	Unit                     string       `json:"unit"`
	CurrentStock             float64      `json:"current_stock"`
	SafetyStock              float64      `json:"safety_stock"`
	TotalQuantityConsumed    float64      `json:"total_quantity_consumed"`
	AvgDailyConsumption      float64      `json:"avg_daily_consumption"`
	LeadTimeDays             int          `json:"lead_time_days"`
	PlanningHorizonDays      int          `json:"planning_horizon_days"`
	ProjectedNeed            float64      `json:"projected_need"`
	RecommendedOrderQuantity float64      `json:"recommended_order_quantity"`
	CoverageDays             *float64     `json:"coverage_days"`
	Status                   Status       `json:"status"`
	DefaultSupplier          *SupplierRef `json:"default_supplier,omitempty"`
	LastOrderDate            *time.Time   `json:"last_order_date,omitempty"`
	LastOrderQuantity        *float64     `json:"last_order_quantity,omitempty"`
}

// Params controls the planning window of a recommendation run.
type Params struct {
	DateFrom            time.Time
	DateTo              time.Time
	ReorderCycleDays    int
	DefaultLeadTimeDays int
}

// DefaultParams returns the standard one-week window ending today.
func DefaultParams(now time.Time) Params {
	to := now.Truncate(24 * time.Hour)
	return Params{
		DateFrom:            to.AddDate(0, 0, -6),
		DateTo:              to,
		ReorderCycleDays:    7,
		DefaultLeadTimeDays: 2,
	}
}

// ComputeRecommendations derives a purchase recommendation for every
// ingredient. Average daily consumption only counts when consumption
// data exists for the ingredient; an absent entry means NO_DATA, not
// zero demand. The recommended quantity is never negative.
func ComputeRecommendations(
	ingredients []Ingredient,
	consumption map[uuid.UUID]float64,
	stock map[uuid.UUID]StockLevel,
	overrides map[uuid.UUID]SupplierOverride,
	suppliers map[uuid.UUID]Supplier,
	p Params,
) ([]Recommendation, error) {
	if p.DateTo.Before(p.DateFrom) {
		return nil, ErrDateRange
	}
	daysInRange := int(p.DateTo.Sub(p.DateFrom).Hours()/24) + 1
	if daysInRange < 1 {
		daysInRange = 1
	}

	recommendations := make([]Recommendation, 0, len(ingredients))
	for _, ing := range ingredients {
		level := stock[ing.ID]

		totalConsumed, hasConsumption := consumption[ing.ID]
		var avgDaily float64
		if hasConsumption {
			avgDaily = totalConsumed / float64(daysInRange)
		}

		leadTimeDays, supplierRef := resolveSupplier(ing, overrides[ing.ID], suppliers, p.DefaultLeadTimeDays)

		reorderCycle := p.ReorderCycleDays
		if reorderCycle < 0 {
			reorderCycle = 0
		}
		horizonDays := leadTimeDays + reorderCycle
		projectedNeed := avgDaily * float64(horizonDays)
		recommended := projectedNeed + level.SafetyStock - level.CurrentStock
		if recommended < 0 {
			recommended = 0
		}

		var coverageDays *float64
		if avgDaily > 0 {
			coverage := level.CurrentStock / avgDaily
			coverageDays = &coverage
		}

		recommendations = append(recommendations, Recommendation{
			IngredientID:             ing.ID,
			IngredientName:           ing.Name,
			Unit:                     ing.Unit,
			CurrentStock:             level.CurrentStock,
			SafetyStock:              level.SafetyStock,
			TotalQuantityConsumed:    totalConsumed,
			AvgDailyConsumption:      avgDaily,
			LeadTimeDays:             leadTimeDays,
			PlanningHorizonDays:      horizonDays,
			ProjectedNeed:            projectedNeed,
			RecommendedOrderQuantity: recommended,
			CoverageDays:             coverageDays,
			Status:                   determineStatus(hasConsumption, coverageDays, recommended, leadTimeDays, horizonDays),
			DefaultSupplier:          supplierRef,
			LastOrderDate:            ing.LastOrderDate,
			LastOrderQuantity:        ing.LastOrderQuantity,
		})
	}
	return recommendations, nil
}

// resolveSupplier picks the supplier and lead time for an ingredient.
// Priority: per-ingredient override lead time, then the supplier's
// default lead time, then the run-wide fallback.
func resolveSupplier(
	ing Ingredient,
	override SupplierOverride,
	suppliers map[uuid.UUID]Supplier,
	defaultLeadTimeDays int,
) (int, *SupplierRef) {
	supplierID := override.SupplierID
	if supplierID == uuid.Nil && ing.DefaultSupplierID != nil {
		supplierID = *ing.DefaultSupplierID
	}

	var record *Supplier
	if supplierID != uuid.Nil {
		if rec, ok := suppliers[supplierID]; ok {
			record = &rec
		}
	}

	leadTime := override.LeadTimeDays
	if leadTime == nil && record != nil {
		leadTime = record.DefaultLeadTimeDays
	}
	leadTimeDays := defaultLeadTimeDays
	if leadTime != nil {
		leadTimeDays = *leadTime
	}

	var ref *SupplierRef
	if supplierID != uuid.Nil && record != nil && record.Name != "" {
		ref = &SupplierRef{ID: supplierID, Name: record.Name}
	}
	return leadTimeDays, ref
}

func determineStatus(hasConsumption bool, coverageDays *float64, recommended float64, leadTimeDays, horizonDays int) Status {
	if !hasConsumption {
		return StatusNoData
	}
	if recommended <= 0 {
		return StatusOK
	}
	if coverageDays == nil {
		return StatusLow
	}
	if *coverageDays <= float64(leadTimeDays) {
		return StatusCritical
	}
	if *coverageDays <= float64(horizonDays) {
		return StatusLow
	}
	return StatusOK
}
