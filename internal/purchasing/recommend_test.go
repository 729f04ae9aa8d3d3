// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package purchasing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeRecommendationsHandlesStockLevels(t *testing.T) {
	lowID := uuid.New()
	highID := uuid.New()
	supplierLowID := uuid.New()
	supplierHighID := uuid.New()

	ingredients := []Ingredient{
		{ID: lowID, Name: "Tomates", Unit: "kg", DefaultSupplierID: &supplierLowID},
		{ID: highID, Name: "Mozzarella", Unit: "kg", DefaultSupplierID: &supplierHighID},
	}
	consumption := map[uuid.UUID]float64{
		lowID:  14.0,
		highID: 7.0,
	}
	stock := map[uuid.UUID]StockLevel{
		lowID:  {CurrentStock: 2, SafetyStock: 1},
		highID: {CurrentStock: 120, SafetyStock: 5},
	}
	overrides := map[uuid.UUID]SupplierOverride{
		lowID: {SupplierID: supplierLowID, LeadTimeDays: intPtr(5)},
	}
	suppliers := map[uuid.UUID]Supplier{
		supplierLowID:  {ID: supplierLowID, Name: "Fresh Farms", DefaultLeadTimeDays: intPtr(3)},
		supplierHighID: {ID: supplierHighID, Name: "Fine Cheese Co", DefaultLeadTimeDays: intPtr(4)},
	}

	recs, err := ComputeRecommendations(ingredients, consumption, stock, overrides, suppliers, Params{
		DateFrom:            day(2024, time.May, 1),
		DateTo:              day(2024, time.May, 7),
		ReorderCycleDays:    7,
		DefaultLeadTimeDays: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}

	low, high := recs[0], recs[1]

	// Tomates: 2 kg/day demand over a 12-day horizon (5 lead + 7 cycle),
	// so 24 + 1 safety - 2 stock = 23 to order; one day of coverage left.
	if low.Status != StatusCritical {
		t.Errorf("low status = %s, want CRITICAL", low.Status)
	}
	if low.DefaultSupplier == nil || low.DefaultSupplier.Name != "Fresh Farms" {
		t.Errorf("low supplier = %+v, want Fresh Farms", low.DefaultSupplier)
	}
	if !approxEqual(low.RecommendedOrderQuantity, 23.0) {
		t.Errorf("low recommended = %v, want 23", low.RecommendedOrderQuantity)
	}
	if low.CoverageDays == nil || !approxEqual(*low.CoverageDays, 1.0) {
		t.Errorf("low coverage = %v, want 1", low.CoverageDays)
	}

	if high.Status != StatusOK {
		t.Errorf("high status = %s, want OK", high.Status)
	}
	if high.RecommendedOrderQuantity != 0 {
		t.Errorf("high recommended = %v, want 0", high.RecommendedOrderQuantity)
	}
	if high.CoverageDays == nil || !approxEqual(*high.CoverageDays, 120.0) {
		t.Errorf("high coverage = %v, want 120", high.CoverageDays)
	}
}

func TestComputeRecommendationsMarksNoData(t *testing.T) {
	ingID := uuid.New()
	supplierID := uuid.New()

	recs, err := ComputeRecommendations(
		[]Ingredient{{ID: ingID, Name: "Basilic", Unit: "bunch", DefaultSupplierID: &supplierID}},
		nil,
		map[uuid.UUID]StockLevel{ingID: {CurrentStock: 5, SafetyStock: 1}},
		nil,
		map[uuid.UUID]Supplier{supplierID: {ID: supplierID, Name: "Herb Source", DefaultLeadTimeDays: intPtr(3)}},
		Params{
			DateFrom:            day(2024, time.May, 1),
			DateTo:              day(2024, time.May, 7),
			ReorderCycleDays:    7,
			DefaultLeadTimeDays: 2,
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	rec := recs[0]
	if rec.Status != StatusNoData {
		t.Errorf("status = %s, want NO_DATA", rec.Status)
	}
	if rec.RecommendedOrderQuantity != 0 {
		t.Errorf("recommended = %v, want 0", rec.RecommendedOrderQuantity)
	}
	if rec.CoverageDays != nil {
		t.Errorf("coverage = %v, want nil", rec.CoverageDays)
	}
	if rec.TotalQuantityConsumed != 0 {
		t.Errorf("total consumed = %v, want 0", rec.TotalQuantityConsumed)
	}
}

func TestRecommendedQuantityNeverNegative(t *testing.T) {
	ingID := uuid.New()

	recs, err := ComputeRecommendations(
		[]Ingredient{{ID: ingID, Name: "Olive Oil", Unit: "L"}},
		map[uuid.UUID]float64{ingID: 10.0},
		map[uuid.UUID]StockLevel{ingID: {CurrentStock: 200}},
		nil, nil,
		Params{
			DateFrom:            day(2024, time.May, 1),
			DateTo:              day(2024, time.May, 10),
			ReorderCycleDays:    7,
			DefaultLeadTimeDays: 2,
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].RecommendedOrderQuantity != 0 {
		t.Errorf("recommended = %v, want 0", recs[0].RecommendedOrderQuantity)
	}
	if recs[0].Status != StatusOK {
		t.Errorf("status = %s, want OK", recs[0].Status)
	}
}

func TestLeadTimePriorityOrdering(t *testing.T) {
	supplierID := uuid.New()
	withOverride := uuid.New()
	withDefault := uuid.New()
	withFallback := uuid.New()

	ingredients := []Ingredient{
		{ID: withOverride, Name: "Pasta", Unit: "kg", DefaultSupplierID: &supplierID},
		{ID: withDefault, Name: "Cheese", Unit: "kg", DefaultSupplierID: &supplierID},
		{ID: withFallback, Name: "Pepper", Unit: "g"},
	}
	consumption := map[uuid.UUID]float64{withOverride: 14, withDefault: 14, withFallback: 14}
	stock := map[uuid.UUID]StockLevel{
		withOverride: {CurrentStock: 5, SafetyStock: 1},
		withDefault:  {CurrentStock: 5, SafetyStock: 1},
		withFallback: {CurrentStock: 5, SafetyStock: 1},
	}

	recs, err := ComputeRecommendations(
		ingredients,
		consumption,
		stock,
		map[uuid.UUID]SupplierOverride{withOverride: {SupplierID: supplierID, LeadTimeDays: intPtr(9)}},
		map[uuid.UUID]Supplier{supplierID: {ID: supplierID, Name: "Main Supplier", DefaultLeadTimeDays: intPtr(6)}},
		Params{
			DateFrom:            day(2024, time.May, 1),
			DateTo:              day(2024, time.May, 7),
			ReorderCycleDays:    7,
			DefaultLeadTimeDays: 2,
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	if recs[0].LeadTimeDays != 9 {
		t.Errorf("override lead time = %d, want 9", recs[0].LeadTimeDays)
	}
	if recs[1].LeadTimeDays != 6 {
		t.Errorf("supplier default lead time = %d, want 6", recs[1].LeadTimeDays)
	}
	if recs[2].LeadTimeDays != 2 {
		t.Errorf("fallback lead time = %d, want 2", recs[2].LeadTimeDays)
	}
}

func TestComputeRecommendationsRejectsInvertedRange(t *testing.T) {
	_, err := ComputeRecommendations(nil, nil, nil, nil, nil, Params{
		DateFrom: day(2024, time.May, 7),
		DateTo:   day(2024, time.May, 1),
	})
	if !errors.Is(err, ErrDateRange) {
		t.Errorf("err = %v, want ErrDateRange", err)
	}
}
