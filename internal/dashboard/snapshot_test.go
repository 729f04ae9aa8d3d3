// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"restaubot/internal/models"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, time.June, 30, 15, 4, 5, 0, time.UTC)

	start, end := ResolveRange(nil, nil, now)
	if start.Format("2006-01-02") != "2024-06-01" {
		t.Errorf("default start = %v", start)
	}
	if end.Format("2006-01-02") != "2024-06-30" {
		t.Errorf("default end = %v", end)
	}

	// Inverted ranges are swapped, not rejected.
	a := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	start, end = ResolveRange(&a, &b, now)
	if !start.Equal(b) || end.Before(a) {
		t.Errorf("swap failed: %v .. %v", start, end)
	}

	// Spans over a year are clamped.
	old := now.AddDate(-3, 0, 0)
	start, end = ResolveRange(&old, nil, now)
	if end.Sub(start) > 366*24*time.Hour {
		t.Errorf("range not clamped: %v .. %v", start, end)
	}
}

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)
	start, end := ResolveRange(nil, nil, now)

	restaurant := models.Restaurant{
		ID:           uuid.New(),
		DisplayName:  "Chez Momo",
		MenuDocument: []byte(`{"categories":[{"name":"Plats","items":[{"name":"Couscous","tags":["halal"]}]}]}`),
	}
	user := models.User{ID: uuid.New(), Email: "momo@example.com"}
	profile := models.Profile{ID: user.ID, FullName: "Momo", Plan: models.PlanPro}

	sessionID := uuid.New()
	chat := []models.ChatMessage{
		{ID: uuid.New(), RestaurantID: restaurant.ID, SessionID: &sessionID, UserPrompt: "table pour deux", AssistantReply: "Avec plaisir", CreatedAt: now},
		{ID: uuid.New(), RestaurantID: restaurant.ID, SessionID: &sessionID, UserPrompt: "merci", CreatedAt: now.Add(time.Minute)},
	}

	snap := BuildSnapshot(user, profile, []models.Restaurant{restaurant}, chat, start, end, now)

	if snap.KPIs.Restaurants != 1 || snap.KPIs.Conversations != 1 || snap.KPIs.Messages != 2 {
		t.Errorf("kpis = %+v", snap.KPIs)
	}
	if snap.KPIs.Plan != models.PlanPro {
		t.Errorf("plan = %q", snap.KPIs.Plan)
	}
	if snap.Statistics.ResolutionRate != 100 {
		t.Errorf("resolution rate = %v, want 100", snap.Statistics.ResolutionRate)
	}
	if snap.Statistics.AverageMessages != 2 {
		t.Errorf("average messages = %v, want 2", snap.Statistics.AverageMessages)
	}
	diet := labelMap(snap.Statistics.DietBreakdown)
	if diet["Halal"] != 1 {
		t.Errorf("diet = %v", diet)
	}
	if snap.Billing.Plan.Price != 189 {
		t.Errorf("billing price = %d, want 189", snap.Billing.Plan.Price)
	}
	if snap.Billing.NextPayment != "2024-07-12" {
		t.Errorf("next payment = %q, want 2024-07-12", snap.Billing.NextPayment)
	}
	if len(snap.Billing.History) != 3 || snap.Billing.History[0].Status != "paid" {
		t.Errorf("history = %+v", snap.Billing.History)
	}
	if snap.Profile.Timezone != DefaultTimezone {
		t.Errorf("timezone = %q", snap.Profile.Timezone)
	}
}

func TestResolvePlanFallsBackToDiscovery(t *testing.T) {
	name, preset := ResolvePlan(models.Profile{Plan: "Plan Inconnu"})
	if name != models.PlanDiscovery || preset.Price != 89 {
		t.Errorf("fallback = %q / %+v", name, preset)
	}
}
