// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"time"

	"restaubot/internal/models"
)

// PlanPreset describes one subscription tier.
type PlanPreset struct {
	Description  string `json:"description"`
	Price        int    `json:"price"`
	Currency     string `json:"currency"`
	BillingCycle string `json:"billing_cycle"`
}

var planPresets = map[string]PlanPreset{
	models.PlanDiscovery: {
		Description:  "Accès essentiel pour tester RestauBot sur un établissement.",
		Price:        89,
		Currency:     "EUR",
		BillingCycle: "mensuel",
	},
	models.PlanPro: {
		Description:  "Plan complet incluant statistiques avancées et support prioritaire.",
		Price:        189,
		Currency:     "EUR",
		BillingCycle: "mensuel",
	},
	models.PlanPremium: {
		Description:  "Multi-sites avec intégrations personnalisées et succès client dédié.",
		Price:        289,
		Currency:     "EUR",
		BillingCycle: "mensuel",
	},
}

// ResolvePlan returns the profile's plan name and preset, falling back
// to the discovery tier for unknown plans.
func ResolvePlan(profile models.Profile) (string, PlanPreset) {
	plan := profile.Plan
	preset, ok := planPresets[plan]
	if !ok {
		plan = models.PlanDiscovery
		preset = planPresets[models.PlanDiscovery]
	}
	return plan, preset
}

// BillingPlan is the subscription block of the billing summary.
type BillingPlan struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Currency    string `json:"currency"`
}

// BillingUsage is the usage block of the billing summary.
type BillingUsage struct {
	Restaurants         int `json:"restaurants"`
	ConversationsLast30 int `json:"conversations_last_30"`
}

// BillingHistoryEntry is one settled invoice of the billing history.
type BillingHistoryEntry struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      int    `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

// Billing is the billing section of the dashboard snapshot.
type Billing struct {
	Plan        BillingPlan           `json:"plan"`
	NextPayment string                `json:"next_payment"`
	Usage       BillingUsage          `json:"usage"`
	History     []BillingHistoryEntry `json:"history"`
}

// BuildBilling assembles the billing summary. Payment runs on the 12th
// of the next month; the history shows the last three monthly invoices
// as paid.
func BuildBilling(profile models.Profile, restaurantCount, conversations int, now time.Time) Billing {
	planName, preset := ResolvePlan(profile)

	nextPayment := time.Date(now.Year(), now.Month()+1, 12, 0, 0, 0, 0, time.UTC)

	history := make([]BillingHistoryEntry, 0, 3)
	for monthsBack := 1; monthsBack <= 3; monthsBack++ {
		entryDate := now.AddDate(0, 0, -30*monthsBack)
		history = append(history, BillingHistoryEntry{
			Date:        entryDate.UTC().Format("2006-01-02"),
			Description: planName + " (" + preset.BillingCycle + ")",
			Amount:      preset.Price,
			Currency:    preset.Currency,
			Status:      "paid",
		})
	}

	return Billing{
		Plan: BillingPlan{
			Name:        planName,
			Description: preset.Description,
			Price:       preset.Price,
			Currency:    preset.Currency,
		},
		NextPayment: nextPayment.Format("2006-01-02"),
		Usage: BillingUsage{
			Restaurants:         restaurantCount,
			ConversationsLast30: conversations,
		},
		History: history,
	}
}
