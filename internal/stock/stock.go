// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package stock derives stock status levels and the stock impact of
// recorded sales. Persistence lives in the store package; this one only
// holds the rules.
package stock

import (
	"github.com/google/uuid"

	"restaubot/internal/models"
)

// Status is the severity of an ingredient's stock level.
type Status string

const (
	StatusOK       Status = "ok"
	StatusLow      Status = "low"
	StatusCritical Status = "critical"
)

// criticalFraction of the safety stock marks the critical threshold.
const criticalFraction = 0.2

// DeriveStatus classifies a stock level. With a safety stock configured,
// critical means at or below 20% of it and low means at or below it.
// Without one, only an empty stock is critical.
func DeriveStatus(currentStock, safetyStock float64) Status {
	if safetyStock > 0 {
		switch {
		case currentStock <= safetyStock*criticalFraction:
			return StatusCritical
		case currentStock <= safetyStock:
			return StatusLow
		default:
			return StatusOK
		}
	}
	if currentStock <= 0 {
		return StatusCritical
	}
	return StatusOK
}

// StatusRow is one normalized stock overview entry.
type StatusRow struct {
	IngredientID   uuid.UUID `json:"ingredient_id"`
	IngredientName string    `json:"ingredient_name"`
	CurrentStock   float64   `json:"current_stock"`
	SafetyStock    float64   `json:"safety_stock"`
	Status         Status    `json:"status"`
}

// Overview is the stock report for a restaurant.
type Overview struct {
	Items []StatusRow `json:"items"`
}

// BuildStatusRow joins an ingredient with its stock level into an
// overview entry.
func BuildStatusRow(ing models.Ingredient, level models.IngredientStock) StatusRow {
	return StatusRow{
		IngredientID:   ing.ID,
		IngredientName: ing.Name,
		CurrentStock:   level.CurrentStock,
		SafetyStock:    level.SafetyStock,
		Status:         DeriveStatus(level.CurrentStock, level.SafetyStock),
	}
}

// ConsumptionForOrder returns how much of each ingredient a sale of
// quantity units consumes, based on the dish's recipe. Non-positive
// quantities consume nothing.
func ConsumptionForOrder(recipeLines []models.RecipeLine, quantity int) map[uuid.UUID]float64 {
	sold := float64(quantity)
	if sold < 0 {
		sold = 0
	}
	consumed := make(map[uuid.UUID]float64)
	for _, line := range recipeLines {
		if line.IngredientID == uuid.Nil || line.QuantityPerUnit <= 0 {
			continue
		}
		consumed[line.IngredientID] += line.QuantityPerUnit * sold
	}
	return consumed
}

// Decrement subtracts consumption from a stock level, flooring at zero.
func Decrement(current, consumed float64) float64 {
	next := current - consumed
	if next < 0 {
		return 0
	}
	return next
}
