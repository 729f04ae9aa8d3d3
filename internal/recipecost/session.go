// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package recipecost manages the ingredient composition of one recipe
// during an edit session: cost and margin derivation, and the minimal
// create/update/delete diff against the last-known persisted state.
// The package is pure; persistence goes through the Saver.
package recipecost

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var (
	// ErrNoIngredient is returned when an ingredient selection is empty.
	ErrNoIngredient = errors.New("recipecost: no ingredient selected")

	// ErrQuantity is returned for non-positive or non-finite quantities.
	ErrQuantity = errors.New("recipecost: quantity must be a positive number")

	// ErrLineIndex is returned for out-of-range line indices.
	ErrLineIndex = errors.New("recipecost: line index out of range")
)

// Line is one ingredient line of a recipe.
type Line struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	UnitCost     float64   `json:"unit_cost"`
	Quantity     float64   `json:"quantity_per_unit"`
}

// CatalogIngredient is the shape the ingredient catalog supplies when a
// line is added to a recipe.
type CatalogIngredient struct {
	ID       uuid.UUID
	Name     string
	Unit     string
	UnitCost float64
}

// Session holds the working and last-persisted ingredient lists of one
// recipe while it is being edited. All mutations go through its methods;
// the original list only advances when a save succeeds.
type Session struct {
	current  []Line
	original []Line

	manualOverride bool
	overrideValue  float64
}

// BeginEdit opens an edit session over the recipe's persisted lines.
// A non-nil production cost on the recipe means the cost was entered by
// hand, so the session starts in manual-override mode with that value.
func BeginEdit(lines []Line, productionCost *float64) *Session {
	s := &Session{
		current:  cloneLines(lines),
		original: cloneLines(lines),
	}
	if productionCost != nil {
		s.manualOverride = true
		s.overrideValue = *productionCost
	}
	return s
}

// Lines returns a copy of the working ingredient list.
func (s *Session) Lines() []Line {
	return cloneLines(s.current)
}

// AddIngredient appends a line for the given catalog ingredient. If the
// ingredient is already present it merges by summing quantities instead
// of creating a duplicate line.
func (s *Session) AddIngredient(ing CatalogIngredient, quantity float64) error {
	if ing.ID == uuid.Nil {
		return ErrNoIngredient
	}
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return fmt.Errorf("%w: got %v", ErrQuantity, quantity)
	}
	for i := range s.current {
		if s.current[i].IngredientID == ing.ID {
			s.current[i].Quantity += quantity
			return nil
		}
	}
	s.current = append(s.current, Line{
		IngredientID: ing.ID,
		Name:         ing.Name,
		Unit:         ing.Unit,
		UnitCost:     ing.UnitCost,
		Quantity:     quantity,
	})
	return nil
}

// RemoveIngredient removes the working line at index. The original list
// is untouched so ComputeDiff still reports the deletion.
func (s *Session) RemoveIngredient(index int) error {
	if index < 0 || index >= len(s.current) {
		return ErrLineIndex
	}
	s.current = append(s.current[:index], s.current[index+1:]...)
	return nil
}

// UpdateLineQuantity sets the quantity of the working line at index.
// Zero is allowed here; only negative and non-finite values are rejected.
func (s *Session) UpdateLineQuantity(index int, quantity float64) error {
	if index < 0 || index >= len(s.current) {
		return ErrLineIndex
	}
	if quantity < 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return fmt.Errorf("%w: got %v", ErrQuantity, quantity)
	}
	s.current[index].Quantity = quantity
	return nil
}

// UpdateLineUnit sets the unit of the working line at index.
func (s *Session) UpdateLineUnit(index int, unit string) error {
	if index < 0 || index >= len(s.current) {
		return ErrLineIndex
	}
	s.current[index].Unit = unit
	return nil
}

// TotalCost returns the production cost of the recipe. In manual mode it
// is the entered override; otherwise the sum of quantity times unit cost
// over the working lines. The sum is not rounded; rounding happens only
// at display time.
func (s *Session) TotalCost() float64 {
	if s.manualOverride {
		return s.overrideValue
	}
	var total float64
	for _, line := range s.current {
		total += line.Quantity * line.UnitCost
	}
	return total
}

// SetManualOverride enters manual cost mode with the given value. A nil
// or non-finite value exits manual mode and reverts TotalCost to the
// sum-of-lines formula.
func (s *Session) SetManualOverride(value *float64) {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		s.manualOverride = false
		s.overrideValue = 0
		return
	}
	s.manualOverride = true
	s.overrideValue = *value
}

// ManualOverride reports the override value and whether manual mode is
// active.
func (s *Session) ManualOverride() (float64, bool) {
	return s.overrideValue, s.manualOverride
}

// Margin returns the margin percentage (price - cost) / price * 100, or
// false when the price is not positive and the margin is undefined.
func Margin(price, cost float64) (float64, bool) {
	if price <= 0 {
		return 0, false
	}
	return (price - cost) / price * 100, true
}

// commit replaces the original list with the working list after a
// successful save. Only the Saver calls this.
func (s *Session) commit() {
	s.original = cloneLines(s.current)
}

func cloneLines(lines []Line) []Line {
	return append(make([]Line, 0, len(lines)), lines...)
}
