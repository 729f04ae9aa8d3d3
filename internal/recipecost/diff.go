// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package recipecost

import "github.com/google/uuid"

// UnitChange records that a line's unit now differs from the persisted
// one. The ingredient master record, not just the recipe line, has to be
// updated so quantities keep meaning the same thing everywhere.
type UnitChange struct {
	IngredientID uuid.UUID
	NewUnit      string
}

// Diff is the minimal set of persistence operations that reconciles the
// stored recipe with the session's working state.
type Diff struct {
	ToCreateOrUpdate []Line
	ToDelete         []uuid.UUID
	UnitChanges      []UnitChange
}

// Empty reports whether the diff carries no operations.
func (d Diff) Empty() bool {
	return len(d.ToCreateOrUpdate) == 0 && len(d.ToDelete) == 0 && len(d.UnitChanges) == 0
}

// ComputeDiff set-differences the original and working lists by
// ingredient id. New lines and lines whose quantity or unit changed go
// in ToCreateOrUpdate; lines missing from the working list go in
// ToDelete; unit changes on surviving lines are additionally reported in
// UnitChanges. Order within each batch follows the working list.
func (s *Session) ComputeDiff() Diff {
	originalByID := make(map[uuid.UUID]Line, len(s.original))
	for _, line := range s.original {
		originalByID[line.IngredientID] = line
	}

	var diff Diff
	currentIDs := make(map[uuid.UUID]struct{}, len(s.current))
	for _, line := range s.current {
		currentIDs[line.IngredientID] = struct{}{}
		orig, existed := originalByID[line.IngredientID]
		if !existed {
			diff.ToCreateOrUpdate = append(diff.ToCreateOrUpdate, line)
			continue
		}
		if orig.Quantity != line.Quantity || orig.Unit != line.Unit {
			diff.ToCreateOrUpdate = append(diff.ToCreateOrUpdate, line)
		}
		if orig.Unit != line.Unit {
			diff.UnitChanges = append(diff.UnitChanges, UnitChange{
				IngredientID: line.IngredientID,
				NewUnit:      line.Unit,
			})
		}
	}
	for _, line := range s.original {
		if _, ok := currentIDs[line.IngredientID]; !ok {
			diff.ToDelete = append(diff.ToDelete, line.IngredientID)
		}
	}
	return diff
}
