// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package recipecost

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Store is the persistence surface the saver drives. Implementations
// live in the store package; tests use fakes.
type Store interface {
	UpdateIngredientUnit(ctx context.Context, restaurantID, ingredientID uuid.UUID, unit string) error
	UpsertRecipeLine(ctx context.Context, restaurantID, menuItemID uuid.UUID, line Line) error
	DeleteRecipeLine(ctx context.Context, restaurantID, menuItemID, ingredientID uuid.UUID) error
}

// UnitSyncFailure records one ingredient whose master unit could not be
// updated during an otherwise successful save.
type UnitSyncFailure struct {
	IngredientID uuid.UUID
	NewUnit      string
	Err          error
}

// SaveResult distinguishes a clean save from a partial one where the
// recipe lines were persisted but some ingredient unit updates failed.
// Callers surface FailedUnitSyncs as a warning, not as a save failure.
type SaveResult struct {
	Applied         Diff
	FailedUnitSyncs []UnitSyncFailure
}

// Partial reports whether any secondary unit update failed.
func (r SaveResult) Partial() bool {
	return len(r.FailedUnitSyncs) > 0
}

// Saver persists a session's diff.
type Saver struct {
	store  Store
	logger *slog.Logger
}

// NewSaver creates a Saver over the given store. A nil logger falls back
// to slog.Default().
func NewSaver(store Store, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Saver{store: store, logger: logger}
}

// Save computes the session's diff and applies it. Unit changes go first:
// a quantity written against a stale master unit would be read back in
// the wrong unit. Unit update failures are collected and logged but do
// not abort the save. Any recipe-line failure aborts with an error and
// leaves the session untouched so the caller can retry. On success the
// session's original list advances to the working list.
func (s *Saver) Save(ctx context.Context, restaurantID, menuItemID uuid.UUID, session *Session) (SaveResult, error) {
	diff := session.ComputeDiff()
	result := SaveResult{Applied: diff}

	for _, change := range diff.UnitChanges {
		if err := s.store.UpdateIngredientUnit(ctx, restaurantID, change.IngredientID, change.NewUnit); err != nil {
			s.logger.Warn("ingredient unit sync failed",
				"ingredient_id", change.IngredientID,
				"new_unit", change.NewUnit,
				"error", err)
			result.FailedUnitSyncs = append(result.FailedUnitSyncs, UnitSyncFailure{
				IngredientID: change.IngredientID,
				NewUnit:      change.NewUnit,
				Err:          err,
			})
		}
	}

	for _, line := range diff.ToCreateOrUpdate {
		if err := s.store.UpsertRecipeLine(ctx, restaurantID, menuItemID, line); err != nil {
			return result, fmt.Errorf("upserting recipe line %s: %w", line.IngredientID, err)
		}
	}
	for _, id := range diff.ToDelete {
		if err := s.store.DeleteRecipeLine(ctx, restaurantID, menuItemID, id); err != nil {
			return result, fmt.Errorf("deleting recipe line %s: %w", id, err)
		}
	}

	session.commit()
	return result, nil
}
