// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package recipecost

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
)

type fakeStore struct {
	ops []string

	unitErr   error
	upsertErr error
	deleteErr error
}

func (f *fakeStore) UpdateIngredientUnit(_ context.Context, _, ingredientID uuid.UUID, unit string) error {
	f.ops = append(f.ops, "unit:"+ingredientID.String()+":"+unit)
	return f.unitErr
}

func (f *fakeStore) UpsertRecipeLine(_ context.Context, _, _ uuid.UUID, line Line) error {
	f.ops = append(f.ops, "upsert:"+line.IngredientID.String())
	return f.upsertErr
}

func (f *fakeStore) DeleteRecipeLine(_ context.Context, _, _, ingredientID uuid.UUID) error {
	f.ops = append(f.ops, "delete:"+ingredientID.String())
	return f.deleteErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaveAppliesUnitChangesFirst(t *testing.T) {
	id := uuid.New()
	s := BeginEdit([]Line{
		{IngredientID: id, Unit: "kg", Quantity: 2},
	}, nil)
	if err := s.UpdateLineUnit(0, "g"); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{}
	result, err := NewSaver(store, discardLogger()).Save(context.Background(), uuid.New(), uuid.New(), s)
	if err != nil {
		t.Fatal(err)
	}
	if result.Partial() {
		t.Errorf("unexpected partial result: %+v", result)
	}

	if len(store.ops) != 2 {
		t.Fatalf("ops = %v", store.ops)
	}
	if store.ops[0] != "unit:"+id.String()+":g" {
		t.Errorf("unit change must be applied first, got ops %v", store.ops)
	}
	if store.ops[1] != "upsert:"+id.String() {
		t.Errorf("expected upsert second, got ops %v", store.ops)
	}

	// After a successful save the session is clean.
	if diff := s.ComputeDiff(); !diff.Empty() {
		t.Errorf("diff after save = %+v, want empty", diff)
	}
}

func TestSaveUnitSyncFailureIsPartialSuccess(t *testing.T) {
	id := uuid.New()
	s := BeginEdit([]Line{
		{IngredientID: id, Unit: "kg", Quantity: 2},
	}, nil)
	if err := s.UpdateLineUnit(0, "g"); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{unitErr: errors.New("master record locked")}
	result, err := NewSaver(store, discardLogger()).Save(context.Background(), uuid.New(), uuid.New(), s)
	if err != nil {
		t.Fatalf("unit sync failure must not abort the save: %v", err)
	}
	if !result.Partial() {
		t.Fatal("expected a partial result")
	}
	if len(result.FailedUnitSyncs) != 1 || result.FailedUnitSyncs[0].IngredientID != id {
		t.Errorf("failedUnitSyncs = %+v", result.FailedUnitSyncs)
	}

	// The recipe line itself was still persisted and the session committed.
	if diff := s.ComputeDiff(); !diff.Empty() {
		t.Errorf("diff after partial save = %+v, want empty", diff)
	}
}

func TestSaveLineFailureLeavesSessionRetryable(t *testing.T) {
	s := BeginEdit(nil, nil)
	if err := s.AddIngredient(catalogEntry("Basilic", "botte", 1.5), 2); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{upsertErr: errors.New("connection reset")}
	_, err := NewSaver(store, discardLogger()).Save(context.Background(), uuid.New(), uuid.New(), s)
	if err == nil {
		t.Fatal("expected save error")
	}

	// The session still carries the pending change for a retry.
	diff := s.ComputeDiff()
	if len(diff.ToCreateOrUpdate) != 1 {
		t.Errorf("pending diff lost after failed save: %+v", diff)
	}
}

func TestSaveDeletes(t *testing.T) {
	id := uuid.New()
	s := BeginEdit([]Line{
		{IngredientID: id, Unit: "kg", Quantity: 1},
	}, nil)
	if err := s.RemoveIngredient(0); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{}
	if _, err := NewSaver(store, discardLogger()).Save(context.Background(), uuid.New(), uuid.New(), s); err != nil {
		t.Fatal(err)
	}
	if len(store.ops) != 1 || store.ops[0] != "delete:"+id.String() {
		t.Errorf("ops = %v", store.ops)
	}
}
