package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestIngredientCRUD(t *testing.T) {
	db := testDB(t)
	_, restaurant := testTenant(t, db)
	ingredients := NewIngredientStore(db)
	ctx := context.Background()

	ing, err := ingredients.Create(ctx, restaurant.ID, "Mozzarella", "kg", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ing.Name != "Mozzarella" || ing.Unit != "kg" {
		t.Errorf("created: %+v", ing)
	}

	updated, err := ingredients.Update(ctx, restaurant.ID, ing.ID, "Mozzarella di Bufala", "g", nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated == nil || updated.Name != "Mozzarella di Bufala" || updated.Unit != "g" {
		t.Errorf("updated: %+v", updated)
	}

	list, err := ingredients.List(ctx, restaurant.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 ingredient, got %d", len(list))
	}

	if err := ingredients.Delete(ctx, restaurant.ID, ing.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ := ingredients.GetByID(ctx, restaurant.ID, ing.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestIngredientStockUpsertAndGet(t *testing.T) {
	db := testDB(t)
	_, restaurant := testTenant(t, db)
	ingredients := NewIngredientStore(db)
	ctx := context.Background()

	ing, err := ingredients.Create(ctx, restaurant.ID, "Farine", "kg", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// No stock row yet.
	st, err := ingredients.GetStock(ctx, restaurant.ID, ing.ID)
	if err != nil {
		t.Fatalf("GetStock: %v", err)
	}
	if st != nil {
		t.Error("expected nil stock before upsert")
	}

	if err := ingredients.UpsertStock(ctx, restaurant.ID, ing.ID, 25, 5, 0.9); err != nil {
		t.Fatalf("UpsertStock: %v", err)
	}

	st, _ = ingredients.GetStock(ctx, restaurant.ID, ing.ID)
	if st == nil {
		t.Fatal("expected stock row after upsert")
	}
	if st.CurrentStock != 25 || st.SafetyStock != 5 || st.UnitCost != 0.9 {
		t.Errorf("stock: %+v", st)
	}
	if st.LastManualUpdateAt == nil {
		t.Error("expected manual update timestamp")
	}

	// Second upsert replaces values.
	if err := ingredients.UpsertStock(ctx, restaurant.ID, ing.ID, 20, 5, 1.0); err != nil {
		t.Fatalf("second UpsertStock: %v", err)
	}
	st, _ = ingredients.GetStock(ctx, restaurant.ID, ing.ID)
	if st.CurrentStock != 20 || st.UnitCost != 1.0 {
		t.Errorf("stock after second upsert: %+v", st)
	}
}

func TestIngredientSafetyStockCreatesRow(t *testing.T) {
	db := testDB(t)
	_, restaurant := testTenant(t, db)
	ingredients := NewIngredientStore(db)
	ctx := context.Background()

	ing, _ := ingredients.Create(ctx, restaurant.ID, "Sel", "kg", nil)

	if err := ingredients.UpdateSafetyStock(ctx, restaurant.ID, ing.ID, 3); err != nil {
		t.Fatalf("UpdateSafetyStock: %v", err)
	}

	st, _ := ingredients.GetStock(ctx, restaurant.ID, ing.ID)
	if st == nil || st.SafetyStock != 3 {
		t.Fatalf("expected safety stock 3, got %+v", st)
	}
	if st.CurrentStock != 0 {
		t.Errorf("current stock should default to 0, got %v", st.CurrentStock)
	}
}

func TestIngredientDecrementStockFloorsAtZero(t *testing.T) {
	db := testDB(t)
	_, restaurant := testTenant(t, db)
	ingredients := NewIngredientStore(db)
	ctx := context.Background()

	ing, _ := ingredients.Create(ctx, restaurant.ID, "Huile", "L", nil)
	ingredients.UpsertStock(ctx, restaurant.ID, ing.ID, 2, 0, 4.5)

	err := ingredients.DecrementStock(ctx, restaurant.ID, map[uuid.UUID]float64{
		ing.ID: 5, // more than available
	})
	if err != nil {
		t.Fatalf("DecrementStock: %v", err)
	}

	st, _ := ingredients.GetStock(ctx, restaurant.ID, ing.ID)
	if st.CurrentStock != 0 {
		t.Errorf("stock should floor at 0, got %v", st.CurrentStock)
	}

	// Unknown ingredients and non-positive quantities are skipped silently.
	err = ingredients.DecrementStock(ctx, restaurant.ID, map[uuid.UUID]float64{
		uuid.New(): 1,
		ing.ID:     -2,
	})
	if err != nil {
		t.Fatalf("DecrementStock noop: %v", err)
	}
}
