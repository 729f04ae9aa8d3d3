package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestRestaurantCreateAndGet(t *testing.T) {
	db := testDB(t)
	_, restaurant := testTenant(t, db)
	restaurants := NewRestaurantStore(db)
	ctx := context.Background()

	got, err := restaurants.GetByID(ctx, restaurant.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ID != restaurant.ID {
		t.Fatal("expected created restaurant")
	}
	// An empty menu document defaults to {}.
	if string(got.MenuDocument) != "{}" {
		t.Errorf("menu document: got %s, want {}", got.MenuDocument)
	}

	bySlug, err := restaurants.GetBySlug(ctx, restaurant.Slug)
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if bySlug == nil || bySlug.ID != restaurant.ID {
		t.Fatal("expected restaurant by slug")
	}
}

func TestRestaurantGetMissingReturnsNil(t *testing.T) {
	db := testDB(t)
	restaurants := NewRestaurantStore(db)
	ctx := context.Background()

	got, err := restaurants.GetByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown restaurant")
	}

	got, err = restaurants.GetBySlug(ctx, "no-such-slug-anywhere")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown slug")
	}
}

func TestRestaurantUpdateMenuDocument(t *testing.T) {
	db := testDB(t)
	_, restaurant := testTenant(t, db)
	restaurants := NewRestaurantStore(db)
	ctx := context.Background()

	doc := json.RawMessage(`{"restaurant_name": "Resto Test", "categories": []}`)
	if err := restaurants.UpdateMenuDocument(ctx, restaurant.ID, doc); err != nil {
		t.Fatalf("UpdateMenuDocument: %v", err)
	}

	got, _ := restaurants.GetByID(ctx, restaurant.ID)
	var parsed map[string]any
	if err := json.Unmarshal(got.MenuDocument, &parsed); err != nil {
		t.Fatalf("stored menu document is not valid JSON: %v", err)
	}
	if parsed["restaurant_name"] != "Resto Test" {
		t.Errorf("restaurant_name: got %v", parsed["restaurant_name"])
	}
}

func TestRestaurantListAndCountByTenant(t *testing.T) {
	db := testDB(t)
	tenant, restaurant := testTenant(t, db)
	restaurants := NewRestaurantStore(db)
	ctx := context.Background()

	second, err := restaurants.Create(ctx, tenant.ID, "Second", "second-"+uuid.NewString()[:8], nil)
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	list, err := restaurants.ListByTenant(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("ListByTenant: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 restaurants, got %d", len(list))
	}
	// Oldest first.
	if list[0].ID != restaurant.ID || list[1].ID != second.ID {
		t.Error("expected creation order")
	}

	count, err := restaurants.CountByTenant(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("CountByTenant: %v", err)
	}
	if count != 2 {
		t.Errorf("count: got %d, want 2", count)
	}
}

func TestRestaurantSlugExists(t *testing.T) {
	db := testDB(t)
	_, restaurant := testTenant(t, db)
	restaurants := NewRestaurantStore(db)
	ctx := context.Background()

	exists, err := restaurants.SlugExists(ctx, restaurant.Slug)
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if !exists {
		t.Error("expected existing slug to be reported")
	}

	exists, err = restaurants.SlugExists(ctx, "definitely-free-slug")
	if err != nil {
		t.Fatalf("SlugExists: %v", err)
	}
	if exists {
		t.Error("expected free slug")
	}
}
