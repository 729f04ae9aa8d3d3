// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"restaubot/internal/cache"
	"restaubot/internal/database"
	"restaubot/internal/middleware"
	"restaubot/internal/models"
	"restaubot/internal/session"
	"restaubot/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "restaubot")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "restaubot")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "menu:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Valkey      *redis.Client
	Sessions    *session.Store
	MenuCache   *cache.MenuCache
	Users       *store.UserStore
	Tenants     *store.TenantStore
	Profiles    *store.ProfileStore
	Restaurants *store.RestaurantStore
	Chat        *store.ChatStore
	Ingredients *store.IngredientStore
	Suppliers   *store.SupplierStore
	MenuItems   *store.MenuItemStore
	Recipes     *store.RecipeStore
	Orders      *store.OrderStore

	Auth       *Auth
	Dashboard  *Dashboard
	Purchasing *Purchasing
	Public     *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	menuCache := cache.NewMenuCache(vk, 1*time.Minute)

	users := store.NewUserStore(db)
	tenants := store.NewTenantStore(db)
	profiles := store.NewProfileStore(db)
	restaurants := store.NewRestaurantStore(db)
	chat := store.NewChatStore(db)
	ingredients := store.NewIngredientStore(db)
	suppliers := store.NewSupplierStore(db)
	menuItems := store.NewMenuItemStore(db)
	recipes := store.NewRecipeStore(db)
	orders := store.NewOrderStore(db)
	purchaseOrders := store.NewPurchaseOrderStore(db)

	return &testEnv{
		DB:          db,
		Valkey:      vk,
		Sessions:    sessions,
		MenuCache:   menuCache,
		Users:       users,
		Tenants:     tenants,
		Profiles:    profiles,
		Restaurants: restaurants,
		Chat:        chat,
		Ingredients: ingredients,
		Suppliers:   suppliers,
		MenuItems:   menuItems,
		Recipes:     recipes,
		Orders:      orders,

		Auth:       NewAuth(sessions, users, tenants, profiles, restaurants),
		Dashboard:  NewDashboard(users, profiles, restaurants, chat, menuCache),
		Purchasing: NewPurchasing(ingredients, suppliers, menuItems, recipes, orders, purchaseOrders, 7, 2),
		Public:     NewPublic(restaurants, chat, menuCache),
	}
}

// seedAccount creates a verified owner with a tenant and one restaurant,
// returning the session data a fully authenticated request would carry.
// Everything is removed again through the tenant cascade on cleanup.
func seedAccount(t *testing.T, env *testEnv) (*session.Data, *models.Restaurant) {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	user, err := env.Users.Create(ctx, "owner-"+suffix+"@test.local", "secret-password", "Test Owner", models.RoleOwner)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	tenant, err := env.Tenants.Create(ctx, "Tenant "+suffix)
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	if err := env.Tenants.LinkUser(ctx, user.ID, tenant.ID); err != nil {
		t.Fatalf("link tenant: %v", err)
	}
	restaurant, err := env.Restaurants.Create(ctx, tenant.ID, "Resto "+suffix, "resto-"+suffix, nil)
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}

	t.Cleanup(func() {
		env.DB.ExecContext(context.Background(), `DELETE FROM tenants WHERE id = $1`, tenant.ID)
		env.DB.ExecContext(context.Background(), `DELETE FROM users WHERE id = $1`, user.ID)
	})

	return &session.Data{
		UserID:    user.ID,
		TenantID:  tenant.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		TwoFADone: true,
		CreatedAt: time.Now(),
	}, restaurant
}

// authedRequest builds a request carrying session and restaurant context
// the way the middleware chain would, plus chi URL parameters.
func authedRequest(method, target string, body any, sess *session.Data, restaurant *models.Restaurant, params map[string]string) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}
	if restaurant != nil {
		ctx = context.WithValue(ctx, middleware.RestaurantKey, restaurant)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
