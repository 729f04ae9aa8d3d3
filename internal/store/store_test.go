// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"restaubot/internal/database"
	"restaubot/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "restaubot")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "restaubot")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testTenant creates a throwaway tenant with one restaurant and removes
// both when the test finishes. Everything hanging off the restaurant
// cascades away with it.
func testTenant(t *testing.T, db *sql.DB) (*models.Tenant, *models.Restaurant) {
	t.Helper()
	ctx := context.Background()

	tenants := NewTenantStore(db)
	restaurants := NewRestaurantStore(db)

	tenant, err := tenants.Create(ctx, "Test Tenant "+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("create test tenant: %v", err)
	}

	restaurant, err := restaurants.Create(ctx, tenant.ID, "Resto Test", "resto-test-"+uuid.NewString()[:8], nil)
	if err != nil {
		t.Fatalf("create test restaurant: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM tenants WHERE id = $1", tenant.ID)
	})

	return tenant, restaurant
}
