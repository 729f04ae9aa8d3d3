package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// demoMenu is the menu document installed on the seeded restaurant so the
// editor, the public page and the dashboard have something to show on a
// fresh install.
const demoMenu = `{
  "restaurant_name": "Chez Démo",
  "categories": [
    {
      "name": "Entrées",
      "items": [
        {"name": "Salade de chèvre chaud", "price": "9,50", "description": "Chèvre rôti sur toast, miel et noix", "tags": ["végétarien"]},
        {"name": "Soupe à l'oignon", "price": "8,00", "description": "Gratinée au comté", "tags": []}
      ]
    },
    {
      "name": "Plats",
      "items": [
        {"name": "Margherita", "price": "12,50", "description": "Tomate, mozzarella, basilic", "tags": ["végétarien"]},
        {"name": "Magret de canard", "price": "19,00", "description": "Sauce au miel, pommes sarladaises", "tags": []}
      ]
    }
  ]
}`

// Seed populates the database with initial development data: one owner
// account with its tenant, profile and a demo restaurant. The owner will
// be prompted to set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRow(`
		INSERT INTO users (email, password_hash, full_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "owner@restaubot.local", string(hash), "Propriétaire Démo", "owner", false).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seed insert owner: %w", err)
	}

	var tenantID string
	err = tx.QueryRow(`
		INSERT INTO tenants (name) VALUES ($1) RETURNING id
	`, "Chez Démo SARL").Scan(&tenantID)
	if err != nil {
		return fmt.Errorf("seed insert tenant: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO user_tenants (user_id, tenant_id) VALUES ($1, $2)
	`, userID, tenantID); err != nil {
		return fmt.Errorf("seed link owner to tenant: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO profiles (id, full_name, company_name, plan)
		VALUES ($1, $2, $3, $4)
	`, userID, "Propriétaire Démo", "Chez Démo SARL", "Plan Découverte"); err != nil {
		return fmt.Errorf("seed insert profile: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO restaurants (tenant_id, display_name, slug, menu_document)
		VALUES ($1, $2, $3, $4::jsonb)
	`, tenantID, "Chez Démo", "chez-demo", demoMenu); err != nil {
		return fmt.Errorf("seed insert restaurant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo owner account",
		"email", "owner@restaubot.local",
		"password", "admin",
	)

	return nil
}
