package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"restaubot/internal/models"
)

func TestUserCreateAndFind(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	email := "user-" + uuid.NewString()[:8] + "@test.local"
	u, err := users.Create(ctx, email, "secret123", "Test Owner", models.RoleOwner)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { users.Delete(ctx, u.ID) })

	if u.Email != email {
		t.Errorf("email: got %q, want %q", u.Email, email)
	}
	if u.PasswordHash == "secret123" {
		t.Error("password must be hashed, not stored in clear")
	}
	if u.TOTPEnabled {
		t.Error("new user should not have 2FA enabled")
	}

	found, err := users.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if found == nil || found.ID != u.ID {
		t.Fatal("FindByEmail should return the created user")
	}

	byID, err := users.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.Email != email {
		t.Fatal("FindByID should return the created user")
	}
}

func TestUserFindMissingReturnsNil(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	u, err := users.FindByEmail(ctx, "nobody@test.local")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown email")
	}

	u, err = users.FindByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestUserCheckPassword(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	email := "pw-" + uuid.NewString()[:8] + "@test.local"
	u, err := users.Create(ctx, email, "correct-horse", "PW User", models.RoleOwner)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { users.Delete(ctx, u.ID) })

	if !users.CheckPassword(u, "correct-horse") {
		t.Error("correct password should verify")
	}
	if users.CheckPassword(u, "wrong") {
		t.Error("wrong password should not verify")
	}
}

func TestUserTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	email := "totp-" + uuid.NewString()[:8] + "@test.local"
	u, err := users.Create(ctx, email, "secret123", "TOTP User", models.RoleOwner)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { users.Delete(ctx, u.ID) })

	if err := users.SetTOTPSecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := users.EnableTOTP(ctx, u.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	reloaded, _ := users.FindByID(ctx, u.ID)
	if reloaded == nil || !reloaded.TOTPEnabled {
		t.Fatal("expected 2FA enabled after EnableTOTP")
	}
	if reloaded.TOTPSecret == nil || *reloaded.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Error("expected stored TOTP secret")
	}

	if err := users.ResetTOTP(ctx, u.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	reloaded, _ = users.FindByID(ctx, u.ID)
	if reloaded.TOTPEnabled || reloaded.TOTPSecret != nil {
		t.Error("expected 2FA cleared after ResetTOTP")
	}
}
