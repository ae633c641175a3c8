package bootstrap

import (
	"testing"

	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.uber.org/zap"
)

func TestEnsureSuperAdminCreatesAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := AppConfig{
		SuperAdminEmail:    "root@dintask.test",
		SuperAdminPassword: "initial-password-1",
	}
	if err := ensureSuperAdmin(ctx, users, cfg, zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin: %v", err)
	}

	u, err := users.GetByEmail(ctx, cfg.SuperAdminEmail)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u.Role != models.RoleSuperAdmin {
		t.Errorf("role: got %q, want %q", u.Role, models.RoleSuperAdmin)
	}
	if u.Status != models.UserStatusActive {
		t.Errorf("status: got %q, want %q", u.Status, models.UserStatusActive)
	}
	if !auth.CheckPassword(u.PasswordHash, cfg.SuperAdminPassword) {
		t.Error("stored hash does not match the configured password")
	}

	// A second boot with the same config must not fail or duplicate.
	if err := ensureSuperAdmin(ctx, users, cfg, zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin (second run): %v", err)
	}
}

func TestEnsureSuperAdminPromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing, err := users.Create(ctx, models.User{
		FullName:     "Dina Admin",
		Email:        "dina@dintask.test",
		Role:         models.RoleAdmin,
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cfg := AppConfig{SuperAdminEmail: existing.Email}
	if err := ensureSuperAdmin(ctx, users, cfg, zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin: %v", err)
	}

	u, err := users.GetByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.Role != models.RoleSuperAdmin {
		t.Errorf("role: got %q, want %q", u.Role, models.RoleSuperAdmin)
	}
	if u.TenantID != nil {
		t.Error("promoted account should have no tenant_id")
	}
}

func TestEnsureSuperAdminRequiresPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := AppConfig{SuperAdminEmail: "nobody@dintask.test"}
	if err := ensureSuperAdmin(ctx, users, cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error when the account is missing and no password is configured")
	}
}

func TestEnsureSuperAdminSkipsWhenUnconfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureSuperAdmin(ctx, users, AppConfig{}, zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin: %v", err)
	}
}
