package userstore_test

import (
	. "github.com/dalemusser/dintask/internal/app/store/users"

	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	tenant := primitive.NewObjectID()
	created, err := store.Create(ctx, models.User{
		FullName: "  Dana Ruiz ",
		Email:    "Dana@Example.COM",
		Role:     "sales_executive", // legacy alias
		TenantID: &tenant,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Role != models.RoleSales {
		t.Errorf("role: got %q, want %q", created.Role, models.RoleSales)
	}
	if created.Email != "dana@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}
	if created.FullName != "Dana Ruiz" || created.FullNameCI == "" {
		t.Errorf("name not normalized: %q / %q", created.FullName, created.FullNameCI)
	}

	got, err := store.GetByEmail(ctx, "DANA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail returned wrong user")
	}

	if _, err := store.Create(ctx, models.User{
		FullName: "Other",
		Email:    "dana@example.com",
		Role:     models.RoleEmployee,
		TenantID: &tenant,
	}); err != ErrDuplicateEmail {
		t.Errorf("duplicate email: got %v, want ErrDuplicateEmail", err)
	}
}

func TestCreateValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{FullName: "X", Email: "x@x.com", Role: "owner"}); err == nil {
		t.Error("unknown role accepted")
	}
	if _, err := store.Create(ctx, models.User{FullName: "X", Email: "y@x.com", Role: models.RoleManager}); err == nil {
		t.Error("member without tenant accepted")
	}
}

func TestCountMembersSeatSemantics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 5)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))

	fx.CreateMember(ctx, "A", "a@x.com", models.RoleManager, admin.ID)
	fx.CreatePendingMember(ctx, "B", "b@x.com", models.RoleEmployee, admin.ID)
	fx.CreateMember(ctx, "C", "c@x.com", models.RoleSales, admin.ID)

	// Disabled members free their seat.
	disabled := fx.CreateMember(ctx, "E", "e@x.com", models.RoleEmployee, admin.ID)
	if err := store.SetMemberStatus(ctx, admin.ID, disabled.ID, models.UserStatusInactive); err != nil {
		t.Fatalf("SetMemberStatus: %v", err)
	}

	// Another workspace's member must not count.
	otherPlan := fx.CreatePlan(ctx, "other", 5)
	other := fx.CreateAdmin(ctx, "Other", "other@x.com", otherPlan, time.Now().Add(30*24*time.Hour))
	fx.CreateMember(ctx, "D", "d@x.com", models.RoleEmployee, other.ID)

	n, err := store.CountMembers(ctx, admin.ID)
	if err != nil {
		t.Fatalf("CountMembers: %v", err)
	}
	if n != 3 {
		t.Errorf("CountMembers = %d, want 3 (pending members hold seats)", n)
	}
}

func TestListMembersScopedToTenant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	other := fx.CreateAdmin(ctx, "Other", "other@x.com", plan, time.Now().Add(30*24*time.Hour))

	fx.CreateMember(ctx, "Alice Jones", "alice@x.com", models.RoleManager, admin.ID)
	fx.CreateMember(ctx, "Bob Smith", "bob@x.com", models.RoleEmployee, admin.ID)
	fx.CreateMember(ctx, "Carla Cross", "carla@y.com", models.RoleEmployee, other.ID)

	users, total, err := store.ListMembers(ctx, admin.ID, MemberFilter{}, paging.Params{Page: 1, Limit: 50})
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("got %d/%d members, want 2/2", len(users), total)
	}
	for _, u := range users {
		if u.TenantID == nil || *u.TenantID != admin.ID {
			t.Errorf("cross-tenant member leaked: %s", u.Email)
		}
	}

	// Role filter.
	users, _, err = store.ListMembers(ctx, admin.ID, MemberFilter{Role: models.RoleManager}, paging.Params{Page: 1, Limit: 50})
	if err != nil {
		t.Fatalf("ListMembers(role): %v", err)
	}
	if len(users) != 1 || users[0].FullName != "Alice Jones" {
		t.Errorf("role filter wrong: %+v", users)
	}

	// Name search.
	users, _, err = store.ListMembers(ctx, admin.ID, MemberFilter{Search: "bo"}, paging.Params{Page: 1, Limit: 50})
	if err != nil {
		t.Fatalf("ListMembers(search): %v", err)
	}
	if len(users) != 1 || users[0].FullName != "Bob Smith" {
		t.Errorf("search wrong: %+v", users)
	}
}

func TestSetMemberStatusCrossTenant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	other := fx.CreateAdmin(ctx, "Other", "other@x.com", plan, time.Now().Add(30*24*time.Hour))
	member := fx.CreatePendingMember(ctx, "P", "p@x.com", models.RoleEmployee, admin.ID)

	// Another admin cannot approve this workspace's member.
	if err := store.SetMemberStatus(ctx, other.ID, member.ID, models.UserStatusActive); err != ErrNotFound {
		t.Errorf("cross-tenant status change: got %v, want ErrNotFound", err)
	}

	if err := store.SetMemberStatus(ctx, admin.ID, member.ID, models.UserStatusActive); err != nil {
		t.Fatalf("SetMemberStatus: %v", err)
	}
	got, err := store.GetMember(ctx, admin.ID, member.ID)
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if got.Status != models.UserStatusActive {
		t.Errorf("status = %q", got.Status)
	}
}

func TestSubscriptionLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "growth", 20)
	expiry := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Hour)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, expiry)

	dayStart := expiry.Truncate(24 * time.Hour)
	admins, err := store.ListAdminsExpiringOn(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListAdminsExpiringOn: %v", err)
	}
	if len(admins) != 1 || admins[0].ID != admin.ID {
		t.Fatalf("expiring admins = %+v", admins)
	}

	if err := store.MarkSubscriptionExpired(ctx, admin.ID); err != nil {
		t.Fatalf("MarkSubscriptionExpired: %v", err)
	}
	got, err := store.GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.SubscriptionStatus != models.SubscriptionExpired {
		t.Errorf("status = %q", got.SubscriptionStatus)
	}

	// Expired admins drop out of the reminder scan.
	admins, err = store.ListAdminsExpiringOn(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListAdminsExpiringOn: %v", err)
	}
	if len(admins) != 0 {
		t.Errorf("expired admin still scanned: %+v", admins)
	}

	newExpiry := time.Now().Add(30 * 24 * time.Hour)
	if err := store.ActivateSubscription(ctx, admin.ID, plan, newExpiry); err != nil {
		t.Fatalf("ActivateSubscription: %v", err)
	}
	got, _ = store.GetByID(ctx, admin.ID)
	if got.SubscriptionStatus != models.SubscriptionActive {
		t.Errorf("status after renew = %q", got.SubscriptionStatus)
	}
}

func TestResetTokenFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	u, err := store.Create(ctx, models.User{
		FullName: "R", Email: "r@x.com", Role: models.RoleEmployee, TenantID: &tenant,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	expiry := time.Now().Add(time.Hour)
	if _, err := store.SetResetToken(ctx, "r@x.com", "tok123", expiry); err != nil {
		t.Fatalf("SetResetToken: %v", err)
	}

	got, err := store.GetByResetToken(ctx, "tok123", time.Now())
	if err != nil {
		t.Fatalf("GetByResetToken: %v", err)
	}
	if got.ID != u.ID {
		t.Error("wrong user for token")
	}

	if _, err := store.GetByResetToken(ctx, "tok123", time.Now().Add(2*time.Hour)); err != ErrNotFound {
		t.Errorf("expired token: got %v, want ErrNotFound", err)
	}

	if err := store.UpdatePassword(ctx, u.ID, "newhash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if _, err := store.GetByResetToken(ctx, "tok123", time.Now()); err != ErrNotFound {
		t.Errorf("token survived password change: %v", err)
	}
}
