package limits

import (
	"context"
	"errors"
	"testing"
	"time"

	planstore "github.com/dalemusser/dintask/internal/app/store/plans"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakePlans struct {
	byID   map[primitive.ObjectID]models.Plan
	byName map[string]models.Plan
}

func (f fakePlans) GetByID(_ context.Context, id primitive.ObjectID) (models.Plan, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return models.Plan{}, errors.New("not found")
}

func (f fakePlans) GetByName(_ context.Context, name string) (models.Plan, error) {
	if p, ok := f.byName[name]; ok {
		return p, nil
	}
	return models.Plan{}, errors.New("not found")
}

type fakeCounter int64

func (f fakeCounter) CountMembers(context.Context, primitive.ObjectID) (int64, error) {
	return int64(f), nil
}

func TestCheckUserLimitBoundary(t *testing.T) {
	planID := primitive.NewObjectID()
	plan := models.Plan{ID: planID, Name: "starter", UserLimit: 5}

	tests := []struct {
		name    string
		current int64
		allowed bool
	}{
		{"empty workspace", 0, true},
		{"one below limit", 4, true},
		{"at limit", 5, false},
		{"over limit", 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Checker{
				Plans: fakePlans{byID: map[primitive.ObjectID]models.Plan{planID: plan}},
				Users: fakeCounter(tt.current),
			}
			admin := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin, PlanID: &planID}

			d, err := c.CheckUserLimit(context.Background(), admin)
			if err != nil {
				t.Fatalf("CheckUserLimit: %v", err)
			}
			if d.Allowed != tt.allowed {
				t.Errorf("Allowed = %v, want %v (current=%d limit=%d)", d.Allowed, tt.allowed, d.Current, d.Limit)
			}
			if d.Current != tt.current || d.Limit != 5 {
				t.Errorf("Decision = %+v", d)
			}
		})
	}
}

func TestCheckUserLimitPlanNameFallback(t *testing.T) {
	plan := models.Plan{ID: primitive.NewObjectID(), Name: "growth", UserLimit: 10}
	c := Checker{
		Plans: fakePlans{byName: map[string]models.Plan{"growth": plan}},
		Users: fakeCounter(3),
	}
	admin := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin, PlanName: "growth"}

	d, err := c.CheckUserLimit(context.Background(), admin)
	if err != nil {
		t.Fatalf("CheckUserLimit: %v", err)
	}
	if !d.Allowed || d.Plan != "growth" {
		t.Errorf("Decision = %+v", d)
	}
}

func TestCheckUserLimitNoPlan(t *testing.T) {
	c := Checker{Plans: fakePlans{}, Users: fakeCounter(0)}
	admin := models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	if _, err := c.CheckUserLimit(context.Background(), admin); err == nil {
		t.Fatal("CheckUserLimit accepted an admin with no plan")
	}
}

func TestGrantSeatStopsAtLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 2)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	fx.CreateMember(ctx, "One", "one@x.com", models.RoleEmployee, admin.ID)
	fx.CreateMember(ctx, "Two", "two@x.com", models.RoleEmployee, admin.ID)

	users := userstore.New(db)
	c := Checker{Plans: planstore.New(db), Users: users}

	called := false
	err := c.GrantSeat(ctx, db.Client(), zap.NewNop(), users, admin.ID, 1, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrSeatLimit) {
		t.Fatalf("GrantSeat at limit: %v, want ErrSeatLimit", err)
	}
	if called {
		t.Error("grant fn ran despite the full workspace")
	}

	// Approving a pending request adds no seat, so needed=0 passes even
	// with every seat taken.
	err = c.GrantSeat(ctx, db.Client(), zap.NewNop(), users, admin.ID, 0, func(context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("GrantSeat needed=0: %v", err)
	}
	if !called {
		t.Error("grant fn did not run for a held seat")
	}
}
