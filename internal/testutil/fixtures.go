package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreatePlan inserts a plan with the given name and seat limit.
func (f *Fixtures) CreatePlan(ctx context.Context, name string, userLimit int) models.Plan {
	f.t.Helper()

	now := time.Now().UTC()
	plan := models.Plan{
		ID:           primitive.NewObjectID(),
		Name:         name,
		PriceCents:   4900,
		Currency:     "usd",
		UserLimit:    userLimit,
		DurationDays: 30,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("plans").InsertOne(ctx, plan); err != nil {
		f.t.Fatalf("create test plan: %v", err)
	}
	return plan
}

// CreateAdmin inserts an active workspace admin on the given plan with a
// subscription running until expiry.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string, plan models.Plan, expiry time.Time) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	admin := models.User{
		ID:                 primitive.NewObjectID(),
		FullName:           name,
		FullNameCI:         text.Fold(name),
		Email:              email,
		Role:               models.RoleAdmin,
		Status:             models.UserStatusActive,
		PlanID:             &plan.ID,
		PlanName:           plan.Name,
		SubscriptionStatus: models.SubscriptionActive,
		SubscriptionExpiry: &expiry,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, admin); err != nil {
		f.t.Fatalf("create test admin: %v", err)
	}
	return admin
}

// CreateMember inserts an active workspace member owned by tenantID.
// Role must be manager, sales, or employee.
func (f *Fixtures) CreateMember(ctx context.Context, name, email, role string, tenantID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.createMember(ctx, name, email, role, models.UserStatusActive, tenantID)
}

// CreatePendingMember inserts a member awaiting admin approval.
func (f *Fixtures) CreatePendingMember(ctx context.Context, name, email, role string, tenantID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.createMember(ctx, name, email, role, models.UserStatusPending, tenantID)
}

func (f *Fixtures) createMember(ctx context.Context, name, email, role, status string, tenantID primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	member := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      email,
		Role:       role,
		Status:     status,
		TenantID:   &tenantID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, member); err != nil {
		f.t.Fatalf("create test member: %v", err)
	}
	return member
}

// CreateLead inserts a lead for the tenant assigned to salesRep.
func (f *Fixtures) CreateLead(ctx context.Context, tenantID, salesRep primitive.ObjectID, name, status string) models.Lead {
	f.t.Helper()

	now := time.Now().UTC()
	lead := models.Lead{
		ID:             primitive.NewObjectID(),
		TenantID:       tenantID,
		Name:           name,
		NameCI:         text.Fold(name),
		Status:         status,
		ApprovalStatus: models.ApprovalNone,
		SalesRep:       salesRep,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("leads").InsertOne(ctx, lead); err != nil {
		f.t.Fatalf("create test lead: %v", err)
	}
	return lead
}

// CreateProject inserts an active project for the tenant.
func (f *Fixtures) CreateProject(ctx context.Context, tenantID primitive.ObjectID, name string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	deadline := now.Add(30 * 24 * time.Hour)
	project := models.Project{
		ID:        primitive.NewObjectID(),
		TenantID:  tenantID,
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    models.ProjectActive,
		Deadline:  &deadline,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, project); err != nil {
		f.t.Fatalf("create test project: %v", err)
	}
	return project
}

// CreateTask inserts a task on the project assigned to assignee.
func (f *Fixtures) CreateTask(ctx context.Context, tenantID, projectID, assignee primitive.ObjectID, title, status string) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	deadline := now.Add(7 * 24 * time.Hour)
	task := models.Task{
		ID:         primitive.NewObjectID(),
		TenantID:   tenantID,
		Project:    projectID,
		Title:      title,
		TitleCI:    text.Fold(title),
		Status:     status,
		AssignedTo: []primitive.ObjectID{assignee},
		Deadline:   &deadline,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("create test task: %v", err)
	}
	return task
}
