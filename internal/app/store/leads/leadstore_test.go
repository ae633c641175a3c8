package leadstore

import (
	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRequestApprovalPreconditions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	rep := primitive.NewObjectID()
	deadline := time.Now().Add(14 * 24 * time.Hour)

	tests := []struct {
		name    string
		lead    models.Lead
		wantErr error
	}{
		{
			name: "won with amount and deadline",
			lead: models.Lead{
				TenantID: tenant, Name: "OK Deal", Status: models.LeadWon,
				AmountCents: 250000, Deadline: &deadline, SalesRep: rep,
			},
			wantErr: nil,
		},
		{
			name: "not won",
			lead: models.Lead{
				TenantID: tenant, Name: "Open Deal", Status: models.LeadNegotiation,
				AmountCents: 250000, Deadline: &deadline, SalesRep: rep,
			},
			wantErr: ErrNotApprovable,
		},
		{
			name: "zero amount",
			lead: models.Lead{
				TenantID: tenant, Name: "Free Deal", Status: models.LeadWon,
				AmountCents: 0, Deadline: &deadline, SalesRep: rep,
			},
			wantErr: ErrNotApprovable,
		},
		{
			name: "no deadline",
			lead: models.Lead{
				TenantID: tenant, Name: "Open Ended", Status: models.LeadWon,
				AmountCents: 250000, SalesRep: rep,
			},
			wantErr: ErrNotApprovable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := store.Create(ctx, tt.lead)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			err = store.RequestApproval(ctx, tenant, created.ID)
			if err != tt.wantErr {
				t.Fatalf("RequestApproval: got %v, want %v", err, tt.wantErr)
			}

			got, err := store.Get(ctx, tenant, created.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			wantApproval := models.ApprovalNone
			if tt.wantErr == nil {
				wantApproval = models.ApprovalPending
			}
			if got.ApprovalStatus != wantApproval {
				t.Errorf("approval = %q, want %q (no mutation on rejection)", got.ApprovalStatus, wantApproval)
			}
		})
	}
}

func TestApprovalLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	deadline := time.Now().Add(14 * 24 * time.Hour)
	lead, err := store.Create(ctx, models.Lead{
		TenantID: tenant, Name: "Deal", Status: models.LeadWon,
		AmountCents: 100000, Deadline: &deadline, SalesRep: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.RequestApproval(ctx, tenant, lead.ID); err != nil {
		t.Fatalf("RequestApproval: %v", err)
	}

	// Second request while pending is rejected.
	if err := store.RequestApproval(ctx, tenant, lead.ID); err != ErrNotApprovable {
		t.Errorf("double request: got %v, want ErrNotApprovable", err)
	}

	projectID := primitive.NewObjectID()
	if err := store.Approve(ctx, tenant, lead.ID, projectID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	got, _ := store.Get(ctx, tenant, lead.ID)
	if got.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("approval = %q", got.ApprovalStatus)
	}
	if got.ProjectRef == nil || *got.ProjectRef != projectID {
		t.Errorf("project_ref = %v, want %v", got.ProjectRef, projectID)
	}
}

func TestTenantIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenantA := primitive.NewObjectID()
	tenantB := primitive.NewObjectID()

	lead, err := store.Create(ctx, models.Lead{
		TenantID: tenantA, Name: "Private", Status: models.LeadNew, SalesRep: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Get(ctx, tenantB, lead.ID); err != ErrNotFound {
		t.Errorf("cross-tenant Get: got %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, tenantB, lead.ID); err != ErrNotFound {
		t.Errorf("cross-tenant Delete: got %v, want ErrNotFound", err)
	}

	leads, total, err := store.List(ctx, tenantB, Filter{}, paging.Params{Page: 1, Limit: 50})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 || len(leads) != 0 {
		t.Errorf("cross-tenant List leaked %d leads", len(leads))
	}
}

func TestFollowUps(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	lead, err := store.Create(ctx, models.Lead{
		TenantID: tenant, Name: "Deal", Status: models.LeadContacted, SalesRep: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	fu, err := store.AddFollowUp(ctx, tenant, lead.ID, models.FollowUp{
		Note:    "Call back Tuesday",
		DueAt:   time.Now().Add(48 * time.Hour),
		AddedBy: lead.SalesRep,
	})
	if err != nil {
		t.Fatalf("AddFollowUp: %v", err)
	}

	if err := store.CompleteFollowUp(ctx, tenant, lead.ID, fu.ID); err != nil {
		t.Fatalf("CompleteFollowUp: %v", err)
	}

	got, _ := store.Get(ctx, tenant, lead.ID)
	if len(got.FollowUps) != 1 || !got.FollowUps[0].Done {
		t.Errorf("follow-ups = %+v", got.FollowUps)
	}
}
