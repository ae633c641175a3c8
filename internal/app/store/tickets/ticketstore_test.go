package ticketstore

import (
	"testing"

	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAdminTicketsEscalate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()

	member, err := store.Create(ctx, models.SupportTicket{
		TenantID: tenant, Subject: "Cannot log in", Body: "help",
		RaisedBy: primitive.NewObjectID(), RaisedRole: models.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("Create member ticket: %v", err)
	}
	if member.Escalated {
		t.Error("member ticket escalated")
	}

	admin, err := store.Create(ctx, models.SupportTicket{
		TenantID: tenant, Subject: "Billing question", Body: "invoice wrong",
		RaisedBy: primitive.NewObjectID(), RaisedRole: models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Create admin ticket: %v", err)
	}
	if !admin.Escalated {
		t.Error("admin ticket not escalated")
	}

	// Tenant list sees only the member ticket.
	list, total, err := store.List(ctx, tenant, Filter{}, paging.Params{Page: 1, Limit: 50})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || list[0].ID != member.ID {
		t.Errorf("tenant list = %d tickets", total)
	}

	// Escalated list sees only the admin ticket.
	esc, total, err := store.ListEscalated(ctx, "", paging.Params{Page: 1, Limit: 50})
	if err != nil {
		t.Fatalf("ListEscalated: %v", err)
	}
	if total != 1 || esc[0].ID != admin.ID {
		t.Errorf("escalated list = %d tickets", total)
	}
}

func TestFirstResponseMovesTicketAlong(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	tk, err := store.Create(ctx, models.SupportTicket{
		TenantID: tenant, Subject: "Stuck task", Body: "details",
		RaisedBy: primitive.NewObjectID(), RaisedRole: models.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.AddResponse(ctx, tk.ID, models.TicketResponse{
		AuthorID: primitive.NewObjectID(), AuthorRole: models.RoleAdmin,
		Body: "looking into it",
	}); err != nil {
		t.Fatalf("AddResponse: %v", err)
	}

	got, _ := store.Get(ctx, tenant, tk.ID)
	if got.Status != models.TicketInProgress {
		t.Errorf("status after reply = %q", got.Status)
	}
	if len(got.Responses) != 1 {
		t.Errorf("responses = %d", len(got.Responses))
	}

	// Resolving then replying again does not reopen.
	if err := store.SetStatus(ctx, tk.ID, models.TicketResolved); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if _, err := store.AddResponse(ctx, tk.ID, models.TicketResponse{
		AuthorID: primitive.NewObjectID(), AuthorRole: models.RoleEmployee,
		Body: "thanks",
	}); err != nil {
		t.Fatalf("AddResponse: %v", err)
	}
	got, _ = store.Get(ctx, tenant, tk.ID)
	if got.Status != models.TicketResolved {
		t.Errorf("status after resolved reply = %q", got.Status)
	}
}
