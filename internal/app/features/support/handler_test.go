package support_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/dintask/internal/app/features/support"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.uber.org/zap"
)

func raise(t *testing.T, h *support.Handler, u models.User, subject string) models.SupportTicket {
	t.Helper()
	req := testutil.JSONRequest(t, "POST", "/api/v1/support-tickets", map[string]string{
		"subject": subject,
		"body":    "something is broken",
	})
	rec := httptest.NewRecorder()
	h.HandleRaise(rec, testutil.AsUser(req, u))
	if rec.Code != http.StatusCreated {
		t.Fatalf("raise: %d %s", rec.Code, rec.Body.String())
	}
	var tk models.SupportTicket
	testutil.DecodeEnvelope(t, rec, &tk)
	return tk
}

func view(t *testing.T, h *support.Handler, u models.User, id string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/v1/support-tickets/"+id, nil)
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.ServeView(rec, testutil.AsUser(req, u))
	return rec
}

func TestEscalationRouting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := support.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	alice := fx.CreateMember(ctx, "Alice", "alice@x.com", models.RoleEmployee, admin.ID)
	bob := fx.CreateMember(ctx, "Bob", "bob@x.com", models.RoleEmployee, admin.ID)

	memberTicket := raise(t, h, alice, "Printer on fire")
	if memberTicket.Escalated {
		t.Error("member ticket escalated, want tenant-handled")
	}
	adminTicket := raise(t, h, admin, "Billing question")
	if !adminTicket.Escalated {
		t.Error("admin ticket not escalated")
	}

	// The workspace admin handles member tickets; other members see
	// nothing.
	if rec := view(t, h, admin, memberTicket.ID.Hex()); rec.Code != http.StatusOK {
		t.Errorf("admin view member ticket: %d", rec.Code)
	}
	if rec := view(t, h, bob, memberTicket.ID.Hex()); rec.Code != http.StatusNotFound {
		t.Errorf("peer view member ticket: %d, want 404", rec.Code)
	}

	// Superadmins see only the escalated pool; raisers keep access to
	// their own.
	root := testutil.SuperAdmin()
	if rec := view(t, h, root, adminTicket.ID.Hex()); rec.Code != http.StatusOK {
		t.Errorf("superadmin view escalated: %d", rec.Code)
	}
	if rec := view(t, h, root, memberTicket.ID.Hex()); rec.Code != http.StatusNotFound {
		t.Errorf("superadmin view member ticket: %d, want 404", rec.Code)
	}
	if rec := view(t, h, admin, adminTicket.ID.Hex()); rec.Code != http.StatusOK {
		t.Errorf("admin view own escalated: %d", rec.Code)
	}

	// The admin queue lists only tenant-handled tickets; ?mine=true
	// surfaces the admin's own escalated ones.
	lreq := httptest.NewRequest("GET", "/api/v1/support-tickets", nil)
	rec := httptest.NewRecorder()
	h.ServeList(rec, testutil.AsUser(lreq, admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	var tickets []models.SupportTicket
	env := testutil.DecodeEnvelope(t, rec, &tickets)
	if env.Meta == nil || env.Meta.Total != 1 {
		t.Fatalf("admin queue total = %+v, want 1", env.Meta)
	}
	if tickets[0].ID != memberTicket.ID {
		t.Errorf("admin queue has %s, want member ticket", tickets[0].ID.Hex())
	}

	lreq = httptest.NewRequest("GET", "/api/v1/support-tickets?mine=true", nil)
	rec = httptest.NewRecorder()
	h.ServeList(rec, testutil.AsUser(lreq, admin))
	tickets = nil
	testutil.DecodeEnvelope(t, rec, &tickets)
	if len(tickets) != 1 || tickets[0].ID != adminTicket.ID {
		t.Errorf("mine=true = %d tickets, want the admin's escalated one", len(tickets))
	}
}

func TestRespondMovesOpenTicketAlong(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := support.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	alice := fx.CreateMember(ctx, "Alice", "alice@x.com", models.RoleEmployee, admin.ID)

	tk := raise(t, h, alice, "Cannot log time")

	req := testutil.JSONRequest(t, "POST", "/api/v1/support-tickets/"+tk.ID.Hex()+"/responses",
		map[string]string{"body": "looking into it"})
	req = testutil.WithChiURLParam(req, "id", tk.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleRespond(rec, testutil.AsUser(req, admin))
	if rec.Code != http.StatusCreated {
		t.Fatalf("respond: %d %s", rec.Code, rec.Body.String())
	}

	got, err := h.Tickets.Get(ctx, admin.ID, tk.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.TicketInProgress {
		t.Errorf("status after first reply = %q, want in_progress", got.Status)
	}
	if len(got.Responses) != 1 || got.Responses[0].AuthorID != admin.ID {
		t.Fatalf("responses = %+v", got.Responses)
	}
}

func TestStatusAuthority(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := support.NewHandler(db, nil, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	plan := fx.CreatePlan(ctx, "starter", 10)
	admin := fx.CreateAdmin(ctx, "Boss", "boss@x.com", plan, time.Now().Add(30*24*time.Hour))
	alice := fx.CreateMember(ctx, "Alice", "alice@x.com", models.RoleEmployee, admin.ID)

	setStatus := func(u models.User, id, status string) *httptest.ResponseRecorder {
		req := testutil.JSONRequest(t, "PUT", "/api/v1/support-tickets/"+id+"/status",
			map[string]string{"status": status})
		req = testutil.WithChiURLParam(req, "id", id)
		rec := httptest.NewRecorder()
		h.HandleSetStatus(rec, testutil.AsUser(req, u))
		return rec
	}

	memberTicket := raise(t, h, alice, "Stuck task")
	if rec := setStatus(alice, memberTicket.ID.Hex(), models.TicketResolved); rec.Code != http.StatusForbidden {
		t.Errorf("raiser set status: %d, want 403", rec.Code)
	}
	if rec := setStatus(admin, memberTicket.ID.Hex(), models.TicketResolved); rec.Code != http.StatusOK {
		t.Errorf("admin set status: %d", rec.Code)
	}

	// Escalated tickets belong to the superadmins, even for the admin
	// who raised them.
	adminTicket := raise(t, h, admin, "Upgrade plan")
	if rec := setStatus(admin, adminTicket.ID.Hex(), models.TicketClosed); rec.Code != http.StatusForbidden {
		t.Errorf("admin set escalated status: %d, want 403", rec.Code)
	}
	if rec := setStatus(testutil.SuperAdmin(), adminTicket.ID.Hex(), models.TicketClosed); rec.Code != http.StatusOK {
		t.Errorf("superadmin set escalated status: %d", rec.Code)
	}

	got, err := h.Tickets.GetEscalated(ctx, adminTicket.ID)
	if err != nil {
		t.Fatalf("GetEscalated: %v", err)
	}
	if got.Status != models.TicketClosed {
		t.Errorf("escalated status = %q, want closed", got.Status)
	}
}

func TestContactInbox(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := support.NewHandler(db, nil, zap.NewNop())

	req := testutil.JSONRequest(t, "POST", "/api/v1/support", map[string]string{
		"name":    "Dana Prospect",
		"email":   "dana@example.com",
		"company": "Prospect Co",
		"message": "Do you support SSO?",
	})
	rec := httptest.NewRecorder()
	h.HandleContact(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("contact: %d %s", rec.Code, rec.Body.String())
	}
	var lead models.SupportLead
	testutil.DecodeEnvelope(t, rec, &lead)
	if lead.Handled {
		t.Error("new lead marked handled")
	}

	req = testutil.JSONRequest(t, "POST", "/api/v1/support", map[string]string{
		"name":    "No Email",
		"email":   "not-an-email",
		"message": "hi",
	})
	rec = httptest.NewRecorder()
	h.HandleContact(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad email: %d, want 400", rec.Code)
	}

	root := testutil.SuperAdmin()
	lreq := httptest.NewRequest("GET", "/api/v1/support/leads?unhandled=true", nil)
	rec = httptest.NewRecorder()
	h.ServeContactLeads(rec, testutil.AsUser(lreq, root))
	var leads []models.SupportLead
	env := testutil.DecodeEnvelope(t, rec, &leads)
	if env.Meta == nil || env.Meta.Total != 1 {
		t.Fatalf("unhandled total = %+v, want 1", env.Meta)
	}

	mreq := testutil.JSONRequest(t, "PUT", "/api/v1/support/leads/"+lead.ID.Hex()+"/handled", nil)
	mreq = testutil.WithChiURLParam(mreq, "id", lead.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleMarkLeadHandled(rec, testutil.AsUser(mreq, root))
	if rec.Code != http.StatusOK {
		t.Fatalf("mark handled: %d %s", rec.Code, rec.Body.String())
	}

	lreq = httptest.NewRequest("GET", "/api/v1/support/leads?unhandled=true", nil)
	rec = httptest.NewRecorder()
	h.ServeContactLeads(rec, testutil.AsUser(lreq, root))
	leads = nil
	env = testutil.DecodeEnvelope(t, rec, &leads)
	if env.Meta == nil || env.Meta.Total != 0 {
		t.Errorf("unhandled after mark = %+v, want 0", env.Meta)
	}
}
