package billing

import (
	"errors"
	"net/http"

	"github.com/dalemusser/dintask/internal/app/system/gateway"
	"github.com/dalemusser/dintask/internal/app/system/gates"
	"github.com/dalemusser/dintask/internal/app/system/invoice"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	paymentstore "github.com/dalemusser/dintask/internal/app/store/payments"
	planstore "github.com/dalemusser/dintask/internal/app/store/plans"
)

type checkoutRequest struct {
	PlanID string `json:"plan_id"`
}

// checkoutResponse carries what the SPA needs to complete the payment
// client-side.
type checkoutResponse struct {
	PaymentID    string `json:"payment_id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	Provider     string `json:"provider"`
}

// HandleCheckout opens a gateway intent for a plan purchase. The pending
// payment is recorded first so the webhook can find it by the intent
// metadata.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}

	var req checkoutRequest
	if !respond.Decode(w, r, &req, maxBody) {
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		respond.BadRequest(w, "Invalid plan id")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	plan, err := h.Plans.GetByID(ctx, planID)
	if errors.Is(err, planstore.ErrNotFound) {
		respond.BadRequest(w, "Plan not found")
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}
	if !plan.Active {
		respond.BadRequest(w, "This plan is no longer offered")
		return
	}

	admin, err := h.Users.GetByID(ctx, cur.TenantID)
	if err != nil {
		respond.Internal(w)
		return
	}

	pay, err := h.Payments.Create(ctx, models.Payment{
		TenantID:    cur.TenantID,
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		AmountCents: plan.PriceCents,
		Currency:    plan.Currency,
		Provider:    h.Gateway.Name(),
	})
	if err != nil {
		h.Log.Error("billing: create payment", zap.Error(err))
		respond.Internal(w)
		return
	}

	intent, err := h.Gateway.CreatePaymentIntent(ctx, &gateway.IntentRequest{
		PaymentID:     pay.ID.Hex(),
		AmountCents:   plan.PriceCents,
		Currency:      plan.Currency,
		Description:   h.SiteName + " " + plan.Name + " plan",
		CustomerEmail: admin.Email,
	})
	if err != nil {
		h.Log.Error("billing: create intent", zap.Error(err))
		_ = h.Payments.MarkFailed(ctx, pay.ID)
		respond.Internal(w)
		return
	}

	if err := h.Payments.SetGatewayOrder(ctx, pay.ID, intent.IntentID, intent.ClientSecret); err != nil {
		h.Log.Error("billing: record intent", zap.Error(err))
		respond.Internal(w)
		return
	}

	respond.JSON(w, http.StatusCreated, checkoutResponse{
		PaymentID:    pay.ID.Hex(),
		ClientSecret: intent.ClientSecret,
		AmountCents:  pay.AmountCents,
		Currency:     pay.Currency,
		Provider:     pay.Provider,
	})
}

// loadPayment fetches {id} scoped to the caller's workspace.
func (h *Handler) loadPayment(w http.ResponseWriter, r *http.Request) (models.Payment, bool) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return models.Payment{}, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "Invalid payment id")
		return models.Payment{}, false
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	p, err := h.Payments.GetForTenant(ctx, cur.TenantID, id)
	if errors.Is(err, paymentstore.ErrNotFound) {
		respond.NotFound(w, "")
		return models.Payment{}, false
	}
	if err != nil {
		respond.Internal(w)
		return models.Payment{}, false
	}
	return p, true
}

// HandleConfirm settles a payment by asking the gateway directly.
// Backup for lost webhooks: the SPA calls this after client-side
// completion.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPayment(w, r)
	if !ok {
		return
	}
	if p.Status == models.PaymentPaid {
		respond.JSON(w, http.StatusOK, p)
		return
	}
	if p.OrderID == "" {
		respond.BadRequest(w, "No gateway order for this payment")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	intent, err := h.Gateway.GetPaymentIntent(ctx, p.OrderID)
	if err != nil {
		h.Log.Error("billing: confirm lookup", zap.Error(err))
		respond.Internal(w)
		return
	}
	if intent.Status != gateway.StatusSucceeded {
		respond.BadRequest(w, "Payment has not completed")
		return
	}

	if err := h.settle(ctx, p); err != nil {
		h.Log.Error("billing: settle", zap.Error(err))
		respond.Internal(w)
		return
	}

	p, err = h.Payments.GetForTenant(ctx, p.TenantID, p.ID)
	if err != nil {
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// ServeHistory returns the workspace's payment history, newest first.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	cur := gates.RequireTenant(w, r)
	if !cur.OK {
		return
	}
	p := paging.Parse(r)

	ctx, cancel := shortCtx(r)
	defer cancel()

	payments, total, err := h.Payments.ListForTenant(ctx, cur.TenantID, p)
	if err != nil {
		h.Log.Error("billing: history", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.List(w, payments, respond.Meta{Page: p.Page, Limit: p.Limit, Total: total})
}

// ServePayment returns one payment.
func (h *Handler) ServePayment(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPayment(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// ServeInvoice renders the PDF invoice for a paid payment.
func (h *Handler) ServeInvoice(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadPayment(w, r)
	if !ok {
		return
	}
	if p.Status != models.PaymentPaid {
		respond.BadRequest(w, "Invoices are available once the payment completes")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	admin, err := h.Users.GetByID(ctx, p.TenantID)
	if err != nil {
		respond.Internal(w)
		return
	}
	durationDays := 0
	if plan, err := h.Plans.GetByID(ctx, p.PlanID); err == nil {
		durationDays = plan.DurationDays
	}

	issued := p.CreatedAt
	if p.PaidAt != nil {
		issued = *p.PaidAt
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+p.Receipt+`.pdf"`)
	err = invoice.Render(w, invoice.Data{
		InvoiceNumber: p.Receipt,
		IssuedAt:      issued,
		SiteName:      h.SiteName,
		AdminName:     admin.FullName,
		AdminEmail:    admin.Email,
		PlanName:      p.PlanName,
		DurationDays:  durationDays,
		AmountCents:   p.AmountCents,
		Currency:      p.Currency,
		Provider:      p.Provider,
		Receipt:       p.OrderID,
	})
	if err != nil {
		h.Log.Error("billing: render invoice", zap.Error(err))
	}
}
