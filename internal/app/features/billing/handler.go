// Package billing implements /api/v1/payments: the public plan catalog,
// superadmin plan management, admin checkout through the payment
// gateway, the gateway webhook, payment history, and PDF invoices.
package billing

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	paymentstore "github.com/dalemusser/dintask/internal/app/store/payments"
	planstore "github.com/dalemusser/dintask/internal/app/store/plans"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/gateway"
	"github.com/dalemusser/dintask/internal/app/system/invoice"
	"github.com/dalemusser/dintask/internal/app/system/mailer"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
	"github.com/dalemusser/dintask/internal/domain/models"
)

const maxBody = 1 << 20

// Handler is the feature-level entry point for Billing.
type Handler struct {
	DB       *mongo.Database
	Payments *paymentstore.Store
	Plans    *planstore.Store
	Users    *userstore.Store
	Gateway  gateway.PaymentGateway
	Mail     *mailer.Mailer
	SiteName string
	BaseURL  string
	Log      *zap.Logger
}

// NewHandler constructs a Billing handler bound to its stores and the
// configured payment gateway.
func NewHandler(db *mongo.Database, gw gateway.PaymentGateway, mail *mailer.Mailer, siteName, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Payments: paymentstore.New(db),
		Plans:    planstore.New(db),
		Users:    userstore.New(db),
		Gateway:  gw,
		Mail:     mail,
		SiteName: siteName,
		BaseURL:  baseURL,
		Log:      logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}

// settle moves a payment to paid and extends the workspace subscription
// by the plan's duration. Idempotent: webhook retries and an explicit
// confirm racing each other extend the subscription once.
func (h *Handler) settle(ctx context.Context, p models.Payment) error {
	first, err := h.Payments.MarkPaid(ctx, p.ID, time.Now())
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	plan, err := h.Plans.GetByID(ctx, p.PlanID)
	if err != nil {
		return err
	}
	admin, err := h.Users.GetByID(ctx, p.TenantID)
	if err != nil {
		return err
	}

	// Renewing early stacks on the remaining term instead of losing it.
	base := time.Now()
	if admin.SubscriptionExpiry != nil && admin.SubscriptionExpiry.After(base) {
		base = *admin.SubscriptionExpiry
	}
	expiry := base.AddDate(0, 0, plan.DurationDays)

	if err := h.Users.ActivateSubscription(ctx, admin.ID, plan, expiry); err != nil {
		return err
	}

	if h.Mail != nil {
		e := mailer.BuildReceiptEmail(mailer.ReceiptData{
			SiteName:    h.SiteName,
			AdminName:   admin.FullName,
			PlanName:    plan.Name,
			Amount:      invoice.FormatAmount(p.AmountCents, p.Currency),
			InvoiceLink: h.BaseURL + "/api/v1/payments/" + p.ID.Hex() + "/invoice",
		})
		e.To = admin.Email
		h.Mail.SendAsync(e)
	}
	return nil
}
