package billing

import (
	"context"
	"errors"
	"io"
	"net/http"

	paymentstore "github.com/dalemusser/dintask/internal/app/store/payments"
	"github.com/dalemusser/dintask/internal/app/system/gateway"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleWebhook ingests gateway notifications. Unverifiable payloads get
// a 400 so the provider retries; events we don't act on are acknowledged
// with 200.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		respond.BadRequest(w, "Unreadable payload")
		return
	}

	ev, err := h.Gateway.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.Log.Warn("billing: webhook rejected", zap.Error(err))
		respond.BadRequest(w, "Invalid webhook signature")
		return
	}

	ctx, cancel := shortCtx(r)
	defer cancel()

	p, err := h.resolvePayment(ctx, ev)
	if errors.Is(err, paymentstore.ErrNotFound) {
		// Not one of ours (e.g. an intent created in the provider
		// dashboard). Acknowledge so the provider stops retrying.
		h.Log.Warn("billing: webhook for unknown payment",
			zap.String("intent", ev.IntentID), zap.String("type", ev.Type))
		respond.JSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}
	if err != nil {
		respond.Internal(w)
		return
	}

	switch ev.Type {
	case "payment_intent.succeeded":
		if err := h.settle(ctx, p); err != nil {
			h.Log.Error("billing: webhook settle", zap.Error(err),
				zap.String("payment", p.ID.Hex()))
			respond.Internal(w)
			return
		}
	case "payment_intent.payment_failed", "payment_intent.canceled":
		if err := h.Payments.MarkFailed(ctx, p.ID); err != nil {
			respond.Internal(w)
			return
		}
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"received": true})
}

// resolvePayment finds the payment an event refers to, preferring the
// payment id echoed back from intent metadata and falling back to the
// intent id.
func (h *Handler) resolvePayment(ctx context.Context, ev *gateway.WebhookEvent) (models.Payment, error) {
	if ev.PaymentID != "" {
		if id, err := primitive.ObjectIDFromHex(ev.PaymentID); err == nil {
			p, err := h.Payments.GetByID(ctx, id)
			if err == nil || !errors.Is(err, paymentstore.ErrNotFound) {
				return p, err
			}
		}
	}
	if ev.IntentID == "" {
		return models.Payment{}, paymentstore.ErrNotFound
	}
	return h.Payments.GetByOrderID(ctx, ev.IntentID)
}
