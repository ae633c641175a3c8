// internal/app/system/gateway/stripe.go
package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeGateway implements PaymentGateway against the Stripe API.
type StripeGateway struct {
	webhookSecret string
}

// NewStripe configures the global Stripe client key and returns the
// gateway. Stripe-go keeps the key in package state, so one gateway per
// process.
func NewStripe(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*IntentResponse, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountCents),
		Currency: stripe.String(req.Currency),
	}
	params.Context = ctx
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata("payment_id", req.PaymentID)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create intent: %w", err)
	}
	return intentResponse(pi), nil
}

func (g *StripeGateway) GetPaymentIntent(ctx context.Context, intentID string) (*IntentResponse, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get intent %s: %w", intentID, err)
	}
	return intentResponse(pi), nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, sigHeader string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("stripe webhook verify: %w", err)
	}

	out := &WebhookEvent{Type: string(event.Type)}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err == nil {
		out.IntentID = pi.ID
		out.Status = string(pi.Status)
		out.PaymentID = pi.Metadata["payment_id"]
	}
	return out, nil
}

func intentResponse(pi *stripe.PaymentIntent) *IntentResponse {
	return &IntentResponse{
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
	}
}
