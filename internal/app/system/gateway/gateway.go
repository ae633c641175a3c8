// Package gateway abstracts the payment provider behind a small interface
// so handlers and tests never touch provider SDK types directly.
package gateway

import (
	"context"
)

// PaymentGateway defines the interface for payment processing.
type PaymentGateway interface {
	// CreatePaymentIntent opens a payment for client-side completion and
	// returns the provider id and client secret.
	CreatePaymentIntent(ctx context.Context, req *IntentRequest) (*IntentResponse, error)

	// GetPaymentIntent retrieves the current state of a payment intent.
	GetPaymentIntent(ctx context.Context, intentID string) (*IntentResponse, error)

	// VerifyWebhook authenticates a webhook payload against its signature
	// header and returns the decoded event.
	VerifyWebhook(payload []byte, sigHeader string) (*WebhookEvent, error)

	// Name returns the gateway name.
	Name() string
}

// IntentRequest represents a request to create a payment intent.
type IntentRequest struct {
	PaymentID     string // our payment document id, carried in metadata
	AmountCents   int64
	Currency      string
	Description   string
	CustomerEmail string
	Metadata      map[string]string
}

// IntentResponse represents a payment intent's state.
type IntentResponse struct {
	IntentID     string
	ClientSecret string
	Status       string // provider status, e.g. "succeeded"
	AmountCents  int64
	Currency     string
}

// WebhookEvent is a verified, decoded webhook notification.
type WebhookEvent struct {
	Type      string // e.g. "payment_intent.succeeded"
	IntentID  string
	PaymentID string // echoed back from intent metadata
	Status    string
}

// StatusSucceeded is the provider status for a completed intent.
const StatusSucceeded = "succeeded"
