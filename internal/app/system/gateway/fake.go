// internal/app/system/gateway/fake.go
package gateway

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory PaymentGateway for tests and local development
// without provider keys. Intents succeed as soon as MarkSucceeded is
// called, and VerifyWebhook accepts any payload whose signature header
// is non-empty.
type Fake struct {
	mu      sync.Mutex
	seq     int
	intents map[string]*IntentResponse
	meta    map[string]string // intent id -> payment id
}

func NewFake() *Fake {
	return &Fake{
		intents: make(map[string]*IntentResponse),
		meta:    make(map[string]string),
	}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) CreatePaymentIntent(_ context.Context, req *IntentRequest) (*IntentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	resp := &IntentResponse{
		IntentID:     fmt.Sprintf("pi_fake_%d", f.seq),
		ClientSecret: fmt.Sprintf("pi_fake_%d_secret", f.seq),
		Status:       "requires_payment_method",
		AmountCents:  req.AmountCents,
		Currency:     req.Currency,
	}
	f.intents[resp.IntentID] = resp
	f.meta[resp.IntentID] = req.PaymentID
	return resp, nil
}

func (f *Fake) GetPaymentIntent(_ context.Context, intentID string) (*IntentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	resp, ok := f.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("fake gateway: unknown intent %s", intentID)
	}
	out := *resp
	return &out, nil
}

// MarkSucceeded flips an intent to succeeded. Test helper.
func (f *Fake) MarkSucceeded(intentID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if resp, ok := f.intents[intentID]; ok {
		resp.Status = StatusSucceeded
	}
}

func (f *Fake) VerifyWebhook(payload []byte, sigHeader string) (*WebhookEvent, error) {
	if sigHeader == "" {
		return nil, fmt.Errorf("fake gateway: missing signature header")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	// The fake treats the payload as an intent id.
	intentID := string(payload)
	resp, ok := f.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("fake gateway: unknown intent %s", intentID)
	}
	return &WebhookEvent{
		Type:      "payment_intent.succeeded",
		IntentID:  intentID,
		PaymentID: f.meta[intentID],
		Status:    resp.Status,
	}, nil
}
