package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call chi.URLParam. Calls chain: each
// adds to the route context already on the request.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AsUser injects u into the request context, bypassing token verification.
func AsUser(r *http.Request, u models.User) *http.Request {
	au := &auth.AuthUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  u.Role,
	}
	if ws, ok := u.WorkspaceID(); ok {
		au.TenantID = ws.Hex()
	}
	return auth.WithTestUser(r, au)
}

// SuperAdmin returns a superadmin user for request injection.
func SuperAdmin() models.User {
	return models.User{
		ID:       primitive.NewObjectID(),
		FullName: "Test Superadmin",
		Email:    "root@test.com",
		Role:     models.RoleSuperAdmin,
		Status:   models.UserStatusActive,
	}
}

// JSONRequest builds a request with a JSON-encoded body.
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// DecodeEnvelope decodes a response recorder's body into the standard
// envelope, with data unmarshalled into dst when non-nil.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, dst any) respond.Envelope {
	t.Helper()

	var env respond.Envelope
	raw := struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
		Meta    *respond.Meta   `json:"meta"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	env.Success = raw.Success
	env.Error = raw.Error
	env.Meta = raw.Meta

	if dst != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, dst); err != nil {
			t.Fatalf("decode envelope data: %v (data %q)", err, string(raw.Data))
		}
	}
	return env
}
