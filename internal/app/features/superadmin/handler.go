// Package superadmin implements /api/v1/admin, the platform console:
// workspace overview with seat usage and subscription state, and
// platform-wide statistics.
package superadmin

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	paymentstore "github.com/dalemusser/dintask/internal/app/store/payments"
	ticketstore "github.com/dalemusser/dintask/internal/app/store/tickets"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
)

// Handler is the feature-level entry point for the platform console.
type Handler struct {
	DB       *mongo.Database
	Users    *userstore.Store
	Payments *paymentstore.Store
	Tickets  *ticketstore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Users:    userstore.New(db),
		Payments: paymentstore.New(db),
		Tickets:  ticketstore.New(db),
		Log:      logger,
	}
}

func shortCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.Short())
}
