// Package subscription gates team-member requests on the owning admin's
// subscription. The check compares the stored expiry date against the clock
// directly, so access cuts off at the expiry moment even if the daily scan
// that flips subscription_status has not run yet.
package subscription

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/auth"
	"github.com/dalemusser/dintask/internal/app/system/authz"
	"github.com/dalemusser/dintask/internal/app/system/respond"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AdminLoader is satisfied by the users store.
type AdminLoader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// ExpiredMessage is the body clients key off to redirect to the renewal page.
const ExpiredMessage = "Your workspace subscription has expired"

// Gate rejects manager/sales/employee requests with 403 once the owning
// admin's subscription has lapsed. Admins and superadmins pass through:
// an admin with an expired subscription still needs to reach the billing
// routes to renew.
func Gate(users AdminLoader, log *zap.Logger, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _, _, ok := authz.UserCtx(r)
			if !ok || !models.IsMemberRole(role) {
				next.ServeHTTP(w, r)
				return
			}

			u, _ := auth.CurrentUser(r)
			tenantID, ok := authz.TenantID(r)
			if !ok {
				log.Warn("member without workspace id", zap.String("user", u.ID))
				respond.Forbidden(w, ExpiredMessage)
				return
			}

			admin, err := users.GetByID(r.Context(), tenantID)
			if err != nil {
				log.Warn("workspace admin lookup failed",
					zap.String("tenant", tenantID.Hex()), zap.Error(err))
				respond.Forbidden(w, ExpiredMessage)
				return
			}
			if admin.SubscriptionExpired(now()) {
				respond.Forbidden(w, ExpiredMessage)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
