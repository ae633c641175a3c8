// Package limits enforces the per-plan seat limit on workspace members.
// The check counts the tenant's active members and pending join requests;
// rejected and disabled members do not hold a seat.
package limits

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/dintask/internal/app/system/txn"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrSeatLimit is returned by GrantSeat when the workspace has no free
// seat left at grant time.
var ErrSeatLimit = errors.New("workspace has reached its plan's user limit")

// AdminLoader is satisfied by the users store.
type AdminLoader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// PlanResolver is satisfied by the plans store.
type PlanResolver interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Plan, error)
	GetByName(ctx context.Context, name string) (models.Plan, error)
}

// MemberCounter is satisfied by the users store.
type MemberCounter interface {
	CountMembers(ctx context.Context, tenantID primitive.ObjectID) (int64, error)
}

// Decision is the outcome of a seat-limit check.
type Decision struct {
	Allowed bool
	Current int64
	Limit   int
	Plan    string
}

// Checker resolves an admin's plan and counts their members.
type Checker struct {
	Plans PlanResolver
	Users MemberCounter
}

// CheckUserLimit reports whether the admin's workspace has a free seat.
// Adding a member is allowed strictly below the plan's user limit: at
// limit-1 members one more fits, at limit it is rejected. The plan is
// resolved by the admin's plan id, falling back to plan name for accounts
// created before plan ids were stored on the user document.
func (c Checker) CheckUserLimit(ctx context.Context, admin models.User) (Decision, error) {
	plan, err := c.resolvePlan(ctx, admin)
	if err != nil {
		return Decision{}, fmt.Errorf("resolve plan for admin %s: %w", admin.ID.Hex(), err)
	}

	current, err := c.Users.CountMembers(ctx, admin.ID)
	if err != nil {
		return Decision{}, fmt.Errorf("count members for admin %s: %w", admin.ID.Hex(), err)
	}

	return Decision{
		Allowed: current < int64(plan.UserLimit),
		Current: current,
		Limit:   plan.UserLimit,
		Plan:    plan.Name,
	}, nil
}

// GrantSeat runs the seat-limit check and the seat-taking write fn inside
// one Mongo transaction where the deployment supports them, so two
// concurrent grants cannot both pass the check and overshoot the plan.
// On standalone servers txn degrades to check-then-write.
//
// needed is the number of seats fn adds: one for a direct add, invite
// accept, or re-activation; zero for approving a pending join request,
// whose seat is already counted. Returns ErrSeatLimit when the grant
// would leave the workspace over its limit; fn's error otherwise.
func (c Checker) GrantSeat(ctx context.Context, client *mongo.Client, log *zap.Logger, admins AdminLoader, tenantID primitive.ObjectID, needed int, fn func(ctx context.Context) error) error {
	return txn.WithTransaction(ctx, client, log, func(tc context.Context) error {
		admin, err := admins.GetByID(tc, tenantID)
		if err != nil {
			return fmt.Errorf("load admin %s: %w", tenantID.Hex(), err)
		}
		dec, err := c.CheckUserLimit(tc, admin)
		if err != nil {
			return err
		}
		if dec.Current+int64(needed) > int64(dec.Limit) {
			return ErrSeatLimit
		}
		return fn(tc)
	})
}

func (c Checker) resolvePlan(ctx context.Context, admin models.User) (models.Plan, error) {
	if admin.PlanID != nil {
		plan, err := c.Plans.GetByID(ctx, *admin.PlanID)
		if err == nil {
			return plan, nil
		}
	}
	if admin.PlanName != "" {
		return c.Plans.GetByName(ctx, admin.PlanName)
	}
	return models.Plan{}, fmt.Errorf("admin has no plan")
}
