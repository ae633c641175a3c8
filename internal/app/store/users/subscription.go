// internal/app/store/users/subscription.go
package userstore

import (
	"context"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivateSubscription records a successful plan purchase on the admin
// document: plan reference, status, and the new expiry.
func (s *Store) ActivateSubscription(ctx context.Context, adminID primitive.ObjectID, plan models.Plan, expiry time.Time) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": adminID, "role": models.RoleAdmin},
		bson.M{"$set": bson.M{
			"plan_id":             plan.ID,
			"plan_name":           plan.Name,
			"subscription_status": models.SubscriptionActive,
			"subscription_expiry": expiry,
			"updated_at":          time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAdminsExpiringOn returns admins whose subscription expiry falls in
// [dayStart, dayEnd) and whose status is not already expired.
func (s *Store) ListAdminsExpiringOn(ctx context.Context, dayStart, dayEnd time.Time) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"role":                models.RoleAdmin,
		"subscription_expiry": bson.M{"$gte": dayStart, "$lt": dayEnd},
		"subscription_status": bson.M{"$ne": models.SubscriptionExpired},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSubscriptionExpired flips an admin's subscription status.
func (s *Store) MarkSubscriptionExpired(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "role": models.RoleAdmin},
		bson.M{"$set": bson.M{
			"subscription_status": models.SubscriptionExpired,
			"updated_at":          time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAdmins returns a page of workspace admins for the superadmin
// console, newest first.
func (s *Store) ListAdmins(ctx context.Context, p paging.Params) ([]models.User, int64, error) {
	filter := bson.M{"role": models.RoleAdmin}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(p.Limit64()))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CountByRole returns document counts per role for the superadmin stats
// endpoint.
func (s *Store) CountByRole(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, role := range []string{models.RoleAdmin, models.RoleManager, models.RoleSales, models.RoleEmployee} {
		n, err := s.c.CountDocuments(ctx, bson.M{"role": role})
		if err != nil {
			return nil, err
		}
		out[role] = n
	}
	return out, nil
}
