// internal/app/store/users/members.go
package userstore

import (
	"context"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/search"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetMember loads a member-role user scoped to the tenant. Cross-tenant
// ids return ErrNotFound, never another workspace's document.
func (s *Store) GetMember(ctx context.Context, tenantID, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{
		"_id":       id,
		"tenant_id": tenantID,
		"role":      bson.M{"$in": models.MemberRoles},
	}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// CountMembers counts the tenant's seat-occupying members: active ones
// plus pending join requests. Rejected and disabled members free their
// seat.
func (s *Store) CountMembers(ctx context.Context, tenantID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"tenant_id": tenantID,
		"role":      bson.M{"$in": models.MemberRoles},
		"status":    bson.M{"$in": []string{models.UserStatusActive, models.UserStatusPending}},
	})
}

// MemberFilter narrows ListMembers.
type MemberFilter struct {
	Role   string // one member role, or empty for all
	Status string // empty for all
	Search string // name prefix, or email prefix when it contains '@'
}

// ListMembers returns a page of the tenant's members plus the total count
// for the filter.
func (s *Store) ListMembers(ctx context.Context, tenantID primitive.ObjectID, f MemberFilter, p paging.Params) ([]models.User, int64, error) {
	filter := bson.M{
		"tenant_id": tenantID,
		"role":      bson.M{"$in": models.MemberRoles},
	}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		if search.IsEmailQuery(f.Search) {
			for k, v := range search.EmailPrefix(f.Search) {
				filter[k] = v
			}
		} else {
			for k, v := range search.FoldPrefix("full_name_ci", f.Search) {
				filter[k] = v
			}
		}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(p.Skip()).
		SetLimit(p.Limit64())

	cur, err := s.c.Find(ctx, filter, find)
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

// ListPendingMembers returns the tenant's join requests awaiting approval.
func (s *Store) ListPendingMembers(ctx context.Context, tenantID primitive.ObjectID) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"tenant_id": tenantID,
		"role":      bson.M{"$in": models.MemberRoles},
		"status":    models.UserStatusPending,
	}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
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

// SetMemberStatus transitions a member's status (approve, reject, disable),
// scoped to the tenant.
func (s *Store) SetMemberStatus(ctx context.Context, tenantID, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":       id,
		"tenant_id": tenantID,
		"role":      bson.M{"$in": models.MemberRoles},
	}, bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMember removes a member document, scoped to the tenant.
func (s *Store) DeleteMember(ctx context.Context, tenantID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"_id":       id,
		"tenant_id": tenantID,
		"role":      bson.M{"$in": models.MemberRoles},
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListMembersByRole returns all active members of one role in the tenant,
// used to populate assignee pickers.
func (s *Store) ListMembersByRole(ctx context.Context, tenantID primitive.ObjectID, role string) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"tenant_id": tenantID,
		"role":      role,
		"status":    models.UserStatusActive,
	}, options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
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
