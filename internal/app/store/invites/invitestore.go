// Package invitestore persists workspace invitations.
package invitestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/normalize"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("invite not found")
	ErrNotUsable = errors.New("invite expired or already used")
	ErrDuplicate = errors.New("a pending invite for this email already exists")
)

// TTL is how long an invite link stays valid.
const TTL = 7 * 24 * time.Hour

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invites")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "email", Value: 1}, {Key: "status", Value: 1}}},
	})
	return err
}

// Create issues a new invite token. One pending invite per email per
// workspace; a second create for the same address is rejected.
func (s *Store) Create(ctx context.Context, tenantID primitive.ObjectID, email, role string, invitedBy primitive.ObjectID) (models.Invite, error) {
	email = normalize.Email(email)
	role = normalize.Role(role)

	n, err := s.c.CountDocuments(ctx, bson.M{
		"tenant_id":  tenantID,
		"email":      email,
		"status":     models.InvitePending,
		"expires_at": bson.M{"$gt": time.Now()},
	}, options.Count().SetLimit(1))
	if err != nil {
		return models.Invite{}, err
	}
	if n > 0 {
		return models.Invite{}, ErrDuplicate
	}

	now := time.Now()
	inv := models.Invite{
		ID:        primitive.NewObjectID(),
		TenantID:  tenantID,
		Email:     email,
		Role:      role,
		Token:     uuid.NewString(),
		Status:    models.InvitePending,
		InvitedBy: invitedBy,
		ExpiresAt: now.Add(TTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return models.Invite{}, err
	}
	return inv, nil
}

// GetByToken looks an invite up by its link token.
func (s *Store) GetByToken(ctx context.Context, token string) (models.Invite, error) {
	var inv models.Invite
	err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&inv)
	if err == mongo.ErrNoDocuments {
		return models.Invite{}, ErrNotFound
	}
	return inv, err
}

// Accept atomically consumes a usable invite. The filter repeats the
// usability checks so two concurrent accepts cannot both win.
func (s *Store) Accept(ctx context.Context, token string, now time.Time) (models.Invite, error) {
	res := s.c.FindOneAndUpdate(ctx, bson.M{
		"token":      token,
		"status":     models.InvitePending,
		"expires_at": bson.M{"$gt": now},
	}, bson.M{"$set": bson.M{
		"status":     models.InviteAccepted,
		"updated_at": now,
	}}, options.FindOneAndUpdate().SetReturnDocument(options.After))

	var inv models.Invite
	if err := res.Decode(&inv); err != nil {
		if err == mongo.ErrNoDocuments {
			if _, getErr := s.GetByToken(ctx, token); getErr != nil {
				return models.Invite{}, getErr
			}
			return models.Invite{}, ErrNotUsable
		}
		return models.Invite{}, err
	}
	return inv, nil
}

// Revoke cancels a pending invite.
func (s *Store) Revoke(ctx context.Context, tenantID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":       id,
		"tenant_id": tenantID,
		"status":    models.InvitePending,
	}, bson.M{"$set": bson.M{
		"status":     models.InviteRevoked,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPending returns the workspace's open invites.
func (s *Store) ListPending(ctx context.Context, tenantID primitive.ObjectID) ([]models.Invite, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"tenant_id": tenantID,
		"status":    models.InvitePending,
	}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Invite
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
