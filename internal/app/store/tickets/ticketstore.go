// Package ticketstore persists support tickets and their response threads.
// Member tickets stay inside the tenant; admin tickets are escalated to the
// platform superadmins.
package ticketstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/normalize"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/search"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("ticket not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("support_tickets")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "raised_by", Value: 1}}},
		{Keys: bson.D{{Key: "escalated", Value: 1}, {Key: "status", Value: 1}}},
	})
	return err
}

func (s *Store) Create(ctx context.Context, t models.SupportTicket) (models.SupportTicket, error) {
	t.ID = primitive.NewObjectID()
	t.Subject = normalize.Name(t.Subject)
	t.SubjectCI = text.Fold(t.Subject)
	if t.Status == "" {
		t.Status = models.TicketOpen
	}
	// Admin-raised tickets go to the platform operators.
	t.Escalated = t.RaisedRole == models.RoleAdmin

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.SupportTicket{}, err
	}
	return t, nil
}

func (s *Store) Get(ctx context.Context, tenantID, id primitive.ObjectID) (models.SupportTicket, error) {
	var t models.SupportTicket
	err := s.c.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.SupportTicket{}, ErrNotFound
	}
	return t, err
}

// GetEscalated fetches an escalated ticket regardless of tenant, for
// superadmin handling.
func (s *Store) GetEscalated(ctx context.Context, id primitive.ObjectID) (models.SupportTicket, error) {
	var t models.SupportTicket
	err := s.c.FindOne(ctx, bson.M{"_id": id, "escalated": true}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.SupportTicket{}, ErrNotFound
	}
	return t, err
}

// Filter narrows List.
type Filter struct {
	Status   string
	RaisedBy *primitive.ObjectID
	Search   string
}

// List returns the tenant's non-escalated tickets. When RaisedBy is set
// the escalation filter is dropped: raisers see their own tickets even
// after escalation.
func (s *Store) List(ctx context.Context, tenantID primitive.ObjectID, f Filter, p paging.Params) ([]models.SupportTicket, int64, error) {
	filter := bson.M{"tenant_id": tenantID, "escalated": false}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.RaisedBy != nil {
		delete(filter, "escalated")
		filter["raised_by"] = *f.RaisedBy
	}
	if f.Search != "" {
		for k, v := range search.FoldPrefix("subject_ci", f.Search) {
			filter[k] = v
		}
	}
	return s.find(ctx, filter, p)
}

// ListEscalated returns admin-raised tickets across all tenants.
func (s *Store) ListEscalated(ctx context.Context, status string, p paging.Params) ([]models.SupportTicket, int64, error) {
	filter := bson.M{"escalated": true}
	if status != "" {
		filter["status"] = status
	}
	return s.find(ctx, filter, p)
}

func (s *Store) find(ctx context.Context, filter bson.M, p paging.Params) ([]models.SupportTicket, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(p.Limit64()))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.SupportTicket
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// AddResponse appends a reply to the ticket thread. Replying to an open
// ticket moves it to in_progress.
func (s *Store) AddResponse(ctx context.Context, id primitive.ObjectID, resp models.TicketResponse) (models.TicketResponse, error) {
	resp.ID = primitive.NewObjectID()
	resp.CreatedAt = time.Now()

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"responses": resp},
		"$set":  bson.M{"updated_at": resp.CreatedAt},
	})
	if err != nil {
		return models.TicketResponse{}, err
	}
	if res.MatchedCount == 0 {
		return models.TicketResponse{}, ErrNotFound
	}

	// First reply moves an open ticket along.
	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id, "status": models.TicketOpen},
		bson.M{"$set": bson.M{"status": models.TicketInProgress}})
	if err != nil {
		return models.TicketResponse{}, err
	}
	return resp, nil
}

// SetStatus moves a ticket to a new status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountOpenEscalated feeds the superadmin dashboard.
func (s *Store) CountOpenEscalated(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"escalated": true,
		"status":    bson.M{"$in": []string{models.TicketOpen, models.TicketInProgress}},
	})
}
