// Package leadstore persists the sales pipeline. Every query carries the
// tenant id so a workspace can never see another workspace's leads.
package leadstore

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

var (
	ErrNotFound = errors.New("lead not found")
	// ErrNotApprovable is returned when a lead fails the preconditions for
	// project approval: status Won, a positive amount, and a deadline.
	ErrNotApprovable = errors.New("lead must be Won with amount and deadline set")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("leads")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "sales_rep", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "approval_status", Value: 1}}},
	})
	return err
}

func (s *Store) Create(ctx context.Context, l models.Lead) (models.Lead, error) {
	l.ID = primitive.NewObjectID()
	l.Name = normalize.Name(l.Name)
	l.NameCI = text.Fold(l.Name)
	l.Email = normalize.Email(l.Email)
	if l.Status == "" {
		l.Status = models.LeadNew
	}
	if l.ApprovalStatus == "" {
		l.ApprovalStatus = models.ApprovalNone
	}

	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.Lead{}, err
	}
	return l, nil
}

func (s *Store) Get(ctx context.Context, tenantID, id primitive.ObjectID) (models.Lead, error) {
	var l models.Lead
	err := s.c.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&l)
	if err == mongo.ErrNoDocuments {
		return models.Lead{}, ErrNotFound
	}
	return l, err
}

// Filter narrows List.
type Filter struct {
	Status   string
	SalesRep *primitive.ObjectID // restrict to one rep's leads
	Search   string
}

func (s *Store) List(ctx context.Context, tenantID primitive.ObjectID, f Filter, p paging.Params) ([]models.Lead, int64, error) {
	filter := bson.M{"tenant_id": tenantID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.SalesRep != nil {
		filter["sales_rep"] = *f.SalesRep
	}
	if f.Search != "" {
		for k, v := range search.FoldPrefix("name_ci", f.Search) {
			filter[k] = v
		}
	}

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

	var out []models.Lead
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update holds the editable lead fields.
type Update struct {
	Name        string
	Email       string
	Phone       string
	Company     string
	Source      string
	Notes       string
	AmountCents int64
	Deadline    *time.Time
}

func (s *Store) Update(ctx context.Context, tenantID, id primitive.ObjectID, upd Update) error {
	name := normalize.Name(upd.Name)
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, bson.M{"$set": bson.M{
		"name":         name,
		"name_ci":      text.Fold(name),
		"email":        normalize.Email(upd.Email),
		"phone":        upd.Phone,
		"company":      upd.Company,
		"source":       upd.Source,
		"notes":        upd.Notes,
		"amount_cents": upd.AmountCents,
		"deadline":     upd.Deadline,
		"updated_at":   time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus moves a lead along the pipeline.
func (s *Store) SetStatus(ctx context.Context, tenantID, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RequestApproval atomically flips a lead to pending_project, but only
// when it satisfies every precondition: Won, positive amount, deadline
// set, and not already pending or approved. A matched-nothing update is
// reported as ErrNotApprovable (or ErrNotFound when the lead does not
// exist in this tenant at all) with no state mutated.
func (s *Store) RequestApproval(ctx context.Context, tenantID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":             id,
		"tenant_id":       tenantID,
		"status":          models.LeadWon,
		"amount_cents":    bson.M{"$gt": 0},
		"deadline":        bson.M{"$ne": nil},
		"approval_status": models.ApprovalNone,
	}, bson.M{"$set": bson.M{
		"approval_status": models.ApprovalPending,
		"updated_at":      time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, getErr := s.Get(ctx, tenantID, id); getErr != nil {
			return getErr
		}
		return ErrNotApprovable
	}
	return nil
}

// Approve marks a pending lead approved and records the created project.
func (s *Store) Approve(ctx context.Context, tenantID, id, projectID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":             id,
		"tenant_id":       tenantID,
		"approval_status": models.ApprovalPending,
	}, bson.M{"$set": bson.M{
		"approval_status": models.ApprovalApproved,
		"project_ref":     projectID,
		"updated_at":      time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RejectApproval returns a pending lead to the unapproved state.
func (s *Store) RejectApproval(ctx context.Context, tenantID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":             id,
		"tenant_id":       tenantID,
		"approval_status": models.ApprovalPending,
	}, bson.M{"$set": bson.M{
		"approval_status": models.ApprovalNone,
		"updated_at":      time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPendingApproval returns leads awaiting project approval.
func (s *Store) ListPendingApproval(ctx context.Context, tenantID primitive.ObjectID) ([]models.Lead, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"tenant_id":       tenantID,
		"approval_status": models.ApprovalPending,
	}, options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Lead
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFollowUp appends a follow-up entry to the lead.
func (s *Store) AddFollowUp(ctx context.Context, tenantID, id primitive.ObjectID, fu models.FollowUp) (models.FollowUp, error) {
	fu.ID = primitive.NewObjectID()
	fu.AddedAt = time.Now()

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, bson.M{
		"$push": bson.M{"follow_ups": fu},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return models.FollowUp{}, err
	}
	if res.MatchedCount == 0 {
		return models.FollowUp{}, ErrNotFound
	}
	return fu, nil
}

// CompleteFollowUp marks one follow-up entry done.
func (s *Store) CompleteFollowUp(ctx context.Context, tenantID, id, followUpID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":            id,
		"tenant_id":      tenantID,
		"follow_ups._id": followUpID,
	}, bson.M{"$set": bson.M{
		"follow_ups.$.done": true,
		"updated_at":        time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a lead.
func (s *Store) Delete(ctx context.Context, tenantID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "tenant_id": tenantID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns lead counts per pipeline status for dashboards.
func (s *Store) CountByStatus(ctx context.Context, tenantID primitive.ObjectID) (map[string]int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tenant_id": tenantID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		N      int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}
