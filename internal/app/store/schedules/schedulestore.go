// Package schedulestore persists member calendar entries. A member's
// entries never overlap; Create and Update check the half-open interval
// [start, end) against existing entries before writing.
package schedulestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/normalize"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("schedule entry not found")
	ErrOverlap  = errors.New("schedule entry overlaps an existing one")
	ErrBadRange = errors.New("schedule end must be after start")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("schedules")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "member_id", Value: 1}, {Key: "start_at", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "start_at", Value: 1}}},
	})
	return err
}

// hasOverlap reports whether any entry for the member collides with
// [start, end), ignoring excludeID (the entry being updated).
func (s *Store) hasOverlap(ctx context.Context, tenantID, memberID primitive.ObjectID, start, end time.Time, excludeID *primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"tenant_id": tenantID,
		"member_id": memberID,
		"start_at":  bson.M{"$lt": end},
		"end_at":    bson.M{"$gt": start},
	}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	n, err := s.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *Store) Create(ctx context.Context, e models.Schedule) (models.Schedule, error) {
	if !e.EndAt.After(e.StartAt) {
		return models.Schedule{}, ErrBadRange
	}
	clash, err := s.hasOverlap(ctx, e.TenantID, e.MemberID, e.StartAt, e.EndAt, nil)
	if err != nil {
		return models.Schedule{}, err
	}
	if clash {
		return models.Schedule{}, ErrOverlap
	}

	e.ID = primitive.NewObjectID()
	e.Title = normalize.Name(e.Title)
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Schedule{}, err
	}
	return e, nil
}

func (s *Store) Get(ctx context.Context, tenantID, id primitive.ObjectID) (models.Schedule, error) {
	var e models.Schedule
	err := s.c.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return models.Schedule{}, ErrNotFound
	}
	return e, err
}

// Filter narrows List.
type Filter struct {
	Member *primitive.ObjectID
	From   *time.Time
	To     *time.Time
}

func (s *Store) List(ctx context.Context, tenantID primitive.ObjectID, f Filter, p paging.Params) ([]models.Schedule, int64, error) {
	filter := bson.M{"tenant_id": tenantID}
	if f.Member != nil {
		filter["member_id"] = *f.Member
	}
	rng := bson.M{}
	if f.From != nil {
		rng["$gte"] = *f.From
	}
	if f.To != nil {
		rng["$lt"] = *f.To
	}
	if len(rng) > 0 {
		filter["start_at"] = rng
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "start_at", Value: 1}}).
		SetSkip(p.Skip()).
		SetLimit(p.Limit64()))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Schedule
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update holds the editable entry fields.
type Update struct {
	Title    string
	Location string
	Notes    string
	StartAt  time.Time
	EndAt    time.Time
}

func (s *Store) Update(ctx context.Context, tenantID, id primitive.ObjectID, upd Update) error {
	if !upd.EndAt.After(upd.StartAt) {
		return ErrBadRange
	}
	cur, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	clash, err := s.hasOverlap(ctx, tenantID, cur.MemberID, upd.StartAt, upd.EndAt, &id)
	if err != nil {
		return err
	}
	if clash {
		return ErrOverlap
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, bson.M{"$set": bson.M{
		"title":      normalize.Name(upd.Title),
		"location":   upd.Location,
		"notes":      upd.Notes,
		"start_at":   upd.StartAt,
		"end_at":     upd.EndAt,
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
