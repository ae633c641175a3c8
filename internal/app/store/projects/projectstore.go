// Package projectstore persists projects created from approved leads.
package projectstore

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

var ErrNotFound = errors.New("project not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "manager", Value: 1}}},
	})
	return err
}

func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	p.Name = normalize.Name(p.Name)
	p.NameCI = text.Fold(p.Name)
	if p.Status == "" {
		p.Status = models.ProjectActive
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *Store) Get(ctx context.Context, tenantID, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Project{}, ErrNotFound
	}
	return p, err
}

// Filter narrows List.
type Filter struct {
	Status   string
	Manager  *primitive.ObjectID
	SalesRep *primitive.ObjectID
	// IDs, when non-nil, restricts the result to these projects. Used for
	// employees, whose visible set comes from their task assignments.
	IDs    []primitive.ObjectID
	Search string
}

func (s *Store) List(ctx context.Context, tenantID primitive.ObjectID, f Filter, p paging.Params) ([]models.Project, int64, error) {
	filter := bson.M{"tenant_id": tenantID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Manager != nil {
		filter["manager"] = *f.Manager
	}
	if f.SalesRep != nil {
		filter["sales_rep"] = *f.SalesRep
	}
	if f.IDs != nil {
		filter["_id"] = bson.M{"$in": f.IDs}
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

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update holds the editable project fields.
type Update struct {
	Name        string
	Description string
	Status      string
	Manager     primitive.ObjectID
	BudgetCents int64
	Deadline    *time.Time
}

func (s *Store) Update(ctx context.Context, tenantID, id primitive.ObjectID, upd Update) error {
	name := normalize.Name(upd.Name)
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, bson.M{"$set": bson.M{
		"name":         name,
		"name_ci":      text.Fold(name),
		"description":  upd.Description,
		"status":       upd.Status,
		"manager":      upd.Manager,
		"budget_cents": upd.BudgetCents,
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

// SetStatus updates only the project status.
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

// Delete removes a project document. Task cascade is the caller's job
// (see the projects feature), kept out of the store so the delete and the
// cascade can share one transaction.
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

// CountByStatus returns project counts per status for dashboards.
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
