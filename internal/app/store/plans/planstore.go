// Package planstore persists the platform plan catalog. Plans are global,
// not tenant-scoped; only superadmins write them.
package planstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/normalize"
	"github.com/dalemusser/dintask/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("plan not found")
	ErrDuplicateName = errors.New("a plan with this name already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("plans")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "price_cents", Value: 1}}},
	})
	return err
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Plan, error) {
	var p models.Plan
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Plan{}, ErrNotFound
	}
	return p, err
}

// GetByName resolves a plan case-insensitively. Admin documents created
// before plan ids were stored carry only the name.
func (s *Store) GetByName(ctx context.Context, name string) (models.Plan, error) {
	var p models.Plan
	err := s.c.FindOne(ctx, bson.M{"name_ci": text.Fold(name)}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Plan{}, ErrNotFound
	}
	return p, err
}

// ListActive returns purchasable plans, cheapest first.
func (s *Store) ListActive(ctx context.Context) ([]models.Plan, error) {
	return s.list(ctx, bson.M{"active": true})
}

// ListAll returns every plan for the superadmin console.
func (s *Store) ListAll(ctx context.Context) ([]models.Plan, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Plan, error) {
	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "price_cents", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Plan
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, p models.Plan) (models.Plan, error) {
	p.ID = primitive.NewObjectID()
	p.Name = normalize.Name(p.Name)
	p.NameCI = text.Fold(p.Name)
	if p.Currency == "" {
		p.Currency = "usd"
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Plan{}, ErrDuplicateName
		}
		return models.Plan{}, err
	}
	return p, nil
}

// Update holds the editable plan fields.
type Update struct {
	Name         string
	Description  string
	PriceCents   int64
	Currency     string
	UserLimit    int
	DurationDays int
	Features     []string
	Active       bool
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	name := normalize.Name(upd.Name)
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":          name,
		"name_ci":       text.Fold(name),
		"description":   upd.Description,
		"price_cents":   upd.PriceCents,
		"currency":      upd.Currency,
		"user_limit":    upd.UserLimit,
		"duration_days": upd.DurationDays,
		"features":      upd.Features,
		"active":        upd.Active,
		"updated_at":    time.Now(),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a plan from the catalog. Existing subscriptions keep the
// denormalized plan name on the admin document.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
