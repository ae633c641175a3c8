// Package supportleadstore persists pre-sales inquiries from the public
// landing page. These are platform-level, not tenant-scoped.
package supportleadstore

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

var ErrNotFound = errors.New("support lead not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("support_leads")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "handled", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (s *Store) Create(ctx context.Context, l models.SupportLead) (models.SupportLead, error) {
	l.ID = primitive.NewObjectID()
	l.Name = normalize.Name(l.Name)
	l.Email = normalize.Email(l.Email)
	l.Handled = false
	l.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.SupportLead{}, err
	}
	return l, nil
}

func (s *Store) List(ctx context.Context, unhandledOnly bool, p paging.Params) ([]models.SupportLead, int64, error) {
	filter := bson.M{}
	if unhandledOnly {
		filter["handled"] = false
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

	var out []models.SupportLead
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) MarkHandled(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"handled": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

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
