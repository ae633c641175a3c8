// Package contentstore persists landing page sections and testimonials,
// edited by superadmins and served publicly.
package contentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/normalize"
	"github.com/dalemusser/dintask/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound     = errors.New("content not found")
	ErrDuplicateKey = errors.New("section key already in use")
)

type Store struct {
	sections     *mongo.Collection
	testimonials *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		sections:     db.Collection("landing_sections"),
		testimonials: db.Collection("testimonials"),
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.sections.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.testimonials.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "visible", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// UpsertSection creates or replaces the section with the given key.
// BodyHTML is expected to be sanitized by the caller before it gets here.
func (s *Store) UpsertSection(ctx context.Context, sec models.LandingSection) (models.LandingSection, error) {
	sec.Key = strings.ToLower(strings.TrimSpace(sec.Key))
	sec.Title = normalize.Name(sec.Title)
	now := time.Now()
	sec.UpdatedAt = now

	res := s.sections.FindOneAndUpdate(ctx,
		bson.M{"key": sec.Key},
		bson.M{
			"$set": bson.M{
				"title":      sec.Title,
				"body_html":  sec.BodyHTML,
				"order":      sec.Order,
				"visible":    sec.Visible,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After))

	var out models.LandingSection
	if err := res.Decode(&out); err != nil {
		if wafflemongo.IsDup(err) {
			return models.LandingSection{}, ErrDuplicateKey
		}
		return models.LandingSection{}, err
	}
	return out, nil
}

func (s *Store) GetSection(ctx context.Context, key string) (models.LandingSection, error) {
	var sec models.LandingSection
	err := s.sections.FindOne(ctx, bson.M{"key": strings.ToLower(strings.TrimSpace(key))}).Decode(&sec)
	if err == mongo.ErrNoDocuments {
		return models.LandingSection{}, ErrNotFound
	}
	return sec, err
}

// ListSections returns sections in display order. When visibleOnly is set,
// hidden sections are skipped (the public landing page path).
func (s *Store) ListSections(ctx context.Context, visibleOnly bool) ([]models.LandingSection, error) {
	filter := bson.M{}
	if visibleOnly {
		filter["visible"] = true
	}
	cur, err := s.sections.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LandingSection
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteSection(ctx context.Context, key string) error {
	res, err := s.sections.DeleteOne(ctx, bson.M{"key": strings.ToLower(strings.TrimSpace(key))})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateTestimonial(ctx context.Context, t models.Testimonial) (models.Testimonial, error) {
	t.ID = primitive.NewObjectID()
	t.Author = normalize.Name(t.Author)
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.testimonials.InsertOne(ctx, t); err != nil {
		return models.Testimonial{}, err
	}
	return t, nil
}

func (s *Store) ListTestimonials(ctx context.Context, visibleOnly bool) ([]models.Testimonial, error) {
	filter := bson.M{}
	if visibleOnly {
		filter["visible"] = true
	}
	cur, err := s.testimonials.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Testimonial
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTestimonial replaces the editable fields.
func (s *Store) UpdateTestimonial(ctx context.Context, id primitive.ObjectID, t models.Testimonial) error {
	res, err := s.testimonials.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"author":     normalize.Name(t.Author),
		"company":    t.Company,
		"quote":      t.Quote,
		"rating":     t.Rating,
		"visible":    t.Visible,
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

func (s *Store) DeleteTestimonial(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.testimonials.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
