// Package notificationstore persists per-user in-app notifications.
package notificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("notification not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "read", Value: 1}}},
	})
	return err
}

func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	n.Read = false
	n.ReadAt = nil
	n.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// CreateMany fans one notification out to several recipients.
func (s *Store) CreateMany(ctx context.Context, base models.Notification, recipients []primitive.ObjectID) error {
	if len(recipients) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]any, 0, len(recipients))
	for _, r := range recipients {
		n := base
		n.ID = primitive.NewObjectID()
		n.Recipient = r
		n.Read = false
		n.ReadAt = nil
		n.CreatedAt = now
		docs = append(docs, n)
	}
	_, err := s.c.InsertMany(ctx, docs)
	return err
}

func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, p paging.Params) ([]models.Notification, int64, error) {
	filter := bson.M{"recipient": userID}
	if unreadOnly {
		filter["read"] = false
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

	var out []models.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"recipient": userID, "read": false})
}

// MarkRead marks one notification read; only the recipient can do so.
func (s *Store) MarkRead(ctx context.Context, userID, id primitive.ObjectID) error {
	now := time.Now()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "recipient": userID},
		bson.M{"$set": bson.M{"read": true, "read_at": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for the user read.
func (s *Store) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	now := time.Now()
	res, err := s.c.UpdateMany(ctx, bson.M{"recipient": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": now}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "recipient": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
