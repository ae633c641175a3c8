// Package teamstore persists teams of workspace members.
package teamstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/normalize"
	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/app/system/search"
	"github.com/dalemusser/dintask/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("team not found")
	ErrDuplicateName = errors.New("team name already in use")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "manager", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "members", Value: 1}}},
	})
	return err
}

func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	t.ID = primitive.NewObjectID()
	t.Name = normalize.Name(t.Name)
	t.NameCI = text.Fold(t.Name)
	if t.Members == nil {
		t.Members = []primitive.ObjectID{}
	}

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateName
		}
		return models.Team{}, err
	}
	return t, nil
}

func (s *Store) Get(ctx context.Context, tenantID, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.Team{}, ErrNotFound
	}
	return t, err
}

func (s *Store) List(ctx context.Context, tenantID primitive.ObjectID, q string, p paging.Params) ([]models.Team, int64, error) {
	filter := bson.M{"tenant_id": tenantID}
	if q != "" {
		for k, v := range search.FoldPrefix("name_ci", q) {
			filter[k] = v
		}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}}).
		SetSkip(p.Skip()).
		SetLimit(p.Limit64()))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListForMember returns teams a member belongs to or manages.
func (s *Store) ListForMember(ctx context.Context, tenantID, userID primitive.ObjectID) ([]models.Team, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"tenant_id": tenantID,
		"$or":       []bson.M{{"members": userID}, {"manager": userID}},
	}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update holds the editable team fields.
type Update struct {
	Name        string
	Description string
	Manager     primitive.ObjectID
}

func (s *Store) Update(ctx context.Context, tenantID, id primitive.ObjectID, upd Update) error {
	name := normalize.Name(upd.Name)
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, bson.M{"$set": bson.M{
		"name":        name,
		"name_ci":     text.Fold(name),
		"description": upd.Description,
		"manager":     upd.Manager,
		"updated_at":  time.Now(),
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

// AddMember adds a user to the team, once.
func (s *Store) AddMember(ctx context.Context, tenantID, id, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMember pulls a user out of the team.
func (s *Store) RemoveMember(ctx context.Context, tenantID, id, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMemberEverywhere drops a user from every team in the tenant, used
// when the member is removed from the workspace.
func (s *Store) RemoveMemberEverywhere(ctx context.Context, tenantID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx, bson.M{"tenant_id": tenantID, "members": userID}, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	return err
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
