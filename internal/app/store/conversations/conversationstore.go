// Package conversationstore persists chats and their messages.
package conversationstore

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
	ErrNotFound       = errors.New("conversation not found")
	ErrNotParticipant = errors.New("user is not a conversation participant")
)

type Store struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.conversations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "participants.user_id", Value: 1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "last_message_at", Value: -1}}},
	})
	if err != nil {
		return err
	}
	_, err = s.messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

// Create starts a conversation. For one-to-one chats an existing
// conversation between the same two users is reused instead of creating a
// duplicate thread.
func (s *Store) Create(ctx context.Context, c models.Conversation) (models.Conversation, error) {
	if !c.IsGroup && len(c.Participants) == 2 {
		existing, err := s.findDirect(ctx, c.TenantID, c.Participants[0].UserID, c.Participants[1].UserID)
		if err == nil {
			return existing, nil
		}
		if err != ErrNotFound {
			return models.Conversation{}, err
		}
	}

	c.ID = primitive.NewObjectID()
	c.Name = normalize.Name(c.Name)
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.conversations.InsertOne(ctx, c); err != nil {
		return models.Conversation{}, err
	}
	return c, nil
}

func (s *Store) findDirect(ctx context.Context, tenantID, a, b primitive.ObjectID) (models.Conversation, error) {
	var c models.Conversation
	err := s.conversations.FindOne(ctx, bson.M{
		"tenant_id":            tenantID,
		"is_group":             false,
		"participants.user_id": bson.M{"$all": []primitive.ObjectID{a, b}},
		"participants":         bson.M{"$size": 2},
	}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Conversation{}, ErrNotFound
	}
	return c, err
}

func (s *Store) Get(ctx context.Context, tenantID, id primitive.ObjectID) (models.Conversation, error) {
	var c models.Conversation
	err := s.conversations.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Conversation{}, ErrNotFound
	}
	return c, err
}

// ListForUser returns the user's conversations, most recently active first.
func (s *Store) ListForUser(ctx context.Context, tenantID, userID primitive.ObjectID, p paging.Params) ([]models.Conversation, int64, error) {
	filter := bson.M{"tenant_id": tenantID, "participants.user_id": userID}

	total, err := s.conversations.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.conversations.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "last_message_at", Value: -1}, {Key: "updated_at", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(p.Limit64()))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// AddMessage appends a message after verifying the sender takes part in the
// conversation, and refreshes the conversation preview fields.
func (s *Store) AddMessage(ctx context.Context, m models.Message) (models.Message, error) {
	conv, err := s.Get(ctx, m.TenantID, m.ConversationID)
	if err != nil {
		return models.Message{}, err
	}
	if !conv.HasParticipant(m.Sender) {
		return models.Message{}, ErrNotParticipant
	}

	m.ID = primitive.NewObjectID()
	m.ReadBy = []primitive.ObjectID{m.Sender}
	m.CreatedAt = time.Now()

	if _, err := s.messages.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}

	_, err = s.conversations.UpdateOne(ctx, bson.M{"_id": m.ConversationID}, bson.M{"$set": bson.M{
		"last_message":    m.Body,
		"last_message_at": m.CreatedAt,
		"updated_at":      m.CreatedAt,
	}})
	return m, err
}

// Messages returns a page of messages, newest first.
func (s *Store) Messages(ctx context.Context, tenantID, conversationID primitive.ObjectID, p paging.Params) ([]models.Message, int64, error) {
	filter := bson.M{"tenant_id": tenantID, "conversation_id": conversationID}

	total, err := s.messages.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := s.messages.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(p.Limit64()))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// MarkMessagesRead records that the user has seen every message in the
// conversation up to now.
func (s *Store) MarkMessagesRead(ctx context.Context, tenantID, conversationID, userID primitive.ObjectID) (int64, error) {
	res, err := s.messages.UpdateMany(ctx, bson.M{
		"tenant_id":       tenantID,
		"conversation_id": conversationID,
		"read_by":         bson.M{"$ne": userID},
	}, bson.M{"$addToSet": bson.M{"read_by": userID}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountUnread returns how many messages in the conversation the user has
// not read yet.
func (s *Store) CountUnread(ctx context.Context, tenantID, conversationID, userID primitive.ObjectID) (int64, error) {
	return s.messages.CountDocuments(ctx, bson.M{
		"tenant_id":       tenantID,
		"conversation_id": conversationID,
		"sender":          bson.M{"$ne": userID},
		"read_by":         bson.M{"$ne": userID},
	})
}
