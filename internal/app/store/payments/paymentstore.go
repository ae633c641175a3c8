// Package paymentstore persists checkout attempts and their gateway state.
package paymentstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("payment not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("payments")}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	return err
}

// Create inserts a pending payment and assigns its receipt number.
func (s *Store) Create(ctx context.Context, p models.Payment) (models.Payment, error) {
	p.ID = primitive.NewObjectID()
	p.Status = models.PaymentPending
	p.Receipt = fmt.Sprintf("INV-%s", p.ID.Hex()[:12])

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Payment{}, err
	}
	return p, nil
}

// SetGatewayOrder records the gateway intent opened for a pending
// payment. The payment document is created first so its id can ride in
// the intent metadata.
func (s *Store) SetGatewayOrder(ctx context.Context, id primitive.ObjectID, orderID, clientSecret string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PaymentPending},
		bson.M{"$set": bson.M{
			"order_id":      orderID,
			"client_secret": clientSecret,
			"updated_at":    time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetForTenant loads one payment, scoped to the tenant.
func (s *Store) GetForTenant(ctx context.Context, tenantID, id primitive.ObjectID) (models.Payment, error) {
	var p models.Payment
	err := s.c.FindOne(ctx, bson.M{"_id": id, "tenant_id": tenantID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Payment{}, ErrNotFound
	}
	return p, err
}

// GetByID loads a payment without tenant scoping, for the webhook path.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Payment, error) {
	var p models.Payment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Payment{}, ErrNotFound
	}
	return p, err
}

// GetByOrderID loads a payment by its gateway intent id. Used by the
// webhook, which has no tenant context of its own.
func (s *Store) GetByOrderID(ctx context.Context, orderID string) (models.Payment, error) {
	var p models.Payment
	err := s.c.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Payment{}, ErrNotFound
	}
	return p, err
}

// MarkPaid moves a pending payment to paid. Idempotent: a payment already
// paid is left untouched and reported via the bool so webhook retries do
// not double-extend subscriptions.
func (s *Store) MarkPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PaymentPending},
		bson.M{"$set": bson.M{
			"status":     models.PaymentPaid,
			"paid_at":    at,
			"updated_at": time.Now(),
		}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// MarkFailed moves a pending payment to failed.
func (s *Store) MarkFailed(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.PaymentPending},
		bson.M{"$set": bson.M{"status": models.PaymentFailed, "updated_at": time.Now()}})
	return err
}

// ListForTenant returns the tenant's payment history, newest first.
func (s *Store) ListForTenant(ctx context.Context, tenantID primitive.ObjectID, p paging.Params) ([]models.Payment, int64, error) {
	filter := bson.M{"tenant_id": tenantID}

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

	var out []models.Payment
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// TotalPaidCents sums paid payments across all tenants, for the
// superadmin stats endpoint.
func (s *Store) TotalPaidCents(ctx context.Context) (int64, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.PaymentPaid}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount_cents"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
