// internal/domain/models/plan.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a subscription tier in the platform catalog. UserLimit bounds how
// many members (managers + sales + employees) a workspace may hold.
type Plan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	PriceCents   int64              `bson:"price_cents" json:"price_cents"`
	Currency     string             `bson:"currency" json:"currency"`
	UserLimit    int                `bson:"user_limit" json:"user_limit"`
	DurationDays int                `bson:"duration_days" json:"duration_days"`
	Features     []string           `bson:"features,omitempty" json:"features,omitempty"`
	Active       bool               `bson:"active" json:"active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
