// internal/domain/models/content.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LandingSection is one block of marketing content on the public landing
// page (hero, feature grid, pricing blurb, ...). BodyHTML is sanitized
// before it is stored.
type LandingSection struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key      string             `bson:"key" json:"key"` // unique slug, e.g. "hero"
	Title    string             `bson:"title" json:"title"`
	BodyHTML string             `bson:"body_html" json:"body_html"`
	Order    int                `bson:"order" json:"order"`
	Visible  bool               `bson:"visible" json:"visible"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Testimonial is a customer quote shown on the landing page.
type Testimonial struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author  string             `bson:"author" json:"author"`
	Company string             `bson:"company,omitempty" json:"company,omitempty"`
	Quote   string             `bson:"quote" json:"quote"`
	Rating  int                `bson:"rating" json:"rating"` // 1..5
	Visible bool               `bson:"visible" json:"visible"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
