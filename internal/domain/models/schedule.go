// internal/domain/models/schedule.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Schedule is a calendar entry for one workspace member. Entries for the
// same member must not overlap in time; the store rejects overlapping
// create/update calls.
type Schedule struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`

	Title    string             `bson:"title" json:"title"`
	Location string             `bson:"location,omitempty" json:"location,omitempty"`
	Notes    string             `bson:"notes,omitempty" json:"notes,omitempty"`
	MemberID primitive.ObjectID `bson:"member_id" json:"member_id"`

	StartAt time.Time `bson:"start_at" json:"start_at"`
	EndAt   time.Time `bson:"end_at" json:"end_at"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Overlaps reports whether two half-open intervals [StartAt, EndAt) collide.
func (s Schedule) Overlaps(start, end time.Time) bool {
	return s.StartAt.Before(end) && start.Before(s.EndAt)
}
