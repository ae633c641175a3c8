// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
	ProjectCancelled = "cancelled"
)

// Project is created from an approved Won lead. The client field keeps the
// originating lead so the sales context stays reachable from the project.
type Project struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`

	Name        string `bson:"name" json:"name"`
	NameCI      string `bson:"name_ci" json:"-"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Status      string `bson:"status" json:"status"`

	Client   primitive.ObjectID `bson:"client" json:"client"` // originating lead
	Manager  primitive.ObjectID `bson:"manager" json:"manager"`
	SalesRep primitive.ObjectID `bson:"sales_rep" json:"sales_rep"`

	BudgetCents int64      `bson:"budget_cents" json:"budget_cents"`
	Deadline    *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
