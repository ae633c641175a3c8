// internal/domain/models/ticket.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// TicketResponse is one reply on a support ticket thread.
type TicketResponse struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID   primitive.ObjectID `bson:"author_id" json:"author_id"`
	AuthorRole string             `bson:"author_role" json:"author_role"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// SupportTicket is a help request. Tickets raised by workspace members stay
// within the tenant (handled by its admin); tickets raised by an admin are
// escalated to the platform superadmins, marked by Escalated=true.
type SupportTicket struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`

	Subject   string `bson:"subject" json:"subject"`
	SubjectCI string `bson:"subject_ci" json:"-"`
	Body      string `bson:"body" json:"body"`
	Category  string `bson:"category,omitempty" json:"category,omitempty"`
	Priority  string `bson:"priority,omitempty" json:"priority,omitempty"`
	Status    string `bson:"status" json:"status"`

	RaisedBy   primitive.ObjectID `bson:"raised_by" json:"raised_by"`
	RaisedRole string             `bson:"raised_role" json:"raised_role"`
	Escalated  bool               `bson:"escalated" json:"escalated"`

	Responses []TicketResponse `bson:"responses,omitempty" json:"responses,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SupportLead is a pre-sales inquiry captured from the public landing page.
// It is not tenant-scoped; superadmins triage these.
type SupportLead struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Company string             `bson:"company,omitempty" json:"company,omitempty"`
	Message string             `bson:"message" json:"message"`
	Handled bool               `bson:"handled" json:"handled"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
