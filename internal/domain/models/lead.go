// internal/domain/models/lead.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead pipeline statuses, in rough funnel order.
const (
	LeadNew         = "New"
	LeadContacted   = "Contacted"
	LeadQualified   = "Qualified"
	LeadProposal    = "Proposal"
	LeadNegotiation = "Negotiation"
	LeadWon         = "Won"
	LeadLost        = "Lost"
)

// Approval states for converting a Won lead into a project.
const (
	ApprovalNone     = "none"
	ApprovalPending  = "pending_project"
	ApprovalApproved = "approved_project"
)

// ValidLeadStatus reports whether s is one of the pipeline statuses.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadProposal, LeadNegotiation, LeadWon, LeadLost:
		return true
	}
	return false
}

// FollowUp is one scheduled or completed follow-up touch on a lead.
type FollowUp struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Note    string             `bson:"note" json:"note"`
	DueAt   time.Time          `bson:"due_at" json:"due_at"`
	Done    bool               `bson:"done" json:"done"`
	AddedBy primitive.ObjectID `bson:"added_by" json:"added_by"`
	AddedAt time.Time          `bson:"added_at" json:"added_at"`
}

// Lead is one sales-pipeline record, owned by a sales rep inside a workspace.
type Lead struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID primitive.ObjectID `bson:"tenant_id" json:"tenant_id"`

	Name    string `bson:"name" json:"name"`
	NameCI  string `bson:"name_ci" json:"-"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Company string `bson:"company,omitempty" json:"company,omitempty"`
	Source  string `bson:"source,omitempty" json:"source,omitempty"`
	Notes   string `bson:"notes,omitempty" json:"notes,omitempty"`

	Status         string `bson:"status" json:"status"`
	ApprovalStatus string `bson:"approval_status" json:"approval_status"`

	// Deal terms; required before the lead can be put up for project approval.
	AmountCents int64      `bson:"amount_cents" json:"amount_cents"`
	Deadline    *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`

	// Owning sales rep.
	SalesRep primitive.ObjectID `bson:"sales_rep" json:"sales_rep"`

	// Back-reference to the project created from this lead, set when the
	// approval completes.
	ProjectRef *primitive.ObjectID `bson:"project_ref,omitempty" json:"project_ref,omitempty"`

	FollowUps []FollowUp `bson:"follow_ups,omitempty" json:"follow_ups,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
