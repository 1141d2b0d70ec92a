package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RevisionStatus enum constants
const (
	RevisionStatusPending    = "PENDING"
	RevisionStatusInProgress = "IN_PROGRESS"
	RevisionStatusCompleted  = "COMPLETED"
	RevisionStatusRejected   = "REJECTED"
)

// Revision is a client request to amend an order's deliverable.
// Creation increments Order.RevisionCount (capped at MaxRevisions);
// cancellation is only allowed while PENDING and decrements the count.
type Revision struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	Order          *Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	RequestedBy    uuid.UUID  `gorm:"type:uuid;not null;index" json:"requested_by"`
	Requester      *User      `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	AssignedTo     *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to"`
	Assignee       *User      `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Title          string     `gorm:"type:varchar(255);not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Status         string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ResolutionNote string     `gorm:"type:text" json:"resolution_note"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (r *Revision) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

var revisionTransitions = map[string][]string{
	RevisionStatusPending:    {RevisionStatusInProgress, RevisionStatusRejected},
	RevisionStatusInProgress: {RevisionStatusCompleted, RevisionStatusRejected},
	RevisionStatusCompleted:  {},
	RevisionStatusRejected:   {},
}

// ValidRevisionStatus reports whether s names a known revision status
func ValidRevisionStatus(s string) bool {
	_, ok := revisionTransitions[s]
	return ok
}

// CanTransitionRevision reports whether a revision may move from one status to another
func CanTransitionRevision(from, to string) bool {
	for _, next := range revisionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
