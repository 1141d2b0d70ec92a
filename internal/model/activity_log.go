package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateUser    = "CREATE_USER"
	ActionUpdateUser    = "UPDATE_USER"
	ActionDeleteUser    = "DELETE_USER"
	ActionCreateService = "CREATE_SERVICE"
	ActionUpdateService = "UPDATE_SERVICE"
	ActionDeleteService = "DELETE_SERVICE"

	ActionCreateOrder       = "CREATE_ORDER"
	ActionUpdateOrderStatus = "UPDATE_ORDER_STATUS"
	ActionAssignAccountant  = "ASSIGN_ACCOUNTANT"

	ActionSubmitPayment  = "SUBMIT_PAYMENT"
	ActionApprovePayment = "APPROVE_PAYMENT"
	ActionRejectPayment  = "REJECT_PAYMENT"

	ActionRequestRevision      = "REQUEST_REVISION"
	ActionCancelRevision       = "CANCEL_REVISION"
	ActionUpdateRevisionStatus = "UPDATE_REVISION_STATUS"

	ActionUploadDocument = "UPLOAD_DOCUMENT"
	ActionDeleteDocument = "DELETE_DOCUMENT"
	ActionUpdateSetting  = "UPDATE_SETTING"
)

// ActivityLog tracks Who, What, and When for critical system changes.
// Append-only: rows are never mutated and only removed by the user cascade.
type ActivityLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
