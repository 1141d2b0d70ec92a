package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus enum constants
const (
	PaymentStatusUnpaid          = "UNPAID"
	PaymentStatusPendingApproval = "PENDING_APPROVAL"
	PaymentStatusApproved        = "APPROVED"
	PaymentStatusRejected        = "REJECTED"
	PaymentStatusPaid            = "PAID"
)

// Payment is one-to-one with Order and records the client's transfer proof
// plus the admin review outcome.
type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	Order      *Order          `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Method     string          `gorm:"type:varchar(50)" json:"payment_method"`
	Status     string          `gorm:"type:varchar(30);not null;default:'UNPAID';index" json:"status"`
	ProofURL   string          `gorm:"type:text" json:"proof_url"`
	ApprovedBy *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
	Approver   *User           `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovedAt *time.Time      `json:"approved_at"`
	Note       string          `gorm:"type:text" json:"note"` // Review note, filled on rejection
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

var paymentTransitions = map[string][]string{
	PaymentStatusUnpaid:          {PaymentStatusPendingApproval, PaymentStatusPaid},
	PaymentStatusPendingApproval: {PaymentStatusApproved, PaymentStatusRejected},
	PaymentStatusRejected:        {PaymentStatusPendingApproval},
	PaymentStatusApproved:        {PaymentStatusPaid},
	PaymentStatusPaid:            {},
}

// ValidPaymentStatus reports whether s names a known payment status
func ValidPaymentStatus(s string) bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CanTransitionPayment reports whether a payment may move from one status to another
func CanTransitionPayment(from, to string) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
