package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus enum constants
const (
	OrderStatusPendingPayment = "PENDING_PAYMENT"
	OrderStatusPaid           = "PAID"
	OrderStatusInProgress     = "IN_PROGRESS"
	OrderStatusCompleted      = "COMPLETED"
	OrderStatusCancelled      = "CANCELLED"
)

// MaxRevisions caps how many revision requests a single order may accumulate
const MaxRevisions = 2

// Order is the central transactional entity: a client's purchase of one
// ServicePackage tracked through the payment/fulfillment lifecycle.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Status        string          `gorm:"type:varchar(30);not null;default:'PENDING_PAYMENT';index" json:"status"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"` // Snapshot of ServicePackage.Price
	RevisionCount int             `gorm:"type:int;not null;default:0" json:"revision_count"`
	Notes         string          `gorm:"type:text" json:"notes"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *User           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ServiceID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"service_id"`
	Service       *ServicePackage `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	AccountantID  *uuid.UUID      `gorm:"type:uuid;index" json:"accountant_id"`
	Accountant    *User           `gorm:"foreignKey:AccountantID" json:"accountant,omitempty"`
	Payment       *Payment        `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	Documents     []Document      `gorm:"foreignKey:OrderID" json:"documents,omitempty"`
	Revisions     []Revision      `gorm:"foreignKey:OrderID" json:"revisions,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// orderTransitions is the single authoritative transition table for order
// status. Every status write goes through CanTransitionOrder; no handler
// may set the column directly.
var orderTransitions = map[string][]string{
	OrderStatusPendingPayment: {OrderStatusPaid, OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusPaid:           {OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusInProgress:     {OrderStatusCompleted, OrderStatusPendingPayment, OrderStatusCancelled},
	OrderStatusCompleted:      {},
	OrderStatusCancelled:      {},
}

// ValidOrderStatus reports whether s names a known order status
func ValidOrderStatus(s string) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionOrder reports whether an order may move from one status to another
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
