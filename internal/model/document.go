package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is file metadata attached to an order. IsResult distinguishes
// accountant deliverables from client-submitted input documents; an order
// cannot be COMPLETED without at least one result document.
type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Order       *Order    `gorm:"foreignKey:OrderID" json:"-"`
	UploaderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"uploader_id"`
	Uploader    *User     `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
	FileName    string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FileURL     string    `gorm:"type:text;not null" json:"file_url"`
	ContentType string    `gorm:"type:varchar(128)" json:"content_type"`
	IsResult    bool      `gorm:"default:false;index" json:"is_result"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
