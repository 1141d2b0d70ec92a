package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentRepository defines data access for order document metadata
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Document, error)
	CountResults(ctx context.Context, orderID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) error
	DeleteByUploader(ctx context.Context, userID uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := GetDB(ctx, r.db).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Document, error) {
	var docs []model.Document
	err := GetDB(ctx, r.db).
		Preload("Uploader").
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// CountResults counts accountant deliverables for an order; the order
// completion guard depends on this being > 0.
func (r *documentRepository) CountResults(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Document{}).
		Where("order_id = ? AND is_result = ?", orderID, true).
		Count(&count).Error
	return count, err
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Document{}).Error
}

func (r *documentRepository) DeleteByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Where("order_id IN ?", orderIDs).Delete(&model.Document{}).Error
}

func (r *documentRepository) DeleteByUploader(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("uploader_id = ?", userID).Delete(&model.Document{}).Error
}
