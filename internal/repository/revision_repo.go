package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RevisionRepository defines data access for order revision requests
type RevisionRepository interface {
	Create(ctx context.Context, revision *model.Revision) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Revision, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Revision, error)
	Update(ctx context.Context, revision *model.Revision) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) error
	DeleteByRequester(ctx context.Context, userID uuid.UUID) error
	ClearAssignee(ctx context.Context, userID uuid.UUID) error
}

type revisionRepository struct {
	db *gorm.DB
}

func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

func (r *revisionRepository) Create(ctx context.Context, revision *model.Revision) error {
	return GetDB(ctx, r.db).Create(revision).Error
}

func (r *revisionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Revision, error) {
	var revision model.Revision
	if err := GetDB(ctx, r.db).First(&revision, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &revision, nil
}

func (r *revisionRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Revision, error) {
	var revisions []model.Revision
	err := GetDB(ctx, r.db).
		Preload("Requester").
		Preload("Assignee").
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&revisions).Error
	return revisions, err
}

func (r *revisionRepository) Update(ctx context.Context, revision *model.Revision) error {
	return GetDB(ctx, r.db).Save(revision).Error
}

func (r *revisionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Revision{}).Error
}

func (r *revisionRepository) DeleteByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) error {
	if len(orderIDs) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Where("order_id IN ?", orderIDs).Delete(&model.Revision{}).Error
}

func (r *revisionRepository) DeleteByRequester(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("requested_by = ?", userID).Delete(&model.Revision{}).Error
}

func (r *revisionRepository) ClearAssignee(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Revision{}).
		Where("assigned_to = ?", userID).
		Update("assigned_to", nil).Error
}
