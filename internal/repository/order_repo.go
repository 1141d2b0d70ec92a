package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings per caller role
type OrderFilter struct {
	ClientID     *uuid.UUID
	AccountantID *uuid.UUID
	ServiceID    *uuid.UUID
	Status       string
	Page         int
	Limit        int
}

// OrderRepository defines data access for orders, including the conditional
// revision-count update that closes the read-then-write race.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	FindIDsByClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error)
	FindIDsByService(ctx context.Context, serviceID uuid.UUID) ([]uuid.UUID, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	AssignAccountant(ctx context.Context, id uuid.UUID, accountantID *uuid.UUID) error
	ClearAccountant(ctx context.Context, accountantID uuid.UUID) error
	IncrementRevisionCount(ctx context.Context, id uuid.UUID, max int) (bool, error)
	DecrementRevisionCount(ctx context.Context, id uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := GetDB(ctx, r.db).
		Preload("Client").
		Preload("Service").
		Preload("Accountant").
		Preload("Payment").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	base := GetDB(ctx, r.db).Model(&model.Order{})
	if filter.ClientID != nil {
		base = base.Where("client_id = ?", *filter.ClientID)
	}
	if filter.AccountantID != nil {
		base = base.Where("accountant_id = ?", *filter.AccountantID)
	}
	if filter.ServiceID != nil {
		base = base.Where("service_id = ?", *filter.ServiceID)
	}
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := base.
		Preload("Client").
		Preload("Service").
		Preload("Accountant").
		Preload("Payment").
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) FindIDsByClient(ctx context.Context, clientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).Model(&model.Order{}).
		Where("client_id = ?", clientID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *orderRepository) FindIDsByService(ctx context.Context, serviceID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).Model(&model.Order{}).
		Where("service_id = ?", serviceID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) AssignAccountant(ctx context.Context, id uuid.UUID, accountantID *uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).
		Where("id = ?", id).
		Update("accountant_id", accountantID).Error
}

func (r *orderRepository) ClearAccountant(ctx context.Context, accountantID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).
		Where("accountant_id = ?", accountantID).
		Update("accountant_id", nil).Error
}

// IncrementRevisionCount bumps revision_count only while it is below max,
// in a single conditional UPDATE. Returns false when the cap (or a missing
// order) prevented the increment.
func (r *orderRepository) IncrementRevisionCount(ctx context.Context, id uuid.UUID, max int) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.Order{}).
		Where("id = ? AND revision_count < ?", id, max).
		UpdateColumn("revision_count", gorm.Expr("revision_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepository) DecrementRevisionCount(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Order{}).
		Where("id = ? AND revision_count > 0", id).
		UpdateColumn("revision_count", gorm.Expr("revision_count - 1")).Error
}

func (r *orderRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Where("id IN ?", ids).Delete(&model.Order{}).Error
}
