package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServicePackageRepository defines data access for purchasable service packages
type ServicePackageRepository interface {
	Create(ctx context.Context, pkg *model.ServicePackage) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServicePackage, error)
	List(ctx context.Context, activeOnly bool, page, limit int) ([]model.ServicePackage, int64, error)
	Update(ctx context.Context, pkg *model.ServicePackage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type servicePackageRepository struct {
	db *gorm.DB
}

func NewServicePackageRepository(db *gorm.DB) ServicePackageRepository {
	return &servicePackageRepository{db: db}
}

func (r *servicePackageRepository) Create(ctx context.Context, pkg *model.ServicePackage) error {
	return GetDB(ctx, r.db).Create(pkg).Error
}

func (r *servicePackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ServicePackage, error) {
	var pkg model.ServicePackage
	if err := GetDB(ctx, r.db).First(&pkg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *servicePackageRepository) List(ctx context.Context, activeOnly bool, page, limit int) ([]model.ServicePackage, int64, error) {
	var pkgs []model.ServicePackage
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ServicePackage{})
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&pkgs).Error; err != nil {
		return nil, 0, err
	}

	return pkgs, total, nil
}

func (r *servicePackageRepository) Update(ctx context.Context, pkg *model.ServicePackage) error {
	return GetDB(ctx, r.db).Save(pkg).Error
}

func (r *servicePackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ServicePackage{}).Error
}
