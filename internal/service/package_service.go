package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreatePackageRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Price        string `json:"price" binding:"required"`
	DurationDays int    `json:"duration_days" binding:"omitempty,min=0"`
}

type UpdatePackageRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	DurationDays *int   `json:"duration_days"`
	IsActive     *bool  `json:"is_active"`
}

type PackageResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	DurationDays int    `json:"duration_days"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
}

// PackageService manages the purchasable service catalog
type PackageService interface {
	CreatePackage(ctx context.Context, actorID string, req CreatePackageRequest) (PackageResponse, error)
	GetPackage(ctx context.Context, id string) (PackageResponse, error)
	ListPackages(ctx context.Context, activeOnly bool, page, limit int) ([]PackageResponse, int64, error)
	UpdatePackage(ctx context.Context, actorID string, id string, req UpdatePackageRequest) (PackageResponse, error)
	DeletePackage(ctx context.Context, actorID string, id string) error
}

type packageService struct {
	repo         repository.ServicePackageRepository
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	documentRepo repository.DocumentRepository
	revisionRepo repository.RevisionRepository
	txManager    repository.TransactionManager
	activity     ActivityService
}

func NewPackageService(
	repo repository.ServicePackageRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	documentRepo repository.DocumentRepository,
	revisionRepo repository.RevisionRepository,
	txManager repository.TransactionManager,
	activity ActivityService,
) PackageService {
	return &packageService{
		repo:         repo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		documentRepo: documentRepo,
		revisionRepo: revisionRepo,
		txManager:    txManager,
		activity:     activity,
	}
}

func toPackageResponse(p *model.ServicePackage) PackageResponse {
	return PackageResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.StringFixed(2),
		DurationDays: p.DurationDays,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

func (s *packageService) CreatePackage(ctx context.Context, actorID string, req CreatePackageRequest) (PackageResponse, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return PackageResponse{}, apperr.Validation("price must be a non-negative decimal")
	}

	pkg := &model.ServicePackage{
		Name:         req.Name,
		Description:  req.Description,
		Price:        price,
		DurationDays: req.DurationDays,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, pkg); err != nil {
		return PackageResponse{}, fmt.Errorf("failed to create service package: %w", err)
	}

	s.activity.Record(ctx, actorID, model.ActionCreateService, pkg.ID.String(), pkg.Name, map[string]interface{}{
		"price": pkg.Price.StringFixed(2),
	})

	return toPackageResponse(pkg), nil
}

func (s *packageService) GetPackage(ctx context.Context, id string) (PackageResponse, error) {
	pkgID, err := uuid.Parse(id)
	if err != nil {
		return PackageResponse{}, apperr.Validation("invalid package id")
	}

	pkg, err := s.repo.FindByID(ctx, pkgID)
	if err != nil {
		return PackageResponse{}, apperr.NotFound("service package not found")
	}

	return toPackageResponse(pkg), nil
}

func (s *packageService) ListPackages(ctx context.Context, activeOnly bool, page, limit int) ([]PackageResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	pkgs, total, err := s.repo.List(ctx, activeOnly, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PackageResponse, 0, len(pkgs))
	for i := range pkgs {
		res = append(res, toPackageResponse(&pkgs[i]))
	}

	return res, total, nil
}

func (s *packageService) UpdatePackage(ctx context.Context, actorID string, id string, req UpdatePackageRequest) (PackageResponse, error) {
	pkgID, err := uuid.Parse(id)
	if err != nil {
		return PackageResponse{}, apperr.Validation("invalid package id")
	}

	pkg, err := s.repo.FindByID(ctx, pkgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PackageResponse{}, apperr.NotFound("service package not found")
		}
		return PackageResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Name != "" {
		pkg.Name = req.Name
	}
	if req.Description != "" {
		pkg.Description = req.Description
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			return PackageResponse{}, apperr.Validation("price must be a non-negative decimal")
		}
		pkg.Price = price
	}
	if req.DurationDays != nil {
		pkg.DurationDays = *req.DurationDays
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, pkg); err != nil {
		return PackageResponse{}, fmt.Errorf("failed to update service package: %w", err)
	}

	s.activity.Record(ctx, actorID, model.ActionUpdateService, pkg.ID.String(), pkg.Name, map[string]interface{}{
		"price":     pkg.Price.StringFixed(2),
		"is_active": pkg.IsActive,
	})

	return toPackageResponse(pkg), nil
}

// DeletePackage removes the package and, in the same transaction, every
// order referencing it along with those orders' payments, documents and
// revisions. No orphan rows survive a successful call.
func (s *packageService) DeletePackage(ctx context.Context, actorID string, id string) error {
	pkgID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid package id")
	}

	pkg, err := s.repo.FindByID(ctx, pkgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("service package not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		orderIDs, err := s.orderRepo.FindIDsByService(txCtx, pkgID)
		if err != nil {
			return fmt.Errorf("failed to list dependent orders: %w", err)
		}

		if err := s.paymentRepo.DeleteByOrderIDs(txCtx, orderIDs); err != nil {
			return fmt.Errorf("failed to delete order payments: %w", err)
		}
		if err := s.documentRepo.DeleteByOrderIDs(txCtx, orderIDs); err != nil {
			return fmt.Errorf("failed to delete order documents: %w", err)
		}
		if err := s.revisionRepo.DeleteByOrderIDs(txCtx, orderIDs); err != nil {
			return fmt.Errorf("failed to delete order revisions: %w", err)
		}
		if err := s.orderRepo.DeleteByIDs(txCtx, orderIDs); err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}

		if err := s.repo.Delete(txCtx, pkgID); err != nil {
			return fmt.Errorf("failed to delete service package: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, actorID, model.ActionDeleteService, pkgID.String(), pkg.Name, nil)

	return nil
}
