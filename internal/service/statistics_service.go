package service

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatisticsService interface {
	GetStatistics(ctx context.Context, startDate, endDate time.Time) (model.StatisticsResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetStatistics aggregates dashboard metrics for orders created within the
// given time range. Revenue counts approved and settled payments only.
func (s *statisticsService) GetStatistics(ctx context.Context, startDate, endDate time.Time) (model.StatisticsResponse, error) {
	response := model.StatisticsResponse{
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
		OrdersByStatus:     make(map[string]int64),
	}

	// Order counts grouped by status
	var statusCounts []struct {
		Status string
		Count  int64
	}
	s.db.WithContext(ctx).Table("orders").
		Select("status, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Group("status").
		Scan(&statusCounts)
	for _, sc := range statusCounts {
		response.OrdersByStatus[sc.Status] = sc.Count
	}

	// Total revenue from approved or settled payments
	var revenue struct {
		Value decimal.Decimal
	}
	s.db.WithContext(ctx).Table("payments").
		Select("COALESCE(SUM(amount), 0) as value").
		Where("status IN ? AND created_at >= ? AND created_at <= ?",
			[]string{model.PaymentStatusApproved, model.PaymentStatusPaid}, startDate, endDate).
		Scan(&revenue)
	response.TotalRevenue = revenue.Value

	// New client registrations in range
	s.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ? AND created_at >= ? AND created_at <= ?", model.RoleKlien, startDate, endDate).
		Count(&response.NewClients)

	// Payments currently awaiting admin review, regardless of range
	s.db.WithContext(ctx).Model(&model.Payment{}).
		Where("status = ?", model.PaymentStatusPendingApproval).
		Count(&response.PendingApprovals)

	// Top ordered service packages by volume
	var topPackages []model.PackageRanking
	s.db.WithContext(ctx).Table("orders").
		Select("service_packages.id as package_id, service_packages.name as package_name, COUNT(orders.id) as order_count, COALESCE(SUM(orders.total_amount), 0) as total_value").
		Joins("JOIN service_packages ON service_packages.id = orders.service_id").
		Where("orders.created_at >= ? AND orders.created_at <= ?", startDate, endDate).
		Group("service_packages.id, service_packages.name").
		Order("order_count DESC").
		Limit(5).
		Scan(&topPackages)
	response.TopPackages = topPackages

	return response, nil
}
