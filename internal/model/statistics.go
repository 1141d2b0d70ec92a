package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackageRanking ranks service packages by ordered volume within a time range
type PackageRanking struct {
	PackageID   string          `json:"package_id"`
	PackageName string          `json:"package_name"`
	OrderCount  int64           `json:"order_count"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// StatisticsResponse aggregates dashboard metrics for the admin view
type StatisticsResponse struct {
	TimeRangeStartDate time.Time        `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time        `json:"time_range_end_date"`
	OrdersByStatus     map[string]int64 `json:"orders_by_status"`
	TotalRevenue       decimal.Decimal  `json:"total_revenue"` // Sum of approved/settled payment amounts
	NewClients         int64            `json:"new_clients"`
	PendingApprovals   int64            `json:"pending_approvals"` // Payments awaiting admin review
	TopPackages        []PackageRanking `json:"top_packages"`
}
