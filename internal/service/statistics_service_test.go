package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	clientA := seedUser(t, env.db, "klien1", model.RoleKlien)
	clientB := seedUser(t, env.db, "klien2", model.RoleKlien)
	seedUser(t, env.db, "akuntan1", model.RoleAkuntan)

	pkgA := seedPackage(t, env.db, "Pembukuan Bulanan", "750000.00")
	pkgB := seedPackage(t, env.db, "Laporan Pajak", "500000.00")

	orderA1 := seedOrder(t, env.db, clientA, pkgA, model.OrderStatusInProgress)
	seedOrder(t, env.db, clientB, pkgA, model.OrderStatusCompleted)
	orderB1 := seedOrder(t, env.db, clientB, pkgB, model.OrderStatusPendingPayment)

	require.NoError(t, env.db.Create(&model.Payment{
		OrderID: orderA1.ID,
		Amount:  decimal.RequireFromString("750000.00"),
		Status:  model.PaymentStatusApproved,
	}).Error)
	require.NoError(t, env.db.Create(&model.Payment{
		OrderID: orderB1.ID,
		Amount:  decimal.RequireFromString("500000.00"),
		Status:  model.PaymentStatusPendingApproval,
	}).Error)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)

	stats, err := env.stats.GetStatistics(ctx, start, end)
	require.NoError(t, err)

	assert.EqualValues(t, 1, stats.OrdersByStatus[model.OrderStatusInProgress])
	assert.EqualValues(t, 1, stats.OrdersByStatus[model.OrderStatusCompleted])
	assert.EqualValues(t, 1, stats.OrdersByStatus[model.OrderStatusPendingPayment])

	// Only the approved payment counts toward revenue
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("750000.00")),
		"revenue %s", stats.TotalRevenue)

	assert.EqualValues(t, 2, stats.NewClients)
	assert.EqualValues(t, 1, stats.PendingApprovals)

	require.NotEmpty(t, stats.TopPackages)
	assert.Equal(t, pkgA.Name, stats.TopPackages[0].PackageName)
	assert.EqualValues(t, 2, stats.TopPackages[0].OrderCount)
}

func TestGetStatisticsEmptyRange(t *testing.T) {
	env := newTestEnv(t)

	start := time.Now().Add(-2 * time.Hour)
	end := time.Now().Add(-time.Hour)

	stats, err := env.stats.GetStatistics(context.Background(), start, end)
	require.NoError(t, err)

	assert.Empty(t, stats.OrdersByStatus)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.EqualValues(t, 0, stats.NewClients)
	assert.Empty(t, stats.TopPackages)
}
