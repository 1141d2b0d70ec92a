package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePackage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := seedUser(t, env.db, "admin1", model.RoleAdmin)

	t.Run("creates an active package", func(t *testing.T) {
		pkg, err := env.packages.CreatePackage(ctx, admin.ID.String(), CreatePackageRequest{
			Name:         "Pembukuan Bulanan",
			Description:  "Laporan keuangan bulanan",
			Price:        "750000",
			DurationDays: 14,
		})
		require.NoError(t, err)
		assert.Equal(t, "750000.00", pkg.Price)
		assert.True(t, pkg.IsActive)
	})

	t.Run("rejects malformed price", func(t *testing.T) {
		_, err := env.packages.CreatePackage(ctx, admin.ID.String(), CreatePackageRequest{
			Name:  "Paket Aneh",
			Price: "tujuh ratus ribu",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := env.packages.CreatePackage(ctx, admin.ID.String(), CreatePackageRequest{
			Name:  "Paket Minus",
			Price: "-1.00",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestUpdatePackage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := seedUser(t, env.db, "admin2", model.RoleAdmin)
	pkg := seedPackage(t, env.db, "Laporan Pajak", "500000.00")

	inactive := false
	updated, err := env.packages.UpdatePackage(ctx, admin.ID.String(), pkg.ID.String(), UpdatePackageRequest{
		Price:    "600000.00",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "600000.00", updated.Price)
	assert.False(t, updated.IsActive)
}

func TestListPackagesActiveOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seedPackage(t, env.db, "Aktif", "100000.00")
	retired := seedPackage(t, env.db, "Pensiun", "100000.00")
	require.NoError(t, env.db.Model(&model.ServicePackage{}).
		Where("id = ?", retired.ID).
		Update("is_active", false).Error)

	active, total, err := env.packages.ListPackages(ctx, true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, active, 1)
	assert.Equal(t, "Aktif", active[0].Name)

	all, total, err := env.packages.ListPackages(ctx, false, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}

func TestDeletePackageCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := seedUser(t, env.db, "admin3", model.RoleAdmin)
	accountant := seedUser(t, env.db, "akuntan1", model.RoleAkuntan)
	client := seedUser(t, env.db, "klien1", model.RoleKlien)
	pkg := seedPackage(t, env.db, "Audit Internal", "1500000.00")
	other := seedPackage(t, env.db, "Konsultasi", "200000.00")

	order := seedOrder(t, env.db, client, pkg, model.OrderStatusCompleted)
	otherOrder := seedOrder(t, env.db, client, other, model.OrderStatusPendingPayment)

	require.NoError(t, env.db.Create(&model.Payment{
		OrderID: order.ID,
		Amount:  pkg.Price,
		Status:  model.PaymentStatusApproved,
	}).Error)
	seedResultDocument(t, env.db, order, accountant)
	_, err := env.revisions.RequestRevision(ctx, client.ID.String(), RequestRevisionRequest{
		OrderID: order.ID.String(),
		Title:   "revisi audit",
	})
	require.NoError(t, err)

	require.NoError(t, env.packages.DeletePackage(ctx, admin.ID.String(), pkg.ID.String()))

	assert.EqualValues(t, 0, countRows(t, env.db, &model.ServicePackage{}, "id = ?", pkg.ID))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.Order{}, "service_id = ?", pkg.ID))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.Payment{}, "order_id = ?", order.ID))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.Document{}, "order_id = ?", order.ID))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.Revision{}, "order_id = ?", order.ID))

	// Orders of other packages are untouched
	assert.EqualValues(t, 1, countRows(t, env.db, &model.Order{}, "id = ?", otherOrder.ID))
}
