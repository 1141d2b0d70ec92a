package service

import (
	"context"
	"fmt"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRevisionCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := seedUser(t, env.db, "klien1", model.RoleKlien)
	accountant := seedUser(t, env.db, "akuntan1", model.RoleAkuntan)
	pkg := seedPackage(t, env.db, "Pembukuan Bulanan", "750000.00")
	order := seedOrder(t, env.db, client, pkg, model.OrderStatusCompleted)
	assignAccountant(t, env.db, order, accountant)

	request := func(title string) (RevisionResponse, error) {
		return env.revisions.RequestRevision(ctx, client.ID.String(), RequestRevisionRequest{
			OrderID: order.ID.String(),
			Title:   title,
		})
	}

	first, err := request("perbaiki format laporan")
	require.NoError(t, err)
	assert.Equal(t, model.RevisionStatusPending, first.Status)
	require.NotNil(t, first.AssignedTo)
	assert.Equal(t, accountant.ID.String(), *first.AssignedTo)

	_, err = request("tambahkan lampiran")
	require.NoError(t, err)

	// Third request hits the cap and must not persist anything
	_, err = request("satu lagi")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

	assert.EqualValues(t, 2, countRows(t, env.db, &model.Revision{}, "order_id = ?", order.ID))
	assert.Equal(t, 2, orderByID(t, env.db, order.ID).RevisionCount)
}

func TestCancelRevision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := seedUser(t, env.db, "klien2", model.RoleKlien)
	pkg := seedPackage(t, env.db, "Laporan Pajak", "500000.00")
	order := seedOrder(t, env.db, client, pkg, model.OrderStatusCompleted)

	request := func(i int) RevisionResponse {
		rev, err := env.revisions.RequestRevision(ctx, client.ID.String(), RequestRevisionRequest{
			OrderID: order.ID.String(),
			Title:   fmt.Sprintf("revisi %d", i),
		})
		require.NoError(t, err)
		return rev
	}

	first := request(1)
	request(2)

	t.Run("cancelling a pending revision frees its slot", func(t *testing.T) {
		require.NoError(t, env.revisions.CancelRevision(ctx, first.ID, client.ID.String()))

		assert.Equal(t, 1, orderByID(t, env.db, order.ID).RevisionCount)
		assert.EqualValues(t, 0, countRows(t, env.db, &model.Revision{}, "id = ?", first.ID))

		// The freed slot admits a new request
		request(3)
		assert.Equal(t, 2, orderByID(t, env.db, order.ID).RevisionCount)
	})

	t.Run("only pending revisions can be cancelled", func(t *testing.T) {
		var rev model.Revision
		require.NoError(t, env.db.First(&rev, "order_id = ? AND status = ?", order.ID, model.RevisionStatusPending).Error)

		_, err := env.revisions.UpdateStatus(ctx, rev.ID.String(), client.ID.String(), UpdateRevisionStatusRequest{
			Status: model.RevisionStatusInProgress,
		})
		require.NoError(t, err)

		err = env.revisions.CancelRevision(ctx, rev.ID.String(), client.ID.String())
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
		assert.Equal(t, 2, orderByID(t, env.db, order.ID).RevisionCount)
	})
}

func TestUpdateRevisionStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := seedUser(t, env.db, "klien3", model.RoleKlien)
	accountant := seedUser(t, env.db, "akuntan2", model.RoleAkuntan)
	pkg := seedPackage(t, env.db, "SPT Tahunan", "300000.00")
	order := seedOrder(t, env.db, client, pkg, model.OrderStatusCompleted)

	rev, err := env.revisions.RequestRevision(ctx, client.ID.String(), RequestRevisionRequest{
		OrderID: order.ID.String(),
		Title:   "salah periode",
	})
	require.NoError(t, err)

	t.Run("pending cannot jump straight to completed", func(t *testing.T) {
		_, err := env.revisions.UpdateStatus(ctx, rev.ID, accountant.ID.String(), UpdateRevisionStatusRequest{
			Status: model.RevisionStatusCompleted,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})

	t.Run("walks the workflow in order", func(t *testing.T) {
		inProgress, err := env.revisions.UpdateStatus(ctx, rev.ID, accountant.ID.String(), UpdateRevisionStatusRequest{
			Status: model.RevisionStatusInProgress,
		})
		require.NoError(t, err)
		assert.Equal(t, model.RevisionStatusInProgress, inProgress.Status)

		done, err := env.revisions.UpdateStatus(ctx, rev.ID, accountant.ID.String(), UpdateRevisionStatusRequest{
			Status:         model.RevisionStatusCompleted,
			ResolutionNote: "periode sudah dikoreksi",
		})
		require.NoError(t, err)
		assert.Equal(t, model.RevisionStatusCompleted, done.Status)
		assert.Equal(t, "periode sudah dikoreksi", done.ResolutionNote)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		_, err := env.revisions.UpdateStatus(ctx, rev.ID, accountant.ID.String(), UpdateRevisionStatusRequest{
			Status: model.RevisionStatusInProgress,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})
}

func TestListRevisionsByOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := seedUser(t, env.db, "klien4", model.RoleKlien)
	pkg := seedPackage(t, env.db, "Konsultasi", "200000.00")
	order := seedOrder(t, env.db, client, pkg, model.OrderStatusCompleted)

	for i := 0; i < 2; i++ {
		_, err := env.revisions.RequestRevision(ctx, client.ID.String(), RequestRevisionRequest{
			OrderID: order.ID.String(),
			Title:   fmt.Sprintf("revisi %d", i),
		})
		require.NoError(t, err)
	}

	revisions, err := env.revisions.ListByOrder(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Len(t, revisions, 2)
	for _, rev := range revisions {
		assert.Equal(t, client.ID.String(), rev.RequestedBy)
	}
}
