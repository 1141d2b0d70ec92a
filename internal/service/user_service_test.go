package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("creates a user with hashed password", func(t *testing.T) {
		user, err := env.users.CreateUser(ctx, CreateUserRequest{
			Username: "budi",
			Email:    "budi@example.com",
			Password: "rahasia123",
			Role:     model.RoleKlien,
		})
		require.NoError(t, err)
		assert.Equal(t, model.RoleKlien, user.Role)

		var stored model.User
		require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
		assert.NotEqual(t, "rahasia123", stored.Password)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := env.users.CreateUser(ctx, CreateUserRequest{
			Username: "budi",
			Email:    "budi2@example.com",
			Password: "rahasia123",
			Role:     model.RoleKlien,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := env.users.CreateUser(ctx, CreateUserRequest{
			Username: "budi-lain",
			Email:    "budi@example.com",
			Password: "rahasia123",
			Role:     model.RoleKlien,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := env.users.CreateUser(ctx, CreateUserRequest{
			Username: "siti",
			Email:    "siti@example.com",
			Password: "rahasia123",
			Role:     "SUPERVISOR",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestLoginAndRefresh(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.CreateUser(ctx, CreateUserRequest{
		Username: "ani",
		Email:    "ani@example.com",
		Password: "rahasia123",
		Role:     model.RoleKlien,
	})
	require.NoError(t, err)

	t.Run("wrong password is refused", func(t *testing.T) {
		_, err := env.users.Login(ctx, LoginUserRequest{
			Email:    "ani@example.com",
			Password: "salah",
		})
		require.Error(t, err)
	})

	t.Run("refresh rotates the token", func(t *testing.T) {
		tokens, err := env.users.Login(ctx, LoginUserRequest{
			Email:    "ani@example.com",
			Password: "rahasia123",
		})
		require.NoError(t, err)
		require.NotEmpty(t, tokens.Token)
		require.NotEmpty(t, tokens.RefreshToken)

		rotated, err := env.users.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
		require.NoError(t, err)
		assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

		// The presented token is single-use
		_, err = env.users.RefreshToken(ctx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
		require.Error(t, err)
	})
}

func TestDeleteUserCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := seedUser(t, env.db, "admin1", model.RoleAdmin)
	accountant := seedUser(t, env.db, "akuntan1", model.RoleAkuntan)
	client := seedUser(t, env.db, "klien1", model.RoleKlien)
	pkg := seedPackage(t, env.db, "Pembukuan Bulanan", "750000.00")

	// Build the full dependency web around the client
	order := seedOrder(t, env.db, client, pkg, model.OrderStatusCompleted)
	assignAccountant(t, env.db, order, accountant)

	require.NoError(t, env.db.Create(&model.Payment{
		OrderID: order.ID,
		Amount:  pkg.Price,
		Status:  model.PaymentStatusApproved,
	}).Error)
	seedResultDocument(t, env.db, order, accountant)

	_, err := env.revisions.RequestRevision(ctx, client.ID.String(), RequestRevisionRequest{
		OrderID: order.ID.String(),
		Title:   "perbaiki lampiran",
	})
	require.NoError(t, err)

	tokens, err := env.users.Login(ctx, LoginUserRequest{
		Email:    client.Email,
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.RefreshToken)

	require.NoError(t, env.users.DeleteUser(ctx, client.ID.String(), admin.ID.String()))

	// No row anywhere still references the deleted client
	assert.EqualValues(t, 0, countRows(t, env.db, &model.User{}, "id = ?", client.ID))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.Order{}, "client_id = ?", client.ID))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.Payment{}, "order_id = ?", order.ID))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.Document{}, "order_id = ?", order.ID))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.Revision{}, "order_id = ?", order.ID))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.RefreshToken{}, "user_id = ?", client.ID))
	assert.EqualValues(t, 0, countRows(t, env.db, &model.ActivityLog{}, "user_id = ?", client.ID))

	// The accountant and admin survive untouched
	assert.EqualValues(t, 1, countRows(t, env.db, &model.User{}, "id = ?", accountant.ID))
	assert.EqualValues(t, 1, countRows(t, env.db, &model.User{}, "id = ?", admin.ID))
}

func TestDeleteAccountantUnassignsWork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := seedUser(t, env.db, "admin2", model.RoleAdmin)
	accountant := seedUser(t, env.db, "akuntan2", model.RoleAkuntan)
	client := seedUser(t, env.db, "klien2", model.RoleKlien)
	pkg := seedPackage(t, env.db, "Laporan Pajak", "500000.00")

	order := seedOrder(t, env.db, client, pkg, model.OrderStatusInProgress)
	assignAccountant(t, env.db, order, accountant)

	require.NoError(t, env.users.DeleteUser(ctx, accountant.ID.String(), admin.ID.String()))

	// The client's order survives with the assignment nulled out
	reloaded := orderByID(t, env.db, order.ID)
	assert.Nil(t, reloaded.AccountantID)
	assert.Equal(t, model.OrderStatusInProgress, reloaded.Status)
}
