package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := seedUser(t, env.db, "klien1", model.RoleKlien)
	pkg := seedPackage(t, env.db, "Pembukuan Bulanan", "750000.00")

	t.Run("proof moves payment to pending approval", func(t *testing.T) {
		order := seedOrder(t, env.db, client, pkg, model.OrderStatusPendingPayment)

		payment, err := env.payments.SubmitPayment(ctx, client.ID.String(), SubmitPaymentRequest{
			OrderID:  order.ID.String(),
			Amount:   "750000.00",
			Method:   "BANK_TRANSFER",
			ProofURL: "https://files.example.com/bukti.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPendingApproval, payment.Status)
	})

	t.Run("without proof stays unpaid", func(t *testing.T) {
		order := seedOrder(t, env.db, client, pkg, model.OrderStatusPendingPayment)

		payment, err := env.payments.SubmitPayment(ctx, client.ID.String(), SubmitPaymentRequest{
			OrderID: order.ID.String(),
			Amount:  "750000.00",
		})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusUnpaid, payment.Status)
	})

	t.Run("rejects order not awaiting payment", func(t *testing.T) {
		order := seedOrder(t, env.db, client, pkg, model.OrderStatusInProgress)

		_, err := env.payments.SubmitPayment(ctx, client.ID.String(), SubmitPaymentRequest{
			OrderID:  order.ID.String(),
			Amount:   "750000.00",
			ProofURL: "https://files.example.com/bukti.jpg",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		order := seedOrder(t, env.db, client, pkg, model.OrderStatusPendingPayment)

		_, err := env.payments.SubmitPayment(ctx, client.ID.String(), SubmitPaymentRequest{
			OrderID: order.ID.String(),
			Amount:  "-5.00",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestReviewPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := seedUser(t, env.db, "admin1", model.RoleAdmin)
	client := seedUser(t, env.db, "klien2", model.RoleKlien)
	pkg := seedPackage(t, env.db, "Laporan Pajak", "500000.00")

	submit := func(t *testing.T) (orderID, paymentID string) {
		order := seedOrder(t, env.db, client, pkg, model.OrderStatusPendingPayment)
		payment, err := env.payments.SubmitPayment(ctx, client.ID.String(), SubmitPaymentRequest{
			OrderID:  order.ID.String(),
			Amount:   "500000.00",
			ProofURL: "https://files.example.com/bukti.jpg",
		})
		require.NoError(t, err)
		return order.ID.String(), payment.ID
	}

	t.Run("approval moves payment and order together", func(t *testing.T) {
		orderID, paymentID := submit(t)

		payment, err := env.payments.ReviewPayment(ctx, paymentID, admin.ID.String(), ReviewPaymentRequest{
			Action: "approve",
		})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusApproved, payment.Status)
		require.NotNil(t, payment.ApprovedBy)
		assert.Equal(t, admin.ID.String(), *payment.ApprovedBy)
		require.NotNil(t, payment.ApprovedAt)

		var order model.Order
		require.NoError(t, env.db.First(&order, "id = ?", orderID).Error)
		assert.Equal(t, model.OrderStatusInProgress, order.Status)
	})

	t.Run("rejection returns order to awaiting payment", func(t *testing.T) {
		orderID, paymentID := submit(t)

		payment, err := env.payments.ReviewPayment(ctx, paymentID, admin.ID.String(), ReviewPaymentRequest{
			Action: "reject",
			Note:   "bukti transfer buram",
		})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusRejected, payment.Status)
		assert.Equal(t, "bukti transfer buram", payment.Note)

		var order model.Order
		require.NoError(t, env.db.First(&order, "id = ?", orderID).Error)
		assert.Equal(t, model.OrderStatusPendingPayment, order.Status)

		// Resubmission after rejection is allowed
		resubmitted, err := env.payments.SubmitPayment(ctx, client.ID.String(), SubmitPaymentRequest{
			OrderID:  orderID,
			Amount:   "500000.00",
			ProofURL: "https://files.example.com/bukti-baru.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPendingApproval, resubmitted.Status)

		// Still exactly one payment row for the order
		assert.EqualValues(t, 1, countRows(t, env.db, &model.Payment{}, "order_id = ?", orderID))
	})

	t.Run("reviewing a settled payment changes nothing", func(t *testing.T) {
		orderID, paymentID := submit(t)

		_, err := env.payments.ReviewPayment(ctx, paymentID, admin.ID.String(), ReviewPaymentRequest{
			Action: "approve",
		})
		require.NoError(t, err)

		_, err = env.payments.ReviewPayment(ctx, paymentID, admin.ID.String(), ReviewPaymentRequest{
			Action: "reject",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))

		var payment model.Payment
		require.NoError(t, env.db.First(&payment, "id = ?", paymentID).Error)
		assert.Equal(t, model.PaymentStatusApproved, payment.Status)

		var order model.Order
		require.NoError(t, env.db.First(&order, "id = ?", orderID).Error)
		assert.Equal(t, model.OrderStatusInProgress, order.Status)
	})

	t.Run("unknown payment id", func(t *testing.T) {
		_, err := env.payments.ReviewPayment(ctx, "3f7c9a00-0000-4000-8000-000000000000", admin.ID.String(), ReviewPaymentRequest{
			Action: "approve",
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}

func TestListPayments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := seedUser(t, env.db, "klien3", model.RoleKlien)
	pkg := seedPackage(t, env.db, "Konsultasi", "200000.00")

	for i := 0; i < 3; i++ {
		order := seedOrder(t, env.db, client, pkg, model.OrderStatusPendingPayment)
		_, err := env.payments.SubmitPayment(ctx, client.ID.String(), SubmitPaymentRequest{
			OrderID:  order.ID.String(),
			Amount:   "200000.00",
			ProofURL: "https://files.example.com/bukti.jpg",
		})
		require.NoError(t, err)
	}

	pending, total, err := env.payments.ListPayments(ctx, model.PaymentStatusPendingApproval, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, pending, 3)

	_, _, err = env.payments.ListPayments(ctx, "SETTLED", 1, 10)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
