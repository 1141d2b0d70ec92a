package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPendingPayment, OrderStatusPaid, true},
		{OrderStatusPendingPayment, OrderStatusInProgress, true},
		{OrderStatusPendingPayment, OrderStatusCancelled, true},
		{OrderStatusPendingPayment, OrderStatusCompleted, false},
		{OrderStatusPaid, OrderStatusInProgress, true},
		{OrderStatusPaid, OrderStatusCompleted, true},
		{OrderStatusInProgress, OrderStatusCompleted, true},
		{OrderStatusInProgress, OrderStatusPendingPayment, true},
		{OrderStatusCompleted, OrderStatusInProgress, false},
		{OrderStatusCancelled, OrderStatusPendingPayment, false},
		{OrderStatusCompleted, OrderStatusCompleted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransitionOrder(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{PaymentStatusUnpaid, PaymentStatusPendingApproval, true},
		{PaymentStatusUnpaid, PaymentStatusPaid, true},
		{PaymentStatusPendingApproval, PaymentStatusApproved, true},
		{PaymentStatusPendingApproval, PaymentStatusRejected, true},
		{PaymentStatusRejected, PaymentStatusPendingApproval, true},
		{PaymentStatusApproved, PaymentStatusPaid, true},
		{PaymentStatusApproved, PaymentStatusRejected, false},
		{PaymentStatusPaid, PaymentStatusUnpaid, false},
		{PaymentStatusUnpaid, PaymentStatusApproved, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransitionPayment(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestRevisionTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{RevisionStatusPending, RevisionStatusInProgress, true},
		{RevisionStatusPending, RevisionStatusRejected, true},
		{RevisionStatusPending, RevisionStatusCompleted, false},
		{RevisionStatusInProgress, RevisionStatusCompleted, true},
		{RevisionStatusInProgress, RevisionStatusRejected, true},
		{RevisionStatusCompleted, RevisionStatusInProgress, false},
		{RevisionStatusRejected, RevisionStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransitionRevision(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatusNames(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusPendingPayment))
	assert.False(t, ValidOrderStatus("DONE"))

	assert.True(t, ValidPaymentStatus(PaymentStatusRejected))
	assert.False(t, ValidPaymentStatus("SETTLED"))

	assert.True(t, ValidRevisionStatus(RevisionStatusPending))
	assert.False(t, ValidRevisionStatus("OPEN"))

	assert.True(t, ValidRole(RoleAkuntan))
	assert.False(t, ValidRole("akuntan"))
	assert.False(t, ValidRole("SUPERVISOR"))
}
