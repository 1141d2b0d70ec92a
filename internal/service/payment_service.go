package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"backend/internal/mailer"
	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type SubmitPaymentRequest struct {
	OrderID  string `json:"order_id" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
	Method   string `json:"payment_method"`
	ProofURL string `json:"proof_url"`
}

type ReviewPaymentRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
	Note   string `json:"note"`
}

type PaymentResponse struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"order_id"`
	Amount       string  `json:"amount"`
	Method       string  `json:"payment_method"`
	Status       string  `json:"status"`
	ProofURL     string  `json:"proof_url"`
	ApprovedBy   *string `json:"approved_by"`
	ApproverName string  `json:"approver_name"`
	ApprovedAt   *string `json:"approved_at"`
	Note         string  `json:"note"`
	CreatedAt    string  `json:"created_at"`
}

// PaymentService owns the payment proof/approval lifecycle. Review runs the
// payment and order status writes in one transaction so the pair is observed
// together or not at all.
type PaymentService interface {
	SubmitPayment(ctx context.Context, actorID string, req SubmitPaymentRequest) (PaymentResponse, error)
	ReviewPayment(ctx context.Context, id string, adminID string, req ReviewPaymentRequest) (PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (PaymentResponse, error)
	ListPayments(ctx context.Context, status string, page, limit int) ([]PaymentResponse, int64, error)
}

type paymentService struct {
	repo      repository.PaymentRepository
	orderRepo repository.OrderRepository
	txManager repository.TransactionManager
	activity  ActivityService
	mail      mailer.Mailer
	hub       *ws.Hub
}

func NewPaymentService(
	repo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	txManager repository.TransactionManager,
	activity ActivityService,
	mail mailer.Mailer,
	hub *ws.Hub,
) PaymentService {
	return &paymentService{
		repo:      repo,
		orderRepo: orderRepo,
		txManager: txManager,
		activity:  activity,
		mail:      mail,
		hub:       hub,
	}
}

func toPaymentResponse(p *model.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:        p.ID.String(),
		OrderID:   p.OrderID.String(),
		Amount:    p.Amount.StringFixed(2),
		Method:    p.Method,
		Status:    p.Status,
		ProofURL:  p.ProofURL,
		Note:      p.Note,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}

	if p.ApprovedBy != nil {
		id := p.ApprovedBy.String()
		resp.ApprovedBy = &id
	}
	if p.Approver != nil {
		resp.ApproverName = p.Approver.Username
	}
	if p.ApprovedAt != nil {
		at := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &at
	}

	return resp
}

// SubmitPayment records the client's transfer for an order. A proof URL
// moves the payment straight to PENDING_APPROVAL; without one it stays
// UNPAID. Resubmission after rejection re-enters PENDING_APPROVAL.
func (s *paymentService) SubmitPayment(ctx context.Context, actorID string, req SubmitPaymentRequest) (PaymentResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return PaymentResponse{}, apperr.Validation("invalid order id")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return PaymentResponse{}, apperr.Validation("amount must be a non-negative decimal")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentResponse{}, apperr.NotFound("order not found")
		}
		return PaymentResponse{}, fmt.Errorf("database error: %w", err)
	}

	if order.Status != model.OrderStatusPendingPayment {
		return PaymentResponse{}, apperr.InvalidState("order is not awaiting payment")
	}

	status := model.PaymentStatusUnpaid
	if req.ProofURL != "" {
		status = model.PaymentStatusPendingApproval
	}

	var payment *model.Payment
	existing, err := s.repo.FindByOrderID(ctx, orderID)
	switch {
	case err == nil:
		// One payment per order: a resubmission updates the existing row
		if !model.CanTransitionPayment(existing.Status, status) && existing.Status != status {
			return PaymentResponse{}, apperr.InvalidState("payment is already " + existing.Status)
		}
		existing.Amount = amount
		existing.Method = req.Method
		existing.ProofURL = req.ProofURL
		existing.Status = status
		if err := s.repo.Update(ctx, existing); err != nil {
			return PaymentResponse{}, fmt.Errorf("failed to update payment: %w", err)
		}
		payment = existing
	case errors.Is(err, gorm.ErrRecordNotFound):
		payment = &model.Payment{
			OrderID:  orderID,
			Amount:   amount,
			Method:   req.Method,
			ProofURL: req.ProofURL,
			Status:   status,
		}
		if err := s.repo.Create(ctx, payment); err != nil {
			return PaymentResponse{}, fmt.Errorf("failed to create payment: %w", err)
		}
	default:
		return PaymentResponse{}, fmt.Errorf("database error: %w", err)
	}

	s.activity.Record(ctx, actorID, model.ActionSubmitPayment, payment.ID.String(), "", map[string]interface{}{
		"order_id": orderID.String(),
		"amount":   payment.Amount.StringFixed(2),
		"status":   payment.Status,
	})
	s.broadcast("payment.submitted", map[string]interface{}{
		"payment_id": payment.ID.String(),
		"order_id":   orderID.String(),
		"status":     payment.Status,
	})

	return toPaymentResponse(payment), nil
}

// ReviewPayment approves or rejects a PENDING_APPROVAL payment. Approval
// moves the order to IN_PROGRESS, rejection returns it to PENDING_PAYMENT;
// both writes commit atomically. Any other payment state is rejected
// without touching either row.
func (s *paymentService) ReviewPayment(ctx context.Context, id string, adminID string, req ReviewPaymentRequest) (PaymentResponse, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return PaymentResponse{}, apperr.Validation("invalid payment id")
	}

	approverID, err := uuid.Parse(adminID)
	if err != nil {
		return PaymentResponse{}, apperr.Validation("invalid user id")
	}

	var payment *model.Payment
	var order *model.Order
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		payment, err = s.repo.FindByID(txCtx, paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if payment.Status != model.PaymentStatusPendingApproval {
			return apperr.InvalidState("payment is not pending approval (current: " + payment.Status + ")")
		}

		order, err = s.orderRepo.FindByID(txCtx, payment.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load parent order: %w", err)
		}

		now := time.Now()
		payment.ApprovedBy = &approverID
		payment.ApprovedAt = &now
		payment.Note = req.Note

		var orderStatus string
		if req.Action == "approve" {
			payment.Status = model.PaymentStatusApproved
			orderStatus = model.OrderStatusInProgress
		} else {
			payment.Status = model.PaymentStatusRejected
			orderStatus = model.OrderStatusPendingPayment
		}

		if err := s.repo.Update(txCtx, payment); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		if order.Status != orderStatus {
			if !model.CanTransitionOrder(order.Status, orderStatus) {
				return apperr.InvalidState(
					fmt.Sprintf("order cannot move from %s to %s", order.Status, orderStatus))
			}
			if err := s.orderRepo.UpdateStatus(txCtx, order.ID, orderStatus); err != nil {
				return fmt.Errorf("failed to update order status: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return PaymentResponse{}, err
	}

	action := model.ActionApprovePayment
	event := "payment.approved"
	if req.Action == "reject" {
		action = model.ActionRejectPayment
		event = "payment.rejected"
	}

	s.activity.Record(ctx, adminID, action, payment.ID.String(), "", map[string]interface{}{
		"order_id": payment.OrderID.String(),
		"note":     req.Note,
	})
	s.broadcast(event, map[string]interface{}{
		"payment_id": payment.ID.String(),
		"order_id":   payment.OrderID.String(),
	})

	if order != nil && order.Client != nil {
		if req.Action == "approve" {
			s.sendMail(order.Client.Email, "Pembayaran diterima",
				fmt.Sprintf("Pembayaran untuk pesanan %s telah disetujui. Pengerjaan dimulai.", order.ID))
		} else {
			s.sendMail(order.Client.Email, "Pembayaran ditolak",
				fmt.Sprintf("Pembayaran untuk pesanan %s ditolak. Silakan unggah ulang bukti transfer. %s", order.ID, req.Note))
		}
	}

	return toPaymentResponse(payment), nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (PaymentResponse, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return PaymentResponse{}, apperr.Validation("invalid payment id")
	}

	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentResponse{}, apperr.NotFound("payment not found")
		}
		return PaymentResponse{}, fmt.Errorf("database error: %w", err)
	}

	return toPaymentResponse(payment), nil
}

func (s *paymentService) ListPayments(ctx context.Context, status string, page, limit int) ([]PaymentResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if status != "" && !model.ValidPaymentStatus(status) {
		return nil, 0, apperr.Validation("unknown payment status filter")
	}

	payments, total, err := s.repo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		res = append(res, toPaymentResponse(&payments[i]))
	}

	return res, total, nil
}

func (s *paymentService) broadcast(event string, data map[string]interface{}) {
	if s.hub != nil {
		s.hub.BroadcastEvent(event, data)
	}
}

func (s *paymentService) sendMail(to, subject, body string) {
	if s.mail == nil || to == "" {
		return
	}
	if err := s.mail.Send(mailer.Message{To: to, Subject: subject, Body: body}); err != nil {
		log.Printf("failed to send notification email to %s: %v", to, err)
	}
}
