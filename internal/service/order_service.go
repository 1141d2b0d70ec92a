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
	"gorm.io/gorm"
)

// DTOs
type CreateOrderRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	Notes     string `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignAccountantRequest struct {
	AccountantID string `json:"accountant_id" binding:"required"`
}

type OrderListFilter struct {
	Status string
	Page   int
	Limit  int
}

type OrderResponse struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	TotalAmount    string  `json:"total_amount"`
	RevisionCount  int     `json:"revision_count"`
	Notes          string  `json:"notes"`
	ClientID       string  `json:"client_id"`
	ClientName     string  `json:"client_name"`
	ServiceID      string  `json:"service_id"`
	ServiceName    string  `json:"service_name"`
	AccountantID   *string `json:"accountant_id"`
	AccountantName string  `json:"accountant_name"`
	PaymentStatus  string  `json:"payment_status"`
	CreatedAt      string  `json:"created_at"`
}

// OrderService owns the order lifecycle. All status writes pass through the
// transition table in the model package; nothing sets the column directly.
type OrderService interface {
	CreateOrder(ctx context.Context, clientID string, req CreateOrderRequest) (OrderResponse, error)
	GetOrder(ctx context.Context, id string, actorID, actorRole string) (OrderResponse, error)
	ListOrders(ctx context.Context, actorID, actorRole string, filter OrderListFilter) ([]OrderResponse, int64, error)
	UpdateStatus(ctx context.Context, id string, actorID string, req UpdateOrderStatusRequest) (OrderResponse, error)
	AssignAccountant(ctx context.Context, id string, actorID string, req AssignAccountantRequest) (OrderResponse, error)
}

type orderService struct {
	repo         repository.OrderRepository
	packageRepo  repository.ServicePackageRepository
	userRepo     repository.UserRepository
	documentRepo repository.DocumentRepository
	txManager    repository.TransactionManager
	activity     ActivityService
	mail         mailer.Mailer
	hub          *ws.Hub
}

func NewOrderService(
	repo repository.OrderRepository,
	packageRepo repository.ServicePackageRepository,
	userRepo repository.UserRepository,
	documentRepo repository.DocumentRepository,
	txManager repository.TransactionManager,
	activity ActivityService,
	mail mailer.Mailer,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		repo:         repo,
		packageRepo:  packageRepo,
		userRepo:     userRepo,
		documentRepo: documentRepo,
		txManager:    txManager,
		activity:     activity,
		mail:         mail,
		hub:          hub,
	}
}

func toOrderResponse(o *model.Order) OrderResponse {
	resp := OrderResponse{
		ID:            o.ID.String(),
		Status:        o.Status,
		TotalAmount:   o.TotalAmount.StringFixed(2),
		RevisionCount: o.RevisionCount,
		Notes:         o.Notes,
		ClientID:      o.ClientID.String(),
		ServiceID:     o.ServiceID.String(),
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}

	if o.Client != nil {
		resp.ClientName = o.Client.Username
	}
	if o.Service != nil {
		resp.ServiceName = o.Service.Name
	}
	if o.AccountantID != nil {
		id := o.AccountantID.String()
		resp.AccountantID = &id
	}
	if o.Accountant != nil {
		resp.AccountantName = o.Accountant.Username
	}
	if o.Payment != nil {
		resp.PaymentStatus = o.Payment.Status
	}

	return resp
}

// CreateOrder opens an order at PENDING_PAYMENT, snapshotting the package
// price into TotalAmount so later catalog edits never change the bill.
func (s *orderService) CreateOrder(ctx context.Context, clientID string, req CreateOrderRequest) (OrderResponse, error) {
	cid, err := uuid.Parse(clientID)
	if err != nil {
		return OrderResponse{}, apperr.Validation("invalid client id")
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return OrderResponse{}, apperr.Validation("invalid service id")
	}

	pkg, err := s.packageRepo.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, apperr.NotFound("service package not found")
		}
		return OrderResponse{}, fmt.Errorf("database error: %w", err)
	}

	if !pkg.IsActive {
		return OrderResponse{}, apperr.InvalidState("service package is no longer offered")
	}

	order := &model.Order{
		Status:      model.OrderStatusPendingPayment,
		TotalAmount: pkg.Price,
		Notes:       req.Notes,
		ClientID:    cid,
		ServiceID:   serviceID,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return OrderResponse{}, fmt.Errorf("failed to create order: %w", err)
	}

	s.activity.Record(ctx, clientID, model.ActionCreateOrder, order.ID.String(), pkg.Name, map[string]interface{}{
		"service_id":   serviceID.String(),
		"total_amount": order.TotalAmount.StringFixed(2),
	})
	s.broadcast("order.created", map[string]interface{}{
		"order_id": order.ID.String(),
		"status":   order.Status,
	})

	created, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("failed to reload order: %w", err)
	}
	return toOrderResponse(created), nil
}

func (s *orderService) GetOrder(ctx context.Context, id string, actorID, actorRole string) (OrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return OrderResponse{}, err
	}

	if err := authorizeOrderAccess(order, actorID, actorRole); err != nil {
		return OrderResponse{}, err
	}

	return toOrderResponse(order), nil
}

// ListOrders scopes results by role: clients see their own orders,
// accountants the ones assigned to them, admins everything.
func (s *orderService) ListOrders(ctx context.Context, actorID, actorRole string, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Status != "" && !model.ValidOrderStatus(filter.Status) {
		return nil, 0, apperr.Validation("unknown order status filter")
	}

	repoFilter := repository.OrderFilter{
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, 0, apperr.Validation("invalid user id")
	}

	switch actorRole {
	case model.RoleKlien:
		repoFilter.ClientID = &actorUUID
	case model.RoleAkuntan:
		repoFilter.AccountantID = &actorUUID
	case model.RoleAdmin:
		// unrestricted
	default:
		return nil, 0, apperr.Validation("unknown role")
	}

	orders, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, toOrderResponse(&orders[i]))
	}

	return res, total, nil
}

// UpdateStatus applies a guarded transition. Completion additionally
// requires at least one result document on the order, and notifies the
// client by email (best-effort).
func (s *orderService) UpdateStatus(ctx context.Context, id string, actorID string, req UpdateOrderStatusRequest) (OrderResponse, error) {
	if !model.ValidOrderStatus(req.Status) {
		return OrderResponse{}, apperr.Validation("unknown order status: " + req.Status)
	}

	order, err := s.findOrder(ctx, id)
	if err != nil {
		return OrderResponse{}, err
	}

	if !model.CanTransitionOrder(order.Status, req.Status) {
		return OrderResponse{}, apperr.InvalidState(
			fmt.Sprintf("order cannot move from %s to %s", order.Status, req.Status))
	}

	if req.Status == model.OrderStatusCompleted {
		results, err := s.documentRepo.CountResults(ctx, order.ID)
		if err != nil {
			return OrderResponse{}, fmt.Errorf("failed to count result documents: %w", err)
		}
		if results == 0 {
			return OrderResponse{}, apperr.InvalidState("order has no result document yet")
		}
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, req.Status); err != nil {
		return OrderResponse{}, fmt.Errorf("failed to update order status: %w", err)
	}

	s.activity.Record(ctx, actorID, model.ActionUpdateOrderStatus, order.ID.String(), "", map[string]interface{}{
		"from": order.Status,
		"to":   req.Status,
	})
	s.broadcast("order.status_changed", map[string]interface{}{
		"order_id": order.ID.String(),
		"from":     order.Status,
		"to":       req.Status,
	})

	if req.Status == model.OrderStatusCompleted && order.Client != nil {
		s.sendMail(order.Client.Email, "Pesanan selesai",
			fmt.Sprintf("Pesanan %s telah selesai dikerjakan. Silakan unduh hasilnya di dashboard.", order.ID))
	}

	updated, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("failed to reload order: %w", err)
	}
	return toOrderResponse(updated), nil
}

func (s *orderService) AssignAccountant(ctx context.Context, id string, actorID string, req AssignAccountantRequest) (OrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return OrderResponse{}, err
	}

	accountantID, err := uuid.Parse(req.AccountantID)
	if err != nil {
		return OrderResponse{}, apperr.Validation("invalid accountant id")
	}

	accountant, err := s.userRepo.GetByID(ctx, accountantID)
	if err != nil {
		return OrderResponse{}, apperr.NotFound("accountant not found")
	}
	if accountant.Role != model.RoleAkuntan {
		return OrderResponse{}, apperr.Validation("assignee must have role AKUNTAN")
	}

	if err := s.repo.AssignAccountant(ctx, order.ID, &accountantID); err != nil {
		return OrderResponse{}, fmt.Errorf("failed to assign accountant: %w", err)
	}

	s.activity.Record(ctx, actorID, model.ActionAssignAccountant, order.ID.String(), accountant.Username, nil)

	updated, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return OrderResponse{}, fmt.Errorf("failed to reload order: %w", err)
	}
	return toOrderResponse(updated), nil
}

func (s *orderService) findOrder(ctx context.Context, id string) (*model.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid order id")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return order, nil
}

// authorizeOrderAccess enforces role scoping on single-order reads
func authorizeOrderAccess(order *model.Order, actorID, actorRole string) error {
	switch actorRole {
	case model.RoleAdmin:
		return nil
	case model.RoleKlien:
		if order.ClientID.String() == actorID {
			return nil
		}
	case model.RoleAkuntan:
		if order.AccountantID != nil && order.AccountantID.String() == actorID {
			return nil
		}
	}
	return apperr.NotFound("order not found")
}

func (s *orderService) broadcast(event string, data map[string]interface{}) {
	if s.hub != nil {
		s.hub.BroadcastEvent(event, data)
	}
}

func (s *orderService) sendMail(to, subject, body string) {
	if s.mail == nil || to == "" {
		return
	}
	if err := s.mail.Send(mailer.Message{To: to, Subject: subject, Body: body}); err != nil {
		log.Printf("failed to send notification email to %s: %v", to, err)
	}
}
