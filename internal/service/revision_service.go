package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type RequestRevisionRequest struct {
	OrderID     string `json:"order_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateRevisionStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	ResolutionNote string `json:"resolution_note"`
}

type RevisionResponse struct {
	ID             string  `json:"id"`
	OrderID        string  `json:"order_id"`
	RequestedBy    string  `json:"requested_by"`
	RequesterName  string  `json:"requester_name"`
	AssignedTo     *string `json:"assigned_to"`
	AssigneeName   string  `json:"assignee_name"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Status         string  `json:"status"`
	ResolutionNote string  `json:"resolution_note"`
	CreatedAt      string  `json:"created_at"`
}

// RevisionService owns revision requests. Creation and the revision-count
// increment run in one transaction, and the increment is a conditional
// UPDATE so two concurrent requests cannot both slip under the cap.
type RevisionService interface {
	RequestRevision(ctx context.Context, requesterID string, req RequestRevisionRequest) (RevisionResponse, error)
	CancelRevision(ctx context.Context, id string, actorID string) error
	UpdateStatus(ctx context.Context, id string, actorID string, req UpdateRevisionStatusRequest) (RevisionResponse, error)
	ListByOrder(ctx context.Context, orderID string) ([]RevisionResponse, error)
}

type revisionService struct {
	repo      repository.RevisionRepository
	orderRepo repository.OrderRepository
	txManager repository.TransactionManager
	activity  ActivityService
	hub       *ws.Hub
}

func NewRevisionService(
	repo repository.RevisionRepository,
	orderRepo repository.OrderRepository,
	txManager repository.TransactionManager,
	activity ActivityService,
	hub *ws.Hub,
) RevisionService {
	return &revisionService{
		repo:      repo,
		orderRepo: orderRepo,
		txManager: txManager,
		activity:  activity,
		hub:       hub,
	}
}

func toRevisionResponse(r *model.Revision) RevisionResponse {
	resp := RevisionResponse{
		ID:             r.ID.String(),
		OrderID:        r.OrderID.String(),
		RequestedBy:    r.RequestedBy.String(),
		Title:          r.Title,
		Description:    r.Description,
		Status:         r.Status,
		ResolutionNote: r.ResolutionNote,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}

	if r.Requester != nil {
		resp.RequesterName = r.Requester.Username
	}
	if r.AssignedTo != nil {
		id := r.AssignedTo.String()
		resp.AssignedTo = &id
	}
	if r.Assignee != nil {
		resp.AssigneeName = r.Assignee.Username
	}

	return resp
}

// RequestRevision creates a PENDING revision if the order's cap allows it.
// The conditional increment decides: zero affected rows means either the
// cap was hit or the order does not exist, and nothing is persisted.
func (s *revisionService) RequestRevision(ctx context.Context, requesterID string, req RequestRevisionRequest) (RevisionResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return RevisionResponse{}, apperr.Validation("invalid order id")
	}

	rid, err := uuid.Parse(requesterID)
	if err != nil {
		return RevisionResponse{}, apperr.Validation("invalid user id")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RevisionResponse{}, apperr.NotFound("order not found")
		}
		return RevisionResponse{}, fmt.Errorf("database error: %w", err)
	}

	revision := &model.Revision{
		OrderID:     orderID,
		RequestedBy: rid,
		AssignedTo:  order.AccountantID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.RevisionStatusPending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		ok, err := s.orderRepo.IncrementRevisionCount(txCtx, orderID, model.MaxRevisions)
		if err != nil {
			return fmt.Errorf("failed to increment revision count: %w", err)
		}
		if !ok {
			return apperr.InvalidState(
				fmt.Sprintf("order already has the maximum of %d revision requests", model.MaxRevisions))
		}

		if err := s.repo.Create(txCtx, revision); err != nil {
			return fmt.Errorf("failed to create revision: %w", err)
		}

		return nil
	})
	if err != nil {
		return RevisionResponse{}, err
	}

	s.activity.Record(ctx, requesterID, model.ActionRequestRevision, revision.ID.String(), req.Title, map[string]interface{}{
		"order_id": orderID.String(),
	})
	if s.hub != nil {
		s.hub.BroadcastEvent("revision.requested", map[string]interface{}{
			"revision_id": revision.ID.String(),
			"order_id":    orderID.String(),
		})
	}

	return toRevisionResponse(revision), nil
}

// CancelRevision deletes a revision while it is still PENDING, paired with
// the revision-count decrement in the same transaction. Any other status is
// a distinguishable invalid-state error.
func (s *revisionService) CancelRevision(ctx context.Context, id string, actorID string) error {
	revisionID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid revision id")
	}

	revision, err := s.repo.FindByID(ctx, revisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("revision not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if revision.Status != model.RevisionStatusPending {
		return apperr.InvalidState("only pending revisions can be cancelled (current: " + revision.Status + ")")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, revisionID); err != nil {
			return fmt.Errorf("failed to delete revision: %w", err)
		}
		if err := s.orderRepo.DecrementRevisionCount(txCtx, revision.OrderID); err != nil {
			return fmt.Errorf("failed to decrement revision count: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, actorID, model.ActionCancelRevision, revisionID.String(), revision.Title, map[string]interface{}{
		"order_id": revision.OrderID.String(),
	})

	return nil
}

func (s *revisionService) UpdateStatus(ctx context.Context, id string, actorID string, req UpdateRevisionStatusRequest) (RevisionResponse, error) {
	if !model.ValidRevisionStatus(req.Status) {
		return RevisionResponse{}, apperr.Validation("unknown revision status: " + req.Status)
	}

	revisionID, err := uuid.Parse(id)
	if err != nil {
		return RevisionResponse{}, apperr.Validation("invalid revision id")
	}

	revision, err := s.repo.FindByID(ctx, revisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RevisionResponse{}, apperr.NotFound("revision not found")
		}
		return RevisionResponse{}, fmt.Errorf("database error: %w", err)
	}

	if !model.CanTransitionRevision(revision.Status, req.Status) {
		return RevisionResponse{}, apperr.InvalidState(
			fmt.Sprintf("revision cannot move from %s to %s", revision.Status, req.Status))
	}

	from := revision.Status
	revision.Status = req.Status
	if req.ResolutionNote != "" {
		revision.ResolutionNote = req.ResolutionNote
	}

	if err := s.repo.Update(ctx, revision); err != nil {
		return RevisionResponse{}, fmt.Errorf("failed to update revision: %w", err)
	}

	s.activity.Record(ctx, actorID, model.ActionUpdateRevisionStatus, revision.ID.String(), revision.Title, map[string]interface{}{
		"from": from,
		"to":   req.Status,
	})

	return toRevisionResponse(revision), nil
}

func (s *revisionService) ListByOrder(ctx context.Context, orderID string) ([]RevisionResponse, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validation("invalid order id")
	}

	revisions, err := s.repo.ListByOrder(ctx, oid)
	if err != nil {
		return nil, err
	}

	res := make([]RevisionResponse, 0, len(revisions))
	for i := range revisions {
		res = append(res, toRevisionResponse(&revisions[i]))
	}

	return res, nil
}
