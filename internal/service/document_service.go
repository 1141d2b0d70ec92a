package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type UploadDocumentRequest struct {
	OrderID     string `json:"order_id" binding:"required"`
	FileName    string `json:"file_name" binding:"required"`
	FileURL     string `json:"file_url" binding:"required"`
	ContentType string `json:"content_type"`
	IsResult    bool   `json:"is_result"`
}

type DocumentResponse struct {
	ID           string `json:"id"`
	OrderID      string `json:"order_id"`
	UploaderID   string `json:"uploader_id"`
	UploaderName string `json:"uploader_name"`
	FileName     string `json:"file_name"`
	FileURL      string `json:"file_url"`
	ContentType  string `json:"content_type"`
	IsResult     bool   `json:"is_result"`
	CreatedAt    string `json:"created_at"`
}

// DocumentService manages order document metadata. Marking a document as a
// result deliverable is restricted to accountants and admins.
type DocumentService interface {
	Upload(ctx context.Context, uploaderID, uploaderRole string, req UploadDocumentRequest) (DocumentResponse, error)
	ListByOrder(ctx context.Context, orderID string) ([]DocumentResponse, error)
	Delete(ctx context.Context, id string, actorID, actorRole string) error
}

type documentService struct {
	repo      repository.DocumentRepository
	orderRepo repository.OrderRepository
	activity  ActivityService
}

func NewDocumentService(
	repo repository.DocumentRepository,
	orderRepo repository.OrderRepository,
	activity ActivityService,
) DocumentService {
	return &documentService{repo: repo, orderRepo: orderRepo, activity: activity}
}

func toDocumentResponse(d *model.Document) DocumentResponse {
	resp := DocumentResponse{
		ID:          d.ID.String(),
		OrderID:     d.OrderID.String(),
		UploaderID:  d.UploaderID.String(),
		FileName:    d.FileName,
		FileURL:     d.FileURL,
		ContentType: d.ContentType,
		IsResult:    d.IsResult,
		CreatedAt:   d.CreatedAt.Format(time.RFC3339),
	}
	if d.Uploader != nil {
		resp.UploaderName = d.Uploader.Username
	}
	return resp
}

func (s *documentService) Upload(ctx context.Context, uploaderID, uploaderRole string, req UploadDocumentRequest) (DocumentResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return DocumentResponse{}, apperr.Validation("invalid order id")
	}

	uid, err := uuid.Parse(uploaderID)
	if err != nil {
		return DocumentResponse{}, apperr.Validation("invalid user id")
	}

	if req.IsResult && uploaderRole != model.RoleAkuntan && uploaderRole != model.RoleAdmin {
		return DocumentResponse{}, apperr.Validation("only accountants can upload result documents")
	}

	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, apperr.NotFound("order not found")
		}
		return DocumentResponse{}, fmt.Errorf("database error: %w", err)
	}

	doc := &model.Document{
		OrderID:     orderID,
		UploaderID:  uid,
		FileName:    req.FileName,
		FileURL:     req.FileURL,
		ContentType: req.ContentType,
		IsResult:    req.IsResult,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return DocumentResponse{}, fmt.Errorf("failed to create document: %w", err)
	}

	s.activity.Record(ctx, uploaderID, model.ActionUploadDocument, doc.ID.String(), req.FileName, map[string]interface{}{
		"order_id":  orderID.String(),
		"is_result": req.IsResult,
	})

	return toDocumentResponse(doc), nil
}

func (s *documentService) ListByOrder(ctx context.Context, orderID string) ([]DocumentResponse, error) {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validation("invalid order id")
	}

	docs, err := s.repo.ListByOrder(ctx, oid)
	if err != nil {
		return nil, err
	}

	res := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		res = append(res, toDocumentResponse(&docs[i]))
	}

	return res, nil
}

// Delete removes a document. Non-admins may only remove their own uploads.
func (s *documentService) Delete(ctx context.Context, id string, actorID, actorRole string) error {
	docID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid document id")
	}

	doc, err := s.repo.FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("document not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if actorRole != model.RoleAdmin && doc.UploaderID.String() != actorID {
		return apperr.NotFound("document not found")
	}

	if err := s.repo.Delete(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.activity.Record(ctx, actorID, model.ActionDeleteDocument, docID.String(), doc.FileName, map[string]interface{}{
		"order_id": doc.OrderID.String(),
	})

	return nil
}
