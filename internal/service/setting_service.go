package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"gorm.io/gorm"
)

type UpsertSettingRequest struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

type SettingResponse struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updated_at"`
}

// SettingService manages admin-tunable platform settings such as bank
// account details shown on the payment page.
type SettingService interface {
	Get(ctx context.Context, key string) (SettingResponse, error)
	List(ctx context.Context) ([]SettingResponse, error)
	Upsert(ctx context.Context, actorID string, req UpsertSettingRequest) (SettingResponse, error)
}

type settingService struct {
	repo     repository.SettingRepository
	activity ActivityService
}

func NewSettingService(repo repository.SettingRepository, activity ActivityService) SettingService {
	return &settingService{repo: repo, activity: activity}
}

func toSettingResponse(s *model.Setting) SettingResponse {
	return SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *settingService) Get(ctx context.Context, key string) (SettingResponse, error) {
	setting, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SettingResponse{}, apperr.NotFound("setting not found")
		}
		return SettingResponse{}, fmt.Errorf("database error: %w", err)
	}
	return toSettingResponse(setting), nil
}

func (s *settingService) List(ctx context.Context) ([]SettingResponse, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]SettingResponse, 0, len(settings))
	for i := range settings {
		res = append(res, toSettingResponse(&settings[i]))
	}
	return res, nil
}

func (s *settingService) Upsert(ctx context.Context, actorID string, req UpsertSettingRequest) (SettingResponse, error) {
	setting := &model.Setting{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
	}

	if err := s.repo.Upsert(ctx, setting); err != nil {
		return SettingResponse{}, fmt.Errorf("failed to save setting: %w", err)
	}

	// Re-read so the response reflects the stored row, not the upsert input.
	stored, err := s.repo.GetByKey(ctx, req.Key)
	if err != nil {
		return SettingResponse{}, fmt.Errorf("failed to reload setting: %w", err)
	}

	s.activity.Record(ctx, actorID, model.ActionUpdateSetting, stored.Key, stored.Key, map[string]interface{}{
		"value": stored.Value,
	})

	return toSettingResponse(stored), nil
}
