package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=ADMIN AKUNTAN KLIEN"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN AKUNTAN KLIEN"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// DTO for returning User without exposing sensitive data
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, role string, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string, actorID string) error
}

type userService struct {
	repo         repository.UserRepository
	orderRepo    repository.OrderRepository
	paymentRepo  repository.PaymentRepository
	documentRepo repository.DocumentRepository
	revisionRepo repository.RevisionRepository
	activityRepo repository.ActivityRepository
	txManager    repository.TransactionManager
	activity     ActivityService
}

// NewUserService returns a new instance of UserService. The order, payment,
// document, revision and activity repositories participate in the user
// cascade delete.
func NewUserService(
	repo repository.UserRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	documentRepo repository.DocumentRepository,
	revisionRepo repository.RevisionRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	activity ActivityService,
) UserService {
	return &userService{
		repo:         repo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		documentRepo: documentRepo,
		revisionRepo: revisionRepo,
		activityRepo: activityRepo,
		txManager:    txManager,
		activity:     activity,
	}
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if !model.ValidRole(req.Role) {
		return nil, apperr.Validation("invalid role: must be ADMIN, AKUNTAN, or KLIEN")
	}

	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperr.Conflict("username already exists")
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
		Role:     req.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.activity.Record(ctx, user.ID.String(), model.ActionCreateUser, user.ID.String(), user.Username, map[string]interface{}{
		"role":  user.Role,
		"email": user.Email,
	})

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Validation("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Validation("invalid email or password")
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.repo.CreateRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{Token: accessToken, RefreshToken: refresh.Token}, nil
}

func (s *userService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, apperr.Validation("invalid refresh token")
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, stored.Token)
		return nil, apperr.Validation("refresh token expired")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, apperr.Validation("invalid refresh token")
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	// Rotate: the presented token is single-use
	if err := s.repo.DeleteRefreshToken(ctx, stored.Token); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.repo.CreateRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{Token: accessToken, RefreshToken: refresh.Token}, nil
}

func (s *userService) signAccessToken(user *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key"
	}

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid user id")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, role string, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, role, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapToResponse(&u))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid user id")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}

	if req.Role != "" {
		if !model.ValidRole(req.Role) {
			return nil, apperr.Validation("invalid role: must be ADMIN, AKUNTAN, or KLIEN")
		}
		user.Role = req.Role
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
			return nil, apperr.Conflict("username already exists")
		}
		user.Username = req.Username
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperr.Conflict("email already exists")
		}
		user.Email = req.Email
	}

	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return mapToResponse(user), nil
}

// DeleteUser removes the user and every dependent record in one transaction:
// activity logs, uploaded documents, the user's orders with their payments,
// documents and revisions, revisions the user requested elsewhere, and
// refresh tokens. Accountant assignments (orders and revisions) are nulled,
// not deleted. After commit no row references the user id.
func (s *userService) DeleteUser(ctx context.Context, id string, actorID string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid user id")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.activityRepo.DeleteByUser(txCtx, userID); err != nil {
			return fmt.Errorf("failed to delete activity logs: %w", err)
		}

		if err := s.documentRepo.DeleteByUploader(txCtx, userID); err != nil {
			return fmt.Errorf("failed to delete uploaded documents: %w", err)
		}

		orderIDs, err := s.orderRepo.FindIDsByClient(txCtx, userID)
		if err != nil {
			return fmt.Errorf("failed to list client orders: %w", err)
		}

		if err := s.paymentRepo.DeleteByOrderIDs(txCtx, orderIDs); err != nil {
			return fmt.Errorf("failed to delete order payments: %w", err)
		}
		if err := s.documentRepo.DeleteByOrderIDs(txCtx, orderIDs); err != nil {
			return fmt.Errorf("failed to delete order documents: %w", err)
		}
		if err := s.revisionRepo.DeleteByOrderIDs(txCtx, orderIDs); err != nil {
			return fmt.Errorf("failed to delete order revisions: %w", err)
		}
		if err := s.orderRepo.DeleteByIDs(txCtx, orderIDs); err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}

		// Revisions the user requested against orders that survive
		if err := s.revisionRepo.DeleteByRequester(txCtx, userID); err != nil {
			return fmt.Errorf("failed to delete requested revisions: %w", err)
		}

		// Null out accountant assignments instead of deleting the work
		if err := s.orderRepo.ClearAccountant(txCtx, userID); err != nil {
			return fmt.Errorf("failed to unassign orders: %w", err)
		}
		if err := s.revisionRepo.ClearAssignee(txCtx, userID); err != nil {
			return fmt.Errorf("failed to unassign revisions: %w", err)
		}

		if err := s.repo.DeleteRefreshTokensByUser(txCtx, userID); err != nil {
			return fmt.Errorf("failed to delete refresh tokens: %w", err)
		}

		if err := s.repo.Delete(txCtx, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, actorID, model.ActionDeleteUser, userID.String(), user.Username, map[string]interface{}{
		"role": user.Role,
	})

	return nil
}
