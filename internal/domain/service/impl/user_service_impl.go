package impl

import (
	"context"

	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/domain/repository"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// userService implements service.UserService
type userService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(userRepo repository.UserRepository, logger *zap.Logger) service.UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.Named("users"),
	}
}

func (s *userService) List(ctx context.Context, page, size int) (*response.PagedResponse[response.UserResponse], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	users, total, err := s.userRepo.List(ctx, page, size)
	if err != nil {
		return nil, err
	}

	items := make([]response.UserResponse, len(users))
	for i, u := range users {
		items[i] = response.NewUserResponse(u)
	}
	paged := response.NewPagedResponse(items, page, size, total)
	return &paged, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*response.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	resp := response.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) SetActive(ctx context.Context, id uint, active bool) (*response.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	if user.IsActive != active {
		user.IsActive = active
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("account activity changed", zap.Uint("user_id", id), zap.Bool("active", active))
	}

	resp := response.NewUserResponse(user)
	return &resp, nil
}
