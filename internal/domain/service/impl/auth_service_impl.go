package impl

import (
	"context"

	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/dto/request"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/security"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

var errInvalidToken = apperrors.ErrUnauthorized.WithMessage("invalid or expired token")

// authService implements service.AuthService. Refresh tokens are stateless
// signed JWTs; nothing is stored per session.
type authService struct {
	userRepo       repository.UserRepository
	jwtProvider    *security.JWTProvider
	passwordHasher *security.PasswordHasher
	logger         *zap.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(
	userRepo repository.UserRepository,
	jwtProvider *security.JWTProvider,
	passwordHasher *security.PasswordHasher,
	logger *zap.Logger,
) service.AuthService {
	return &authService{
		userRepo:       userRepo,
		jwtProvider:    jwtProvider,
		passwordHasher: passwordHasher,
		logger:         logger.Named("auth"),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	// unknown email and wrong password look the same to the caller
	if user == nil || !s.passwordHasher.Verify(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	s.logger.Debug("user logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return s.generateAuthResponse(user)
}

func (s *authService) RefreshToken(ctx context.Context, req *request.RefreshTokenRequest) (*response.AuthResponse, error) {
	userID, err := s.jwtProvider.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, errInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidToken
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	return s.generateAuthResponse(user)
}

func (s *authService) Me(ctx context.Context, userID uint) (*response.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	resp := response.NewUserResponse(user)
	return &resp, nil
}

func (s *authService) generateAuthResponse(user *entity.User) (*response.AuthResponse, error) {
	accessToken, err := s.jwtProvider.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := s.jwtProvider.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &response.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.jwtProvider.GetAccessTokenDuration(),
		User:         response.NewUserResponse(user),
	}, nil
}
