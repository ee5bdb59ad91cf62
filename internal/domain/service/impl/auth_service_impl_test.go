package impl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/dto/request"
	"github.com/fithub/fithub-onboarding/internal/security"
	"github.com/fithub/fithub-onboarding/internal/testutil/mocks"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

func setupAuthService(t *testing.T) (*authService, *mocks.MockUserRepository, *security.JWTProvider) {
	t.Helper()
	userRepo := mocks.NewMockUserRepository()
	jwtProvider := security.NewJWTProvider(&config.JWTConfig{
		Secret:               "test-secret-key-for-testing-purposes-only",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
		Issuer:               "test",
	})
	svc := NewAuthService(userRepo, jwtProvider, newTestHasher(), zaptest.NewLogger(t))
	return svc.(*authService), userRepo, jwtProvider
}

func addUser(t *testing.T, repo *mocks.MockUserRepository, email, password string, role entity.UserRole, active bool) *entity.User {
	t.Helper()
	hash, err := newTestHasher().Hash(password)
	require.NoError(t, err)
	user := &entity.User{Email: email, PasswordHash: hash, Role: role, IsActive: active}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestAuthService_Login(t *testing.T) {
	svc, repo, jwtProvider := setupAuthService(t)
	user := addUser(t, repo, "admin@fithub.test", "correct-horse", entity.RoleAdmin, true)

	resp, err := svc.Login(context.Background(), &request.LoginRequest{Email: " Admin@FitHub.test", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "admin", resp.User.Role)

	claims, err := jwtProvider.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, repo, _ := setupAuthService(t)
	addUser(t, repo, "member@example.com", "password1", entity.RoleUser, true)
	addUser(t, repo, "disabled@example.com", "password1", entity.RoleUser, false)

	tests := []struct {
		name    string
		req     request.LoginRequest
		wantErr *apperrors.AppError
	}{
		{"unknown email", request.LoginRequest{Email: "nobody@example.com", Password: "password1"}, apperrors.ErrInvalidCredentials},
		{"wrong password", request.LoginRequest{Email: "member@example.com", Password: "password2"}, apperrors.ErrInvalidCredentials},
		{"inactive", request.LoginRequest{Email: "disabled@example.com", Password: "password1"}, apperrors.ErrAccountInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			if !apperrors.Is(err, tt.wantErr) {
				t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	svc, repo, jwtProvider := setupAuthService(t)
	user := addUser(t, repo, "member@example.com", "password1", entity.RoleUser, true)

	refresh, _, err := jwtProvider.GenerateRefreshToken(user)
	require.NoError(t, err)

	resp, err := svc.RefreshToken(context.Background(), &request.RefreshTokenRequest{RefreshToken: refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)

	// an access token is not accepted as a refresh token
	_, err = svc.RefreshToken(context.Background(), &request.RefreshTokenRequest{RefreshToken: resp.AccessToken})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.RefreshToken(context.Background(), &request.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestAuthService_RefreshToken_UnknownUser(t *testing.T) {
	svc, _, jwtProvider := setupAuthService(t)

	refresh, _, err := jwtProvider.GenerateRefreshToken(&entity.User{ID: 42, Email: "gone@example.com"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), &request.RefreshTokenRequest{RefreshToken: refresh})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestAuthService_Me(t *testing.T) {
	svc, repo, _ := setupAuthService(t)
	user := addUser(t, repo, "member@example.com", "password1", entity.RoleUser, true)

	me, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "member@example.com", me.Email)

	_, err = svc.Me(context.Background(), 999)
	assert.True(t, apperrors.Is(err, apperrors.ErrUserNotFound))
}
