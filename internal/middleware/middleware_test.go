package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/security"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	return gin.New()
}

func newTestJWTProvider() *security.JWTProvider {
	return security.NewJWTProvider(&config.JWTConfig{
		Secret:               "test-secret-key-for-testing",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
		Issuer:               "test",
	})
}

type authFixture struct {
	provider *security.JWTProvider
	security *security.SecurityService
	auth     *AuthMiddleware
}

func newAuthFixture() *authFixture {
	provider := newTestJWTProvider()
	sec := security.NewSecurityService(provider)
	return &authFixture{provider: provider, security: sec, auth: NewAuthMiddleware(provider, sec)}
}

func (f *authFixture) token(t testing.TB, role entity.UserRole) string {
	t.Helper()
	token, err := f.provider.GenerateAccessToken(&entity.User{ID: 7, Email: "reviewer@fithub.test", Role: role})
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	return token
}

func serve(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ApiResponse[any] {
	t.Helper()
	var body response.ApiResponse[any]
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	if body.Success {
		t.Error("error response has success = true")
	}
	return body
}

func TestRequestID(t *testing.T) {
	router := newTestRouter()
	router.Use(RequestID())
	router.GET("/applications", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"caller id kept", "review-batch-42", true},
		{"too long replaced", strings.Repeat("a", 65), false},
		{"control characters replaced", "abc\x01def", false},
		{"spaces replaced", "two words", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.incoming != "" {
				headers[RequestIDHeader] = tt.incoming
			}
			w := serve(router, http.MethodGet, "/applications", headers)

			got := w.Header().Get(RequestIDHeader)
			if got == "" {
				t.Fatal("RequestID header not set")
			}
			if w.Body.String() != got {
				t.Errorf("context id = %q, header = %q", w.Body.String(), got)
			}
			if (got == tt.incoming) != tt.keep {
				t.Errorf("RequestID = %q, keep incoming %q = %v", got, tt.incoming, tt.keep)
			}
		})
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := GetRequestID(c); got != "" {
		t.Errorf("GetRequestID() = %q, want empty", got)
	}
	c.Set(RequestIDKey, 123)
	if got := GetRequestID(c); got != "" {
		t.Errorf("GetRequestID() with wrong type = %q, want empty", got)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"wildcard reflects origin", nil, http.MethodGet, "https://admin.fithub.app", http.StatusOK, "https://admin.fithub.app"},
		{"preflight short-circuits", nil, http.MethodOptions, "https://admin.fithub.app", http.StatusNoContent, "https://admin.fithub.app"},
		{"listed origin", []string{"https://fithub.app"}, http.MethodGet, "https://fithub.app", http.StatusOK, "https://fithub.app"},
		{"unlisted origin still served", []string{"https://fithub.app"}, http.MethodGet, "https://evil.example", http.StatusOK, ""},
		{"no origin header", []string{"https://fithub.app"}, http.MethodGet, "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter()
			router.Use(CORS(CORSConfigFor(tt.origins)))
			router.GET("/api/v1/registrations/status", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			headers := map[string]string{}
			if tt.origin != "" {
				headers["Origin"] = tt.origin
			}
			w := serve(router, tt.method, "/api/v1/registrations/status", headers)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %v, want %v", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
			if tt.method == http.MethodOptions {
				if got := w.Header().Get("Access-Control-Max-Age"); got != "43200" {
					t.Errorf("Max-Age = %q, want 43200", got)
				}
				if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
					t.Error("Allow-Headers missing Authorization")
				}
			}
		})
	}
}

func TestCORSConfigFor(t *testing.T) {
	if got := CORSConfigFor(nil).AllowOrigins; len(got) != 1 || got[0] != "*" {
		t.Errorf("AllowOrigins = %v, want [*]", got)
	}
	if got := CORSConfigFor([]string{"https://fithub.app"}).AllowOrigins; len(got) != 1 || got[0] != "https://fithub.app" {
		t.Errorf("AllowOrigins = %v, want [https://fithub.app]", got)
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		status  int
		level   zapcore.Level
		message string
	}{
		{"request", "/api/v1/registrations", http.StatusCreated, zapcore.InfoLevel, "request"},
		{"probe", "/ready", http.StatusOK, zapcore.DebugLevel, "probe"},
		{"failing probe", "/ready", http.StatusServiceUnavailable, zapcore.ErrorLevel, "server error"},
		{"conflict", "/api/v1/registrations", http.StatusConflict, zapcore.WarnLevel, "client error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			router := newTestRouter()
			router.Use(RequestID(), Logger(zap.New(core)))
			router.GET(tt.path, func(c *gin.Context) {
				c.Status(tt.status)
			})

			serve(router, http.MethodGet, tt.path, map[string]string{RequestIDHeader: "req-1"})

			entries := logs.AllUntimed()
			if len(entries) != 1 {
				t.Fatalf("logged %d entries, want 1", len(entries))
			}
			if entries[0].Level != tt.level || entries[0].Message != tt.message {
				t.Errorf("entry = %v %q, want %v %q", entries[0].Level, entries[0].Message, tt.level, tt.message)
			}
			if got := entries[0].ContextMap()["request_id"]; got != "req-1" {
				t.Errorf("request_id = %v, want req-1", got)
			}
		})
	}
}

func TestLogger_IncludesReviewer(t *testing.T) {
	f := newAuthFixture()
	core, logs := observer.New(zapcore.InfoLevel)
	router := newTestRouter()
	router.Use(Logger(zap.New(core)), f.auth.Authenticate())
	router.POST("/applications/1/approve", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	serve(router, http.MethodPost, "/applications/1/approve", map[string]string{
		"Authorization": "Bearer " + f.token(t, entity.RoleAdmin),
	})

	entries := logs.FilterMessage("request").AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("logged %d request entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["user_id"] != uint64(7) || fields["role"] != "admin" {
		t.Errorf("caller fields = %v / %v", fields["user_id"], fields["role"])
	}
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	router := newTestRouter()
	router.Use(RequestID(), Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("materializer exploded")
	})
	router.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(router, http.MethodGet, "/panic", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %v, want %v", w.Code, http.StatusInternalServerError)
	}
	body := decodeError(t, w)
	if body.Code != apperrors.CodeInternalError {
		t.Errorf("Code = %v, want %v", body.Code, apperrors.CodeInternalError)
	}
	if strings.Contains(w.Body.String(), "materializer exploded") {
		t.Error("panic value leaked into the response")
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("panic was not logged")
	}

	if w := serve(router, http.MethodGet, "/ok", nil); w.Code != http.StatusOK {
		t.Errorf("Status after panic = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	f := newAuthFixture()
	router := newTestRouter()
	router.Use(f.auth.Authenticate())
	router.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, f.security.GetCurrentClaims(c).Email)
	})

	refresh, _, err := f.provider.GenerateRefreshToken(&entity.User{ID: 7, Email: "reviewer@fithub.test"})
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"valid token", "Bearer " + f.token(t, entity.RoleUser), http.StatusOK, ""},
		{"case insensitive scheme", "BEARER " + f.token(t, entity.RoleUser), http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "authorization header required"},
		{"empty bearer", "Bearer   ", http.StatusUnauthorized, "authorization header required"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "authorization header required"},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, "invalid token"},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized, "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := serve(router, http.MethodGet, "/me", headers)

			if w.Code != tt.wantStatus {
				t.Fatalf("Status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if w.Body.String() != "reviewer@fithub.test" {
					t.Errorf("claims email = %q", w.Body.String())
				}
				return
			}
			body := decodeError(t, w)
			if body.Code != apperrors.CodeUnauthorized || body.Message != tt.wantMsg {
				t.Errorf("body = %s / %s, want %s / %s", body.Code, body.Message, apperrors.CodeUnauthorized, tt.wantMsg)
			}
			if w.Header().Get("WWW-Authenticate") == "" {
				t.Error("WWW-Authenticate header not set")
			}
		})
	}
}

func TestAuthMiddleware_OptionalAuth(t *testing.T) {
	f := newAuthFixture()
	router := newTestRouter()
	router.Use(f.auth.OptionalAuth())
	router.GET("/status", func(c *gin.Context) {
		if f.security.IsAuthenticated(c) {
			c.String(http.StatusOK, "authenticated")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid token", "Bearer " + f.token(t, entity.RoleTrainer), "authenticated"},
		{"no token", "", "anonymous"},
		{"invalid token", "Bearer nope", "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := serve(router, http.MethodGet, "/status", headers)
			if w.Code != http.StatusOK || w.Body.String() != tt.want {
				t.Errorf("got %d %q, want 200 %q", w.Code, w.Body.String(), tt.want)
			}
		})
	}
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	f := newAuthFixture()
	router := newTestRouter()
	admin := router.Group("/admin/applications", f.auth.Authenticate(), f.auth.RequireAdmin())
	admin.GET("", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	// RequireRole on its own, without Authenticate in front
	router.GET("/unguarded", f.auth.RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		path       string
		role       entity.UserRole
		wantStatus int
		wantCode   string
	}{
		{"admin", "/admin/applications", entity.RoleAdmin, http.StatusOK, ""},
		{"trainer", "/admin/applications", entity.RoleTrainer, http.StatusForbidden, apperrors.CodeForbidden},
		{"member", "/admin/applications", entity.RoleUser, http.StatusForbidden, apperrors.CodeForbidden},
		{"no claims", "/unguarded", "", http.StatusUnauthorized, apperrors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.role != "" {
				headers["Authorization"] = "Bearer " + f.token(t, tt.role)
			}
			w := serve(router, http.MethodGet, tt.path, headers)
			if w.Code != tt.wantStatus {
				t.Fatalf("Status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if body := decodeError(t, w); body.Code != tt.wantCode {
					t.Errorf("Code = %v, want %v", body.Code, tt.wantCode)
				}
			}
		})
	}
}

func BenchmarkAuthenticate(b *testing.B) {
	f := newAuthFixture()
	router := newTestRouter()
	router.Use(f.auth.Authenticate(), f.auth.RequireAdmin())
	router.GET("/admin/applications", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/applications", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(b, entity.RoleAdmin))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
}
