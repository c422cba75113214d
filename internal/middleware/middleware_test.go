package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regcheck/internal/domain"
	"regcheck/internal/middleware"
	"regcheck/internal/service"
	"regcheck/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	tenantID, userID := uuid.New(), uuid.New()
	mockAuth.On("ValidateToken", "valid-token").Return(&service.Claims{
		TenantID: tenantID,
		UserID:   userID,
		Email:    "user@test.com",
		Role:     domain.RoleReviewer,
	}, nil)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(mockAuth))
	r.GET("/test", func(c *gin.Context) {
		tid, _ := middleware.GetTenantID(c)
		uid, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"tenant_id": tid, "user_id": uid, "role": middleware.GetRole(c)})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Authorization", "Bearer valid-token")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, tenantID.String(), resp["tenant_id"])
	assert.Equal(t, userID.String(), resp["user_id"])
	assert.Equal(t, "reviewer", resp["role"])
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"invalid token", "Bearer bad-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mocks.MockAuthService)
			mockAuth.On("ValidateToken", "bad-token").Return(nil, errors.New("expired"))

			r := gin.New()
			r.Use(middleware.AuthMiddleware(mockAuth))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role domain.UserRole
		want int
	}{
		{"admin allowed", domain.RoleAdmin, http.StatusOK},
		{"reviewer allowed", domain.RoleReviewer, http.StatusOK},
		{"member forbidden", domain.RoleMember, http.StatusForbidden},
		{"no role", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(middleware.ContextKeyRole, tt.role)
				}
				c.Next()
			})
			r.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer))
			r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://app.example.com"}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodOptions, "/test", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORS_Wildcard(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"*"}))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-123", w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}
