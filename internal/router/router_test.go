package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"regcheck/internal/domain"
	"regcheck/internal/handler"
	"regcheck/internal/router"
	"regcheck/internal/service"
	"regcheck/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter() (*gin.Engine, *mocks.MockAuthService, *mocks.MockDocumentService) {
	authSvc := new(mocks.MockAuthService)
	docSvc := new(mocks.MockDocumentService)
	r := router.Setup(authSvc, []string{"*"}, router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		User:     handler.NewUserHandler(new(mocks.MockUserService)),
		Document: handler.NewDocumentHandler(docSvc),
		Verify:   handler.NewVerifyHandler(docSvc),
		Stats:    handler.NewStatsHandler(new(mocks.MockStatsService)),
		Health:   handler.NewHealthHandler(nil),
	})
	return r, authSvc, docSvc
}

func TestSetup_Healthz(t *testing.T) {
	r, _, _ := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetup_ProtectedRequiresToken(t *testing.T) {
	r, _, _ := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/documents", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetup_ReviewRequiresReviewerRole(t *testing.T) {
	r, authSvc, docSvc := setupRouter()

	authSvc.On("ValidateToken", "member-token").Return(&service.Claims{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Role:     domain.RoleMember,
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/documents/"+uuid.New().String()+"/review", http.NoBody)
	req.Header.Set("Authorization", "Bearer member-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	docSvc.AssertNotCalled(t, "Review")
}

func TestSetup_DocumentRouteReachesHandler(t *testing.T) {
	r, authSvc, docSvc := setupRouter()

	tenantID := uuid.New()
	docID := uuid.New()
	authSvc.On("ValidateToken", "reviewer-token").Return(&service.Claims{
		TenantID: tenantID,
		UserID:   uuid.New(),
		Role:     domain.RoleReviewer,
	}, nil)
	docSvc.On("GetByID", mock.Anything, tenantID, docID).
		Return(&domain.CompanyDocument{ID: docID, TenantID: tenantID}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/documents/"+docID.String(), http.NoBody)
	req.Header.Set("Authorization", "Bearer reviewer-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	docSvc.AssertExpectations(t)
}
