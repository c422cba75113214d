package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regcheck/internal/service"
)

// UserHandler handles user management endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create handles POST /api/v1/users (admin only).
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, user)
}

// Me handles GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), tenantID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, user)
}
