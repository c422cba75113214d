package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regcheck/internal/service"
)

// VerifyHandler validates text that was extracted outside this service.
type VerifyHandler struct {
	documentService service.DocumentService
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(documentService service.DocumentService) *VerifyHandler {
	return &VerifyHandler{documentService: documentService}
}

// VerifyText handles POST /api/v1/verify/text
// Nothing is stored; the validation result is returned directly.
func (h *VerifyHandler) VerifyText(c *gin.Context) {
	if _, _, _, ok := extractAuthContext(c); !ok {
		return
	}

	var input service.VerifyTextInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.documentService.VerifyText(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
