package handler

import (
	"github.com/gin-gonic/gin"

	"regcheck/internal/service"
)

// StatsHandler handles stats endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats handles GET /api/v1/stats. Admins and reviewers see tenant-wide
// counts; members see counts for the documents they uploaded.
func (h *StatsHandler) GetStats(c *gin.Context) {
	tenantID, userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	stats, err := h.statsService.GetStats(c.Request.Context(), tenantID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}
