package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendalytics/vendalytics/internal/api/dto"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/logger"
	"github.com/vendalytics/vendalytics/internal/service"
)

type RFVHandler struct {
	service service.RFVService
	log     *logger.Logger
}

func NewRFVHandler(service service.RFVService, log *logger.Logger) *RFVHandler {
	return &RFVHandler{service: service, log: log}
}

// AnalyzeCustomers runs the RFV analysis for the optional branch filter
func (h *RFVHandler) AnalyzeCustomers(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RFVAnalysisRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Errorw("failed to bind query", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.service.AnalyzeCustomers(ctx, &req)
	if err != nil {
		h.log.Errorw("failed to run rfv analysis", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
