package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendalytics/vendalytics/internal/api/dto"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/logger"
	"github.com/vendalytics/vendalytics/internal/service"
)

type AssociationHandler struct {
	service service.AssociationService
	log     *logger.Logger
}

func NewAssociationHandler(service service.AssociationService, log *logger.Logger) *AssociationHandler {
	return &AssociationHandler{service: service, log: log}
}

// Recalculate rebuilds the whole association table from the line-item corpus
func (h *AssociationHandler) Recalculate(c *gin.Context) {
	ctx := c.Request.Context()

	response, err := h.service.Recalculate(ctx)
	if err != nil {
		h.log.Errorw("failed to recalculate associations", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// List returns persisted association pairs, ordered by support descending
func (h *AssociationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ListAssociationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Errorw("failed to bind query", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.service.List(ctx, req.ToFilter())
	if err != nil {
		h.log.Errorw("failed to list associations", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
