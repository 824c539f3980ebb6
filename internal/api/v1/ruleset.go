package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendalytics/vendalytics/internal/api/dto"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/logger"
	"github.com/vendalytics/vendalytics/internal/service"
	"github.com/vendalytics/vendalytics/internal/types"
)

type RuleSetHandler struct {
	service service.RuleSetService
	log     *logger.Logger
}

func NewRuleSetHandler(service service.RuleSetService, log *logger.Logger) *RuleSetHandler {
	return &RuleSetHandler{service: service, log: log}
}

func (h *RuleSetHandler) CreateRuleSet(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateRuleSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind json", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.service.CreateRuleSet(ctx, &req)
	if err != nil {
		h.log.Errorw("failed to create rule set", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *RuleSetHandler) GetRuleSet(c *gin.Context) {
	ctx := c.Request.Context()

	response, err := h.service.GetRuleSet(ctx, c.Param("id"))
	if err != nil {
		h.log.Errorw("failed to get rule set", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *RuleSetHandler) ListRuleSets(c *gin.Context) {
	ctx := c.Request.Context()

	var filter types.RuleSetFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.log.Errorw("failed to bind query", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.service.ListRuleSets(ctx, &filter)
	if err != nil {
		h.log.Errorw("failed to list rule sets", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *RuleSetHandler) UpdateRuleSet(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateRuleSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind json", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.service.UpdateRuleSet(ctx, c.Param("id"), &req)
	if err != nil {
		h.log.Errorw("failed to update rule set", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *RuleSetHandler) DeleteRuleSet(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.service.DeleteRuleSet(ctx, c.Param("id")); err != nil {
		h.log.Errorw("failed to delete rule set", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rule set deleted"})
}
