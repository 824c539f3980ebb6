package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	v1 "github.com/vendalytics/vendalytics/internal/api/v1"
	"github.com/vendalytics/vendalytics/internal/rest/middleware"
)

type Handlers struct {
	RFV         *v1.RFVHandler
	Association *v1.AssociationHandler
	RuleSet     *v1.RuleSetHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RequestContext())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Analytics routes
	analytics := router.Group("/analytics")
	{
		analytics.GET("/rfv", handlers.RFV.AnalyzeCustomers)
		analytics.POST("/associations/recalculate", handlers.Association.Recalculate)
		analytics.GET("/associations", handlers.Association.List)
	}

	// Rule set routes
	ruleSets := router.Group("/rulesets")
	{
		ruleSets.POST("", handlers.RuleSet.CreateRuleSet)
		ruleSets.GET("", handlers.RuleSet.ListRuleSets)
		ruleSets.GET("/:id", handlers.RuleSet.GetRuleSet)
		ruleSets.PUT("/:id", handlers.RuleSet.UpdateRuleSet)
		ruleSets.DELETE("/:id", handlers.RuleSet.DeleteRuleSet)
	}
}
