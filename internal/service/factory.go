package service

import (
	"github.com/vendalytics/vendalytics/internal/cache"
	"github.com/vendalytics/vendalytics/internal/config"
	"github.com/vendalytics/vendalytics/internal/domain/lineitem"
	"github.com/vendalytics/vendalytics/internal/domain/product"
	"github.com/vendalytics/vendalytics/internal/domain/productpair"
	"github.com/vendalytics/vendalytics/internal/domain/ruleset"
	"github.com/vendalytics/vendalytics/internal/domain/salesfact"
	"github.com/vendalytics/vendalytics/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Repositories
	RuleSetRepo     ruleset.Repository
	SalesFactRepo   salesfact.Repository
	LineItemRepo    lineitem.Repository
	ProductRepo     product.Repository
	ProductPairRepo productpair.Repository
}

// NewServiceParams assembles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	ruleSetRepo ruleset.Repository,
	salesFactRepo salesfact.Repository,
	lineItemRepo lineitem.Repository,
	productRepo product.Repository,
	productPairRepo productpair.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:          logger,
		Config:          config,
		Cache:           cache,
		RuleSetRepo:     ruleSetRepo,
		SalesFactRepo:   salesFactRepo,
		LineItemRepo:    lineItemRepo,
		ProductRepo:     productRepo,
		ProductPairRepo: productPairRepo,
	}
}
