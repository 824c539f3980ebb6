package repository

import (
	"github.com/vendalytics/vendalytics/internal/config"
	"github.com/vendalytics/vendalytics/internal/domain/lineitem"
	"github.com/vendalytics/vendalytics/internal/domain/product"
	"github.com/vendalytics/vendalytics/internal/domain/productpair"
	"github.com/vendalytics/vendalytics/internal/domain/ruleset"
	"github.com/vendalytics/vendalytics/internal/domain/salesfact"
	"github.com/vendalytics/vendalytics/internal/logger"
	pg "github.com/vendalytics/vendalytics/internal/postgres"
	pgRepo "github.com/vendalytics/vendalytics/internal/repository/postgres"
)

func NewRuleSetRepository(db *pg.DB, log *logger.Logger) ruleset.Repository {
	return pgRepo.NewRuleSetRepository(db, log)
}

func NewSalesFactRepository(db *pg.DB, log *logger.Logger) salesfact.Repository {
	return pgRepo.NewSalesFactRepository(db, log)
}

func NewLineItemRepository(db *pg.DB, log *logger.Logger) lineitem.Repository {
	return pgRepo.NewLineItemRepository(db, log)
}

func NewProductRepository(db *pg.DB, log *logger.Logger) product.Repository {
	return pgRepo.NewProductRepository(db, log)
}

func NewProductPairRepository(db *pg.DB, cfg *config.Configuration, log *logger.Logger) productpair.Repository {
	return pgRepo.NewProductPairRepository(db, cfg, log)
}
