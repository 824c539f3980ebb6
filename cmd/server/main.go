package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/vendalytics/vendalytics/internal/api"
	v1 "github.com/vendalytics/vendalytics/internal/api/v1"
	"github.com/vendalytics/vendalytics/internal/cache"
	"github.com/vendalytics/vendalytics/internal/config"
	"github.com/vendalytics/vendalytics/internal/logger"
	"github.com/vendalytics/vendalytics/internal/postgres"
	"github.com/vendalytics/vendalytics/internal/repository"
	"github.com/vendalytics/vendalytics/internal/service"
	"github.com/vendalytics/vendalytics/internal/validator"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Local overrides only; absence is not an error
	_ = godotenv.Load()

	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,

			// Repositories
			repository.NewRuleSetRepository,
			repository.NewSalesFactRepository,
			repository.NewLineItemRepository,
			repository.NewProductRepository,
			repository.NewProductPairRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewRFVService,
			service.NewAssociationService,
			service.NewRuleSetService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	rfvService service.RFVService,
	associationService service.AssociationService,
	ruleSetService service.RuleSetService,
) api.Handlers {
	return api.Handlers{
		RFV:         v1.NewRFVHandler(rfvService, logger),
		Association: v1.NewAssociationHandler(associationService, logger),
		RuleSet:     v1.NewRuleSetHandler(ruleSetService, logger),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			db.Close()
			return nil
		},
	})
}
