package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vendalytics/vendalytics/internal/cache"
	"github.com/vendalytics/vendalytics/internal/config"
	"github.com/vendalytics/vendalytics/internal/domain/lineitem"
	"github.com/vendalytics/vendalytics/internal/domain/product"
	"github.com/vendalytics/vendalytics/internal/domain/productpair"
	"github.com/vendalytics/vendalytics/internal/domain/ruleset"
	"github.com/vendalytics/vendalytics/internal/domain/salesfact"
	"github.com/vendalytics/vendalytics/internal/logger"
	"github.com/vendalytics/vendalytics/internal/types"
	"github.com/vendalytics/vendalytics/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	RuleSetRepo     ruleset.Repository
	SalesFactRepo   salesfact.Repository
	LineItemRepo    lineitem.Repository
	ProductRepo     product.Repository
	ProductPairRepo productpair.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.cache = cache.NewInMemoryCache(s.logger)
	s.stores = Stores{
		RuleSetRepo:     NewInMemoryRuleSetStore(),
		SalesFactRepo:   NewInMemorySalesFactStore(),
		LineItemRepo:    NewInMemoryLineItemStore(),
		ProductRepo:     NewInMemoryProductStore(),
		ProductPairRepo: NewInMemoryProductPairStore(),
	}
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.RuleSetRepo.(*InMemoryRuleSetStore).Clear()
	s.stores.SalesFactRepo.(*InMemorySalesFactStore).Clear()
	s.stores.LineItemRepo.(*InMemoryLineItemStore).Clear()
	s.stores.ProductRepo.(*InMemoryProductStore).Clear()
	s.stores.ProductPairRepo.(*InMemoryProductPairStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the reference time for the current test
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
