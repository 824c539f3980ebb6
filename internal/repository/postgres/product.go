package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	domainProduct "github.com/vendalytics/vendalytics/internal/domain/product"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/logger"
	"github.com/vendalytics/vendalytics/internal/postgres"
)

type productRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewProductRepository(db *postgres.DB, log *logger.Logger) domainProduct.Repository {
	return &productRepository{db: db, log: log}
}

func (r *productRepository) ListByIDs(ctx context.Context, ids []string) ([]*domainProduct.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT id, name, type FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build product query").
			Mark(ierr.ErrDatabase)
	}
	query = r.db.Rebind(query)

	q := r.db.GetQuerier(ctx)

	var products []*domainProduct.Product
	if err := q.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list products").
			Mark(ierr.ErrDatabase)
	}
	return products, nil
}
