package postgres

import (
	"context"

	domainLineItem "github.com/vendalytics/vendalytics/internal/domain/lineitem"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/logger"
	"github.com/vendalytics/vendalytics/internal/postgres"
)

type lineItemRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewLineItemRepository(db *postgres.DB, log *logger.Logger) domainLineItem.Repository {
	return &lineItemRepository{db: db, log: log}
}

func (r *lineItemRepository) ListWithBasketContext(ctx context.Context) ([]*domainLineItem.LineItem, error) {
	q := r.db.GetQuerier(ctx)

	query := `
	SELECT li.product_id, li.invoice_id, i.customer_id
	FROM invoice_items li
	JOIN invoices i ON i.id = li.invoice_id
	`

	var items []*domainLineItem.LineItem
	if err := q.SelectContext(ctx, &items, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list line items").
			Mark(ierr.ErrDatabase)
	}

	r.log.Debugw("listed line items for basket construction", "count", len(items))
	return items, nil
}
