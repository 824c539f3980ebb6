package postgres

import (
	"context"
	"time"

	domainSalesFact "github.com/vendalytics/vendalytics/internal/domain/salesfact"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/logger"
	"github.com/vendalytics/vendalytics/internal/postgres"
)

type salesFactRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewSalesFactRepository(db *postgres.DB, log *logger.Logger) domainSalesFact.Repository {
	return &salesFactRepository{db: db, log: log}
}

func (r *salesFactRepository) ListInWindow(ctx context.Context, start, end time.Time, branchID *string) ([]*domainSalesFact.SalesFact, error) {
	q := r.db.GetQuerier(ctx)

	r.log.Debugw("listing sales facts", "start", start, "end", end, "branch_id", branchID)

	// Anonymous sales carry no customer and cannot be scored.
	query := `
	SELECT customer_id, branch_id, date, total AS amount
	FROM invoices
	WHERE customer_id IS NOT NULL
	  AND date >= $1
	  AND date <= $2
	`
	args := []interface{}{start, end}
	if branchID != nil {
		query += ` AND branch_id = $3`
		args = append(args, *branchID)
	}

	var facts []*domainSalesFact.SalesFact
	if err := q.SelectContext(ctx, &facts, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list sales facts").
			Mark(ierr.ErrDatabase)
	}
	return facts, nil
}
