package postgres

import (
	"context"
	"fmt"

	"github.com/vendalytics/vendalytics/internal/config"
	domainProductPair "github.com/vendalytics/vendalytics/internal/domain/productpair"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/logger"
	"github.com/vendalytics/vendalytics/internal/postgres"
	"github.com/vendalytics/vendalytics/internal/types"
)

type productPairRepository struct {
	db        *postgres.DB
	log       *logger.Logger
	batchSize int
}

func NewProductPairRepository(db *postgres.DB, cfg *config.Configuration, log *logger.Logger) domainProductPair.Repository {
	return &productPairRepository{
		db:        db,
		log:       log,
		batchSize: cfg.Analytics.AssociationInsertBatchSize,
	}
}

const productPairInsert = `
INSERT INTO product_pairs (
	id, product_a_id, product_b_id,
	product_a_name, product_a_type, product_b_name, product_b_type,
	support_count, baskets_with_a, baskets_with_b, total_baskets,
	confidence, lift, calculated_at,
	tenant_id, status, created_at, updated_at, created_by, updated_by
) VALUES (
	:id, :product_a_id, :product_b_id,
	:product_a_name, :product_a_type, :product_b_name, :product_b_type,
	:support_count, :baskets_with_a, :baskets_with_b, :total_baskets,
	:confidence, :lift, :calculated_at,
	:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
)
`

// ReplaceAll swaps the association table for the given rows. The delete and
// the batched inserts run in one transaction so readers never observe a
// half-built table.
func (r *productPairRepository) ReplaceAll(ctx context.Context, pairs []*domainProductPair.ProductPair) error {
	r.log.Infow("replacing association pairs", "count", len(pairs), "batch_size", r.batchSize)

	return r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)

		if _, err := q.ExecContext(ctx, `DELETE FROM product_pairs`); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to clear association pairs").
				Mark(ierr.ErrDatabase)
		}

		for start := 0; start < len(pairs); start += r.batchSize {
			end := start + r.batchSize
			if end > len(pairs) {
				end = len(pairs)
			}
			if _, err := q.NamedExec(productPairInsert, pairs[start:end]); err != nil {
				return ierr.WithError(err).
					WithHint("Failed to insert association pairs").
					Mark(ierr.ErrDatabase)
			}
		}
		return nil
	})
}

func (r *productPairRepository) List(ctx context.Context, filter *types.ProductPairFilter) ([]*domainProductPair.ProductPair, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT * FROM product_pairs` + productPairFilterClause(filter)
	query += ` ORDER BY support_count DESC, product_a_id ASC, product_b_id ASC`
	if !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var pairs []*domainProductPair.ProductPair
	if err := q.SelectContext(ctx, &pairs, query, productPairFilterArgs(filter)...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list association pairs").
			Mark(ierr.ErrDatabase)
	}
	return pairs, nil
}

func (r *productPairRepository) Count(ctx context.Context, filter *types.ProductPairFilter) (int, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT COUNT(*) FROM product_pairs` + productPairFilterClause(filter)

	var count int
	if err := q.QueryRowContext(ctx, query, productPairFilterArgs(filter)...).Scan(&count); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count association pairs").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func productPairFilterClause(filter *types.ProductPairFilter) string {
	clause := ` WHERE status = $1`
	idx := 2
	if filter.ProductID != nil {
		// either side of the pair
		clause += fmt.Sprintf(" AND (product_a_id = $%d OR product_b_id = $%d)", idx, idx)
		idx++
	}
	if filter.ProductType != nil {
		clause += fmt.Sprintf(" AND (product_a_type = $%d OR product_b_type = $%d)", idx, idx)
		idx++
	}
	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			clause += fmt.Sprintf(" AND calculated_at >= $%d", idx)
			idx++
		}
		if filter.EndTime != nil {
			clause += fmt.Sprintf(" AND calculated_at <= $%d", idx)
		}
	}
	return clause
}

func productPairFilterArgs(filter *types.ProductPairFilter) []interface{} {
	args := []interface{}{filter.GetStatus()}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
	}
	if filter.ProductType != nil {
		args = append(args, *filter.ProductType)
	}
	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			args = append(args, *filter.StartTime)
		}
		if filter.EndTime != nil {
			args = append(args, *filter.EndTime)
		}
	}
	return args
}
