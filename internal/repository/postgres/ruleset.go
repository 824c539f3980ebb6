package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domainRuleSet "github.com/vendalytics/vendalytics/internal/domain/ruleset"
	ierr "github.com/vendalytics/vendalytics/internal/errors"
	"github.com/vendalytics/vendalytics/internal/logger"
	"github.com/vendalytics/vendalytics/internal/postgres"
	"github.com/vendalytics/vendalytics/internal/types"
)

type ruleSetRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewRuleSetRepository(db *postgres.DB, log *logger.Logger) domainRuleSet.Repository {
	return &ruleSetRepository{db: db, log: log}
}

const ruleSetColumns = `
	id, name, branch_id, effective_from, effective_to, window_days,
	recency_bins, frequency_bins, value_bins,
	tenant_id, status, created_at, updated_at, created_by, updated_by
`

func (r *ruleSetRepository) Create(ctx context.Context, rs *domainRuleSet.RuleSet) error {
	r.log.Debugw("creating rule set", "rule_set_id", rs.ID, "branch_id", rs.BranchID)

	recencyJSON, frequencyJSON, valueJSON, err := marshalBins(rs)
	if err != nil {
		return err
	}

	return r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)

		query := `
		INSERT INTO rulesets (` + ruleSetColumns + `) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
		`
		_, err := q.ExecContext(ctx, query,
			rs.ID,
			rs.Name,
			rs.BranchID,
			rs.EffectiveFrom,
			rs.EffectiveTo,
			rs.WindowDays,
			recencyJSON,
			frequencyJSON,
			valueJSON,
			rs.TenantID,
			rs.Status,
			rs.CreatedAt,
			rs.UpdatedAt,
			rs.CreatedBy,
			rs.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create rule set").
				Mark(ierr.ErrDatabase)
		}

		return r.insertSegments(ctx, rs)
	})
}

func (r *ruleSetRepository) insertSegments(ctx context.Context, rs *domainRuleSet.RuleSet) error {
	q := r.db.GetQuerier(ctx)

	query := `
	INSERT INTO ruleset_segments (
		id, rule_set_id, name, priority, rules,
		tenant_id, status, created_at, updated_at, created_by, updated_by
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, seg := range rs.Segments {
		rulesJSON, err := json.Marshal(seg.Rules)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to encode segment rules").
				Mark(ierr.ErrValidation)
		}
		_, err = q.ExecContext(ctx, query,
			seg.ID,
			seg.RuleSetID,
			seg.Name,
			seg.Priority,
			rulesJSON,
			seg.TenantID,
			seg.Status,
			seg.CreatedAt,
			seg.UpdatedAt,
			seg.CreatedBy,
			seg.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create segment").
				Mark(ierr.ErrDatabase)
		}
	}
	return nil
}

func (r *ruleSetRepository) Get(ctx context.Context, id string) (*domainRuleSet.RuleSet, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT ` + ruleSetColumns + ` FROM rulesets WHERE id = $1 AND status != $2`

	rs, err := r.scanRuleSet(q.QueryRowContext(ctx, query, id, types.StatusDeleted))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("rule set not found").
				WithHintf("Rule set %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get rule set").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadSegments(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func (r *ruleSetRepository) FindActive(ctx context.Context, branchID *string, asOf time.Time) (*domainRuleSet.RuleSet, error) {
	q := r.db.GetQuerier(ctx)

	r.log.Debugw("finding active rule set", "branch_id", branchID, "as_of", asOf)

	// Branch-scoped rule sets win over global; later effective_from wins
	// among those. effective_to is exclusive.
	query := `
	SELECT ` + ruleSetColumns + `
	FROM rulesets
	WHERE status = $1
	  AND (branch_id = $2 OR branch_id IS NULL)
	  AND effective_from <= $3
	  AND (effective_to IS NULL OR effective_to > $3)
	ORDER BY (branch_id IS NOT NULL) DESC, effective_from DESC
	LIMIT 1
	`

	rs, err := r.scanRuleSet(q.QueryRowContext(ctx, query, types.StatusPublished, branchID, asOf))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("no active rule set").
				WithHint("No active RFV configuration found for the requested scope").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to find active rule set").
			Mark(ierr.ErrDatabase)
	}

	if err := r.loadSegments(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func (r *ruleSetRepository) List(ctx context.Context, filter *types.RuleSetFilter) ([]*domainRuleSet.RuleSet, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT ` + ruleSetColumns + ` FROM rulesets` + ruleSetFilterClause(filter)
	args := ruleSetFilterArgs(filter)

	if !filter.IsUnlimited() {
		query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	} else {
		query += " ORDER BY created_at DESC"
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list rule sets").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var ruleSets []*domainRuleSet.RuleSet
	for rows.Next() {
		rs, err := r.scanRuleSet(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan rule set").
				Mark(ierr.ErrDatabase)
		}
		ruleSets = append(ruleSets, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list rule sets").
			Mark(ierr.ErrDatabase)
	}

	for _, rs := range ruleSets {
		if err := r.loadSegments(ctx, rs); err != nil {
			return nil, err
		}
	}
	return ruleSets, nil
}

func (r *ruleSetRepository) Count(ctx context.Context, filter *types.RuleSetFilter) (int, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT COUNT(*) FROM rulesets` + ruleSetFilterClause(filter)

	var count int
	if err := q.QueryRowContext(ctx, query, ruleSetFilterArgs(filter)...).Scan(&count); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count rule sets").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *ruleSetRepository) Update(ctx context.Context, rs *domainRuleSet.RuleSet) error {
	r.log.Debugw("updating rule set", "rule_set_id", rs.ID)

	recencyJSON, frequencyJSON, valueJSON, err := marshalBins(rs)
	if err != nil {
		return err
	}

	return r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)

		query := `
		UPDATE rulesets SET
			name = $2, effective_to = $3, window_days = $4,
			recency_bins = $5, frequency_bins = $6, value_bins = $7,
			updated_at = $8, updated_by = $9
		WHERE id = $1 AND status != $10
		`
		res, err := q.ExecContext(ctx, query,
			rs.ID,
			rs.Name,
			rs.EffectiveTo,
			rs.WindowDays,
			recencyJSON,
			frequencyJSON,
			valueJSON,
			time.Now().UTC(),
			rs.UpdatedBy,
			types.StatusDeleted,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to update rule set").
				Mark(ierr.ErrDatabase)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return ierr.NewError("rule set not found").
				WithHintf("Rule set %s does not exist", rs.ID).
				Mark(ierr.ErrNotFound)
		}

		// Segments are replaced wholesale with their rule set
		if _, err := q.ExecContext(ctx, `DELETE FROM ruleset_segments WHERE rule_set_id = $1`, rs.ID); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to replace segments").
				Mark(ierr.ErrDatabase)
		}
		return r.insertSegments(ctx, rs)
	})
}

func (r *ruleSetRepository) Delete(ctx context.Context, id string) error {
	q := r.db.GetQuerier(ctx)

	query := `UPDATE rulesets SET status = $2, updated_at = $3 WHERE id = $1 AND status != $2`

	res, err := q.ExecContext(ctx, query, id, types.StatusDeleted, time.Now().UTC())
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete rule set").
			Mark(ierr.ErrDatabase)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ierr.NewError("rule set not found").
			WithHintf("Rule set %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

// scanner matches both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *ruleSetRepository) scanRuleSet(row scanner) (*domainRuleSet.RuleSet, error) {
	var rs domainRuleSet.RuleSet
	var recencyJSON, frequencyJSON, valueJSON []byte

	err := row.Scan(
		&rs.ID,
		&rs.Name,
		&rs.BranchID,
		&rs.EffectiveFrom,
		&rs.EffectiveTo,
		&rs.WindowDays,
		&recencyJSON,
		&frequencyJSON,
		&valueJSON,
		&rs.TenantID,
		&rs.Status,
		&rs.CreatedAt,
		&rs.UpdatedAt,
		&rs.CreatedBy,
		&rs.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	// Malformed bin payloads degrade to default scoring instead of failing
	// the read; partial configurations are load-bearing.
	if len(recencyJSON) > 0 {
		if err := json.Unmarshal(recencyJSON, &rs.RecencyBins); err != nil {
			r.log.Warnw("malformed recency bins, scoring will default", "rule_set_id", rs.ID, "error", err)
			rs.RecencyBins = nil
		}
	}
	if len(frequencyJSON) > 0 {
		if err := json.Unmarshal(frequencyJSON, &rs.FrequencyBins); err != nil {
			r.log.Warnw("malformed frequency bins, scoring will default", "rule_set_id", rs.ID, "error", err)
			rs.FrequencyBins = nil
		}
	}
	if len(valueJSON) > 0 {
		if err := json.Unmarshal(valueJSON, &rs.ValueBins); err != nil {
			r.log.Warnw("malformed value bins, scoring will default", "rule_set_id", rs.ID, "error", err)
			rs.ValueBins = nil
		}
	}
	return &rs, nil
}

func (r *ruleSetRepository) loadSegments(ctx context.Context, rs *domainRuleSet.RuleSet) error {
	q := r.db.GetQuerier(ctx)

	query := `
	SELECT id, rule_set_id, name, priority, rules,
		tenant_id, status, created_at, updated_at, created_by, updated_by
	FROM ruleset_segments
	WHERE rule_set_id = $1 AND status != $2
	ORDER BY priority DESC
	`

	rows, err := q.QueryContext(ctx, query, rs.ID, types.StatusDeleted)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load segments").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	for rows.Next() {
		var seg domainRuleSet.Segment
		var rulesJSON []byte

		err := rows.Scan(
			&seg.ID,
			&seg.RuleSetID,
			&seg.Name,
			&seg.Priority,
			&rulesJSON,
			&seg.TenantID,
			&seg.Status,
			&seg.CreatedAt,
			&seg.UpdatedAt,
			&seg.CreatedBy,
			&seg.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to scan segment").
				Mark(ierr.ErrDatabase)
		}

		if len(rulesJSON) > 0 {
			if err := json.Unmarshal(rulesJSON, &seg.Rules); err != nil {
				// an unparseable rule list makes the segment unmatchable,
				// not the whole analysis a failure
				r.log.Warnw("malformed segment rules, segment skipped", "segment_id", seg.ID, "error", err)
				continue
			}
		}
		rs.Segments = append(rs.Segments, &seg)
	}
	return rows.Err()
}

func marshalBins(rs *domainRuleSet.RuleSet) ([]byte, []byte, []byte, error) {
	recencyJSON, err := json.Marshal(rs.RecencyBins)
	if err != nil {
		return nil, nil, nil, ierr.WithError(err).
			WithHint("Failed to encode recency bins").
			Mark(ierr.ErrValidation)
	}
	frequencyJSON, err := json.Marshal(rs.FrequencyBins)
	if err != nil {
		return nil, nil, nil, ierr.WithError(err).
			WithHint("Failed to encode frequency bins").
			Mark(ierr.ErrValidation)
	}
	valueJSON, err := json.Marshal(rs.ValueBins)
	if err != nil {
		return nil, nil, nil, ierr.WithError(err).
			WithHint("Failed to encode value bins").
			Mark(ierr.ErrValidation)
	}
	return recencyJSON, frequencyJSON, valueJSON, nil
}

func ruleSetFilterClause(filter *types.RuleSetFilter) string {
	clause := ` WHERE status = $1`
	idx := 2
	if filter.BranchID != nil {
		clause += fmt.Sprintf(" AND branch_id = $%d", idx)
		idx++
	}
	if filter.ActiveAt != nil {
		clause += fmt.Sprintf(" AND effective_from <= $%d AND (effective_to IS NULL OR effective_to > $%d)", idx, idx)
		idx++
	}
	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			clause += fmt.Sprintf(" AND created_at >= $%d", idx)
			idx++
		}
		if filter.EndTime != nil {
			clause += fmt.Sprintf(" AND created_at <= $%d", idx)
		}
	}
	return clause
}

func ruleSetFilterArgs(filter *types.RuleSetFilter) []interface{} {
	args := []interface{}{filter.GetStatus()}
	if filter.BranchID != nil {
		args = append(args, *filter.BranchID)
	}
	if filter.ActiveAt != nil {
		args = append(args, *filter.ActiveAt)
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
