package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okoyedan/fundflow/internal/db"
	"github.com/okoyedan/fundflow/internal/domain"
)

const contributionColumns = `id, flow_id, contributor, token_mint, total_amount,
		first_contribution, last_contribution, contribution_count,
		refunded, refund_amount, refunded_at`

// SQLiteContributionRepo implements ContributionRepo over a DBTX.
type SQLiteContributionRepo struct {
	db db.DBTX
}

// NewSQLiteContributionRepo creates a new SQLiteContributionRepo.
func NewSQLiteContributionRepo(db db.DBTX) *SQLiteContributionRepo {
	return &SQLiteContributionRepo{db: db}
}

func (r *SQLiteContributionRepo) Create(ctx context.Context, c *domain.Contribution) error {
	query := `INSERT INTO contributions (` + contributionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.FlowID,
		c.Contributor,
		c.TokenMint,
		int64(c.TotalAmount),
		c.FirstContribution.Unix(),
		c.LastContribution.Unix(),
		c.ContributionCount,
		boolToInt(c.Refunded),
		int64(c.RefundAmount),
		unixOrNil(c.RefundedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting contribution: %w", err)
	}
	return nil
}

func (r *SQLiteContributionRepo) GetByID(ctx context.Context, id string) (*domain.Contribution, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contributionColumns+` FROM contributions WHERE id = ?`, id)
	return scanContribution(row)
}

func (r *SQLiteContributionRepo) GetByFlowAndContributor(ctx context.Context, flowID, contributor string) (*domain.Contribution, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contributionColumns+` FROM contributions WHERE flow_id = ? AND contributor = ?`,
		flowID, contributor)
	return scanContribution(row)
}

func (r *SQLiteContributionRepo) ListByFlow(ctx context.Context, flowID string) ([]*domain.Contribution, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contributionColumns+` FROM contributions WHERE flow_id = ? ORDER BY first_contribution`,
		flowID)
	if err != nil {
		return nil, fmt.Errorf("listing contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*domain.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, err
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contributions: %w", err)
	}
	return contributions, nil
}

func (r *SQLiteContributionRepo) Update(ctx context.Context, c *domain.Contribution) error {
	query := `UPDATE contributions SET total_amount = ?, last_contribution = ?,
		contribution_count = ?, refunded = ?, refund_amount = ?, refunded_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		int64(c.TotalAmount),
		c.LastContribution.Unix(),
		c.ContributionCount,
		boolToInt(c.Refunded),
		int64(c.RefundAmount),
		unixOrNil(c.RefundedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating contribution: %w", err)
	}
	return nil
}

func scanContribution(row scanner) (*domain.Contribution, error) {
	var (
		c                      domain.Contribution
		total, refundAmount    int64
		first, last            int64
		refunded               int
		refundedAt             sql.NullInt64
	)
	err := row.Scan(
		&c.ID, &c.FlowID, &c.Contributor, &c.TokenMint, &total,
		&first, &last, &c.ContributionCount,
		&refunded, &refundAmount, &refundedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("contribution: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning contribution: %w", err)
	}
	c.TotalAmount = uint64(total)
	c.FirstContribution = timeFromUnix(first)
	c.LastContribution = timeFromUnix(last)
	c.Refunded = intToBool(refunded)
	c.RefundAmount = uint64(refundAmount)
	c.RefundedAt = timePtrFromNull(refundedAt)
	return &c, nil
}
