package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okoyedan/fundflow/internal/db"
	"github.com/okoyedan/fundflow/internal/domain"
)

// flowColumns is the canonical SELECT column list for flows.
const flowColumns = `id, flow_id, creator, token_mint, goal, raised, available, withdrawn,
		total_refunded, refunds_count, contributor_count, status, start_date, end_date,
		proposal_count, voting_power_model, active_proposal_id, created_at, updated_at`

// SQLiteFlowRepo implements FlowRepo over a DBTX, so the same code serves
// both direct access and transaction-scoped use.
type SQLiteFlowRepo struct {
	db db.DBTX
}

// NewSQLiteFlowRepo creates a new SQLiteFlowRepo.
func NewSQLiteFlowRepo(db db.DBTX) *SQLiteFlowRepo {
	return &SQLiteFlowRepo{db: db}
}

func (r *SQLiteFlowRepo) Create(ctx context.Context, f *domain.Flow) error {
	query := `INSERT INTO flows (` + flowColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.FlowID,
		f.Creator,
		f.TokenMint,
		int64(f.Goal),
		int64(f.Raised),
		int64(f.Available),
		int64(f.Withdrawn),
		int64(f.TotalRefunded),
		f.RefundsCount,
		f.ContributorCount,
		string(f.Status),
		unixOrNil(f.StartDate),
		unixOrNil(f.EndDate),
		f.ProposalCount,
		string(f.VotingPowerModel),
		strOrNil(f.ActiveProposalID),
		f.CreatedAt.Unix(),
		f.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting flow: %w", err)
	}
	return r.replaceMilestones(ctx, f)
}

func (r *SQLiteFlowRepo) GetByID(ctx context.Context, id string) (*domain.Flow, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+flowColumns+` FROM flows WHERE id = ?`, id)
	return r.scanFlow(ctx, row)
}

func (r *SQLiteFlowRepo) GetByCreatorAndFlowID(ctx context.Context, creator, flowID string) (*domain.Flow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+flowColumns+` FROM flows WHERE creator = ? AND flow_id = ?`, creator, flowID)
	return r.scanFlow(ctx, row)
}

func (r *SQLiteFlowRepo) List(ctx context.Context, creator string) ([]*domain.Flow, error) {
	query := `SELECT ` + flowColumns + ` FROM flows ORDER BY created_at`
	args := []any{}
	if creator != "" {
		query = `SELECT ` + flowColumns + ` FROM flows WHERE creator = ? ORDER BY created_at`
		args = append(args, creator)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing flows: %w", err)
	}
	defer rows.Close()

	var flows []*domain.Flow
	for rows.Next() {
		f, err := scanFlowRow(rows)
		if err != nil {
			return nil, err
		}
		flows = append(flows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating flows: %w", err)
	}
	for _, f := range flows {
		if err := r.loadMilestones(ctx, f); err != nil {
			return nil, err
		}
	}
	return flows, nil
}

func (r *SQLiteFlowRepo) Update(ctx context.Context, f *domain.Flow) error {
	query := `UPDATE flows SET raised = ?, available = ?, withdrawn = ?, total_refunded = ?,
		refunds_count = ?, contributor_count = ?, status = ?, start_date = ?, end_date = ?,
		proposal_count = ?, active_proposal_id = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		int64(f.Raised),
		int64(f.Available),
		int64(f.Withdrawn),
		int64(f.TotalRefunded),
		f.RefundsCount,
		f.ContributorCount,
		string(f.Status),
		unixOrNil(f.StartDate),
		unixOrNil(f.EndDate),
		f.ProposalCount,
		strOrNil(f.ActiveProposalID),
		f.UpdatedAt.Unix(),
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating flow: %w", err)
	}
	return r.replaceMilestones(ctx, f)
}

// replaceMilestones rewrites the flow's milestone rows. Schedules are at
// most 10 rows, so a delete-and-reinsert inside the surrounding
// transaction is simpler than diffing.
func (r *SQLiteFlowRepo) replaceMilestones(ctx context.Context, f *domain.Flow) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM milestones WHERE flow_id = ?`, f.ID); err != nil {
		return fmt.Errorf("clearing milestones: %w", err)
	}
	for _, m := range f.Milestones {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO milestones (flow_id, milestone_id, amount, deadline, completed) VALUES (?, ?, ?, ?, ?)`,
			f.ID, m.ID, int64(m.Amount), m.Deadline.Unix(), boolToInt(m.Completed),
		)
		if err != nil {
			return fmt.Errorf("inserting milestone %d: %w", m.ID, err)
		}
	}
	return nil
}

func (r *SQLiteFlowRepo) loadMilestones(ctx context.Context, f *domain.Flow) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT milestone_id, amount, deadline, completed FROM milestones WHERE flow_id = ? ORDER BY milestone_id`,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("loading milestones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m         domain.Milestone
			amount    int64
			deadline  int64
			completed int
		)
		if err := rows.Scan(&m.ID, &amount, &deadline, &completed); err != nil {
			return fmt.Errorf("scanning milestone: %w", err)
		}
		m.Amount = uint64(amount)
		m.Deadline = timeFromUnix(deadline)
		m.Completed = intToBool(completed)
		f.Milestones = append(f.Milestones, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating milestones: %w", err)
	}
	return nil
}

func (r *SQLiteFlowRepo) scanFlow(ctx context.Context, row *sql.Row) (*domain.Flow, error) {
	f, err := scanFlowRow(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadMilestones(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFlowRow(row scanner) (*domain.Flow, error) {
	var (
		f                                           domain.Flow
		goal, raised, available, withdrawn, refunded int64
		statusStr, modelStr                         string
		startDate, endDate                          sql.NullInt64
		activeProposal                              sql.NullString
		createdAt, updatedAt                        int64
	)
	err := row.Scan(
		&f.ID, &f.FlowID, &f.Creator, &f.TokenMint,
		&goal, &raised, &available, &withdrawn, &refunded,
		&f.RefundsCount, &f.ContributorCount, &statusStr,
		&startDate, &endDate, &f.ProposalCount, &modelStr,
		&activeProposal, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("flow: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning flow: %w", err)
	}
	f.Goal = uint64(goal)
	f.Raised = uint64(raised)
	f.Available = uint64(available)
	f.Withdrawn = uint64(withdrawn)
	f.TotalRefunded = uint64(refunded)
	f.Status = domain.FlowStatus(statusStr)
	f.StartDate = timePtrFromNull(startDate)
	f.EndDate = timePtrFromNull(endDate)
	f.VotingPowerModel = domain.VotingPowerModel(modelStr)
	f.ActiveProposalID = strPtrFromNull(activeProposal)
	f.CreatedAt = timeFromUnix(createdAt)
	f.UpdatedAt = timeFromUnix(updatedAt)
	return &f, nil
}
