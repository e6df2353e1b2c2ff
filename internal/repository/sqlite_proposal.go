package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okoyedan/fundflow/internal/db"
	"github.com/okoyedan/fundflow/internal/domain"
)

const proposalColumns = `id, flow_id, proposer, action_kind, action_payload, status,
		created_at, voting_starts_at, voting_ends_at,
		votes_for, votes_against, votes_abstain, total_eligible_votes,
		quorum_bp, approval_bp, executed_at, last_vote_check`

// SQLiteProposalRepo implements ProposalRepo over a DBTX. The action
// payload is stored as (kind, JSON) and rebuilt into the closed
// ProposalAction set on load.
type SQLiteProposalRepo struct {
	db db.DBTX
}

// NewSQLiteProposalRepo creates a new SQLiteProposalRepo.
func NewSQLiteProposalRepo(db db.DBTX) *SQLiteProposalRepo {
	return &SQLiteProposalRepo{db: db}
}

func (r *SQLiteProposalRepo) Create(ctx context.Context, p *domain.Proposal) error {
	payload, err := domain.EncodeAction(p.Action)
	if err != nil {
		return err
	}
	query := `INSERT INTO proposals (` + proposalColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.FlowID,
		p.Proposer,
		string(p.Action.Kind()),
		payload,
		string(p.Status),
		p.CreatedAt.Unix(),
		p.VotingStartsAt.Unix(),
		p.VotingEndsAt.Unix(),
		int64(p.VotesFor),
		int64(p.VotesAgainst),
		int64(p.VotesAbstain),
		int64(p.TotalEligibleVotes),
		p.QuorumBP,
		p.ApprovalBP,
		unixOrNil(p.ExecutedAt),
		p.LastVoteCheck.Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting proposal: %w", err)
	}
	return nil
}

func (r *SQLiteProposalRepo) GetByID(ctx context.Context, id string) (*domain.Proposal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE id = ?`, id)
	return scanProposal(row)
}

func (r *SQLiteProposalRepo) ListByFlow(ctx context.Context, flowID string) ([]*domain.Proposal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE flow_id = ? ORDER BY created_at`, flowID)
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*domain.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating proposals: %w", err)
	}
	return proposals, nil
}

func (r *SQLiteProposalRepo) Update(ctx context.Context, p *domain.Proposal) error {
	query := `UPDATE proposals SET status = ?, voting_ends_at = ?,
		votes_for = ?, votes_against = ?, votes_abstain = ?,
		executed_at = ?, last_vote_check = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		string(p.Status),
		p.VotingEndsAt.Unix(),
		int64(p.VotesFor),
		int64(p.VotesAgainst),
		int64(p.VotesAbstain),
		unixOrNil(p.ExecutedAt),
		p.LastVoteCheck.Unix(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating proposal: %w", err)
	}
	return nil
}

func scanProposal(row scanner) (*domain.Proposal, error) {
	var (
		p                                  domain.Proposal
		kind, payload, statusStr           string
		createdAt, startsAt, endsAt, check int64
		votesFor, votesAgainst, abstain    int64
		eligible                           int64
		executedAt                         sql.NullInt64
	)
	err := row.Scan(
		&p.ID, &p.FlowID, &p.Proposer, &kind, &payload, &statusStr,
		&createdAt, &startsAt, &endsAt,
		&votesFor, &votesAgainst, &abstain, &eligible,
		&p.QuorumBP, &p.ApprovalBP, &executedAt, &check,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("proposal: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning proposal: %w", err)
	}
	action, err := domain.DecodeAction(domain.ActionKind(kind), payload)
	if err != nil {
		return nil, err
	}
	p.Action = action
	p.Status = domain.ProposalStatus(statusStr)
	p.CreatedAt = timeFromUnix(createdAt)
	p.VotingStartsAt = timeFromUnix(startsAt)
	p.VotingEndsAt = timeFromUnix(endsAt)
	p.VotesFor = uint64(votesFor)
	p.VotesAgainst = uint64(votesAgainst)
	p.VotesAbstain = uint64(abstain)
	p.TotalEligibleVotes = uint64(eligible)
	p.ExecutedAt = timePtrFromNull(executedAt)
	p.LastVoteCheck = timeFromUnix(check)
	return &p, nil
}
