package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okoyedan/fundflow/internal/db"
	"github.com/okoyedan/fundflow/internal/domain"
)

// SQLiteVoteRepo implements VoteRepo over a DBTX. The UNIQUE
// (proposal_id, voter) index backs the one-ballot-per-voter rule at the
// storage level too.
type SQLiteVoteRepo struct {
	db db.DBTX
}

// NewSQLiteVoteRepo creates a new SQLiteVoteRepo.
func NewSQLiteVoteRepo(db db.DBTX) *SQLiteVoteRepo {
	return &SQLiteVoteRepo{db: db}
}

func (r *SQLiteVoteRepo) Create(ctx context.Context, v *domain.Vote) error {
	query := `INSERT INTO votes (id, proposal_id, voter, vote_type, voting_power, cast_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.ProposalID,
		v.Voter,
		string(v.Type),
		int64(v.VotingPower),
		v.CastAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting vote: %w", err)
	}
	return nil
}

func (r *SQLiteVoteRepo) GetByProposalAndVoter(ctx context.Context, proposalID, voter string) (*domain.Vote, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, proposal_id, voter, vote_type, voting_power, cast_at
		FROM votes WHERE proposal_id = ? AND voter = ?`, proposalID, voter)
	return scanVote(row)
}

func (r *SQLiteVoteRepo) ListByProposal(ctx context.Context, proposalID string) ([]*domain.Vote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, proposal_id, voter, vote_type, voting_power, cast_at
		FROM votes WHERE proposal_id = ? ORDER BY cast_at`, proposalID)
	if err != nil {
		return nil, fmt.Errorf("listing votes: %w", err)
	}
	defer rows.Close()

	var votes []*domain.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating votes: %w", err)
	}
	return votes, nil
}

func scanVote(row scanner) (*domain.Vote, error) {
	var (
		v       domain.Vote
		typeStr string
		power   int64
		castAt  int64
	)
	err := row.Scan(&v.ID, &v.ProposalID, &v.Voter, &typeStr, &power, &castAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vote: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning vote: %w", err)
	}
	v.Type = domain.VoteType(typeStr)
	v.VotingPower = uint64(power)
	v.CastAt = timeFromUnix(castAt)
	return &v, nil
}
