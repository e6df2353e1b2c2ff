package service

import (
	"context"
	"time"

	"github.com/okoyedan/fundflow/internal/domain"
)

// CreateFlowParams carries everything needed to open a funding flow.
type CreateFlowParams struct {
	Creator          string
	FlowID           string
	TokenMint        string
	Goal             uint64
	StartDate        *time.Time
	EndDate          *time.Time
	Milestones       []domain.Milestone
	VotingPowerModel domain.VotingPowerModel
}

type FlowService interface {
	Create(ctx context.Context, params CreateFlowParams) (*domain.Flow, error)
	GetByID(ctx context.Context, id string) (*domain.Flow, error)
	GetByCreatorAndFlowID(ctx context.Context, creator, flowID string) (*domain.Flow, error)
	List(ctx context.Context, creator string) ([]*domain.Flow, error)
	ListContributions(ctx context.Context, flowID string) ([]*domain.Contribution, error)
	Contribute(ctx context.Context, flowID, contributor string, amount uint64) (*domain.Contribution, error)
}

// CreateProposalParams carries a governance proposal against one flow.
type CreateProposalParams struct {
	FlowID         string // flow surrogate UUID
	Proposer       string
	Action         domain.ProposalAction
	VotingDuration time.Duration
	QuorumBP       uint16
	ApprovalBP     uint16
}

type GovernanceService interface {
	CreateProposal(ctx context.Context, params CreateProposalParams) (*domain.Proposal, error)
	GetProposal(ctx context.Context, id string) (*domain.Proposal, error)
	ListByFlow(ctx context.Context, flowID string) ([]*domain.Proposal, error)
	CastVote(ctx context.Context, proposalID, voter string, voteType domain.VoteType) (*domain.Vote, error)
	FinalizeProposal(ctx context.Context, proposalID string) (*domain.Proposal, error)
	ExecuteProposal(ctx context.Context, proposalID string) (*domain.Proposal, error)
	CancelProposal(ctx context.Context, proposalID, caller string) error
}

type TreasuryService interface {
	Withdraw(ctx context.Context, flowID, caller string, amount uint64) error
	WithdrawContribution(ctx context.Context, flowID, contributor string) (uint64, error)
	FlowBalance(ctx context.Context, flowID string) (uint64, error)
	Fund(ctx context.Context, account, mint string, amount uint64) error
	Balance(ctx context.Context, account, mint string) (uint64, error)
}
