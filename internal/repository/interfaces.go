package repository

import (
	"context"
	"errors"

	"github.com/okoyedan/fundflow/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist. Callers
// match it with errors.Is; the wrapping message names the entity.
var ErrNotFound = errors.New("not found")

type FlowRepo interface {
	Create(ctx context.Context, f *domain.Flow) error
	GetByID(ctx context.Context, id string) (*domain.Flow, error)
	GetByCreatorAndFlowID(ctx context.Context, creator, flowID string) (*domain.Flow, error)
	List(ctx context.Context, creator string) ([]*domain.Flow, error)
	Update(ctx context.Context, f *domain.Flow) error
}

type ContributionRepo interface {
	Create(ctx context.Context, c *domain.Contribution) error
	GetByID(ctx context.Context, id string) (*domain.Contribution, error)
	GetByFlowAndContributor(ctx context.Context, flowID, contributor string) (*domain.Contribution, error)
	ListByFlow(ctx context.Context, flowID string) ([]*domain.Contribution, error)
	Update(ctx context.Context, c *domain.Contribution) error
}

type ProposalRepo interface {
	Create(ctx context.Context, p *domain.Proposal) error
	GetByID(ctx context.Context, id string) (*domain.Proposal, error)
	ListByFlow(ctx context.Context, flowID string) ([]*domain.Proposal, error)
	Update(ctx context.Context, p *domain.Proposal) error
}

type VoteRepo interface {
	Create(ctx context.Context, v *domain.Vote) error
	GetByProposalAndVoter(ctx context.Context, proposalID, voter string) (*domain.Vote, error)
	ListByProposal(ctx context.Context, proposalID string) ([]*domain.Vote, error)
}
