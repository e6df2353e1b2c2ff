package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okoyedan/fundflow/internal/domain"
)

var testFlowIDCounter atomic.Int64

// Flow options
type FlowOption func(*domain.Flow)

func WithFlowStatus(s domain.FlowStatus) FlowOption {
	return func(f *domain.Flow) {
		f.Status = s
	}
}

func WithMilestones(ms ...domain.Milestone) FlowOption {
	return func(f *domain.Flow) {
		f.Milestones = ms
	}
}

func WithVotingPowerModel(m domain.VotingPowerModel) FlowOption {
	return func(f *domain.Flow) {
		f.VotingPowerModel = m
	}
}

func WithEndDate(d time.Time) FlowOption {
	return func(f *domain.Flow) {
		f.EndDate = &d
	}
}

func WithStartDate(d time.Time) FlowOption {
	return func(f *domain.Flow) {
		f.StartDate = &d
	}
}

func WithCreator(c string) FlowOption {
	return func(f *domain.Flow) {
		f.Creator = c
	}
}

// NewTestFlow builds an active direct flow with the given goal, funded in
// the default test token.
func NewTestFlow(goal uint64, opts ...FlowOption) *domain.Flow {
	now := time.Now().UTC()
	f := &domain.Flow{
		ID:               uuid.New().String(),
		FlowID:           fmt.Sprintf("FLOW-%03d", testFlowIDCounter.Add(1)),
		Creator:          "creator",
		TokenMint:        "usdc",
		Goal:             goal,
		Status:           domain.FlowActive,
		VotingPowerModel: domain.TokenWeighted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HalfSplitMilestones is a two-milestone schedule splitting goal evenly,
// with deadlines over the next two days.
func HalfSplitMilestones(goal uint64, now time.Time) []domain.Milestone {
	return []domain.Milestone{
		{ID: 0, Amount: goal / 2, Deadline: now.Add(24 * time.Hour)},
		{ID: 1, Amount: goal - goal/2, Deadline: now.Add(48 * time.Hour)},
	}
}

// NewTestContribution builds a contribution position against the flow.
func NewTestContribution(flowID, contributor string, amount uint64) *domain.Contribution {
	now := time.Now().UTC()
	return &domain.Contribution{
		ID:                uuid.New().String(),
		FlowID:            flowID,
		Contributor:       contributor,
		TokenMint:         "usdc",
		TotalAmount:       amount,
		FirstContribution: now,
		LastContribution:  now,
		ContributionCount: 1,
	}
}

// Proposal options
type ProposalOption func(*domain.Proposal)

func WithThresholds(quorumBP, approvalBP uint16) ProposalOption {
	return func(p *domain.Proposal) {
		p.QuorumBP = quorumBP
		p.ApprovalBP = approvalBP
	}
}

func WithEligibleVotes(n uint64) ProposalOption {
	return func(p *domain.Proposal) {
		p.TotalEligibleVotes = n
	}
}

func WithProposalStatus(s domain.ProposalStatus) ProposalOption {
	return func(p *domain.Proposal) {
		p.Status = s
	}
}

func WithProposer(name string) ProposalOption {
	return func(p *domain.Proposal) {
		p.Proposer = name
	}
}

// NewTestProposal builds an active proposal with a three-day window and
// 50%/50% thresholds.
func NewTestProposal(flowID string, action domain.ProposalAction, opts ...ProposalOption) *domain.Proposal {
	now := time.Now().UTC()
	p := &domain.Proposal{
		ID:             uuid.New().String(),
		FlowID:         flowID,
		Proposer:       "proposer",
		Action:         action,
		Status:         domain.ProposalActive,
		CreatedAt:      now,
		VotingStartsAt: now,
		VotingEndsAt:   now.Add(72 * time.Hour),
		QuorumBP:       5000,
		ApprovalBP:     5000,
		LastVoteCheck:  now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
