package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/testutil"
)

func defaultProposalParams(flowID string, action domain.ProposalAction) CreateProposalParams {
	return CreateProposalParams{
		FlowID:         flowID,
		Proposer:       "proposer",
		Action:         action,
		VotingDuration: 72 * time.Hour,
		QuorumBP:       5000,
		ApprovalBP:     5000,
	}
}

func TestGovernance_CreateProposal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createMilestoneFlow(1000, 500, 500)
	h.contribute(flow.ID, "alice", 300)

	proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.MilestoneCompletion{MilestoneID: 0}))
	require.NoError(t, err)

	assert.Equal(t, domain.ProposalActive, proposal.Status)
	assert.Equal(t, uint64(300), proposal.TotalEligibleVotes, "eligible votes snapshot raised at creation")

	got := h.reloadFlow(flow.ID)
	require.NotNil(t, got.ActiveProposalID)
	assert.Equal(t, proposal.ID, *got.ActiveProposalID)
	assert.Equal(t, uint32(1), got.ProposalCount)
}

func TestGovernance_CreateProposal_Guards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createMilestoneFlow(1000, 500, 500)

	t.Run("second active proposal", func(t *testing.T) {
		_, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.MilestoneCompletion{MilestoneID: 0}))
		require.NoError(t, err)
		_, err = h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.FlowCancellation{}))
		assert.ErrorIs(t, err, domain.ErrActiveProposalExists)
	})

	t.Run("zero duration", func(t *testing.T) {
		params := defaultProposalParams(flow.ID, domain.FlowCancellation{})
		params.VotingDuration = 0
		_, err := h.govSvc.CreateProposal(ctx, params)
		assert.ErrorIs(t, err, domain.ErrInvalidVotingDuration)
	})

	t.Run("threshold above 100 percent", func(t *testing.T) {
		params := defaultProposalParams(flow.ID, domain.FlowCancellation{})
		params.QuorumBP = 10001
		_, err := h.govSvc.CreateProposal(ctx, params)
		assert.ErrorIs(t, err, domain.ErrInvalidThreshold)
	})

	t.Run("milestone action on direct flow", func(t *testing.T) {
		direct := h.createDirectFlow(500)
		_, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(direct.ID, domain.MilestoneCompletion{MilestoneID: 0}))
		assert.ErrorIs(t, err, domain.ErrNotMilestoneFlow)
	})

	t.Run("unknown milestone", func(t *testing.T) {
		other := h.createMilestoneFlow(1000, 500, 500)
		_, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(other.ID, domain.MilestoneCompletion{MilestoneID: 9}))
		assert.ErrorIs(t, err, domain.ErrMilestoneNotFound)
	})
}

// A single crossing vote resolves the proposal, marks the milestone
// complete, releases its amount, and clears the flow's proposal slot, all
// in one call.
func TestGovernance_VoteCrossesThreshold_ContributionsFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createMilestoneFlow(1000, 500, 500)
	h.contribute(flow.ID, "small", 300)
	h.contribute(flow.ID, "large", 700)

	proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.MilestoneCompletion{MilestoneID: 0}))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), proposal.TotalEligibleVotes)

	vote, err := h.govSvc.CastVote(ctx, proposal.ID, "large", domain.VoteFor)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), vote.VotingPower)

	got := h.reloadProposal(proposal.ID)
	assert.Equal(t, domain.ProposalExecuted, got.Status)
	require.NotNil(t, got.ExecutedAt)

	reloaded := h.reloadFlow(flow.ID)
	assert.Nil(t, reloaded.ActiveProposalID)
	assert.True(t, reloaded.Milestones[0].Completed)
	assert.Equal(t, uint64(500), reloaded.Available, "completed milestone releases its amount")
}

// With the proposal created before any contribution the eligible-vote
// snapshot is zero, so quorum is trivially met and the first For vote
// executes the action.
func TestGovernance_VoteCrossesThreshold_ProposalFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createMilestoneFlow(1000, 500, 500)
	proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.MilestoneCompletion{MilestoneID: 0}))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), proposal.TotalEligibleVotes)

	h.contribute(flow.ID, "small", 300)
	h.contribute(flow.ID, "large", 700)

	_, err = h.govSvc.CastVote(ctx, proposal.ID, "large", domain.VoteFor)
	require.NoError(t, err)

	got := h.reloadProposal(proposal.ID)
	assert.Equal(t, domain.ProposalExecuted, got.Status)
	assert.True(t, h.reloadFlow(flow.ID).Milestones[0].Completed)
}

func TestGovernance_VoteBelowQuorumStaysActive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createMilestoneFlow(1000, 500, 500)
	h.contribute(flow.ID, "small", 300)
	h.contribute(flow.ID, "large", 700)

	proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.MilestoneCompletion{MilestoneID: 0}))
	require.NoError(t, err)

	_, err = h.govSvc.CastVote(ctx, proposal.ID, "small", domain.VoteFor)
	require.NoError(t, err)

	got := h.reloadProposal(proposal.ID)
	assert.Equal(t, domain.ProposalActive, got.Status, "300 of 1000 eligible is below 50 percent quorum")
	assert.Equal(t, uint64(300), got.VotesFor)
	require.NotNil(t, h.reloadFlow(flow.ID).ActiveProposalID)
}

func TestGovernance_QuorumWithoutApprovalFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createMilestoneFlow(1000, 500, 500)
	h.contribute(flow.ID, "small", 300)
	h.contribute(flow.ID, "large", 700)

	proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.MilestoneCompletion{MilestoneID: 0}))
	require.NoError(t, err)

	_, err = h.govSvc.CastVote(ctx, proposal.ID, "large", domain.VoteAgainst)
	require.NoError(t, err)

	got := h.reloadProposal(proposal.ID)
	assert.Equal(t, domain.ProposalFailed, got.Status, "quorum reached with approval short resolves against")
	assert.Nil(t, h.reloadFlow(flow.ID).ActiveProposalID)
	assert.False(t, h.reloadFlow(flow.ID).Milestones[0].Completed)
}

func TestGovernance_CastVote_Guards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createMilestoneFlow(1000, 500, 500)
	h.contribute(flow.ID, "alice", 300)
	h.contribute(flow.ID, "bob", 100)

	proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.MilestoneCompletion{MilestoneID: 0}))
	require.NoError(t, err)

	t.Run("non contributor", func(t *testing.T) {
		_, err := h.govSvc.CastVote(ctx, proposal.ID, "stranger", domain.VoteFor)
		assert.ErrorIs(t, err, domain.ErrUnauthorizedVoter)
	})

	t.Run("double vote", func(t *testing.T) {
		_, err := h.govSvc.CastVote(ctx, proposal.ID, "bob", domain.VoteAbstain)
		require.NoError(t, err)
		_, err = h.govSvc.CastVote(ctx, proposal.ID, "bob", domain.VoteFor)
		assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	})

	t.Run("resolved proposal", func(t *testing.T) {
		require.NoError(t, h.govSvc.CancelProposal(ctx, proposal.ID, "proposer"))
		_, err := h.govSvc.CastVote(ctx, proposal.ID, "alice", domain.VoteFor)
		assert.ErrorIs(t, err, domain.ErrProposalNotActive)
	})
}

// Voting power follows the flow's selected model, not the proposal.
func TestGovernance_VotingPowerModels(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		model domain.VotingPowerModel
		power uint64
	}{
		{domain.TokenWeighted, 400},
		{domain.QuadraticVoting, 20},
		{domain.IndividualVoting, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.model), func(t *testing.T) {
			flow, err := h.flowSvc.Create(ctx, CreateFlowParams{
				Creator:          "creator",
				FlowID:           nextFlowID(),
				TokenMint:        testMint,
				Goal:             1000,
				VotingPowerModel: tt.model,
			})
			require.NoError(t, err)
			h.contribute(flow.ID, "alice", 400)

			params := defaultProposalParams(flow.ID, domain.FlowFundingExtension{
				NewEndDate: time.Now().UTC().Add(30 * 24 * time.Hour),
			})
			params.QuorumBP = 10000
			params.ApprovalBP = 10000
			proposal, err := h.govSvc.CreateProposal(ctx, params)
			require.NoError(t, err)

			vote, err := h.govSvc.CastVote(ctx, proposal.ID, "alice", domain.VoteAbstain)
			require.NoError(t, err)
			assert.Equal(t, tt.power, vote.VotingPower)
		})
	}
}

func TestGovernance_CancelProposal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createMilestoneFlow(1000, 500, 500)
	proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.MilestoneCompletion{MilestoneID: 0}))
	require.NoError(t, err)

	err = h.govSvc.CancelProposal(ctx, proposal.ID, "someone-else")
	assert.ErrorIs(t, err, domain.ErrUnauthorizedCancellation)

	require.NoError(t, h.govSvc.CancelProposal(ctx, proposal.ID, "proposer"))
	assert.Equal(t, domain.ProposalCanceled, h.reloadProposal(proposal.ID).Status)
	assert.Nil(t, h.reloadFlow(flow.ID).ActiveProposalID)

	// The slot frees up for the next proposal.
	_, err = h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.FlowCancellation{}))
	require.NoError(t, err)
}

func TestGovernance_FinalizeAfterWindow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createMilestoneFlow(1000, 500, 500)
	h.contribute(flow.ID, "alice", 300)
	h.contribute(flow.ID, "bob", 700)

	t.Run("open window rejected", func(t *testing.T) {
		proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.MilestoneCompletion{MilestoneID: 0}))
		require.NoError(t, err)
		_, err = h.govSvc.FinalizeProposal(ctx, proposal.ID)
		assert.ErrorIs(t, err, domain.ErrVotingStillOpen)
		require.NoError(t, h.govSvc.CancelProposal(ctx, proposal.ID, "proposer"))
	})

	t.Run("quorum miss fails", func(t *testing.T) {
		proposal := h.seedExpiredProposal(flow, domain.MilestoneCompletion{MilestoneID: 0}, 300, 0)
		got, err := h.govSvc.FinalizeProposal(ctx, proposal.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProposalFailed, got.Status)
		assert.Nil(t, h.reloadFlow(flow.ID).ActiveProposalID)
	})

	t.Run("quorum and approval execute", func(t *testing.T) {
		proposal := h.seedExpiredProposal(flow, domain.MilestoneCompletion{MilestoneID: 1}, 700, 0)
		got, err := h.govSvc.FinalizeProposal(ctx, proposal.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProposalExecuted, got.Status)
		assert.True(t, h.reloadFlow(flow.ID).Milestones[1].Completed)
	})
}

// seedExpiredProposal plants an already-closed proposal with preset
// tallies directly through the repositories, since the service clock
// cannot be wound forward.
func (h *harness) seedExpiredProposal(flow *domain.Flow, action domain.ProposalAction, votesFor, votesAgainst uint64) *domain.Proposal {
	h.t.Helper()
	ctx := context.Background()

	proposal := testutil.NewTestProposal(flow.ID, action, testutil.WithEligibleVotes(1000))
	proposal.VotingStartsAt = time.Now().UTC().Add(-48 * time.Hour)
	proposal.VotingEndsAt = time.Now().UTC().Add(-time.Hour)
	proposal.VotesFor = votesFor
	proposal.VotesAgainst = votesAgainst
	require.NoError(h.t, h.proposals.Create(ctx, proposal))

	current := h.reloadFlow(flow.ID)
	current.ActiveProposalID = &proposal.ID
	require.NoError(h.t, h.flows.Update(ctx, current))
	return proposal
}

// A cancellation vote crossing the threshold after the flow already left
// the Active state fails the whole call: the ballot is not recorded and
// the proposal stays Active for manual cleanup.
func TestGovernance_CancellationAgainstCanceledFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createDirectFlow(1000)
	h.contribute(flow.ID, "alice", 1000)

	proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.FlowCancellation{}))
	require.NoError(t, err)

	// The flow is canceled out from under the open proposal.
	current := h.reloadFlow(flow.ID)
	require.NoError(t, current.ApplyCancellation())
	require.NoError(t, h.flows.Update(ctx, current))

	_, err = h.govSvc.CastVote(ctx, proposal.ID, "alice", domain.VoteFor)
	require.ErrorIs(t, err, domain.ErrCannotCancelFlow)

	got := h.reloadProposal(proposal.ID)
	assert.Equal(t, domain.ProposalActive, got.Status)
	assert.Equal(t, uint64(0), got.VotesFor, "rolled-back ballot leaves no tally")

	_, err = h.votes.GetByProposalAndVoter(ctx, proposal.ID, "alice")
	assert.Error(t, err)
}

func TestGovernance_ExecuteProposal_Guards(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	flow := h.createMilestoneFlow(1000, 500, 500)
	h.contribute(flow.ID, "alice", 1000)

	proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.MilestoneCompletion{MilestoneID: 0}))
	require.NoError(t, err)

	_, err = h.govSvc.ExecuteProposal(ctx, proposal.ID)
	assert.ErrorIs(t, err, domain.ErrProposalNotPassed)

	// The crossing vote executes inline; re-execution is rejected.
	_, err = h.govSvc.CastVote(ctx, proposal.ID, "alice", domain.VoteFor)
	require.NoError(t, err)
	_, err = h.govSvc.ExecuteProposal(ctx, proposal.ID)
	assert.ErrorIs(t, err, domain.ErrProposalAlreadyExecuted)
}

func TestGovernance_FundingExtension(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	end := time.Now().UTC().Add(7 * 24 * time.Hour)
	flow, err := h.flowSvc.Create(ctx, CreateFlowParams{
		Creator:          "creator",
		FlowID:           nextFlowID(),
		TokenMint:        testMint,
		Goal:             1000,
		EndDate:          &end,
		VotingPowerModel: domain.TokenWeighted,
	})
	require.NoError(t, err)
	h.contribute(flow.ID, "alice", 1000)

	newEnd := end.Add(14 * 24 * time.Hour)
	proposal, err := h.govSvc.CreateProposal(ctx, defaultProposalParams(flow.ID, domain.FlowFundingExtension{NewEndDate: newEnd}))
	require.NoError(t, err)

	_, err = h.govSvc.CastVote(ctx, proposal.ID, "alice", domain.VoteFor)
	require.NoError(t, err)

	got := h.reloadFlow(flow.ID)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, newEnd.Unix(), got.EndDate.Unix())
}
