package repository

import (
	"context"
	"testing"
	"time"

	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProposalRepo_ActionRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	flows := NewSQLiteFlowRepo(db)
	repo := NewSQLiteProposalRepo(db)
	ctx := context.Background()

	flow := testutil.NewTestFlow(1000)
	require.NoError(t, flows.Create(ctx, flow))

	newAmount := uint64(250)
	deadline := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	actions := []domain.ProposalAction{
		domain.MilestoneCompletion{MilestoneID: 2},
		domain.FlowCancellation{},
		domain.MilestoneAdjustment{MilestoneID: 0, NewAmount: &newAmount, NewDeadline: &deadline},
		domain.FlowFundingExtension{NewEndDate: deadline},
	}

	for _, action := range actions {
		prop := testutil.NewTestProposal(flow.ID, action)
		require.NoError(t, repo.Create(ctx, prop))

		fetched, err := repo.GetByID(ctx, prop.ID)
		require.NoError(t, err, "kind=%s", action.Kind())
		assert.Equal(t, action.Kind(), fetched.Action.Kind())
		assert.Equal(t, domain.ProposalActive, fetched.Status)
		assert.Equal(t, uint16(5000), fetched.QuorumBP)
	}
}

func TestProposalRepo_UpdateTalliesAndStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	flows := NewSQLiteFlowRepo(db)
	repo := NewSQLiteProposalRepo(db)
	ctx := context.Background()

	flow := testutil.NewTestFlow(1000)
	require.NoError(t, flows.Create(ctx, flow))

	prop := testutil.NewTestProposal(flow.ID, domain.FlowCancellation{}, testutil.WithEligibleVotes(1000))
	require.NoError(t, repo.Create(ctx, prop))

	executedAt := time.Now().UTC().Truncate(time.Second)
	prop.VotesFor = 700
	prop.VotesAgainst = 100
	prop.Status = domain.ProposalExecuted
	prop.ExecutedAt = &executedAt
	prop.LastVoteCheck = executedAt
	require.NoError(t, repo.Update(ctx, prop))

	fetched, err := repo.GetByID(ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), fetched.VotesFor)
	assert.Equal(t, uint64(100), fetched.VotesAgainst)
	assert.Equal(t, domain.ProposalExecuted, fetched.Status)
	require.NotNil(t, fetched.ExecutedAt)
	assert.True(t, fetched.ExecutedAt.Equal(executedAt))
	assert.Equal(t, uint64(1000), fetched.TotalEligibleVotes)
}

func TestProposalRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProposalRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProposalRepo_ListByFlow(t *testing.T) {
	db := testutil.NewTestDB(t)
	flows := NewSQLiteFlowRepo(db)
	repo := NewSQLiteProposalRepo(db)
	ctx := context.Background()

	flow := testutil.NewTestFlow(1000)
	require.NoError(t, flows.Create(ctx, flow))

	require.NoError(t, repo.Create(ctx, testutil.NewTestProposal(flow.ID, domain.FlowCancellation{})))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProposal(flow.ID, domain.MilestoneCompletion{MilestoneID: 0})))

	list, err := repo.ListByFlow(ctx, flow.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
