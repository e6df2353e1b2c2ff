package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okoyedan/fundflow/internal/db"
	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/repository"
	"github.com/okoyedan/fundflow/internal/testutil"
	"github.com/okoyedan/fundflow/internal/treasury"
)

const testMint = "usdc"

var flowIDSeq atomic.Int64

// harness wires a full service stack over one in-memory database.
type harness struct {
	t   *testing.T
	db  *sql.DB
	uow db.UnitOfWork

	flows         repository.FlowRepo
	contributions repository.ContributionRepo
	proposals     repository.ProposalRepo
	votes         repository.VoteRepo
	vault         treasury.Vault

	flowSvc     FlowService
	govSvc      GovernanceService
	treasurySvc TreasuryService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	flows := repository.NewSQLiteFlowRepo(database)
	contributions := repository.NewSQLiteContributionRepo(database)
	proposals := repository.NewSQLiteProposalRepo(database)
	votes := repository.NewSQLiteVoteRepo(database)
	vault := treasury.NewSQLiteVault(database)

	return &harness{
		t:             t,
		db:            database,
		uow:           uow,
		flows:         flows,
		contributions: contributions,
		proposals:     proposals,
		votes:         votes,
		vault:         vault,
		flowSvc:       NewFlowService(flows, contributions, uow, nil, nil),
		govSvc:        NewGovernanceService(proposals, uow, nil, nil),
		treasurySvc:   NewTreasuryService(flows, vault, uow, nil, nil),
	}
}

func nextFlowID() string {
	return fmt.Sprintf("flow-%03d", flowIDSeq.Add(1))
}

func (h *harness) createDirectFlow(goal uint64) *domain.Flow {
	h.t.Helper()
	flow, err := h.flowSvc.Create(context.Background(), CreateFlowParams{
		Creator:          "creator",
		FlowID:           nextFlowID(),
		TokenMint:        testMint,
		Goal:             goal,
		VotingPowerModel: domain.TokenWeighted,
	})
	require.NoError(h.t, err)
	return flow
}

func (h *harness) createMilestoneFlow(goal uint64, amounts ...uint64) *domain.Flow {
	h.t.Helper()
	now := time.Now().UTC()
	ms := make([]domain.Milestone, len(amounts))
	for i, amt := range amounts {
		ms[i] = domain.Milestone{
			ID:       uint32(i),
			Amount:   amt,
			Deadline: now.Add(time.Duration(i+1) * 24 * time.Hour),
		}
	}
	flow, err := h.flowSvc.Create(context.Background(), CreateFlowParams{
		Creator:          "creator",
		FlowID:           nextFlowID(),
		TokenMint:        testMint,
		Goal:             goal,
		Milestones:       ms,
		VotingPowerModel: domain.TokenWeighted,
	})
	require.NoError(h.t, err)
	return flow
}

func (h *harness) fundWallet(identity string, amount uint64) {
	h.t.Helper()
	err := h.vault.Fund(context.Background(), treasury.WalletAccount(identity), testMint, amount)
	require.NoError(h.t, err)
}

// contribute funds the contributor's wallet and pays the amount into the
// flow in one step.
func (h *harness) contribute(flowID, contributor string, amount uint64) *domain.Contribution {
	h.t.Helper()
	h.fundWallet(contributor, amount)
	c, err := h.flowSvc.Contribute(context.Background(), flowID, contributor, amount)
	require.NoError(h.t, err)
	return c
}

func (h *harness) walletBalance(identity string) uint64 {
	h.t.Helper()
	balance, err := h.vault.Balance(context.Background(), treasury.WalletAccount(identity), testMint)
	require.NoError(h.t, err)
	return balance
}

func (h *harness) flowCustody(flowUUID string) uint64 {
	h.t.Helper()
	balance, err := h.vault.Balance(context.Background(), treasury.FlowAccount(flowUUID), testMint)
	require.NoError(h.t, err)
	return balance
}

func (h *harness) reloadFlow(id string) *domain.Flow {
	h.t.Helper()
	flow, err := h.flows.GetByID(context.Background(), id)
	require.NoError(h.t, err)
	return flow
}

func (h *harness) reloadProposal(id string) *domain.Proposal {
	h.t.Helper()
	p, err := h.proposals.GetByID(context.Background(), id)
	require.NoError(h.t, err)
	return p
}

// cancelFlowByGovernance drives a FlowCancellation proposal to execution
// with a single crossing vote from the named contributor.
func (h *harness) cancelFlowByGovernance(flow *domain.Flow, voter string) {
	h.t.Helper()
	proposal, err := h.govSvc.CreateProposal(context.Background(), CreateProposalParams{
		FlowID:         flow.ID,
		Proposer:       voter,
		Action:         domain.FlowCancellation{},
		VotingDuration: 72 * time.Hour,
		QuorumBP:       1,
		ApprovalBP:     5000,
	})
	require.NoError(h.t, err)
	_, err = h.govSvc.CastVote(context.Background(), proposal.ID, voter, domain.VoteFor)
	require.NoError(h.t, err)
}
