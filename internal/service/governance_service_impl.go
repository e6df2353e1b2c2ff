package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/okoyedan/fundflow/internal/db"
	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/repository"
)

type governanceService struct {
	proposals repository.ProposalRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
	events    EventSink
}

func NewGovernanceService(
	proposals repository.ProposalRepo,
	uow db.UnitOfWork,
	observer UseCaseObserver,
	events EventSink,
) GovernanceService {
	return &governanceService{
		proposals: proposals,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observer),
		events:    eventSinkOrNoop(events),
	}
}

func (s *governanceService) GetProposal(ctx context.Context, id string) (*domain.Proposal, error) {
	return s.proposals.GetByID(ctx, id)
}

func (s *governanceService) ListByFlow(ctx context.Context, flowID string) ([]*domain.Proposal, error) {
	return s.proposals.ListByFlow(ctx, flowID)
}

func (s *governanceService) CreateProposal(ctx context.Context, params CreateProposalParams) (proposal *domain.Proposal, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-proposal",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"flow": params.FlowID, "proposer": params.Proposer},
		})
	}()

	if params.VotingDuration <= 0 {
		return nil, domain.ErrInvalidVotingDuration
	}
	if params.QuorumBP > domain.MaxBasisPoints || params.ApprovalBP > domain.MaxBasisPoints {
		return nil, domain.ErrInvalidThreshold
	}
	if params.Action == nil {
		return nil, errors.New("proposal action is required")
	}

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFlows := repository.NewSQLiteFlowRepo(tx)
		txProposals := repository.NewSQLiteProposalRepo(tx)

		flow, err := txFlows.GetByID(ctx, params.FlowID)
		if err != nil {
			return err
		}
		if flow.Status != domain.FlowActive {
			return domain.ErrFlowNotActive
		}
		if flow.ActiveProposalID != nil {
			return domain.ErrActiveProposalExists
		}
		if err := validateActionTarget(flow, params.Action); err != nil {
			return err
		}

		proposal = &domain.Proposal{
			ID:                 uuid.New().String(),
			FlowID:             flow.ID,
			Proposer:           params.Proposer,
			Action:             params.Action,
			Status:             domain.ProposalActive,
			CreatedAt:          now,
			VotingStartsAt:     now,
			VotingEndsAt:       now.Add(params.VotingDuration),
			TotalEligibleVotes: flow.Raised,
			QuorumBP:           params.QuorumBP,
			ApprovalBP:         params.ApprovalBP,
			LastVoteCheck:      now,
		}
		if err := txProposals.Create(ctx, proposal); err != nil {
			return err
		}

		flow.ProposalCount++
		flow.ActiveProposalID = &proposal.ID
		flow.UpdatedAt = now
		return txFlows.Update(ctx, flow)
	})
	if err != nil {
		return nil, err
	}
	return proposal, nil
}

// validateActionTarget rejects proposals whose action cannot possibly
// apply to the flow, so voters never weigh in on a dead letter.
func validateActionTarget(flow *domain.Flow, action domain.ProposalAction) error {
	switch a := action.(type) {
	case domain.MilestoneCompletion:
		if !flow.HasMilestones() {
			return domain.ErrNotMilestoneFlow
		}
		_, err := domain.FindMilestone(flow.Milestones, a.MilestoneID)
		return err
	case domain.MilestoneAdjustment:
		if !flow.HasMilestones() {
			return domain.ErrNotMilestoneFlow
		}
		if a.NewAmount == nil && a.NewDeadline == nil {
			return domain.ErrInvalidMilestoneAdjustment
		}
		_, err := domain.FindMilestone(flow.Milestones, a.MilestoneID)
		return err
	case domain.FlowCancellation, domain.FlowFundingExtension:
		return nil
	default:
		return errors.New("unknown proposal action")
	}
}

// CastVote counts one ballot. The vote insert, tally update, and (when the
// vote pushes the proposal over both thresholds) the action's effects on
// the flow all commit together; if applying the action fails, the ballot
// itself is rolled back and the proposal is left untouched.
func (s *governanceService) CastVote(ctx context.Context, proposalID, voter string, voteType domain.VoteType) (vote *domain.Vote, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "cast-vote",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"proposal": proposalID, "voter": voter, "type": string(voteType)},
		})
	}()

	if !domain.ValidVoteTypes[string(voteType)] {
		return nil, errors.New("invalid vote type")
	}

	now := time.Now().UTC()
	var resolved *domain.Proposal
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFlows := repository.NewSQLiteFlowRepo(tx)
		txProposals := repository.NewSQLiteProposalRepo(tx)
		txContributions := repository.NewSQLiteContributionRepo(tx)
		txVotes := repository.NewSQLiteVoteRepo(tx)

		proposal, err := txProposals.GetByID(ctx, proposalID)
		if err != nil {
			return err
		}
		flow, err := txFlows.GetByID(ctx, proposal.FlowID)
		if err != nil {
			return err
		}

		if _, err := txVotes.GetByProposalAndVoter(ctx, proposalID, voter); err == nil {
			return domain.ErrAlreadyVoted
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		contribution, err := txContributions.GetByFlowAndContributor(ctx, flow.ID, voter)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUnauthorizedVoter
		} else if err != nil {
			return err
		}

		power, err := domain.VotingPower(contribution, flow.VotingPowerModel)
		if err != nil {
			return err
		}
		if err := proposal.AddVote(voteType, power, now); err != nil {
			return err
		}

		vote = &domain.Vote{
			ID:          uuid.New().String(),
			ProposalID:  proposalID,
			Voter:       voter,
			Type:        voteType,
			VotingPower: power,
			CastAt:      now,
		}
		if err := txVotes.Create(ctx, vote); err != nil {
			return err
		}

		passed, err := proposal.CheckExecutionThreshold(now)
		if err != nil {
			return err
		}
		if passed {
			if err := applyProposalAction(flow, proposal.Action, now); err != nil {
				return err
			}
			if err := proposal.MarkExecuted(now); err != nil {
				return err
			}
		}
		if proposal.Status != domain.ProposalActive {
			flow.ActiveProposalID = nil
			resolved = proposal
		}

		if err := txProposals.Update(ctx, proposal); err != nil {
			return err
		}
		flow.UpdatedAt = now
		return txFlows.Update(ctx, flow)
	})
	if err != nil {
		return nil, err
	}

	s.events.Vote(ctx, VoteEvent{
		ProposalID: proposalID,
		Voter:      voter,
		Type:       voteType,
		Power:      vote.VotingPower,
		At:         now,
	})
	if resolved != nil {
		s.events.ProposalResolved(ctx, ProposalResolvedEvent{
			ProposalID: resolved.ID,
			FlowID:     resolved.FlowID,
			Action:     resolved.Action.Kind(),
			Status:     resolved.Status,
			At:         now,
		})
	}
	return vote, nil
}

// FinalizeProposal resolves an Active proposal whose voting window has
// closed. A proposal that passes is also executed here; callers never
// need a second step after finalization succeeds.
func (s *governanceService) FinalizeProposal(ctx context.Context, proposalID string) (proposal *domain.Proposal, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "finalize-proposal",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"proposal": proposalID},
		})
	}()

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFlows := repository.NewSQLiteFlowRepo(tx)
		txProposals := repository.NewSQLiteProposalRepo(tx)

		proposal, err = txProposals.GetByID(ctx, proposalID)
		if err != nil {
			return err
		}
		flow, err := txFlows.GetByID(ctx, proposal.FlowID)
		if err != nil {
			return err
		}

		if err := proposal.Finalize(now); err != nil {
			return err
		}
		if proposal.Status == domain.ProposalPassed {
			if err := applyProposalAction(flow, proposal.Action, now); err != nil {
				return err
			}
			if err := proposal.MarkExecuted(now); err != nil {
				return err
			}
		}

		flow.ActiveProposalID = nil
		flow.UpdatedAt = now
		if err := txProposals.Update(ctx, proposal); err != nil {
			return err
		}
		return txFlows.Update(ctx, flow)
	})
	if err != nil {
		return nil, err
	}

	s.events.ProposalResolved(ctx, ProposalResolvedEvent{
		ProposalID: proposal.ID,
		FlowID:     proposal.FlowID,
		Action:     proposal.Action.Kind(),
		Status:     proposal.Status,
		At:         now,
	})
	return proposal, nil
}

// ExecuteProposal applies a proposal that already Passed but was not
// executed in the same step, for callers that separate the two.
func (s *governanceService) ExecuteProposal(ctx context.Context, proposalID string) (proposal *domain.Proposal, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "execute-proposal",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"proposal": proposalID},
		})
	}()

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFlows := repository.NewSQLiteFlowRepo(tx)
		txProposals := repository.NewSQLiteProposalRepo(tx)

		proposal, err = txProposals.GetByID(ctx, proposalID)
		if err != nil {
			return err
		}
		if proposal.Status == domain.ProposalExecuted {
			return domain.ErrProposalAlreadyExecuted
		}
		if proposal.Status != domain.ProposalPassed {
			return domain.ErrProposalNotPassed
		}
		flow, err := txFlows.GetByID(ctx, proposal.FlowID)
		if err != nil {
			return err
		}

		if err := applyProposalAction(flow, proposal.Action, now); err != nil {
			return err
		}
		if err := proposal.MarkExecuted(now); err != nil {
			return err
		}

		if flow.ActiveProposalID != nil && *flow.ActiveProposalID == proposal.ID {
			flow.ActiveProposalID = nil
		}
		flow.UpdatedAt = now
		if err := txProposals.Update(ctx, proposal); err != nil {
			return err
		}
		return txFlows.Update(ctx, flow)
	})
	if err != nil {
		return nil, err
	}

	s.events.ProposalResolved(ctx, ProposalResolvedEvent{
		ProposalID: proposal.ID,
		FlowID:     proposal.FlowID,
		Action:     proposal.Action.Kind(),
		Status:     proposal.Status,
		At:         now,
	})
	return proposal, nil
}

func (s *governanceService) CancelProposal(ctx context.Context, proposalID, caller string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "cancel-proposal",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"proposal": proposalID, "caller": caller},
		})
	}()

	now := time.Now().UTC()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFlows := repository.NewSQLiteFlowRepo(tx)
		txProposals := repository.NewSQLiteProposalRepo(tx)

		proposal, err := txProposals.GetByID(ctx, proposalID)
		if err != nil {
			return err
		}
		if err := proposal.Cancel(caller); err != nil {
			return err
		}

		flow, err := txFlows.GetByID(ctx, proposal.FlowID)
		if err != nil {
			return err
		}
		if flow.ActiveProposalID != nil && *flow.ActiveProposalID == proposal.ID {
			flow.ActiveProposalID = nil
			flow.UpdatedAt = now
			if err := txFlows.Update(ctx, flow); err != nil {
				return err
			}
		}
		return txProposals.Update(ctx, proposal)
	})
}

// applyProposalAction carries out a passed proposal's effect on its flow.
// The switch is exhaustive over the closed action set.
func applyProposalAction(flow *domain.Flow, action domain.ProposalAction, now time.Time) error {
	switch a := action.(type) {
	case domain.MilestoneCompletion:
		m, err := domain.MarkCompleted(flow.Milestones, a.MilestoneID)
		if err != nil {
			return err
		}
		_, err = flow.RecordUnlock(m.Amount)
		return err
	case domain.FlowCancellation:
		return flow.ApplyCancellation()
	case domain.MilestoneAdjustment:
		return domain.AdjustMilestone(flow.Milestones, a.MilestoneID, a.NewAmount, a.NewDeadline, flow.Goal, flow.EndDate, now)
	case domain.FlowFundingExtension:
		return flow.ExtendEndDate(a.NewEndDate, now)
	default:
		return errors.New("unknown proposal action")
	}
}
