package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/okoyedan/fundflow/internal/db"
	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/repository"
	"github.com/okoyedan/fundflow/internal/treasury"
)

type flowService struct {
	flows         repository.FlowRepo
	contributions repository.ContributionRepo
	uow           db.UnitOfWork
	observer      UseCaseObserver
	events        EventSink
}

func NewFlowService(
	flows repository.FlowRepo,
	contributions repository.ContributionRepo,
	uow db.UnitOfWork,
	observer UseCaseObserver,
	events EventSink,
) FlowService {
	return &flowService{
		flows:         flows,
		contributions: contributions,
		uow:           uow,
		observer:      useCaseObserverOrNoop(observer),
		events:        eventSinkOrNoop(events),
	}
}

func (s *flowService) Create(ctx context.Context, params CreateFlowParams) (flow *domain.Flow, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-flow",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"creator": params.Creator, "flow_id": params.FlowID},
		})
	}()

	now := time.Now().UTC()
	flow = &domain.Flow{
		ID:               uuid.New().String(),
		FlowID:           params.FlowID,
		Creator:          params.Creator,
		TokenMint:        params.TokenMint,
		Goal:             params.Goal,
		Status:           domain.FlowActive,
		StartDate:        params.StartDate,
		EndDate:          params.EndDate,
		Milestones:       params.Milestones,
		VotingPowerModel: params.VotingPowerModel,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err = flow.Validate(now); err != nil {
		return nil, err
	}

	// Flow and milestone rows land together or not at all.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteFlowRepo(tx).Create(ctx, flow)
	})
	if err != nil {
		return nil, err
	}
	return flow, nil
}

func (s *flowService) GetByID(ctx context.Context, id string) (*domain.Flow, error) {
	return s.flows.GetByID(ctx, id)
}

func (s *flowService) GetByCreatorAndFlowID(ctx context.Context, creator, flowID string) (*domain.Flow, error) {
	return s.flows.GetByCreatorAndFlowID(ctx, creator, flowID)
}

func (s *flowService) List(ctx context.Context, creator string) ([]*domain.Flow, error) {
	return s.flows.List(ctx, creator)
}

func (s *flowService) ListContributions(ctx context.Context, flowID string) ([]*domain.Contribution, error) {
	return s.contributions.ListByFlow(ctx, flowID)
}

// Contribute moves amount from the contributor's account into the flow's
// custody and records it against both the flow and the contributor's
// position. The transfer and every accounting write share one
// transaction: if any step fails the funds never move.
func (s *flowService) Contribute(ctx context.Context, flowID, contributor string, amount uint64) (contribution *domain.Contribution, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "contribute",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"flow": flowID, "contributor": contributor, "amount": amount},
		})
	}()

	if amount == 0 {
		return nil, domain.ErrInvalidContributionAmount
	}

	now := time.Now().UTC()
	var flowRaised uint64
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFlows := repository.NewSQLiteFlowRepo(tx)
		txContributions := repository.NewSQLiteContributionRepo(tx)
		vault := treasury.NewSQLiteVault(tx)

		flow, err := txFlows.GetByID(ctx, flowID)
		if err != nil {
			return err
		}
		if err := flow.RecordContribution(amount, now); err != nil {
			return err
		}

		// Funds move before any accounting row is written.
		err = vault.Transfer(ctx,
			treasury.WalletAccount(contributor),
			treasury.FlowAccount(flow.ID),
			flow.TokenMint, amount)
		if err != nil {
			return err
		}

		contribution, err = txContributions.GetByFlowAndContributor(ctx, flow.ID, contributor)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			contribution = &domain.Contribution{
				ID:          uuid.New().String(),
				FlowID:      flow.ID,
				Contributor: contributor,
				TokenMint:   flow.TokenMint,
			}
			if err := contribution.Apply(amount, now); err != nil {
				return err
			}
			if err := txContributions.Create(ctx, contribution); err != nil {
				return err
			}
			flow.ContributorCount++
		case err != nil:
			return err
		default:
			if err := contribution.Apply(amount, now); err != nil {
				return err
			}
			if err := txContributions.Update(ctx, contribution); err != nil {
				return err
			}
		}

		flow.UpdatedAt = now
		flowRaised = flow.Raised
		return txFlows.Update(ctx, flow)
	})
	if err != nil {
		return nil, err
	}

	s.events.Contribution(ctx, ContributionEvent{
		FlowID:      flowID,
		Contributor: contributor,
		Amount:      amount,
		Total:       contribution.TotalAmount,
		Raised:      flowRaised,
		At:          now,
	})
	return contribution, nil
}
