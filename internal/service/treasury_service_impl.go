package service

import (
	"context"
	"time"

	"github.com/okoyedan/fundflow/internal/db"
	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/ledger"
	"github.com/okoyedan/fundflow/internal/repository"
	"github.com/okoyedan/fundflow/internal/treasury"
)

type treasuryService struct {
	flows    repository.FlowRepo
	vault    treasury.Vault
	uow      db.UnitOfWork
	observer UseCaseObserver
	events   EventSink
}

func NewTreasuryService(
	flows repository.FlowRepo,
	vault treasury.Vault,
	uow db.UnitOfWork,
	observer UseCaseObserver,
	events EventSink,
) TreasuryService {
	return &treasuryService{
		flows:    flows,
		vault:    vault,
		uow:      uow,
		observer: useCaseObserverOrNoop(observer),
		events:   eventSinkOrNoop(events),
	}
}

// Withdraw pays released funds out of the flow's custody to its creator.
func (s *treasuryService) Withdraw(ctx context.Context, flowID, caller string, amount uint64) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "withdraw",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"flow": flowID, "caller": caller, "amount": amount},
		})
	}()

	if amount == 0 {
		return domain.ErrInvalidContributionAmount
	}

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFlows := repository.NewSQLiteFlowRepo(tx)
		vault := treasury.NewSQLiteVault(tx)

		flow, err := txFlows.GetByID(ctx, flowID)
		if err != nil {
			return err
		}
		if caller != flow.Creator {
			return domain.ErrUnauthorizedWithdrawal
		}
		if flow.Status == domain.FlowCanceled {
			return domain.ErrFlowCanceled
		}
		if err := flow.RecordWithdrawal(amount); err != nil {
			return err
		}

		err = vault.Transfer(ctx,
			treasury.FlowAccount(flow.ID),
			treasury.WalletAccount(flow.Creator),
			flow.TokenMint, amount)
		if err != nil {
			return err
		}

		flow.UpdatedAt = now
		return txFlows.Update(ctx, flow)
	})
	if err != nil {
		return err
	}

	s.events.Withdrawal(ctx, WithdrawalEvent{
		FlowID: flowID,
		Caller: caller,
		Amount: amount,
		At:     now,
	})
	return nil
}

// WithdrawContribution refunds a contributor's pro-rata share of a
// canceled flow's remaining custody:
//
//	refund = total_amount * remaining / raised
//
// computed with a 128-bit intermediate so large positions cannot wrap.
// Returns the amount refunded.
func (s *treasuryService) WithdrawContribution(ctx context.Context, flowID, contributor string) (refund uint64, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "refund",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"flow": flowID, "contributor": contributor},
		})
	}()

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFlows := repository.NewSQLiteFlowRepo(tx)
		txContributions := repository.NewSQLiteContributionRepo(tx)
		vault := treasury.NewSQLiteVault(tx)

		flow, err := txFlows.GetByID(ctx, flowID)
		if err != nil {
			return err
		}
		if flow.Status != domain.FlowCanceled {
			return domain.ErrFlowNotCanceled
		}

		contribution, err := txContributions.GetByFlowAndContributor(ctx, flow.ID, contributor)
		if err != nil {
			return err
		}
		if contribution.Refunded {
			return domain.ErrAlreadyRefunded
		}

		remaining := flow.RemainingBalance()
		if flow.Raised == 0 || remaining == 0 {
			return domain.ErrRefundTooSmall
		}
		refund, err = ledger.MulDiv(contribution.TotalAmount, remaining, flow.Raised)
		if err != nil {
			return err
		}
		if refund == 0 {
			return domain.ErrRefundTooSmall
		}

		custody, err := vault.Balance(ctx, treasury.FlowAccount(flow.ID), flow.TokenMint)
		if err != nil {
			return err
		}
		if refund > custody {
			return domain.ErrInsufficientTreasuryFunds
		}
		err = vault.Transfer(ctx,
			treasury.FlowAccount(flow.ID),
			treasury.WalletAccount(contributor),
			flow.TokenMint, refund)
		if err != nil {
			return err
		}

		if err := contribution.MarkRefunded(refund, now); err != nil {
			return err
		}
		if err := txContributions.Update(ctx, contribution); err != nil {
			return err
		}
		if err := flow.RecordRefund(refund); err != nil {
			return err
		}
		flow.UpdatedAt = now
		return txFlows.Update(ctx, flow)
	})
	if err != nil {
		return 0, err
	}

	s.events.Refund(ctx, RefundEvent{
		FlowID:      flowID,
		Contributor: contributor,
		Amount:      refund,
		At:          now,
	})
	return refund, nil
}

func (s *treasuryService) FlowBalance(ctx context.Context, flowID string) (uint64, error) {
	flow, err := s.flows.GetByID(ctx, flowID)
	if err != nil {
		return 0, err
	}
	return s.vault.Balance(ctx, treasury.FlowAccount(flow.ID), flow.TokenMint)
}

func (s *treasuryService) Fund(ctx context.Context, account, mint string, amount uint64) error {
	return s.vault.Fund(ctx, account, mint, amount)
}

func (s *treasuryService) Balance(ctx context.Context, account, mint string) (uint64, error) {
	return s.vault.Balance(ctx, account, mint)
}
