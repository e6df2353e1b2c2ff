package domain

import (
	"time"

	"github.com/okoyedan/fundflow/internal/ledger"
)

// MaxFlowIDLen bounds the human-readable flow identifier.
const MaxFlowIDLen = 32

// Flow is a funding campaign: its goal, its accounting counters, and the
// governance configuration its contributors vote under.
//
// Counters obey raised >= available + withdrawn + total_refunded at all
// times. Available tracks funds the creator may withdraw right now: for a
// flow without milestones that is everything raised; for a milestone flow
// funds become available only as milestones complete.
type Flow struct {
	ID               string // surrogate UUID
	FlowID           string // creator-chosen identifier, unique per creator
	Creator          string
	TokenMint        string
	Goal             uint64
	Raised           uint64
	Available        uint64
	Withdrawn        uint64
	TotalRefunded    uint64
	RefundsCount     uint32
	ContributorCount uint32
	Status           FlowStatus
	StartDate        *time.Time
	EndDate          *time.Time
	Milestones       []Milestone // empty for direct flows
	ProposalCount    uint32
	VotingPowerModel VotingPowerModel
	ActiveProposalID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasMilestones reports whether fund release is milestone-gated.
func (f *Flow) HasMilestones() bool {
	return len(f.Milestones) > 0
}

// Validate checks the flow's creation-time invariants.
func (f *Flow) Validate(now time.Time) error {
	if f.FlowID == "" {
		return ErrEmptyFlowID
	}
	if len(f.FlowID) > MaxFlowIDLen {
		return ErrFlowIDTooLong
	}
	if f.Goal == 0 {
		return ErrInvalidGoal
	}
	if !ValidVotingPowerModels[string(f.VotingPowerModel)] {
		return ErrInvalidVotingPowerModel
	}
	if f.StartDate != nil && f.StartDate.Before(now) {
		return ErrInvalidStartTime
	}
	if f.EndDate != nil {
		if !f.EndDate.After(now) {
			return ErrInvalidTimeframe
		}
		if f.StartDate != nil && !f.EndDate.After(*f.StartDate) {
			return ErrInvalidTimeframe
		}
	}
	if f.HasMilestones() {
		return ValidateSchedule(f.Milestones, f.Goal, f.EndDate, now)
	}
	return nil
}

// RecordContribution adds amount to the raised counter. When the flow has
// no milestones the amount is immediately withdrawable, so available moves
// in the same step; a gap between the two writes would break the
// raised >= available + withdrawn invariant.
func (f *Flow) RecordContribution(amount uint64, now time.Time) error {
	if f.Status != FlowActive {
		return ErrFlowNotActive
	}
	if f.StartDate != nil && now.Before(*f.StartDate) {
		return ErrFlowNotStarted
	}
	if f.EndDate != nil && now.After(*f.EndDate) {
		return ErrFlowEnded
	}
	raised, err := ledger.Add(f.Raised, amount)
	if err != nil {
		return err
	}
	if !f.HasMilestones() {
		available, err := ledger.Add(f.Available, amount)
		if err != nil {
			return err
		}
		f.Available = available
	}
	f.Raised = raised
	return nil
}

// RecordWithdrawal moves amount from available to withdrawn.
func (f *Flow) RecordWithdrawal(amount uint64) error {
	if amount > f.Available {
		return ErrInsufficientFunds
	}
	withdrawn, err := ledger.Add(f.Withdrawn, amount)
	if err != nil {
		return err
	}
	f.Available -= amount
	f.Withdrawn = withdrawn
	return nil
}

// RecordUnlock releases milestone-gated funds into available. The release
// is capped at the funds actually raised and still held, so the
// conservation invariant survives under-funded milestones. Returns the
// amount actually unlocked.
func (f *Flow) RecordUnlock(amount uint64) (uint64, error) {
	locked := f.Raised - f.Available - f.Withdrawn - f.TotalRefunded
	if amount > locked {
		amount = locked
	}
	available, err := ledger.Add(f.Available, amount)
	if err != nil {
		return 0, err
	}
	f.Available = available
	return amount, nil
}

// RecordRefund accounts for a refund paid out of a canceled flow.
func (f *Flow) RecordRefund(amount uint64) error {
	if f.Status != FlowCanceled {
		return ErrFlowNotCanceled
	}
	refunded, err := ledger.Add(f.TotalRefunded, amount)
	if err != nil {
		return err
	}
	f.TotalRefunded = refunded
	f.RefundsCount++
	return nil
}

// ApplyCancellation transitions Active -> Canceled. The transition is
// one-way; a second call fails so callers cannot mask double-apply bugs.
func (f *Flow) ApplyCancellation() error {
	if f.Status != FlowActive {
		return ErrCannotCancelFlow
	}
	f.Status = FlowCanceled
	return nil
}

// ExtendEndDate sets a new funding end date. The new date must be in the
// future and strictly later than the current end date, if one is set.
func (f *Flow) ExtendEndDate(newEnd time.Time, now time.Time) error {
	if !newEnd.After(now) {
		return ErrInvalidFlowExtension
	}
	if f.EndDate != nil && !newEnd.After(*f.EndDate) {
		return ErrInvalidFlowExtension
	}
	f.EndDate = &newEnd
	return nil
}

// RemainingBalance is the flow's spendable custody: raised funds not yet
// withdrawn by the creator or refunded to contributors. Refund shares are
// computed against this figure.
func (f *Flow) RemainingBalance() uint64 {
	spent, err := ledger.Add(f.Withdrawn, f.TotalRefunded)
	if err != nil || spent > f.Raised {
		return 0
	}
	return f.Raised - spent
}
