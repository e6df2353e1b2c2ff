package domain

import (
	"errors"

	"github.com/okoyedan/fundflow/internal/ledger"
)

// ErrMathOverflow is returned on any checked arithmetic that would wrap.
// It aliases the ledger sentinel so errors.Is works across both packages.
var ErrMathOverflow = ledger.ErrOverflow

// Validation errors: malformed input, rejected before any state mutation.
var (
	ErrEmptyFlowID               = errors.New("flow id cannot be empty")
	ErrFlowIDTooLong             = errors.New("flow id exceeds 32 characters")
	ErrInvalidGoal               = errors.New("goal must be positive")
	ErrInvalidStartTime          = errors.New("start time is in the past")
	ErrInvalidTimeframe          = errors.New("invalid timeframe")
	ErrInvalidContributionAmount = errors.New("contribution amount must be positive")
	ErrInvalidThreshold          = errors.New("threshold exceeds 10000 basis points")
	ErrInvalidVotingDuration     = errors.New("voting duration must be positive")
	ErrInvalidVotingPowerModel   = errors.New("unknown voting power model")

	ErrNoMilestonesSpecified      = errors.New("no milestones specified")
	ErrTooManyMilestones          = errors.New("too many milestones")
	ErrDuplicateMilestone         = errors.New("duplicate milestone id")
	ErrInvalidMilestoneAmount     = errors.New("milestone amount must be positive")
	ErrMilestoneTotalMismatch     = errors.New("milestone amounts do not sum to goal")
	ErrInvalidMilestoneDeadline   = errors.New("invalid milestone deadline")
	ErrInvalidMilestoneAdjustment = errors.New("milestone adjustment exceeds flow goal")
	ErrInvalidFlowExtension       = errors.New("invalid flow extension")
)

// State errors: the operation is not legal in the entity's current status.
var (
	ErrFlowNotActive            = errors.New("flow is not active")
	ErrFlowNotStarted           = errors.New("flow has not started")
	ErrFlowEnded                = errors.New("flow has ended")
	ErrFlowCanceled             = errors.New("flow is canceled")
	ErrFlowNotCanceled          = errors.New("flow is not canceled")
	ErrCannotCancelFlow         = errors.New("flow cannot be canceled")
	ErrNotMilestoneFlow         = errors.New("flow has no milestones")
	ErrMilestoneNotFound        = errors.New("milestone not found")
	ErrMilestoneAlreadyCompleted = errors.New("milestone already completed")
	ErrActiveProposalExists     = errors.New("flow already has an active proposal")
	ErrProposalNotActive        = errors.New("proposal is not active")
	ErrProposalNotPassed        = errors.New("proposal has not passed")
	ErrProposalAlreadyExecuted  = errors.New("proposal already executed")
	ErrVotingStillOpen          = errors.New("voting window is still open")
	ErrAlreadyVoted             = errors.New("voter already voted on this proposal")
	ErrAlreadyRefunded          = errors.New("contribution already refunded")
)

// Authorization errors: caller identity mismatch.
var (
	ErrUnauthorizedWithdrawal   = errors.New("caller is not the flow creator")
	ErrUnauthorizedCancellation = errors.New("caller is not the proposer")
	ErrUnauthorizedVoter        = errors.New("caller does not own this contribution")
	ErrInvalidContribution      = errors.New("contribution does not belong to this flow")
	ErrZeroVotingPower          = errors.New("contribution carries no voting power")
)

// Resource errors: the requested funds are not there.
var (
	ErrInsufficientFunds         = errors.New("insufficient available funds")
	ErrInsufficientTreasuryFunds = errors.New("insufficient treasury balance")
	ErrRefundTooSmall            = errors.New("computed refund rounds to zero")
)
