package domain

import (
	"time"

	"github.com/okoyedan/fundflow/internal/ledger"
)

// MaxBasisPoints is the denominator for quorum and approval thresholds.
const MaxBasisPoints = 10000

// Proposal is a pending or resolved governance decision against one flow.
//
// TotalEligibleVotes snapshots flow.Raised at creation: contributions
// arriving mid-vote never change the quorum denominator for an open
// proposal.
type Proposal struct {
	ID                 string
	FlowID             string
	Proposer           string
	Action             ProposalAction
	Status             ProposalStatus
	CreatedAt          time.Time
	VotingStartsAt     time.Time
	VotingEndsAt       time.Time
	VotesFor           uint64
	VotesAgainst       uint64
	VotesAbstain       uint64
	TotalEligibleVotes uint64
	QuorumBP           uint16
	ApprovalBP         uint16
	ExecutedAt         *time.Time
	LastVoteCheck      time.Time
}

// CanVote reports whether a ballot may be cast at the given instant.
func (p *Proposal) CanVote(now time.Time) bool {
	return p.Status == ProposalActive &&
		!now.Before(p.VotingStartsAt) &&
		!now.After(p.VotingEndsAt)
}

// TotalVotes is the sum of all cast voting power.
func (p *Proposal) TotalVotes() (uint64, error) {
	sum, err := ledger.Add(p.VotesFor, p.VotesAgainst)
	if err != nil {
		return 0, err
	}
	return ledger.Add(sum, p.VotesAbstain)
}

// AddVote adds power to the tally matching the vote type.
func (p *Proposal) AddVote(t VoteType, power uint64, now time.Time) error {
	if !p.CanVote(now) {
		return ErrProposalNotActive
	}
	switch t {
	case VoteFor:
		sum, err := ledger.Add(p.VotesFor, power)
		if err != nil {
			return err
		}
		p.VotesFor = sum
	case VoteAgainst:
		sum, err := ledger.Add(p.VotesAgainst, power)
		if err != nil {
			return err
		}
		p.VotesAgainst = sum
	case VoteAbstain:
		sum, err := ledger.Add(p.VotesAbstain, power)
		if err != nil {
			return err
		}
		p.VotesAbstain = sum
	default:
		return ErrProposalNotActive
	}
	return nil
}

// CheckExecutionThreshold evaluates quorum and approval after a vote.
// Before quorum the proposal stays Active and false is returned. Once
// quorum is reached the proposal resolves immediately: Passed (and true)
// when the For share meets the approval threshold, Failed otherwise.
// Products are widened before division so tallies near 2^64 cannot wrap.
func (p *Proposal) CheckExecutionThreshold(now time.Time) (bool, error) {
	if p.Status != ProposalActive {
		return false, nil
	}
	total, err := p.TotalVotes()
	if err != nil {
		return false, err
	}
	p.LastVoteCheck = now
	if total < ledger.BasisPointsOf(p.TotalEligibleVotes, p.QuorumBP) {
		return false, nil
	}
	if p.VotesFor >= ledger.BasisPointsOf(total, p.ApprovalBP) {
		p.Status = ProposalPassed
		return true, nil
	}
	p.Status = ProposalFailed
	return false, nil
}

// Finalize resolves an Active proposal after its voting window has
// closed: quorum miss fails it, otherwise the approval threshold decides.
func (p *Proposal) Finalize(now time.Time) error {
	if p.Status != ProposalActive {
		return ErrProposalNotActive
	}
	if !now.After(p.VotingEndsAt) {
		return ErrVotingStillOpen
	}
	total, err := p.TotalVotes()
	if err != nil {
		return err
	}
	p.LastVoteCheck = now
	if total < ledger.BasisPointsOf(p.TotalEligibleVotes, p.QuorumBP) {
		p.Status = ProposalFailed
		return nil
	}
	if p.VotesFor >= ledger.BasisPointsOf(total, p.ApprovalBP) {
		p.Status = ProposalPassed
	} else {
		p.Status = ProposalFailed
	}
	return nil
}

// MarkExecuted transitions Passed -> Executed.
func (p *Proposal) MarkExecuted(now time.Time) error {
	if p.Status != ProposalPassed {
		return ErrProposalNotPassed
	}
	p.Status = ProposalExecuted
	p.ExecutedAt = &now
	return nil
}

// Cancel withdraws the proposal. Only the original proposer may cancel,
// and an executed proposal is beyond recall.
func (p *Proposal) Cancel(caller string) error {
	if caller != p.Proposer {
		return ErrUnauthorizedCancellation
	}
	if p.Status == ProposalExecuted {
		return ErrProposalAlreadyExecuted
	}
	p.Status = ProposalCanceled
	return nil
}

// VotingPower maps a contributor's stake to vote weight under the flow's
// selected model. A positive stake never maps to zero power.
func VotingPower(c *Contribution, model VotingPowerModel) (uint64, error) {
	if c.TotalAmount == 0 {
		return 0, ErrZeroVotingPower
	}
	switch model {
	case TokenWeighted:
		return c.TotalAmount, nil
	case QuadraticVoting:
		power := ledger.Isqrt(c.TotalAmount)
		if power == 0 {
			power = 1
		}
		return power, nil
	case IndividualVoting:
		return 1, nil
	default:
		return 0, ErrInvalidVotingPowerModel
	}
}
