package domain

import (
	"time"

	"github.com/okoyedan/fundflow/internal/ledger"
)

// Contribution is one contributor's cumulative position in one flow.
// Exactly one record exists per (flow, contributor) pair; repeat
// contributions grow it, and a refund closes it out terminally.
type Contribution struct {
	ID                string
	FlowID            string // flow surrogate UUID
	Contributor       string
	TokenMint         string
	TotalAmount       uint64
	FirstContribution time.Time
	LastContribution  time.Time
	ContributionCount uint32
	Refunded          bool
	RefundAmount      uint64
	RefundedAt        *time.Time
}

// Apply adds amount to the running position.
func (c *Contribution) Apply(amount uint64, now time.Time) error {
	if amount == 0 {
		return ErrInvalidContributionAmount
	}
	total, err := ledger.Add(c.TotalAmount, amount)
	if err != nil {
		return err
	}
	c.TotalAmount = total
	c.ContributionCount++
	if c.FirstContribution.IsZero() {
		c.FirstContribution = now
	}
	c.LastContribution = now
	return nil
}

// MarkRefunded records the payout terminally. The refund amount itself is
// computed by the treasury from the flow's remaining balance, not here.
func (c *Contribution) MarkRefunded(amount uint64, now time.Time) error {
	if c.Refunded {
		return ErrAlreadyRefunded
	}
	c.Refunded = true
	c.RefundAmount = amount
	c.RefundedAt = &now
	return nil
}
