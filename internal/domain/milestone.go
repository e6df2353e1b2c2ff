package domain

import (
	"time"

	"github.com/okoyedan/fundflow/internal/ledger"
)

// MaxMilestones bounds the milestone schedule size per flow.
const MaxMilestones = 10

// Milestone is a sub-goal gating a portion of a flow's funds. It is
// created atomically with its flow and mutated only by executed
// governance proposals.
type Milestone struct {
	ID        uint32
	Amount    uint64
	Deadline  time.Time
	Completed bool
}

// ValidateSchedule checks a milestone schedule against the flow it funds:
// 1-10 milestones with unique ids, positive amounts summing exactly to
// goal, future deadlines no later than the flow end (if set), and none
// pre-marked completed.
func ValidateSchedule(ms []Milestone, goal uint64, end *time.Time, now time.Time) error {
	if len(ms) == 0 {
		return ErrNoMilestonesSpecified
	}
	if len(ms) > MaxMilestones {
		return ErrTooManyMilestones
	}
	seen := make(map[uint32]bool, len(ms))
	var total uint64
	for _, m := range ms {
		if seen[m.ID] {
			return ErrDuplicateMilestone
		}
		seen[m.ID] = true
		if m.Amount == 0 {
			return ErrInvalidMilestoneAmount
		}
		if m.Completed {
			return ErrMilestoneAlreadyCompleted
		}
		if !m.Deadline.After(now) {
			return ErrInvalidMilestoneDeadline
		}
		if end != nil && m.Deadline.After(*end) {
			return ErrInvalidMilestoneDeadline
		}
		sum, err := ledger.Add(total, m.Amount)
		if err != nil {
			return err
		}
		total = sum
	}
	if total != goal {
		return ErrMilestoneTotalMismatch
	}
	return nil
}

// FindMilestone returns a pointer into ms for the milestone with the
// given id.
func FindMilestone(ms []Milestone, id uint32) (*Milestone, error) {
	for i := range ms {
		if ms[i].ID == id {
			return &ms[i], nil
		}
	}
	return nil, ErrMilestoneNotFound
}

// MarkCompleted sets the completed flag on the milestone with the given
// id. Completion is one-way. Returns the milestone so callers can release
// its gated amount.
func MarkCompleted(ms []Milestone, id uint32) (*Milestone, error) {
	m, err := FindMilestone(ms, id)
	if err != nil {
		return nil, err
	}
	if m.Completed {
		return nil, ErrMilestoneAlreadyCompleted
	}
	m.Completed = true
	return m, nil
}

// AdjustMilestone changes a milestone's amount and/or deadline. All checks
// run before either field is touched, so a failed adjustment leaves the
// schedule untouched.
func AdjustMilestone(ms []Milestone, id uint32, newAmount *uint64, newDeadline *time.Time, goal uint64, end *time.Time, now time.Time) error {
	m, err := FindMilestone(ms, id)
	if err != nil {
		return err
	}
	if m.Completed {
		return ErrMilestoneAlreadyCompleted
	}
	if newAmount != nil {
		if *newAmount == 0 {
			return ErrInvalidMilestoneAmount
		}
		var total uint64
		for _, other := range ms {
			amt := other.Amount
			if other.ID == id {
				amt = *newAmount
			}
			sum, err := ledger.Add(total, amt)
			if err != nil {
				return err
			}
			total = sum
		}
		if total > goal {
			return ErrInvalidMilestoneAdjustment
		}
	}
	if newDeadline != nil {
		if !newDeadline.After(now) {
			return ErrInvalidMilestoneDeadline
		}
		if end != nil && !newDeadline.Before(*end) {
			return ErrInvalidMilestoneDeadline
		}
	}
	if newAmount != nil {
		m.Amount = *newAmount
	}
	if newDeadline != nil {
		m.Deadline = *newDeadline
	}
	return nil
}
