package domain

import "time"

// Vote is one voter's cast ballot on one proposal. At most one exists per
// (proposal, voter) pair and it is never mutated after creation.
type Vote struct {
	ID          string
	ProposalID  string
	Voter       string
	Type        VoteType
	VotingPower uint64
	CastAt      time.Time
}
