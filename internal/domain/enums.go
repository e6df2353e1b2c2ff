package domain

type FlowStatus string

const (
	FlowActive    FlowStatus = "active"
	FlowCompleted FlowStatus = "completed"
	FlowCanceled  FlowStatus = "canceled"
)

// IsTerminal reports whether the status permits no further transitions.
func (s FlowStatus) IsTerminal() bool {
	return s == FlowCompleted || s == FlowCanceled
}

type ProposalStatus string

const (
	ProposalActive   ProposalStatus = "active"
	ProposalPassed   ProposalStatus = "passed"
	ProposalFailed   ProposalStatus = "failed"
	ProposalExecuted ProposalStatus = "executed"
	ProposalCanceled ProposalStatus = "canceled"
)

// IsTerminal reports whether the proposal permits no further
// transitions. Passed is non-terminal: it awaits execution.
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalFailed || s == ProposalExecuted || s == ProposalCanceled
}

type VoteType string

const (
	VoteFor     VoteType = "for"
	VoteAgainst VoteType = "against"
	VoteAbstain VoteType = "abstain"
)

// ValidVoteTypes is the canonical set of accepted vote type strings.
var ValidVoteTypes = map[string]bool{
	"for": true, "against": true, "abstain": true,
}

// VotingPowerModel selects how a contributor's stake maps to vote weight.
type VotingPowerModel string

const (
	// TokenWeighted gives one vote per donated token unit.
	TokenWeighted VotingPowerModel = "token_weighted"
	// QuadraticVoting gives the square root of the stake, damping whales.
	QuadraticVoting VotingPowerModel = "quadratic"
	// IndividualVoting gives every contributor exactly one vote.
	IndividualVoting VotingPowerModel = "individual"
)

// ValidVotingPowerModels is the canonical set of accepted model strings.
var ValidVotingPowerModels = map[string]bool{
	"token_weighted": true, "quadratic": true, "individual": true,
}
