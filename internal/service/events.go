package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/okoyedan/fundflow/internal/domain"
)

// Engine events mirror the externally observable effects of each
// operation: money moved, a ballot counted, a decision applied. They are
// emitted after the operation's transaction commits, so a consumer never
// sees an event for a rolled-back write.

// ContributionEvent records funds entering a flow's custody.
type ContributionEvent struct {
	FlowID      string
	Contributor string
	Amount      uint64
	Total       uint64 // contributor's cumulative position after this
	Raised      uint64 // flow total after this
	At          time.Time
}

// WithdrawalEvent records the creator drawing released funds.
type WithdrawalEvent struct {
	FlowID string
	Caller string
	Amount uint64
	At     time.Time
}

// RefundEvent records a contributor's pro-rata payout from a canceled flow.
type RefundEvent struct {
	FlowID      string
	Contributor string
	Amount      uint64
	At          time.Time
}

// VoteEvent records a counted ballot.
type VoteEvent struct {
	ProposalID string
	Voter      string
	Type       domain.VoteType
	Power      uint64
	At         time.Time
}

// ProposalResolvedEvent records a proposal leaving the Active state.
type ProposalResolvedEvent struct {
	ProposalID string
	FlowID     string
	Action     domain.ActionKind
	Status     domain.ProposalStatus
	At         time.Time
}

// EventSink consumes engine events.
type EventSink interface {
	Contribution(ctx context.Context, e ContributionEvent)
	Withdrawal(ctx context.Context, e WithdrawalEvent)
	Refund(ctx context.Context, e RefundEvent)
	Vote(ctx context.Context, e VoteEvent)
	ProposalResolved(ctx context.Context, e ProposalResolvedEvent)
}

// NoopEventSink drops all events.
type NoopEventSink struct{}

func (NoopEventSink) Contribution(context.Context, ContributionEvent)         {}
func (NoopEventSink) Withdrawal(context.Context, WithdrawalEvent)             {}
func (NoopEventSink) Refund(context.Context, RefundEvent)                     {}
func (NoopEventSink) Vote(context.Context, VoteEvent)                         {}
func (NoopEventSink) ProposalResolved(context.Context, ProposalResolvedEvent) {}

type logEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink writes engine events to the provided writer as slog
// records.
func NewLogEventSink(w io.Writer) EventSink {
	if w == nil {
		return NoopEventSink{}
	}
	return &logEventSink{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (s *logEventSink) Contribution(ctx context.Context, e ContributionEvent) {
	s.logger.InfoContext(ctx, "contribution",
		"flow", e.FlowID, "contributor", e.Contributor,
		"amount", e.Amount, "total", e.Total, "raised", e.Raised)
}

func (s *logEventSink) Withdrawal(ctx context.Context, e WithdrawalEvent) {
	s.logger.InfoContext(ctx, "withdrawal",
		"flow", e.FlowID, "caller", e.Caller, "amount", e.Amount)
}

func (s *logEventSink) Refund(ctx context.Context, e RefundEvent) {
	s.logger.InfoContext(ctx, "refund",
		"flow", e.FlowID, "contributor", e.Contributor, "amount", e.Amount)
}

func (s *logEventSink) Vote(ctx context.Context, e VoteEvent) {
	s.logger.InfoContext(ctx, "vote",
		"proposal", e.ProposalID, "voter", e.Voter,
		"type", string(e.Type), "power", e.Power)
}

func (s *logEventSink) ProposalResolved(ctx context.Context, e ProposalResolvedEvent) {
	s.logger.InfoContext(ctx, "proposal_resolved",
		"proposal", e.ProposalID, "flow", e.FlowID,
		"action", string(e.Action), "status", string(e.Status))
}

func eventSinkOrNoop(sink EventSink) EventSink {
	if sink != nil {
		return sink
	}
	return NoopEventSink{}
}
