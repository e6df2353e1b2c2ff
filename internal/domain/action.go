package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActionKind discriminates the closed set of governance actions.
type ActionKind string

const (
	ActionMilestoneCompletion  ActionKind = "milestone_completion"
	ActionFlowCancellation     ActionKind = "flow_cancellation"
	ActionMilestoneAdjustment  ActionKind = "milestone_adjustment"
	ActionFlowFundingExtension ActionKind = "flow_funding_extension"
)

// ProposalAction is the payload a proposal carries: what happens to the
// flow if the vote passes. The set of implementations is closed; the
// governance executor switches exhaustively over it, so a new action kind
// is a compile-visible change rather than a runtime lookup.
type ProposalAction interface {
	Kind() ActionKind
	isProposalAction()
}

// MilestoneCompletion marks a milestone complete and releases its amount.
type MilestoneCompletion struct {
	MilestoneID uint32 `json:"milestone_id"`
}

// FlowCancellation cancels the flow, opening the refund path.
type FlowCancellation struct{}

// MilestoneAdjustment changes a milestone's amount and/or deadline.
type MilestoneAdjustment struct {
	MilestoneID uint32     `json:"milestone_id"`
	NewAmount   *uint64    `json:"new_amount,omitempty"`
	NewDeadline *time.Time `json:"new_deadline,omitempty"`
}

// FlowFundingExtension pushes the flow's funding end date out.
type FlowFundingExtension struct {
	NewEndDate time.Time `json:"new_end_date"`
}

func (MilestoneCompletion) Kind() ActionKind  { return ActionMilestoneCompletion }
func (FlowCancellation) Kind() ActionKind     { return ActionFlowCancellation }
func (MilestoneAdjustment) Kind() ActionKind  { return ActionMilestoneAdjustment }
func (FlowFundingExtension) Kind() ActionKind { return ActionFlowFundingExtension }

func (MilestoneCompletion) isProposalAction()  {}
func (FlowCancellation) isProposalAction()     {}
func (MilestoneAdjustment) isProposalAction()  {}
func (FlowFundingExtension) isProposalAction() {}

// EncodeAction serializes an action payload for storage.
func EncodeAction(a ProposalAction) (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encoding %s action: %w", a.Kind(), err)
	}
	return string(b), nil
}

// DecodeAction reconstructs an action from its stored kind and payload.
func DecodeAction(kind ActionKind, payload string) (ProposalAction, error) {
	switch kind {
	case ActionMilestoneCompletion:
		var a MilestoneCompletion
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, fmt.Errorf("decoding %s action: %w", kind, err)
		}
		return a, nil
	case ActionFlowCancellation:
		return FlowCancellation{}, nil
	case ActionMilestoneAdjustment:
		var a MilestoneAdjustment
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, fmt.Errorf("decoding %s action: %w", kind, err)
		}
		return a, nil
	case ActionFlowFundingExtension:
		var a FlowFundingExtension
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, fmt.Errorf("decoding %s action: %w", kind, err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown proposal action kind %q", kind)
	}
}
