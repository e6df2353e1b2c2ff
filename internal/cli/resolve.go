package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/okoyedan/fundflow/internal/domain"
)

// resolveFlow turns user input into a flow. Accepts the creator-scoped
// flow id (with --as giving the creator), the full UUID, or a UUID
// prefix.
func resolveFlow(ctx context.Context, app *App, creator, input string) (*domain.Flow, error) {
	if input == "" {
		return nil, fmt.Errorf("flow reference is required")
	}

	if creator != "" {
		if f, err := app.Flows.GetByCreatorAndFlowID(ctx, creator, input); err == nil {
			return f, nil
		}
	}

	flows, err := app.Flows.List(ctx, "")
	if err != nil {
		return nil, err
	}

	for _, f := range flows {
		if f.ID == input {
			return f, nil
		}
	}
	for _, f := range flows {
		if strings.EqualFold(f.FlowID, input) {
			return f, nil
		}
	}

	var matches []*domain.Flow
	for _, f := range flows {
		if strings.HasPrefix(f.ID, input) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("flow not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("flow reference %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveProposal maps a proposal reference (UUID or prefix) across a
// flow's proposals, or directly by UUID when no flow is given.
func resolveProposalID(ctx context.Context, app *App, flowRef, creator, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("proposal reference is required")
	}

	if flowRef == "" {
		// Only a full UUID can be resolved without a flow to search.
		if _, err := app.Governance.GetProposal(ctx, input); err != nil {
			return "", err
		}
		return input, nil
	}

	flow, err := resolveFlow(ctx, app, creator, flowRef)
	if err != nil {
		return "", err
	}
	proposals, err := app.Governance.ListByFlow(ctx, flow.ID)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, p := range proposals {
		if p.ID == input {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("proposal not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("proposal reference %q is ambiguous (%d matches)", input, len(matches))
	}
}
