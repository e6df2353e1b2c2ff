package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/okoyedan/fundflow/internal/cli/formatter"
	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/service"
)

// fundflowHuhTheme returns a custom huh theme using the existing Gruvbox
// palette.
func fundflowHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// runFlowCreateForm collects flow creation parameters interactively.
// The milestone spec is returned as text and parsed by the caller, the
// same as the --milestones flag.
func runFlowCreateForm(params *service.CreateFlowParams, milestones *string) error {
	var goalStr string
	model := string(domain.TokenWeighted)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Flow ID").
				Placeholder("my-campaign").
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("flow id is required")
					}
					if len(s) > domain.MaxFlowIDLen {
						return fmt.Errorf("flow id exceeds %d characters", domain.MaxFlowIDLen)
					}
					return nil
				}).
				Value(&params.FlowID),
			huh.NewInput().
				Title("Funding Goal").
				Placeholder("1000").
				Validate(func(s string) error {
					n, err := strconv.ParseUint(s, 10, 64)
					if err != nil || n == 0 {
						return fmt.Errorf("goal must be a positive integer")
					}
					return nil
				}).
				Value(&goalStr),
			huh.NewInput().
				Title("Token Mint").
				Placeholder("USDC").
				Value(&params.TokenMint),
			huh.NewSelect[string]().
				Title("Voting Power Model").
				Options(
					huh.NewOption("Token weighted (1 token = 1 vote)", string(domain.TokenWeighted)),
					huh.NewOption("Quadratic (sqrt of stake)", string(domain.QuadraticVoting)),
					huh.NewOption("Individual (1 contributor = 1 vote)", string(domain.IndividualVoting)),
				).
				Value(&model),
			huh.NewInput().
				Title("Milestones (optional)").
				Placeholder("500@2026-09-01,500@2026-10-01").
				Description("Amounts must sum to the goal; leave empty for direct release").
				Value(milestones),
		),
	).WithTheme(fundflowHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return err
	}

	goal, err := strconv.ParseUint(goalStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid goal %q: %w", goalStr, err)
	}
	params.Goal = goal
	params.VotingPowerModel = domain.VotingPowerModel(model)
	if params.TokenMint == "" {
		params.TokenMint = "USDC"
	}
	return nil
}
