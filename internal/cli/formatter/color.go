package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okoyedan/fundflow/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// FlowStatusPill returns a colored status indicator for a flow.
func FlowStatusPill(status domain.FlowStatus) string {
	switch status {
	case domain.FlowActive:
		return StyleGreen.Render("● ACTIVE")
	case domain.FlowCompleted:
		return StyleBlue.Render("● COMPLETED")
	case domain.FlowCanceled:
		return StyleRed.Render("● CANCELED")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// ProposalStatusPill returns a colored status indicator for a proposal.
func ProposalStatusPill(status domain.ProposalStatus) string {
	switch status {
	case domain.ProposalActive:
		return StyleYellow.Render("● ACTIVE")
	case domain.ProposalPassed:
		return StyleGreen.Render("● PASSED")
	case domain.ProposalExecuted:
		return StyleGreen.Render("● EXECUTED")
	case domain.ProposalFailed:
		return StyleRed.Render("● FAILED")
	case domain.ProposalCanceled:
		return StyleDim.Render("● CANCELED")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// ModelBadge renders the flow's voting power model as a colored badge.
func ModelBadge(model domain.VotingPowerModel) string {
	switch model {
	case domain.TokenWeighted:
		return StyleBlue.Render("[token-weighted]")
	case domain.QuadraticVoting:
		return StylePurple.Render("[quadratic]")
	case domain.IndividualVoting:
		return StyleGreen.Render("[individual]")
	default:
		return StyleDim.Render("[unknown]")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
