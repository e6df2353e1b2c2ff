package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/okoyedan/fundflow/internal/domain"
)

// ActionSummary renders a one-line description of a proposal's action.
func ActionSummary(action domain.ProposalAction) string {
	switch a := action.(type) {
	case domain.MilestoneCompletion:
		return fmt.Sprintf("complete milestone %d", a.MilestoneID)
	case domain.FlowCancellation:
		return "cancel flow"
	case domain.MilestoneAdjustment:
		parts := []string{fmt.Sprintf("adjust milestone %d:", a.MilestoneID)}
		if a.NewAmount != nil {
			parts = append(parts, "amount → "+FormatAmount(*a.NewAmount))
		}
		if a.NewDeadline != nil {
			parts = append(parts, "deadline → "+a.NewDeadline.Format("Jan 2, 2006"))
		}
		return strings.Join(parts, " ")
	case domain.FlowFundingExtension:
		return "extend funding to " + a.NewEndDate.Format("Jan 2, 2006")
	default:
		return string(action.Kind())
	}
}

// FormatProposalList renders a styled proposal table.
func FormatProposalList(proposals []*domain.Proposal) string {
	headers := []string{"ID", "ACTION", "STATUS", "FOR", "AGAINST", "ENDS"}
	rows := make([][]string, 0, len(proposals))

	for _, p := range proposals {
		rows = append(rows, []string{
			TruncID(p.ID),
			ActionSummary(p.Action),
			ProposalStatusPill(p.Status),
			FormatAmount(p.VotesFor),
			FormatAmount(p.VotesAgainst),
			RelativeDateStyled(p.VotingEndsAt),
		})
	}

	return RenderBox("Proposals", RenderTable(headers, rows))
}

// FormatProposalInspect renders a proposal detail card with tallies and
// thresholds.
func FormatProposalInspect(p *domain.Proposal) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(ActionSummary(p.Action)) + "\n")
	b.WriteString(ProposalStatusPill(p.Status) + "\n\n")

	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UUID    "), TruncID(p.ID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("PROPOSER"), p.Proposer))
	b.WriteString(fmt.Sprintf("%s  %s %s\n", StyleDim.Render("WINDOW  "),
		p.VotingStartsAt.Format("Jan 2 15:04"), Dim("→ "+p.VotingEndsAt.Format("Jan 2 15:04"))))
	b.WriteString(fmt.Sprintf("%s  quorum %s of %s eligible, approval %s\n", StyleDim.Render("NEEDS   "),
		Percent(p.QuorumBP), FormatAmount(p.TotalEligibleVotes), Percent(p.ApprovalBP)))

	b.WriteString("\n" + Header("Tally") + "\n")
	total := p.VotesFor + p.VotesAgainst + p.VotesAbstain
	b.WriteString(RenderTable(
		[]string{"FOR", "AGAINST", "ABSTAIN", "TOTAL"},
		[][]string{{
			StyleGreen.Render(FormatAmount(p.VotesFor)),
			StyleRed.Render(FormatAmount(p.VotesAgainst)),
			Dim(FormatAmount(p.VotesAbstain)),
			FormatAmount(total),
		}},
	))
	b.WriteString("\n")

	if p.TotalEligibleVotes > 0 {
		b.WriteString("\n" + StyleDim.Render("TURNOUT ") + "  " +
			RenderProgress(float64(total)/float64(p.TotalEligibleVotes), 20) + "\n")
	}
	if p.ExecutedAt != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("EXECUTED"), p.ExecutedAt.Format(time.RFC822)))
	}

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}
