package formatter

import (
	"fmt"
	"strings"

	"github.com/okoyedan/fundflow/internal/domain"
)

// FormatFlowList renders a styled flow table inside a bordered box.
func FormatFlowList(flows []*domain.Flow) string {
	headers := []string{"ID", "CREATOR", "GOAL", "RAISED", "STATUS", "END"}
	rows := make([][]string, 0, len(flows))

	for _, f := range flows {
		endStr := Dim("--")
		if f.EndDate != nil {
			endStr = RelativeDateStyled(*f.EndDate)
		}
		rows = append(rows, []string{
			Bold(f.FlowID),
			f.Creator,
			Amount(f.Goal, f.TokenMint),
			Amount(f.Raised, f.TokenMint),
			FlowStatusPill(f.Status),
			endStr,
		})
	}

	return RenderBox("Flows", RenderTable(headers, rows))
}

// FormatFlowInspect renders a flow detail card: counters, funding
// progress, and the milestone schedule when there is one.
func FormatFlowInspect(f *domain.Flow, contributions []*domain.Contribution) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(f.FlowID) + "  " + ModelBadge(f.VotingPowerModel) + "\n")
	b.WriteString(FlowStatusPill(f.Status) + "\n\n")

	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("CREATOR  "), f.Creator))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("UUID     "), TruncID(f.ID)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("GOAL     "), Amount(f.Goal, f.TokenMint)))
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", StyleDim.Render("RAISED   "),
		Amount(f.Raised, f.TokenMint), FundingProgress(f.Raised, f.Goal, 20)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("AVAILABLE"), Amount(f.Available, f.TokenMint)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("WITHDRAWN"), Amount(f.Withdrawn, f.TokenMint)))
	if f.TotalRefunded > 0 {
		b.WriteString(fmt.Sprintf("%s  %s (%d refunds)\n", StyleDim.Render("REFUNDED "),
			Amount(f.TotalRefunded, f.TokenMint), f.RefundsCount))
	}
	b.WriteString(fmt.Sprintf("%s  %d\n", StyleDim.Render("BACKERS  "), f.ContributorCount))
	if f.StartDate != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("STARTS   "), HumanDate(*f.StartDate)))
	}
	if f.EndDate != nil {
		b.WriteString(fmt.Sprintf("%s  %s %s\n", StyleDim.Render("ENDS     "),
			RelativeDateStyled(*f.EndDate), Dim("("+f.EndDate.Format("Jan 2, 2006")+")")))
	}
	if f.ActiveProposalID != nil {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("PROPOSAL "), TruncID(*f.ActiveProposalID)))
	}

	if f.HasMilestones() {
		b.WriteString("\n" + Header("Milestones") + "\n")
		rows := make([][]string, 0, len(f.Milestones))
		for _, m := range f.Milestones {
			state := StyleYellow.Render("pending")
			if m.Completed {
				state = StyleGreen.Render("complete")
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", m.ID),
				Amount(m.Amount, f.TokenMint),
				HumanDate(m.Deadline),
				state,
			})
		}
		b.WriteString(RenderTable([]string{"#", "AMOUNT", "DEADLINE", "STATE"}, rows))
		b.WriteString("\n")
	}

	if len(contributions) > 0 {
		b.WriteString("\n" + Header("Contributors") + "\n")
		rows := make([][]string, 0, len(contributions))
		for _, c := range contributions {
			state := ""
			if c.Refunded {
				state = StyleRed.Render(fmt.Sprintf("refunded %s", FormatAmount(c.RefundAmount)))
			}
			rows = append(rows, []string{
				c.Contributor,
				Amount(c.TotalAmount, f.TokenMint),
				fmt.Sprintf("%d", c.ContributionCount),
				state,
			})
		}
		b.WriteString(RenderTable([]string{"CONTRIBUTOR", "TOTAL", "TIMES", ""}, rows))
		b.WriteString("\n")
	}

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}
