package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/okoyedan/fundflow/internal/cli/formatter"
	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/service"
)

func newProposalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposal",
		Short: "Manage governance proposals",
	}

	cmd.AddCommand(
		newProposalCreateCmd(app),
		newProposalListCmd(app),
		newProposalInspectCmd(app),
		newProposalVoteCmd(app),
		newProposalCancelCmd(app),
		newProposalFinalizeCmd(app),
		newProposalExecuteCmd(app),
	)

	return cmd
}

// buildAction assembles the proposal action from command flags; exactly
// one action selector must be used.
func buildAction(flags *pflag.FlagSet, milestone uint32, newAmount uint64, newDeadline, extendTo string) (domain.ProposalAction, error) {
	switch {
	case flags.Changed("complete-milestone"):
		return domain.MilestoneCompletion{MilestoneID: milestone}, nil

	case flags.Changed("cancel-flow"):
		return domain.FlowCancellation{}, nil

	case flags.Changed("adjust-milestone"):
		adj := domain.MilestoneAdjustment{MilestoneID: milestone}
		if flags.Changed("new-amount") {
			adj.NewAmount = &newAmount
		}
		if newDeadline != "" {
			t, err := time.Parse("2006-01-02", newDeadline)
			if err != nil {
				return nil, fmt.Errorf("invalid deadline %q: %w", newDeadline, err)
			}
			t = t.UTC()
			adj.NewDeadline = &t
		}
		if adj.NewAmount == nil && adj.NewDeadline == nil {
			return nil, fmt.Errorf("milestone adjustment needs --new-amount and/or --new-deadline")
		}
		return adj, nil

	case extendTo != "":
		t, err := time.Parse("2006-01-02", extendTo)
		if err != nil {
			return nil, fmt.Errorf("invalid end date %q: %w", extendTo, err)
		}
		return domain.FlowFundingExtension{NewEndDate: t.UTC()}, nil

	default:
		return nil, fmt.Errorf("an action is required: --complete-milestone, --cancel-flow, --adjust-milestone, or --extend-to")
	}
}

func newProposalCreateCmd(app *App) *cobra.Command {
	var proposer, creator, newDeadline, extendTo string
	var milestone uint32
	var adjustMilestone uint32
	var newAmount uint64
	var durationHours, quorumBP, approvalBP int

	cmd := &cobra.Command{
		Use:   "create FLOW",
		Short: "Propose a governance action against a flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			flow, err := resolveFlow(ctx, app, creator, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("adjust-milestone") {
				milestone = adjustMilestone
			}
			action, err := buildAction(cmd.Flags(), milestone, newAmount, newDeadline, extendTo)
			if err != nil {
				return err
			}

			params := service.CreateProposalParams{
				FlowID:         flow.ID,
				Proposer:       proposer,
				Action:         action,
				VotingDuration: app.Config.Governance.VotingDuration,
				QuorumBP:       app.Config.Governance.QuorumBP,
				ApprovalBP:     app.Config.Governance.ApprovalBP,
			}
			if cmd.Flags().Changed("duration-hours") {
				params.VotingDuration = time.Duration(durationHours) * time.Hour
			}
			if cmd.Flags().Changed("quorum-bp") {
				params.QuorumBP = uint16(quorumBP)
			}
			if cmd.Flags().Changed("approval-bp") {
				params.ApprovalBP = uint16(approvalBP)
			}

			p, err := app.Governance.CreateProposal(ctx, params)
			if err != nil {
				return err
			}

			fmt.Printf("Created proposal %s on %s: %s (voting ends %s)\n",
				formatter.TruncID(p.ID), flow.FlowID,
				formatter.ActionSummary(p.Action),
				p.VotingEndsAt.Format(time.RFC822))
			return nil
		},
	}

	cmd.Flags().StringVar(&proposer, "as", "", "Acting identity (proposer)")
	cmd.Flags().StringVar(&creator, "creator", "", "Flow creator (scopes flow id lookup)")
	cmd.Flags().Uint32Var(&milestone, "complete-milestone", 0, "Propose completing this milestone")
	cmd.Flags().Bool("cancel-flow", false, "Propose canceling the flow")
	cmd.Flags().Uint32Var(&adjustMilestone, "adjust-milestone", 0, "Propose adjusting this milestone")
	cmd.Flags().Uint64Var(&newAmount, "new-amount", 0, "New milestone amount (with --adjust-milestone)")
	cmd.Flags().StringVar(&newDeadline, "new-deadline", "", "New milestone deadline YYYY-MM-DD (with --adjust-milestone)")
	cmd.Flags().StringVar(&extendTo, "extend-to", "", "Propose extending funding to YYYY-MM-DD")
	cmd.Flags().IntVar(&durationHours, "duration-hours", 0, "Voting window in hours (default from config)")
	cmd.Flags().IntVar(&quorumBP, "quorum-bp", 0, "Quorum in basis points (default from config)")
	cmd.Flags().IntVar(&approvalBP, "approval-bp", 0, "Approval threshold in basis points (default from config)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newProposalListCmd(app *App) *cobra.Command {
	var creator string

	cmd := &cobra.Command{
		Use:   "list FLOW",
		Short: "List a flow's proposals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			flow, err := resolveFlow(ctx, app, creator, args[0])
			if err != nil {
				return err
			}
			proposals, err := app.Governance.ListByFlow(ctx, flow.ID)
			if err != nil {
				return err
			}
			if len(proposals) == 0 {
				fmt.Println("No proposals found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatProposalList(proposals))
			return nil
		},
	}

	cmd.Flags().StringVar(&creator, "creator", "", "Flow creator (scopes flow id lookup)")

	return cmd
}

func newProposalInspectCmd(app *App) *cobra.Command {
	var flowRef, creator string

	cmd := &cobra.Command{
		Use:   "inspect PROPOSAL",
		Short: "Show proposal details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProposalID(ctx, app, flowRef, creator, args[0])
			if err != nil {
				return err
			}
			p, err := app.Governance.GetProposal(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatProposalInspect(p))
			return nil
		},
	}

	cmd.Flags().StringVar(&flowRef, "flow", "", "Flow reference (enables proposal id prefixes)")
	cmd.Flags().StringVar(&creator, "creator", "", "Flow creator (scopes flow id lookup)")

	return cmd
}

func newProposalVoteCmd(app *App) *cobra.Command {
	var voter, voteType, flowRef, creator string

	cmd := &cobra.Command{
		Use:   "vote PROPOSAL",
		Short: "Cast a ballot on a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if !domain.ValidVoteTypes[voteType] {
				return fmt.Errorf("invalid vote %q, expected for, against, or abstain", voteType)
			}
			id, err := resolveProposalID(ctx, app, flowRef, creator, args[0])
			if err != nil {
				return err
			}

			vote, err := app.Governance.CastVote(ctx, id, voter, domain.VoteType(voteType))
			if err != nil {
				return err
			}

			p, err := app.Governance.GetProposal(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Counted %s vote with power %s; proposal is now %s\n",
				voteType, formatter.FormatAmount(vote.VotingPower), p.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&voter, "as", "", "Acting identity (voter)")
	cmd.Flags().StringVar(&voteType, "vote", "", "Ballot (for|against|abstain)")
	cmd.Flags().StringVar(&flowRef, "flow", "", "Flow reference (enables proposal id prefixes)")
	cmd.Flags().StringVar(&creator, "creator", "", "Flow creator (scopes flow id lookup)")
	_ = cmd.MarkFlagRequired("as")
	_ = cmd.MarkFlagRequired("vote")

	return cmd
}

func newProposalCancelCmd(app *App) *cobra.Command {
	var caller, flowRef, creator string

	cmd := &cobra.Command{
		Use:   "cancel PROPOSAL",
		Short: "Cancel a proposal (proposer only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProposalID(ctx, app, flowRef, creator, args[0])
			if err != nil {
				return err
			}
			if err := app.Governance.CancelProposal(ctx, id, caller); err != nil {
				return err
			}
			fmt.Printf("Canceled proposal %s\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&caller, "as", "", "Acting identity (must be the proposer)")
	cmd.Flags().StringVar(&flowRef, "flow", "", "Flow reference (enables proposal id prefixes)")
	cmd.Flags().StringVar(&creator, "creator", "", "Flow creator (scopes flow id lookup)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newProposalFinalizeCmd(app *App) *cobra.Command {
	var flowRef, creator string

	cmd := &cobra.Command{
		Use:   "finalize PROPOSAL",
		Short: "Resolve a proposal after its voting window closed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProposalID(ctx, app, flowRef, creator, args[0])
			if err != nil {
				return err
			}
			p, err := app.Governance.FinalizeProposal(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Finalized proposal %s: %s\n", formatter.TruncID(p.ID), p.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&flowRef, "flow", "", "Flow reference (enables proposal id prefixes)")
	cmd.Flags().StringVar(&creator, "creator", "", "Flow creator (scopes flow id lookup)")

	return cmd
}

func newProposalExecuteCmd(app *App) *cobra.Command {
	var flowRef, creator string

	cmd := &cobra.Command{
		Use:   "execute PROPOSAL",
		Short: "Apply a passed proposal's action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProposalID(ctx, app, flowRef, creator, args[0])
			if err != nil {
				return err
			}
			p, err := app.Governance.ExecuteProposal(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Executed proposal %s: %s\n", formatter.TruncID(p.ID), formatter.ActionSummary(p.Action))
			return nil
		},
	}

	cmd.Flags().StringVar(&flowRef, "flow", "", "Flow reference (enables proposal id prefixes)")
	cmd.Flags().StringVar(&creator, "creator", "", "Flow creator (scopes flow id lookup)")

	return cmd
}
