package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okoyedan/fundflow/internal/cli/formatter"
	"github.com/okoyedan/fundflow/internal/domain"
	"github.com/okoyedan/fundflow/internal/service"
)

func newFlowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Manage funding flows",
	}

	cmd.AddCommand(
		newFlowCreateCmd(app),
		newFlowListCmd(app),
		newFlowInspectCmd(app),
	)

	return cmd
}

// parseMilestones parses a schedule like "500@2026-09-01,500@2026-10-01"
// into milestones numbered in order.
func parseMilestones(spec string) ([]domain.Milestone, error) {
	if spec == "" {
		return nil, nil
	}

	parts := strings.Split(spec, ",")
	ms := make([]domain.Milestone, 0, len(parts))
	for i, part := range parts {
		amountStr, dateStr, found := strings.Cut(strings.TrimSpace(part), "@")
		if !found {
			return nil, fmt.Errorf("invalid milestone %q, expected AMOUNT@YYYY-MM-DD", part)
		}
		amount, err := strconv.ParseUint(amountStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid milestone amount %q: %w", amountStr, err)
		}
		deadline, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid milestone deadline %q: %w", dateStr, err)
		}
		ms = append(ms, domain.Milestone{
			ID:       uint32(i),
			Amount:   amount,
			Deadline: deadline.UTC(),
		})
	}
	return ms, nil
}

func newFlowCreateCmd(app *App) *cobra.Command {
	var creator, flowID, mint, model, start, end, milestones string
	var goal uint64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a funding flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := service.CreateFlowParams{
				Creator:          creator,
				FlowID:           flowID,
				TokenMint:        mint,
				Goal:             goal,
				VotingPowerModel: domain.VotingPowerModel(model),
			}

			// With no identifying flags on an interactive terminal,
			// collect the flow through a form instead.
			if flowID == "" && app.interactive() {
				if err := runFlowCreateForm(&params, &milestones); err != nil {
					return err
				}
			}

			if start != "" {
				t, err := time.Parse("2006-01-02", start)
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
				t = t.UTC()
				params.StartDate = &t
			}
			if end != "" {
				t, err := time.Parse("2006-01-02", end)
				if err != nil {
					return fmt.Errorf("invalid end date %q: %w", end, err)
				}
				t = t.UTC()
				params.EndDate = &t
			}

			ms, err := parseMilestones(milestones)
			if err != nil {
				return err
			}
			params.Milestones = ms

			flow, err := app.Flows.Create(context.Background(), params)
			if err != nil {
				return err
			}

			fmt.Printf("Created flow %s (%s) with goal %s\n",
				flow.FlowID, formatter.TruncID(flow.ID), formatter.Amount(flow.Goal, flow.TokenMint))
			return nil
		},
	}

	cmd.Flags().StringVar(&creator, "as", "", "Acting identity (flow creator)")
	cmd.Flags().StringVar(&flowID, "id", "", "Flow identifier, unique per creator (max 32 chars)")
	cmd.Flags().Uint64Var(&goal, "goal", 0, "Funding goal in token units")
	cmd.Flags().StringVar(&mint, "mint", app.Config.TokenMint, "Token mint")
	cmd.Flags().StringVar(&model, "model", string(domain.TokenWeighted), "Voting power model (token_weighted|quadratic|individual)")
	cmd.Flags().StringVar(&start, "start", "", "Funding start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Funding end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&milestones, "milestones", "", "Milestone schedule (AMOUNT@YYYY-MM-DD,...), amounts must sum to the goal")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newFlowListCmd(app *App) *cobra.Command {
	var creator, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			flows, err := app.Flows.List(context.Background(), creator)
			if err != nil {
				return err
			}
			if status != "" {
				want := domain.FlowStatus(strings.ToLower(status))
				filtered := flows[:0]
				for _, f := range flows {
					if f.Status == want {
						filtered = append(filtered, f)
					}
				}
				flows = filtered
			}
			if len(flows) == 0 {
				fmt.Println("No flows found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatFlowList(flows))
			return nil
		},
	}

	cmd.Flags().StringVar(&creator, "creator", "", "Only flows by this creator")
	cmd.Flags().StringVar(&status, "status", "", "Only flows with this status (active, completed, canceled)")

	return cmd
}

func newFlowInspectCmd(app *App) *cobra.Command {
	var creator string

	cmd := &cobra.Command{
		Use:   "inspect FLOW",
		Short: "Show flow details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			flow, err := resolveFlow(ctx, app, creator, args[0])
			if err != nil {
				return err
			}
			contributions, err := app.Flows.ListContributions(ctx, flow.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatFlowInspect(flow, contributions))
			return nil
		},
	}

	cmd.Flags().StringVar(&creator, "as", "", "Acting identity (scopes flow id lookup)")

	return cmd
}

func newContributeCmd(app *App) *cobra.Command {
	var contributor, creator string
	var amount uint64

	cmd := &cobra.Command{
		Use:   "contribute FLOW",
		Short: "Contribute funds to a flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			flow, err := resolveFlow(ctx, app, creator, args[0])
			if err != nil {
				return err
			}

			c, err := app.Flows.Contribute(ctx, flow.ID, contributor, amount)
			if err != nil {
				return err
			}

			fmt.Printf("Contributed %s to %s (position now %s)\n",
				formatter.Amount(amount, flow.TokenMint), flow.FlowID,
				formatter.Amount(c.TotalAmount, flow.TokenMint))
			return nil
		},
	}

	cmd.Flags().StringVar(&contributor, "as", "", "Acting identity (contributor)")
	cmd.Flags().StringVar(&creator, "creator", "", "Flow creator (scopes flow id lookup)")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "Amount in token units")
	_ = cmd.MarkFlagRequired("as")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
