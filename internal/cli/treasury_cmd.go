package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okoyedan/fundflow/internal/cli/formatter"
	"github.com/okoyedan/fundflow/internal/treasury"
)

func newWithdrawCmd(app *App) *cobra.Command {
	var caller string
	var amount uint64

	cmd := &cobra.Command{
		Use:   "withdraw FLOW",
		Short: "Withdraw released funds (flow creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			flow, err := resolveFlow(ctx, app, caller, args[0])
			if err != nil {
				return err
			}
			if err := app.Treasury.Withdraw(ctx, flow.ID, caller, amount); err != nil {
				return err
			}
			fmt.Printf("Withdrew %s from %s\n", formatter.Amount(amount, flow.TokenMint), flow.FlowID)
			return nil
		},
	}

	cmd.Flags().StringVar(&caller, "as", "", "Acting identity (must be the flow creator)")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "Amount in token units")
	_ = cmd.MarkFlagRequired("as")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newRefundCmd(app *App) *cobra.Command {
	var contributor, creator string

	cmd := &cobra.Command{
		Use:   "refund FLOW",
		Short: "Claim a pro-rata refund from a canceled flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			flow, err := resolveFlow(ctx, app, creator, args[0])
			if err != nil {
				return err
			}
			refund, err := app.Treasury.WithdrawContribution(ctx, flow.ID, contributor)
			if err != nil {
				return err
			}
			fmt.Printf("Refunded %s from %s\n", formatter.Amount(refund, flow.TokenMint), flow.FlowID)
			return nil
		},
	}

	cmd.Flags().StringVar(&contributor, "as", "", "Acting identity (contributor)")
	cmd.Flags().StringVar(&creator, "creator", "", "Flow creator (scopes flow id lookup)")
	_ = cmd.MarkFlagRequired("as")

	return cmd
}

func newTreasuryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treasury",
		Short: "Inspect and fund treasury accounts",
	}

	cmd.AddCommand(
		newTreasuryFundCmd(app),
		newTreasuryBalanceCmd(app),
	)

	return cmd
}

func newTreasuryFundCmd(app *App) *cobra.Command {
	var account, mint string
	var amount uint64

	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Credit a wallet account (local faucet)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Treasury.Fund(context.Background(), treasury.WalletAccount(account), mint, amount); err != nil {
				return err
			}
			fmt.Printf("Funded %s with %s\n", account, formatter.Amount(amount, mint))
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "as", "", "Wallet identity to credit")
	cmd.Flags().StringVar(&mint, "mint", app.Config.TokenMint, "Token mint")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "Amount in token units")
	_ = cmd.MarkFlagRequired("as")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newTreasuryBalanceCmd(app *App) *cobra.Command {
	var account, mint, flowRef, creator string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show a wallet or flow custody balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if flowRef != "" {
				flow, err := resolveFlow(ctx, app, creator, flowRef)
				if err != nil {
					return err
				}
				balance, err := app.Treasury.FlowBalance(ctx, flow.ID)
				if err != nil {
					return err
				}
				fmt.Printf("%s custody: %s\n", flow.FlowID, formatter.Amount(balance, flow.TokenMint))
				return nil
			}

			if account == "" {
				return fmt.Errorf("either --as or --flow is required")
			}
			balance, err := app.Treasury.Balance(ctx, treasury.WalletAccount(account), mint)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", account, formatter.Amount(balance, mint))
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "as", "", "Wallet identity")
	cmd.Flags().StringVar(&mint, "mint", app.Config.TokenMint, "Token mint")
	cmd.Flags().StringVar(&flowRef, "flow", "", "Show a flow's custody balance instead")
	cmd.Flags().StringVar(&creator, "creator", "", "Flow creator (scopes flow id lookup)")

	return cmd
}
