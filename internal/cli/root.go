package cli

import (
	"github.com/spf13/cobra"

	"github.com/okoyedan/fundflow/internal/config"
	"github.com/okoyedan/fundflow/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Flows      service.FlowService
	Governance service.GovernanceService
	Treasury   service.TreasuryService
	Config     config.Config

	// IsInteractive reports whether stdin is a terminal; interactive
	// forms are only offered when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "fundflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "fundflow",
		Short: "Fund custody and milestone governance",
	}

	root.AddCommand(
		newFlowCmd(app),
		newContributeCmd(app),
		newProposalCmd(app),
		newWithdrawCmd(app),
		newRefundCmd(app),
		newTreasuryCmd(app),
	)

	return root
}
