package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/okoyedan/fundflow/internal/cli"
	"github.com/okoyedan/fundflow/internal/config"
	"github.com/okoyedan/fundflow/internal/db"
	"github.com/okoyedan/fundflow/internal/repository"
	"github.com/okoyedan/fundflow/internal/service"
	"github.com/okoyedan/fundflow/internal/treasury"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Resolve()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories and the shared unit of work.
	flowRepo := repository.NewSQLiteFlowRepo(database)
	contributionRepo := repository.NewSQLiteContributionRepo(database)
	proposalRepo := repository.NewSQLiteProposalRepo(database)
	vault := treasury.NewSQLiteVault(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	var events service.EventSink = service.NoopEventSink{}
	if os.Getenv("FUNDFLOW_LOG") != "" {
		observer = service.NewLogUseCaseObserver(os.Stderr)
		events = service.NewLogEventSink(os.Stderr)
	}

	app := &cli.App{
		Flows:      service.NewFlowService(flowRepo, contributionRepo, uow, observer, events),
		Governance: service.NewGovernanceService(proposalRepo, uow, observer, events),
		Treasury:   service.NewTreasuryService(flowRepo, vault, uow, observer, events),
		Config:     cfg,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
