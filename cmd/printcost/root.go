package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/printdesk/internal/config"
	"github.com/Simplici0/printdesk/internal/logging"
)

var version = "dev"

// app is the state shared by every subcommand once the root has loaded
// configuration.
type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "printcost",
		Short: "Price 3D print jobs from YAML job files",
		Long: `printcost runs the printdesk cost engine on a job file.

The job file holds the catalog rates and the job draft, so no database is
needed.

Examples:
  printcost quote -f job.yaml
  printcost quote -f job.yaml --margin custom:35
  printcost history -f job.yaml`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is $PRINTDESK_CONFIG or printdesk.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newQuoteCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFrom(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if a.verbose {
		a.cfg.Log.Level = "debug"
	}
	logger, err := logging.New(a.cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "printcost version %s\n", version)
		},
	}
}
