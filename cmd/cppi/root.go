package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/cppi/internal/config"
	"github.com/aristath/cppi/pkg/logger"
)

// app carries what every subcommand needs once configuration is loaded
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logger.Nop()}

	root := &cobra.Command{
		Use:   "cppi",
		Short: "Constant Proportion Portfolio Insurance simulator",
		Long: `cppi backtests a CPPI strategy over historical daily returns of a risky
asset and a risk-free asset, and reports annual return, volatility, Sharpe
ratio and maximum drawdown per period.

Configuration is read from CPPI_* environment variables (and a .env file in
the working directory); command-line flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			a.log = logger.New(logger.Config{
				Level:  cfg.LogLevel,
				Pretty: cfg.LogPretty,
				Output: cmd.ErrOrStderr(),
			})
			logger.SetGlobalLogger(a.log)
			return nil
		},
	}

	root.AddCommand(newRunCmd(a), newServeCmd(a), newInspectCmd(a))
	return root
}
