package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/cppi/internal/reporting"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ARCHIVE",
		Short: "Print the report stored in a run archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := reporting.ReadArchive(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := snap.Parameters
			fmt.Fprintf(out, "run %s created %s\n", snap.RunID, snap.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "rate=%s guarantee=%g multiplier=%g fee=%g rebalance=%dd nav0=%g paths=%d\n\n",
				p.RateType, p.GuaranteeRatio, p.RiskMultiplier, p.RiskFeeRate, p.RebalancePeriod, p.InitialNAV, p.PathCount)

			a.log.Debug().Str("archive", args[0]).Int("periods", len(snap.Report)).Msg("Archive read")
			return reporting.PrintTable(out, snap.Report)
		},
	}
}
