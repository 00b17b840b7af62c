package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aristath/cppi/internal/config"
	"github.com/aristath/cppi/internal/domain"
	"github.com/aristath/cppi/internal/marketdata"
	"github.com/aristath/cppi/internal/modules/cppi"
	"github.com/aristath/cppi/internal/modules/performance"
	"github.com/aristath/cppi/internal/reporting"
	"github.com/aristath/cppi/pkg/formulas"
)

// runFlags are the run command flags. Strategy flags only override the
// configured parameters when set explicitly.
type runFlags struct {
	riskyFile    string
	riskFreeFile string
	outDir       string
	paramsFile   string
	splitByYear  bool
	noArtifacts  bool

	rateType        string
	tradingYears    int
	riskFreeRate    float64
	initialNAV      float64
	rebalancePeriod int
	guaranteeRatio  float64
	multiplier      float64
	feeRate         float64
	paths           int
}

func newRunCmd(a *app) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate the strategy over CSV or XLSX return files",
		Long: `Load daily returns of the risky and the risk-free asset, simulate the CPPI
strategy over each period, print the performance report and write the run
artifacts (report CSV, NAV CSV, JSON, PNG chart, msgpack archive, XLSX workbook).
Files ending in .xlsx or .xlsm are read from their first sheet.

Examples:
  cppi run --risky csi800.csv --risk-free bonds.csv
  cppi run --risky csi800.csv --risk-free bonds.csv --split-by-year
  cppi run --risky csi800.csv --risk-free bonds.csv --multiplier 3 --rate-type compound
  cppi run --risky csi800.csv --risk-free bonds.csv --params strategy.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, f)
		},
	}

	d := domain.DefaultParameters()
	flags := cmd.Flags()
	flags.StringVar(&f.riskyFile, "risky", "", "CSV or XLSX of daily risky-asset returns (default $CPPI_RISKY_FILE)")
	flags.StringVar(&f.riskFreeFile, "risk-free", "", "CSV or XLSX of daily risk-free returns (default $CPPI_RISK_FREE_FILE)")
	flags.StringVar(&f.outDir, "out", "", "Directory for run artifacts (default $CPPI_OUTPUT_DIR)")
	flags.StringVar(&f.paramsFile, "params", "", "YAML file with strategy parameters (applied before the flags below)")
	flags.BoolVar(&f.splitByYear, "split-by-year", false, "Simulate each calendar year as its own period")
	flags.BoolVar(&f.noArtifacts, "no-artifacts", false, "Only print the report")

	flags.StringVar(&f.rateType, "rate-type", d.RateType.String(), "Floor discounting convention: simple or compound")
	flags.IntVar(&f.tradingYears, "years", d.TradingYears, "Trading years per period")
	flags.Float64Var(&f.riskFreeRate, "risk-free-rate", d.RiskFreeAnnualRate, "Annual risk-free rate used to discount the floor")
	flags.Float64Var(&f.initialNAV, "initial-nav", d.InitialNAV, "Starting net asset value")
	flags.IntVar(&f.rebalancePeriod, "rebalance-period", d.RebalancePeriod, "Days between rebalances")
	flags.Float64Var(&f.guaranteeRatio, "guarantee", d.GuaranteeRatio, "Fraction of the initial NAV protected at maturity")
	flags.Float64Var(&f.multiplier, "multiplier", d.RiskMultiplier, "Risk multiplier applied to the cushion")
	flags.Float64Var(&f.feeRate, "fee", d.RiskFeeRate, "Proportional fee on risky-asset trades")
	flags.IntVar(&f.paths, "paths", d.PathCount, "Number of simulated paths")

	return cmd
}

// strategy overlays explicitly set flags on the configured parameters
func (f *runFlags) strategy(cmd *cobra.Command, base domain.Parameters) (domain.Parameters, error) {
	p := base
	changed := cmd.Flags().Changed

	if changed("rate-type") {
		rt, err := formulas.ParseRateConvention(f.rateType)
		if err != nil {
			return p, err
		}
		p.RateType = rt
	}
	if changed("years") {
		p.TradingYears = f.tradingYears
	}
	if changed("risk-free-rate") {
		p.RiskFreeAnnualRate = f.riskFreeRate
	}
	if changed("initial-nav") {
		p.InitialNAV = f.initialNAV
	}
	if changed("rebalance-period") {
		p.RebalancePeriod = f.rebalancePeriod
	}
	if changed("guarantee") {
		p.GuaranteeRatio = f.guaranteeRatio
	}
	if changed("multiplier") {
		p.RiskMultiplier = f.multiplier
	}
	if changed("fee") {
		p.RiskFeeRate = f.feeRate
	}
	if changed("paths") {
		p.PathCount = f.paths
	}
	return p, nil
}

func (a *app) run(cmd *cobra.Command, f *runFlags) error {
	riskyFile := firstNonEmpty(f.riskyFile, a.cfg.RiskyFile)
	riskFreeFile := firstNonEmpty(f.riskFreeFile, a.cfg.RiskFreeFile)
	if riskyFile == "" || riskFreeFile == "" {
		return fmt.Errorf("both --risky and --risk-free are required")
	}

	splitByYear := a.cfg.SplitByYear
	if cmd.Flags().Changed("split-by-year") {
		splitByYear = f.splitByYear
	}

	base := a.cfg.Strategy
	if f.paramsFile != "" {
		var err error
		if base, err = config.LoadStrategyFile(f.paramsFile, base); err != nil {
			return err
		}
	}

	params, err := f.strategy(cmd, base)
	if err != nil {
		return err
	}

	periods, err := marketdata.NewLoader(a.log).Load(riskyFile, riskFreeFile, splitByYear)
	if err != nil {
		return err
	}

	service := cppi.NewService(performance.NewAnalyzer(), a.log)
	result, err := service.Run(cmd.Context(), params, periods)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := reporting.PrintTable(out, result.Report); err != nil {
		return err
	}
	if f.noArtifacts {
		return nil
	}

	runID := uuid.NewString()
	artifacts, err := reporting.NewWriter(firstNonEmpty(f.outDir, a.cfg.OutputDir), a.log).
		WriteAll(reporting.NewSnapshot(runID, result))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nrun %s (%d periods, %s)\n", runID, len(result.Periods), result.Duration.Round(time.Millisecond))
	for _, path := range []string{artifacts.ReportCSV, artifacts.NAVCSV, artifacts.JSON, artifacts.Chart, artifacts.Archive, artifacts.Workbook} {
		if path != "" {
			fmt.Fprintf(out, "  %s\n", path)
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
