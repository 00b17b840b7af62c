package reporting

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aristath/cppi/internal/domain"
)

// PrintTable renders the report as an aligned text table
func PrintTable(w io.Writer, report domain.PerformanceReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "period\tannual_return\tannual_volatility\tsharpe\tmax_drawdown\t")
	for _, row := range report {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			row.Period, row.AnnualReturn, row.AnnualVolatility, row.Sharpe, row.MaxDrawdown)
	}
	return tw.Flush()
}
