package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tastetrail/tastetrail-etl/internal/db"
	"github.com/tastetrail/tastetrail-etl/internal/warehouse"
)

var reportTopN int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the reporting battery over a loaded warehouse",
	Long: `Run the analytical query battery over the star schema: order
totals, revenue trends by month/quarter/year, day-of-week distribution,
top-N cities, restaurants and dishes, revenue by state, and price and
rating histograms.

Example:
  tastetrail-etl report --top-n 5 --connection "postgres://..."`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportTopN, "top-n", 0,
		"row limit for top-N breakdowns (default: 10)")
}

func runReport(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if reportTopN > 0 {
		cfg.Report.TopN = reportTopN
	}

	// Validate configuration
	if err := cfg.ValidateReport(); err != nil {
		return err
	}

	// Connect to database
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	reporter := warehouse.NewReporter(pool, cfg.Report.TopN)
	report, err := reporter.RunAll(ctx)
	if err != nil {
		return err
	}

	renderReport(cmd.OutOrStdout(), report)

	// Show the provenance of the loaded data if a run recorded it
	if meta, err := db.GetAllMetadata(ctx, pool); err == nil && len(meta) > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded from %s at %s\n",
			meta["source_file"], meta["ingested_at"])
	}

	return nil
}

func renderReport(w io.Writer, report *warehouse.Report) {
	fmt.Fprintln(w, "=== Totals ===")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total orders\t%d\n", report.Totals.TotalOrders)
	fmt.Fprintf(tw, "Total revenue\t%.2f\n", report.Totals.TotalRevenue)
	fmt.Fprintf(tw, "Average price\t%.2f\n", report.Totals.AveragePrice)
	fmt.Fprintf(tw, "Average rating\t%.2f\n", report.Totals.AverageRating)
	tw.Flush()

	renderTrend(w, "Monthly trend", report.MonthlyTrend)
	renderTrend(w, "Quarterly trend", report.QuarterlyTrend)
	renderTrend(w, "Yearly trend", report.YearlyTrend)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Orders by day of week ===")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range report.DayOfWeek {
		fmt.Fprintf(tw, "%s\t%d\n", row.DayName, row.Orders)
	}
	tw.Flush()

	renderRanked(w, "Top cities", report.TopCities)
	renderRanked(w, "Top restaurants", report.TopRestaurants)
	renderRanked(w, "Top dishes", report.TopDishes)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Revenue by state ===")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range report.RevenueByState {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", row.State, row.Orders, row.Revenue)
	}
	tw.Flush()

	renderHistogram(w, "Price distribution", report.PriceHistogram)
	renderHistogram(w, "Rating distribution", report.RatingHistogram)
}

func renderTrend(w io.Writer, title string, rows []warehouse.TrendRow) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "=== %s ===\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		period := row.Period
		if period != fmt.Sprint(row.Year) {
			period = fmt.Sprintf("%d %s", row.Year, row.Period)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", period, row.Orders, row.Revenue)
	}
	tw.Flush()
}

func renderRanked(w io.Writer, title string, rows []warehouse.RankedRow) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "=== %s ===\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, row := range rows {
		fmt.Fprintf(tw, "%d.\t%s\t%d\t%.2f\n", i+1, row.Name, row.Orders, row.Revenue)
	}
	tw.Flush()
}

func renderHistogram(w io.Writer, title string, rows []warehouse.HistogramRow) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "=== %s ===\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", row.Bucket, row.Orders)
	}
	tw.Flush()
}
