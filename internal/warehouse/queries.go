//-------------------------------------------------------------------------
//
// TasteTrail ETL
//
// Copyright (c) 2025 - 2026, TasteTrail Data Co.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tastetrail/tastetrail-etl/internal/logging"
)

// DB is an interface that both *pgxpool.Pool and *pgx.Conn satisfy.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PriceBucket is one bucket of the price histogram. Max < 0 means unbounded.
type PriceBucket struct {
	Label string
	Min   float64
	Max   float64
}

// PriceBuckets defines the INR price histogram. Buckets are half-open
// [Min, Max): every non-null price maps to exactly one bucket.
var PriceBuckets = []PriceBucket{
	{Label: "<100", Min: 0, Max: 100},
	{Label: "100-199", Min: 100, Max: 200},
	{Label: "200-299", Min: 200, Max: 300},
	{Label: "300-499", Min: 300, Max: 500},
	{Label: "500+", Min: 500, Max: -1},
}

// BucketFor returns the histogram bucket label for a price.
func BucketFor(price float64) string {
	for _, b := range PriceBuckets {
		if b.Max < 0 || price < b.Max {
			return b.Label
		}
	}
	// Unreachable: the last bucket is unbounded.
	return PriceBuckets[len(PriceBuckets)-1].Label
}

// priceBucketCase builds the SQL CASE expression for the histogram from the
// same bucket table the Go side uses, so the two can never drift.
func priceBucketCase() string {
	var b strings.Builder
	b.WriteString("CASE")
	for _, bk := range PriceBuckets {
		if bk.Max < 0 {
			fmt.Fprintf(&b, " ELSE '%s'", bk.Label)
		} else {
			fmt.Fprintf(&b, " WHEN price < %g THEN '%s'", bk.Max, bk.Label)
		}
	}
	b.WriteString(" END")
	return b.String()
}

// Totals holds the headline KPIs.
type Totals struct {
	TotalOrders   int64
	TotalRevenue  float64
	AveragePrice  float64
	AverageRating float64
}

// TrendRow is one period of a monthly/quarterly/yearly trend.
type TrendRow struct {
	Year    int
	Period  string
	Orders  int64
	Revenue float64
}

// WeekdayRow is one day of the day-of-week distribution.
type WeekdayRow struct {
	DayName string
	Orders  int64
}

// RankedRow is one entry of a top-N breakdown.
type RankedRow struct {
	Name    string
	Orders  int64
	Revenue float64
}

// StateRevenueRow is one state of the revenue-by-state breakdown.
type StateRevenueRow struct {
	State   string
	Orders  int64
	Revenue float64
}

// HistogramRow is one bucket of the price or rating histogram.
type HistogramRow struct {
	Bucket string
	Orders int64
}

// Report holds the full reporting battery output.
type Report struct {
	Totals          Totals
	MonthlyTrend    []TrendRow
	QuarterlyTrend  []TrendRow
	YearlyTrend     []TrendRow
	DayOfWeek       []WeekdayRow
	TopCities       []RankedRow
	TopRestaurants  []RankedRow
	TopDishes       []RankedRow
	RevenueByState  []StateRevenueRow
	PriceHistogram  []HistogramRow
	RatingHistogram []HistogramRow
}

// Reporter runs the reporting battery over the star schema. Every query is
// read-only and independent of the others.
type Reporter struct {
	db   DB
	topN int
}

// NewReporter creates a Reporter. topN limits the ranked breakdowns.
func NewReporter(db DB, topN int) *Reporter {
	return &Reporter{db: db, topN: topN}
}

// RunAll executes the full battery and logs per-query timing.
func (r *Reporter) RunAll(ctx context.Context) (*Report, error) {
	report := &Report{}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"totals", func(ctx context.Context) (err error) {
			report.Totals, err = r.QueryTotals(ctx)
			return
		}},
		{"monthly_trend", func(ctx context.Context) (err error) {
			report.MonthlyTrend, err = r.QueryMonthlyTrend(ctx)
			return
		}},
		{"quarterly_trend", func(ctx context.Context) (err error) {
			report.QuarterlyTrend, err = r.QueryQuarterlyTrend(ctx)
			return
		}},
		{"yearly_trend", func(ctx context.Context) (err error) {
			report.YearlyTrend, err = r.QueryYearlyTrend(ctx)
			return
		}},
		{"day_of_week", func(ctx context.Context) (err error) {
			report.DayOfWeek, err = r.QueryDayOfWeek(ctx)
			return
		}},
		{"top_cities", func(ctx context.Context) (err error) {
			report.TopCities, err = r.QueryTopCities(ctx)
			return
		}},
		{"top_restaurants", func(ctx context.Context) (err error) {
			report.TopRestaurants, err = r.QueryTopRestaurants(ctx)
			return
		}},
		{"top_dishes", func(ctx context.Context) (err error) {
			report.TopDishes, err = r.QueryTopDishes(ctx)
			return
		}},
		{"revenue_by_state", func(ctx context.Context) (err error) {
			report.RevenueByState, err = r.QueryRevenueByState(ctx)
			return
		}},
		{"price_histogram", func(ctx context.Context) (err error) {
			report.PriceHistogram, err = r.QueryPriceHistogram(ctx)
			return
		}},
		{"rating_histogram", func(ctx context.Context) (err error) {
			report.RatingHistogram, err = r.QueryRatingHistogram(ctx)
			return
		}},
	}

	for _, step := range steps {
		start := time.Now()
		if err := step.run(ctx); err != nil {
			return nil, fmt.Errorf("query %s failed: %w", step.name, err)
		}
		logging.Debug().
			Str("query", step.name).
			Dur("duration", time.Since(start)).
			Msg("Report query complete")
	}

	return report, nil
}

// QueryTotals returns the headline KPIs. Averages are rounded to 2 decimal
// places.
func (r *Reporter) QueryTotals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.db.QueryRow(ctx, `
        SELECT
            COUNT(*),
            COALESCE(SUM(price), 0),
            COALESCE(ROUND(AVG(price), 2), 0),
            COALESCE(ROUND(AVG(rating), 2), 0)
        FROM fact_orders
    `).Scan(&t.TotalOrders, &t.TotalRevenue, &t.AveragePrice, &t.AverageRating)
	return t, err
}

// QueryMonthlyTrend returns orders and revenue per calendar month.
func (r *Reporter) QueryMonthlyTrend(ctx context.Context) ([]TrendRow, error) {
	return r.trend(ctx, `
        SELECT d.year, d.month_name, COUNT(*), COALESCE(SUM(f.price), 0)
        FROM fact_orders f
        JOIN dim_date d ON d.date_id = f.date_id
        GROUP BY d.year, d.month, d.month_name
        ORDER BY d.year, d.month
    `)
}

// QueryQuarterlyTrend returns orders and revenue per quarter.
func (r *Reporter) QueryQuarterlyTrend(ctx context.Context) ([]TrendRow, error) {
	return r.trend(ctx, `
        SELECT d.year, 'Q' || d.quarter, COUNT(*), COALESCE(SUM(f.price), 0)
        FROM fact_orders f
        JOIN dim_date d ON d.date_id = f.date_id
        GROUP BY d.year, d.quarter
        ORDER BY d.year, d.quarter
    `)
}

// QueryYearlyTrend returns orders and revenue per year.
func (r *Reporter) QueryYearlyTrend(ctx context.Context) ([]TrendRow, error) {
	return r.trend(ctx, `
        SELECT d.year, d.year::TEXT, COUNT(*), COALESCE(SUM(f.price), 0)
        FROM fact_orders f
        JOIN dim_date d ON d.date_id = f.date_id
        GROUP BY d.year
        ORDER BY d.year
    `)
}

func (r *Reporter) trend(ctx context.Context, sql string) ([]TrendRow, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrendRow
	for rows.Next() {
		var t TrendRow
		if err := rows.Scan(&t.Year, &t.Period, &t.Orders, &t.Revenue); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// QueryDayOfWeek returns the order distribution over calendar weekdays,
// Sunday first.
func (r *Reporter) QueryDayOfWeek(ctx context.Context) ([]WeekdayRow, error) {
	rows, err := r.db.Query(ctx, `
        SELECT d.day_name, COUNT(*)
        FROM fact_orders f
        JOIN dim_date d ON d.date_id = f.date_id
        GROUP BY d.day_of_week, d.day_name
        ORDER BY d.day_of_week
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WeekdayRow
	for rows.Next() {
		var w WeekdayRow
		if err := rows.Scan(&w.DayName, &w.Orders); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// QueryTopCities returns the top-N cities by order count.
func (r *Reporter) QueryTopCities(ctx context.Context) ([]RankedRow, error) {
	return r.ranked(ctx, `
        SELECT l.city || ', ' || l.state, COUNT(*), COALESCE(SUM(f.price), 0)
        FROM fact_orders f
        JOIN dim_location l ON l.location_id = f.location_id
        GROUP BY l.city, l.state
        ORDER BY COUNT(*) DESC, l.city
        LIMIT $1
    `)
}

// QueryTopRestaurants returns the top-N restaurants by order count.
func (r *Reporter) QueryTopRestaurants(ctx context.Context) ([]RankedRow, error) {
	return r.ranked(ctx, `
        SELECT rt.restaurant_name || ' (' || rt.location || ')',
               COUNT(*), COALESCE(SUM(f.price), 0)
        FROM fact_orders f
        JOIN dim_restaurant rt ON rt.restaurant_id = f.restaurant_id
        GROUP BY rt.restaurant_name, rt.location
        ORDER BY COUNT(*) DESC, rt.restaurant_name
        LIMIT $1
    `)
}

// QueryTopDishes returns the top-N dishes by order count.
func (r *Reporter) QueryTopDishes(ctx context.Context) ([]RankedRow, error) {
	return r.ranked(ctx, `
        SELECT d.dish_name, COUNT(*), COALESCE(SUM(f.price), 0)
        FROM fact_orders f
        JOIN dim_dish d ON d.dish_id = f.dish_id
        GROUP BY d.dish_name
        ORDER BY COUNT(*) DESC, d.dish_name
        LIMIT $1
    `)
}

func (r *Reporter) ranked(ctx context.Context, sql string) ([]RankedRow, error) {
	rows, err := r.db.Query(ctx, sql, r.topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RankedRow
	for rows.Next() {
		var rr RankedRow
		if err := rows.Scan(&rr.Name, &rr.Orders, &rr.Revenue); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// QueryRevenueByState returns orders and revenue per state, highest revenue
// first.
func (r *Reporter) QueryRevenueByState(ctx context.Context) ([]StateRevenueRow, error) {
	rows, err := r.db.Query(ctx, `
        SELECT l.state, COUNT(*), COALESCE(SUM(f.price), 0)
        FROM fact_orders f
        JOIN dim_location l ON l.location_id = f.location_id
        GROUP BY l.state
        ORDER BY SUM(f.price) DESC, l.state
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StateRevenueRow
	for rows.Next() {
		var s StateRevenueRow
		if err := rows.Scan(&s.State, &s.Orders, &s.Revenue); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// QueryPriceHistogram returns the order count per price bucket, in bucket
// order. Empty buckets are omitted.
func (r *Reporter) QueryPriceHistogram(ctx context.Context) ([]HistogramRow, error) {
	sql := fmt.Sprintf(`
        SELECT bucket, cnt FROM (
            SELECT %s AS bucket, COUNT(*) AS cnt, MIN(price) AS lo
            FROM fact_orders
            GROUP BY 1
        ) h
        ORDER BY lo
    `, priceBucketCase())

	return r.histogram(ctx, sql)
}

// QueryRatingHistogram returns the order count per unit-wide rating bucket
// (floor(rating)), ascending.
func (r *Reporter) QueryRatingHistogram(ctx context.Context) ([]HistogramRow, error) {
	return r.histogram(ctx, `
        SELECT FLOOR(rating)::INT::TEXT || '.0-' || FLOOR(rating)::INT::TEXT || '.9' AS bucket,
               COUNT(*)
        FROM fact_orders
        GROUP BY FLOOR(rating)
        ORDER BY FLOOR(rating)
    `)
}

func (r *Reporter) histogram(ctx context.Context, sql string) ([]HistogramRow, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistogramRow
	for rows.Next() {
		var h HistogramRow
		if err := rows.Scan(&h.Bucket, &h.Orders); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
