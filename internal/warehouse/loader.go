package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tastetrail/tastetrail-etl/internal/logging"
	"github.com/tastetrail/tastetrail-etl/internal/pipeline"
)

// DefaultBatchSize is the CopyFrom chunk size used when none is configured.
const DefaultBatchSize = 1000

// Loader bulk-loads pipeline output into the warehouse.
type Loader struct {
	pool      *pgxpool.Pool
	batchSize int
}

// NewLoader creates a Loader over a connection pool. batchSize bounds the
// number of rows per CopyFrom call; values < 1 fall back to DefaultBatchSize.
func NewLoader(pool *pgxpool.Pool, batchSize int) *Loader {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Loader{pool: pool, batchSize: batchSize}
}

// LoadAll loads the full pipeline result: staging (unless skipped), all five
// dimensions, then facts. Tables must exist and be empty; re-runs are
// expected to drop and recreate the schema first.
func (l *Loader) LoadAll(ctx context.Context, result *pipeline.Result, skipStaging bool) error {
	if !skipStaging {
		if err := l.LoadStaging(ctx, result.Raw); err != nil {
			return fmt.Errorf("failed to load staging: %w", err)
		}
	}
	if err := l.LoadDimensions(ctx, result.Dims); err != nil {
		return fmt.Errorf("failed to load dimensions: %w", err)
	}
	if err := l.LoadFacts(ctx, result.Facts); err != nil {
		return fmt.Errorf("failed to load facts: %w", err)
	}
	return nil
}

// LoadStaging copies the raw rows into staging_orders, untyped.
func (l *Loader) LoadStaging(ctx context.Context, raw []pipeline.RawOrder) error {
	rows := make([][]any, len(raw))
	for i, r := range raw {
		rows[i] = []any{
			r.Line,
			r.Fields[0], r.Fields[1], r.Fields[2], r.Fields[3], r.Fields[4],
			r.Fields[5], r.Fields[6], r.Fields[7], r.Fields[8], r.Fields[9],
			int64(pipeline.Fingerprint(r)),
		}
	}

	return l.copyRows(ctx, "staging_orders",
		[]string{"line", "state", "city", "order_date", "restaurant_name",
			"location", "category", "dish_name", "price", "rating",
			"rating_count", "row_hash"},
		rows)
}

// LoadDimensions copies all five dimension sets.
func (l *Loader) LoadDimensions(ctx context.Context, dims *pipeline.Dimensions) error {
	dateRows := make([][]any, len(dims.Dates))
	for i, d := range dims.Dates {
		dateRows[i] = []any{d.ID, d.Date, d.Year, d.Month, d.MonthName,
			d.Quarter, d.Day, d.Week, d.DayOfWeek, d.DayName}
	}
	if err := l.copyRows(ctx, "dim_date",
		[]string{"date_id", "full_date", "year", "month", "month_name",
			"quarter", "day", "week", "day_of_week", "day_name"},
		dateRows); err != nil {
		return err
	}

	locRows := make([][]any, len(dims.Locations))
	for i, d := range dims.Locations {
		locRows[i] = []any{d.ID, d.City, d.State}
	}
	if err := l.copyRows(ctx, "dim_location",
		[]string{"location_id", "city", "state"}, locRows); err != nil {
		return err
	}

	restRows := make([][]any, len(dims.Restaurants))
	for i, d := range dims.Restaurants {
		restRows[i] = []any{d.ID, d.Name, d.Location}
	}
	if err := l.copyRows(ctx, "dim_restaurant",
		[]string{"restaurant_id", "restaurant_name", "location"}, restRows); err != nil {
		return err
	}

	catRows := make([][]any, len(dims.Categories))
	for i, d := range dims.Categories {
		catRows[i] = []any{d.ID, d.Name}
	}
	if err := l.copyRows(ctx, "dim_category",
		[]string{"category_id", "category_name"}, catRows); err != nil {
		return err
	}

	dishRows := make([][]any, len(dims.Dishes))
	for i, d := range dims.Dishes {
		dishRows[i] = []any{d.ID, d.Name}
	}
	return l.copyRows(ctx, "dim_dish",
		[]string{"dish_id", "dish_name"}, dishRows)
}

// LoadFacts copies the fact rows. order_id is identity-generated.
func (l *Loader) LoadFacts(ctx context.Context, facts []pipeline.Fact) error {
	rows := make([][]any, len(facts))
	for i, f := range facts {
		rows[i] = []any{f.DateID, f.LocationID, f.RestaurantID, f.CategoryID,
			f.DishID, f.Price, f.Rating, f.RatingCount, int64(f.RowHash)}
	}
	return l.copyRows(ctx, "fact_orders",
		[]string{"date_id", "location_id", "restaurant_id", "category_id",
			"dish_id", "price", "rating", "rating_count", "row_hash"},
		rows)
}

// copyRows loads rows into table in batchSize chunks, so a very large export
// never turns into one unbounded CopyFrom.
func (l *Loader) copyRows(ctx context.Context, table string, columns []string, rows [][]any) error {
	var total int64
	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := l.pool.CopyFrom(ctx, pgx.Identifier{table}, columns,
			pgx.CopyFromRows(rows[start:end]))
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", table, err)
		}
		total += n
	}
	logging.Info().Str("table", table).Int64("rows", total).Msg("Loaded table")
	return nil
}
