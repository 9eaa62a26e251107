package pipeline

import (
	"strings"

	"github.com/tastetrail/tastetrail-etl/internal/logging"
)

// ColumnStats holds the diagnostic counters for one raw column.
type ColumnStats struct {
	// Nulls counts absent values: empty cells or NULL/NA tokens.
	Nulls int

	// Blanks counts cells that are non-empty but whitespace-only.
	Blanks int
}

// Profile is a per-column null/blank report over the raw set. It is purely
// diagnostic: the validator reads the raw records and never modifies them.
type Profile struct {
	Rows    int
	Columns [NumColumns]ColumnStats
}

// ProfileRows computes the null/blank profile of the raw set.
func ProfileRows(orders []RawOrder) Profile {
	p := Profile{Rows: len(orders)}

	for _, o := range orders {
		for i, cell := range o.Fields {
			switch {
			case cell == "" || (strings.TrimSpace(cell) != "" && isNull(cell)):
				p.Columns[i].Nulls++
			case strings.TrimSpace(cell) == "":
				p.Columns[i].Blanks++
			}
		}
	}

	return p
}

// Log writes the profile to the structured log, one event per column that has
// at least one null or blank value.
func (p Profile) Log() {
	logging.Info().Int("rows", p.Rows).Msg("Column profile")
	for i, c := range p.Columns {
		if c.Nulls == 0 && c.Blanks == 0 {
			continue
		}
		logging.Info().
			Str("column", Columns[i]).
			Int("nulls", c.Nulls).
			Int("blanks", c.Blanks).
			Msg("Column has missing values")
	}
}
