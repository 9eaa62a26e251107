package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tastetrail/tastetrail-etl/internal/logging"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// RejectedRow records a raw row that failed structural or type validation.
type RejectedRow struct {
	Line   int
	Reason string
}

// ReadResult holds the parsed raw set plus ingestion accounting.
type ReadResult struct {
	Orders []RawOrder

	// RowsRead counts data rows seen, excluding the header.
	RowsRead int

	// Rejects lists rows dropped for wrong column count or unparsable
	// typed fields. Rejection never aborts the load.
	Rejects []RejectedRow
}

// ReadFile parses the raw export at path. The first line is treated as a
// header and skipped.
func ReadFile(path string, delimiter rune) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	return Read(f, delimiter)
}

// Read parses a raw export from r. Rows with the wrong column count or with
// non-empty typed fields that fail to parse are rejected and counted; the
// remaining rows become RawOrders.
func Read(r io.Reader, delimiter rune) (*ReadResult, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	// Width is enforced after read so short/wide rows soft-fail per row
	// instead of aborting the whole load.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	result := &ReadResult{}
	line := 0

	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line++
				result.RowsRead++
				result.reject(line, fmt.Sprintf("csv parse error: %v", perr.Err))
				continue
			}
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		line++

		// Header row
		if line == 1 {
			if len(cells) > 0 {
				cells[0] = strings.TrimPrefix(cells[0], utf8BOM)
			}
			continue
		}

		result.RowsRead++

		if len(cells) != NumColumns {
			result.reject(line, fmt.Sprintf("expected %d columns, got %d", NumColumns, len(cells)))
			continue
		}

		order, reason := parseRow(cells, line)
		if reason != "" {
			result.reject(line, reason)
			continue
		}
		result.Orders = append(result.Orders, order)
	}

	logging.Info().
		Int("rows_read", result.RowsRead).
		Int("rows_rejected", len(result.Rejects)).
		Int("raw_records", len(result.Orders)).
		Msg("Ingested raw export")

	return result, nil
}

func (r *ReadResult) reject(line int, reason string) {
	r.Rejects = append(r.Rejects, RejectedRow{Line: line, Reason: reason})
	logging.Debug().
		Int("line", line).
		Str("reason", reason).
		Msg("Rejected row")
}

// parseRow converts one raw row into a RawOrder. A non-empty typed field that
// fails to parse rejects the whole row; a null token becomes a nil value.
func parseRow(cells []string, line int) (RawOrder, string) {
	order := RawOrder{
		State:      textValue(cells[0]),
		City:       textValue(cells[1]),
		Restaurant: textValue(cells[3]),
		Location:   textValue(cells[4]),
		Category:   textValue(cells[5]),
		Dish:       textValue(cells[6]),
		Line:       line,
	}
	copy(order.Fields[:], cells)

	if !isNull(cells[2]) {
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(cells[2]))
		if err != nil {
			return order, fmt.Sprintf("bad order_date %q", cells[2])
		}
		order.OrderDate = &d
	}

	if !isNull(cells[7]) {
		p, err := strconv.ParseFloat(strings.TrimSpace(cells[7]), 64)
		if err != nil {
			return order, fmt.Sprintf("bad price %q", cells[7])
		}
		order.Price = &p
	}

	if !isNull(cells[8]) {
		rt, err := strconv.ParseFloat(strings.TrimSpace(cells[8]), 64)
		if err != nil {
			return order, fmt.Sprintf("bad rating %q", cells[8])
		}
		order.Rating = &rt
	}

	if !isNull(cells[9]) {
		c, err := strconv.Atoi(strings.TrimSpace(cells[9]))
		if err != nil {
			return order, fmt.Sprintf("bad rating_count %q", cells[9])
		}
		order.RatingCount = &c
	}

	return order, ""
}

// isNull reports whether a source cell represents an absent value: an empty
// or whitespace-only field, or a conventional NULL/NA export token.
func isNull(cell string) bool {
	switch strings.ToUpper(strings.TrimSpace(cell)) {
	case "", "NULL", "NA", `\N`:
		return true
	}
	return false
}

// textValue maps literal NULL/NA tokens to "" and otherwise keeps the cell
// as-is, spacing included. Trimming is the Normalizer's job.
func textValue(cell string) string {
	if isNull(cell) && strings.TrimSpace(cell) != "" {
		return ""
	}
	return cell
}
