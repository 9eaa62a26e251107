// Package pipeline implements the in-memory cleaning and star-schema
// transformation for raw food-delivery order exports: ingestion, column
// profiling, deduplication, normalization, dimension extraction and fact
// building. The package has no database dependency; loading the results into
// the warehouse is handled by internal/warehouse.
package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// NumColumns is the fixed column count of the raw export.
const NumColumns = 10

// Columns lists the raw export columns in file order.
var Columns = [NumColumns]string{
	"state",
	"city",
	"order_date",
	"restaurant_name",
	"location",
	"category",
	"dish_name",
	"price",
	"rating",
	"rating_count",
}

// RawOrder is one parsed row of the raw export. Text fields keep their
// original spacing; null source values (empty field or a NULL/NA token)
// become "" for text and nil for typed fields.
type RawOrder struct {
	State      string
	City       string
	OrderDate  *time.Time
	Restaurant string
	Location   string
	Category   string
	Dish       string

	Price       *float64
	Rating      *float64
	RatingCount *int

	// Fields holds the untouched source cells for staging and profiling.
	Fields [NumColumns]string

	// Line is the 1-based line number in the source file.
	Line int
}

// Order is a cleaned record: one representative per canonical-key group.
// Text fields are trimmed by Normalize; null measures carry the canonical
// default (zero). OrderDate stays nullable because no default date exists.
type Order struct {
	State      string
	City       string
	OrderDate  *time.Time
	Restaurant string
	Location   string
	Category   string
	Dish       string

	Price       float64
	Rating      float64
	RatingCount int

	// RowHash is the xxh3 fingerprint of the canonical key.
	RowHash uint64

	// Line is the source line of the representative raw record.
	Line int
}

// keySep separates fields in the canonical key encoding. ASCII unit
// separator, which cannot appear in CSV field data that survives parsing.
const keySep = "\x1f"

// canonicalKey builds the canonical key of a raw record: all ten fields with
// text trimmed and nulls replaced by fixed defaults ("" for text, 0 for
// numeric). Two raw records are duplicates iff their canonical keys are equal.
func canonicalKey(r RawOrder) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(r.State))
	b.WriteString(keySep)
	b.WriteString(strings.TrimSpace(r.City))
	b.WriteString(keySep)
	if r.OrderDate != nil {
		b.WriteString(r.OrderDate.Format(time.DateOnly))
	}
	b.WriteString(keySep)
	b.WriteString(strings.TrimSpace(r.Restaurant))
	b.WriteString(keySep)
	b.WriteString(strings.TrimSpace(r.Location))
	b.WriteString(keySep)
	b.WriteString(strings.TrimSpace(r.Category))
	b.WriteString(keySep)
	b.WriteString(strings.TrimSpace(r.Dish))
	b.WriteString(keySep)
	b.WriteString(strconv.FormatFloat(coalesce(r.Price), 'f', -1, 64))
	b.WriteString(keySep)
	b.WriteString(strconv.FormatFloat(coalesce(r.Rating), 'f', -1, 64))
	b.WriteString(keySep)
	if r.RatingCount != nil {
		b.WriteString(strconv.Itoa(*r.RatingCount))
	} else {
		b.WriteString("0")
	}

	return b.String()
}

// Fingerprint returns the 64-bit xxh3 hash of a raw record's canonical key.
// The hash is stored with the fact row so identical source rows keep a stable
// identity across runs.
func Fingerprint(r RawOrder) uint64 {
	return xxh3.HashString(canonicalKey(r))
}

// asOrder converts a raw record into a cleaned record, keeping the original
// text spacing (Normalize trims later) and substituting the canonical zero
// defaults for null measures.
func asOrder(r RawOrder) Order {
	return Order{
		State:       r.State,
		City:        r.City,
		OrderDate:   r.OrderDate,
		Restaurant:  r.Restaurant,
		Location:    r.Location,
		Category:    r.Category,
		Dish:        r.Dish,
		Price:       coalesce(r.Price),
		Rating:      coalesce(r.Rating),
		RatingCount: coalesceInt(r.RatingCount),
		RowHash:     Fingerprint(r),
		Line:        r.Line,
	}
}

func coalesce(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func coalesceInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
