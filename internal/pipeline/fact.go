package pipeline

import (
	"github.com/tastetrail/tastetrail-etl/internal/logging"
)

// Fact is one row of the order fact table: five resolved surrogate keys plus
// the measures.
type Fact struct {
	DateID       int
	LocationID   int
	RestaurantID int
	CategoryID   int
	DishID       int

	Price       float64
	Rating      float64
	RatingCount int

	// RowHash carries the cleaned record's canonical-key fingerprint.
	RowHash uint64
}

// FactStats accounts for every cleaned record that did not become a fact row.
// count(fact) + sum(drops) == count(cleaned) always holds.
type FactStats struct {
	Built int

	// MissingDate counts records dropped for a null OrderDate, which can
	// never resolve against the date dimension.
	MissingDate int

	// The remaining counters track natural-key misses per dimension.
	// With dimensions built from the same cleaned set these stay zero,
	// but the inner-join contract requires the accounting.
	MissingDateKey    int
	MissingLocation   int
	MissingRestaurant int
	MissingCategory   int
	MissingDish       int
}

// Dropped returns the total number of excluded records.
func (s FactStats) Dropped() int {
	return s.MissingDate + s.MissingDateKey + s.MissingLocation +
		s.MissingRestaurant + s.MissingCategory + s.MissingDish
}

// BuildFacts resolves each cleaned record against all five dimensions by
// exact natural-key lookup and emits one fact row per fully-resolved record.
// Records failing any lookup are excluded (inner-join semantics) and counted
// by reason.
func BuildFacts(orders []Order, dims *Dimensions) ([]Fact, FactStats) {
	facts := make([]Fact, 0, len(orders))
	var stats FactStats

	for _, o := range orders {
		if o.OrderDate == nil {
			stats.MissingDate++
			continue
		}

		dateID, ok := dims.DateID(*o.OrderDate)
		if !ok {
			stats.MissingDateKey++
			continue
		}
		locID, ok := dims.LocationID(o.City, o.State)
		if !ok {
			stats.MissingLocation++
			continue
		}
		restID, ok := dims.RestaurantID(o.Restaurant, o.Location)
		if !ok {
			stats.MissingRestaurant++
			continue
		}
		catID, ok := dims.CategoryID(o.Category)
		if !ok {
			stats.MissingCategory++
			continue
		}
		dishID, ok := dims.DishID(o.Dish)
		if !ok {
			stats.MissingDish++
			continue
		}

		facts = append(facts, Fact{
			DateID:       dateID,
			LocationID:   locID,
			RestaurantID: restID,
			CategoryID:   catID,
			DishID:       dishID,
			Price:        o.Price,
			Rating:       o.Rating,
			RatingCount:  o.RatingCount,
			RowHash:      o.RowHash,
		})
	}

	stats.Built = len(facts)

	ev := logging.Info().
		Int("cleaned", len(orders)).
		Int("facts", stats.Built)
	if dropped := stats.Dropped(); dropped > 0 {
		ev = ev.Int("dropped", dropped).
			Int("null_dates", stats.MissingDate)
	}
	ev.Msg("Built facts")

	return facts, stats
}
