package pipeline

import (
	"testing"
)

func TestBuildFactsResolvesAllKeys(t *testing.T) {
	orders := []Order{cleanOrder(2)}
	dims := BuildDimensions(orders)

	facts, stats := BuildFacts(orders, dims)

	if len(facts) != 1 {
		t.Fatalf("Expected 1 fact, got %d", len(facts))
	}
	f := facts[0]
	if f.DateID != 1 || f.LocationID != 1 || f.RestaurantID != 1 ||
		f.CategoryID != 1 || f.DishID != 1 {
		t.Errorf("Unexpected surrogate keys: %+v", f)
	}
	if f.Price != 250.00 || f.Rating != 4.5 || f.RatingCount != 10 {
		t.Errorf("Unexpected measures: %+v", f)
	}
	if f.RowHash != orders[0].RowHash {
		t.Error("Fact should carry the cleaned record's row hash")
	}
	if stats.Built != 1 || stats.Dropped() != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestBuildFactsDropsNullDate(t *testing.T) {
	withDate := cleanOrder(2)
	withoutDate := cleanOrder(3)
	withoutDate.OrderDate = nil
	withoutDate.Dish = "Mutton Biryani"
	orders := []Order{withDate, withoutDate}

	dims := BuildDimensions(orders)
	facts, stats := BuildFacts(orders, dims)

	if len(facts) != 1 {
		t.Fatalf("Expected 1 fact, got %d", len(facts))
	}
	if stats.MissingDate != 1 {
		t.Errorf("Expected 1 null-date drop, got %d", stats.MissingDate)
	}
	if stats.Built+stats.Dropped() != len(orders) {
		t.Errorf("Accounting must cover every cleaned record: built=%d dropped=%d cleaned=%d",
			stats.Built, stats.Dropped(), len(orders))
	}
}

func TestBuildFactsMissingDimensionKey(t *testing.T) {
	orders := []Order{cleanOrder(2)}
	// Dimensions built from a different record: natural keys cannot match.
	other := cleanOrder(3)
	other.City = "Mysuru"
	other.Restaurant = "R9"
	dims := BuildDimensions([]Order{other})

	facts, stats := BuildFacts(orders, dims)

	if len(facts) != 0 {
		t.Fatalf("Expected 0 facts, got %d", len(facts))
	}
	if stats.MissingLocation != 1 {
		t.Errorf("Expected 1 location miss, got %+v", stats)
	}
	if stats.Built+stats.Dropped() != len(orders) {
		t.Error("Exclusion accounting must be complete")
	}
}

func TestBuildFactsCountPostcondition(t *testing.T) {
	orders := make([]Order, 0, 4)
	for i := 0; i < 3; i++ {
		o := cleanOrder(i + 2)
		o.RatingCount = i
		orders = append(orders, o)
	}
	nullDate := cleanOrder(5)
	nullDate.OrderDate = nil
	orders = append(orders, nullDate)

	dims := BuildDimensions(orders)
	facts, stats := BuildFacts(orders, dims)

	if len(facts) > len(orders) {
		t.Error("count(fact) must not exceed count(cleaned)")
	}
	if got := len(orders) - len(facts); got != stats.Dropped() {
		t.Errorf("Gap must be fully explained: gap=%d accounted=%d",
			got, stats.Dropped())
	}
}
