package pipeline

import (
	"testing"
	"time"
)

func cleanOrder(line int) Order {
	return asOrder(rawOrder(line))
}

func TestBuildDimensionsDistinctProjection(t *testing.T) {
	a := cleanOrder(2)
	b := cleanOrder(3) // identical natural keys everywhere
	c := cleanOrder(4)
	c.City = "Mysuru"
	c.Dish = "Mutton Biryani"

	dims := BuildDimensions([]Order{a, b, c})

	if len(dims.Dates) != 1 {
		t.Errorf("Expected 1 date, got %d", len(dims.Dates))
	}
	if len(dims.Locations) != 2 {
		t.Errorf("Expected 2 locations, got %d", len(dims.Locations))
	}
	if len(dims.Restaurants) != 1 {
		t.Errorf("Expected 1 restaurant, got %d", len(dims.Restaurants))
	}
	if len(dims.Categories) != 1 {
		t.Errorf("Expected 1 category, got %d", len(dims.Categories))
	}
	if len(dims.Dishes) != 2 {
		t.Errorf("Expected 2 dishes, got %d", len(dims.Dishes))
	}
}

func TestBuildDimensionsSurrogateKeysDense(t *testing.T) {
	orders := make([]Order, 0, 5)
	cities := []string{"Bengaluru", "Mysuru", "Hubli", "Mangaluru", "Belagavi"}
	for i, city := range cities {
		o := cleanOrder(i + 2)
		o.City = city
		orders = append(orders, o)
	}

	dims := BuildDimensions(orders)

	if len(dims.Locations) != 5 {
		t.Fatalf("Expected 5 locations, got %d", len(dims.Locations))
	}
	for i, loc := range dims.Locations {
		if loc.ID != i+1 {
			t.Errorf("Expected surrogate key %d, got %d", i+1, loc.ID)
		}
		// First-seen order is the enumeration order
		if loc.City != cities[i] {
			t.Errorf("Expected city %q at position %d, got %q",
				cities[i], i, loc.City)
		}
	}
}

func TestBuildDimensionsNaturalKeysUnique(t *testing.T) {
	orders := []Order{cleanOrder(2), cleanOrder(3), cleanOrder(4)}
	orders[1].City = "Mysuru"
	orders[2].State = "TN"

	dims := BuildDimensions(orders)

	seen := make(map[locationKey]bool)
	for _, loc := range dims.Locations {
		key := locationKey{city: loc.City, state: loc.State}
		if seen[key] {
			t.Errorf("Duplicate location natural key: %+v", key)
		}
		seen[key] = true
	}
}

func TestBuildDimensionsDateDerivations(t *testing.T) {
	tests := []struct {
		date      time.Time
		year      int
		month     int
		monthName string
		quarter   int
		day       int
		week      int
		dayOfWeek int
		dayName   string
	}{
		{time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 2024, 1, "January", 1, 5, 1, 5, "Friday"},
		{time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), 2024, 6, "June", 2, 30, 26, 0, "Sunday"},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 2024, 12, "December", 4, 31, 1, 2, "Tuesday"},
		{time.Date(2023, 10, 14, 0, 0, 0, 0, time.UTC), 2023, 10, "October", 4, 14, 41, 6, "Saturday"},
	}

	for _, tt := range tests {
		t.Run(tt.date.Format(time.DateOnly), func(t *testing.T) {
			o := cleanOrder(2)
			d := tt.date
			o.OrderDate = &d

			dims := BuildDimensions([]Order{o})
			if len(dims.Dates) != 1 {
				t.Fatalf("Expected 1 date row, got %d", len(dims.Dates))
			}

			row := dims.Dates[0]
			if row.Year != tt.year || row.Month != tt.month || row.Day != tt.day {
				t.Errorf("Y/M/D mismatch: got %d-%d-%d", row.Year, row.Month, row.Day)
			}
			if row.MonthName != tt.monthName {
				t.Errorf("Expected month name %q, got %q", tt.monthName, row.MonthName)
			}
			if row.Quarter != tt.quarter {
				t.Errorf("Expected quarter %d, got %d", tt.quarter, row.Quarter)
			}
			if row.Week != tt.week {
				t.Errorf("Expected ISO week %d, got %d", tt.week, row.Week)
			}
			if row.DayOfWeek != tt.dayOfWeek {
				t.Errorf("Expected day-of-week %d, got %d", tt.dayOfWeek, row.DayOfWeek)
			}
			if row.DayName != tt.dayName {
				t.Errorf("Expected day name %q, got %q", tt.dayName, row.DayName)
			}
		})
	}
}

func TestBuildDimensionsNullDateExcluded(t *testing.T) {
	o := cleanOrder(2)
	o.OrderDate = nil

	dims := BuildDimensions([]Order{o})

	if len(dims.Dates) != 0 {
		t.Errorf("Null dates must not enter the date dimension, got %d rows",
			len(dims.Dates))
	}
	// The record still contributes to the other four dimensions
	if len(dims.Locations) != 1 || len(dims.Restaurants) != 1 ||
		len(dims.Categories) != 1 || len(dims.Dishes) != 1 {
		t.Error("Non-date dimensions should still include the record")
	}
}

func TestDimensionLookups(t *testing.T) {
	o := cleanOrder(2)
	dims := BuildDimensions([]Order{o})

	if id, ok := dims.DateID(*o.OrderDate); !ok || id != 1 {
		t.Errorf("DateID lookup failed: id=%d ok=%v", id, ok)
	}
	if id, ok := dims.LocationID("Bengaluru", "KA"); !ok || id != 1 {
		t.Errorf("LocationID lookup failed: id=%d ok=%v", id, ok)
	}
	if id, ok := dims.RestaurantID("R1", "L1"); !ok || id != 1 {
		t.Errorf("RestaurantID lookup failed: id=%d ok=%v", id, ok)
	}
	if id, ok := dims.CategoryID("Biryani"); !ok || id != 1 {
		t.Errorf("CategoryID lookup failed: id=%d ok=%v", id, ok)
	}
	if id, ok := dims.DishID("Chicken Biryani"); !ok || id != 1 {
		t.Errorf("DishID lookup failed: id=%d ok=%v", id, ok)
	}

	// Exact, case-sensitive matching
	if _, ok := dims.CategoryID("biryani"); ok {
		t.Error("Lookup must be case-sensitive")
	}
	if _, ok := dims.LocationID("Bengaluru ", "KA"); ok {
		t.Error("Lookup must be whitespace-sensitive")
	}
}
