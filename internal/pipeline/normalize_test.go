package pipeline

import "testing"

func TestNormalizeTrimsTextFields(t *testing.T) {
	orders := []Order{
		{
			State:      " KA ",
			City:       "\tBengaluru",
			Restaurant: "R1  ",
			Location:   "  L1",
			Category:   " Biryani ",
			Dish:       "Chicken Biryani\n",
		},
	}

	Normalize(orders)

	o := orders[0]
	if o.State != "KA" || o.City != "Bengaluru" || o.Restaurant != "R1" ||
		o.Location != "L1" || o.Category != "Biryani" || o.Dish != "Chicken Biryani" {
		t.Errorf("Fields not trimmed: %+v", o)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	orders := []Order{
		{State: " KA ", City: " Bengaluru ", Dish: " X "},
	}

	Normalize(orders)
	once := orders[0]

	Normalize(orders)
	twice := orders[0]

	if once != twice {
		t.Errorf("Normalize not idempotent: %+v vs %+v", once, twice)
	}
}

func TestNormalizeBlankBecomesEmpty(t *testing.T) {
	orders := []Order{{City: "   "}}
	Normalize(orders)
	if orders[0].City != "" {
		t.Errorf("Whitespace-only field should trim to empty, got %q", orders[0].City)
	}
}
