package pipeline

import (
	"strings"
	"testing"
)

func TestProfileCountsNullsAndBlanks(t *testing.T) {
	input := header +
		",Bengaluru,2024-01-05,R1,L1,Biryani,Chicken Biryani,250.00,4.5,10\n" +
		"KA,   ,2024-01-06,R2,L2,Pizza,Margherita,399.50,4.1,25\n" +
		"NULL,Mumbai,,R3,L3,Dosa,Masala Dosa,120.00,4.8,5\n"

	result, err := Read(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	p := ProfileRows(result.Orders)

	if p.Rows != 3 {
		t.Fatalf("Expected 3 rows profiled, got %d", p.Rows)
	}

	// Column 0 (state): one empty cell + one NULL token
	if p.Columns[0].Nulls != 2 {
		t.Errorf("Expected 2 state nulls, got %d", p.Columns[0].Nulls)
	}
	// Column 1 (city): one whitespace-only cell
	if p.Columns[1].Blanks != 1 {
		t.Errorf("Expected 1 city blank, got %d", p.Columns[1].Blanks)
	}
	if p.Columns[1].Nulls != 0 {
		t.Errorf("Expected 0 city nulls, got %d", p.Columns[1].Nulls)
	}
	// Column 2 (order_date): one empty cell
	if p.Columns[2].Nulls != 1 {
		t.Errorf("Expected 1 order_date null, got %d", p.Columns[2].Nulls)
	}
	// Fully populated column
	if p.Columns[6].Nulls != 0 || p.Columns[6].Blanks != 0 {
		t.Errorf("Expected clean dish_name column, got %+v", p.Columns[6])
	}
}

func TestProfileDoesNotMutateRawSet(t *testing.T) {
	raw := []RawOrder{rawOrder(2)}
	before := raw[0]

	ProfileRows(raw)

	if raw[0] != before {
		t.Error("Profiling must not modify the raw set")
	}
}

func TestProfileEmptySet(t *testing.T) {
	p := ProfileRows(nil)
	if p.Rows != 0 {
		t.Errorf("Expected 0 rows, got %d", p.Rows)
	}
	for i, c := range p.Columns {
		if c.Nulls != 0 || c.Blanks != 0 {
			t.Errorf("Column %d not zero: %+v", i, c)
		}
	}
}
