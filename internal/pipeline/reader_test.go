package pipeline

import (
	"strings"
	"testing"
	"time"
)

const header = "State,City,OrderDate,RestaurantName,Location,Category,DishName,Price,Rating,RatingCount\n"

func TestReadParsesWellFormedRows(t *testing.T) {
	input := header +
		"KA,Bengaluru,2024-01-05,R1,L1,Biryani,Chicken Biryani,250.00,4.5,10\n" +
		"MH,Mumbai,2024-02-10,R2,L2,Pizza,Margherita,399.50,4.1,25\n"

	result, err := Read(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if result.RowsRead != 2 {
		t.Errorf("Expected 2 rows read, got %d", result.RowsRead)
	}
	if len(result.Rejects) != 0 {
		t.Errorf("Expected no rejects, got %d", len(result.Rejects))
	}
	if len(result.Orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(result.Orders))
	}

	o := result.Orders[0]
	if o.State != "KA" || o.City != "Bengaluru" {
		t.Errorf("Unexpected state/city: %q/%q", o.State, o.City)
	}
	if o.OrderDate == nil {
		t.Fatal("Expected parsed order date")
	}
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if !o.OrderDate.Equal(want) {
		t.Errorf("Expected date %v, got %v", want, *o.OrderDate)
	}
	if o.Price == nil || *o.Price != 250.00 {
		t.Errorf("Unexpected price: %v", o.Price)
	}
	if o.Rating == nil || *o.Rating != 4.5 {
		t.Errorf("Unexpected rating: %v", o.Rating)
	}
	if o.RatingCount == nil || *o.RatingCount != 10 {
		t.Errorf("Unexpected rating count: %v", o.RatingCount)
	}
	if o.Line != 2 {
		t.Errorf("Expected line 2, got %d", o.Line)
	}
}

func TestReadRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"too few columns", "KA,Bengaluru,2024-01-05,R1,L1,Biryani,Chicken Biryani,250.00,4.5"},
		{"too many columns", "KA,Bengaluru,2024-01-05,R1,L1,Biryani,Chicken Biryani,250.00,4.5,10,extra"},
		{"bad date", "KA,Bengaluru,05/01/2024,R1,L1,Biryani,Chicken Biryani,250.00,4.5,10"},
		{"bad price", "KA,Bengaluru,2024-01-05,R1,L1,Biryani,Chicken Biryani,abc,4.5,10"},
		{"bad rating", "KA,Bengaluru,2024-01-05,R1,L1,Biryani,Chicken Biryani,250.00,high,10"},
		{"bad rating count", "KA,Bengaluru,2024-01-05,R1,L1,Biryani,Chicken Biryani,250.00,4.5,1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := header + tt.row + "\n" +
				"MH,Mumbai,2024-02-10,R2,L2,Pizza,Margherita,399.50,4.1,25\n"

			result, err := Read(strings.NewReader(input), ',')
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if result.RowsRead != 2 {
				t.Errorf("Expected 2 rows read, got %d", result.RowsRead)
			}
			if len(result.Rejects) != 1 {
				t.Fatalf("Expected 1 reject, got %d", len(result.Rejects))
			}
			if result.Rejects[0].Line != 2 {
				t.Errorf("Expected reject at line 2, got %d", result.Rejects[0].Line)
			}
			// The bad row must not abort the load
			if len(result.Orders) != 1 {
				t.Errorf("Expected 1 surviving order, got %d", len(result.Orders))
			}
		})
	}
}

func TestReadNullAndBlankValues(t *testing.T) {
	input := header +
		",  ,NULL,R1,L1,Biryani,Chicken Biryani,,,\n"

	result, err := Read(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(result.Orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(result.Orders))
	}

	o := result.Orders[0]
	if o.State != "" {
		t.Errorf("Expected empty state, got %q", o.State)
	}
	// Whitespace-only cells keep their spacing until Normalize
	if o.City != "  " {
		t.Errorf("Expected blank city preserved, got %q", o.City)
	}
	if o.OrderDate != nil {
		t.Errorf("Expected nil order date for NULL token, got %v", *o.OrderDate)
	}
	if o.Price != nil || o.Rating != nil || o.RatingCount != nil {
		t.Error("Expected nil measures for empty cells")
	}
}

func TestReadSkipsHeaderWithBOM(t *testing.T) {
	input := "\ufeff" + header +
		"KA,Bengaluru,2024-01-05,R1,L1,Biryani,Chicken Biryani,250.00,4.5,10\n"

	result, err := Read(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(result.Orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(result.Orders))
	}
}

func TestReadAlternateDelimiter(t *testing.T) {
	input := strings.ReplaceAll(header, ",", ";") +
		"KA;Bengaluru;2024-01-05;R1;L1;Biryani;Chicken Biryani;250.00;4.5;10\n"

	result, err := Read(strings.NewReader(input), ';')
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(result.Orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(result.Orders))
	}
	if result.Orders[0].City != "Bengaluru" {
		t.Errorf("Unexpected city: %q", result.Orders[0].City)
	}
}

func TestReadEmptyInput(t *testing.T) {
	result, err := Read(strings.NewReader(header), ',')
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if result.RowsRead != 0 || len(result.Orders) != 0 {
		t.Errorf("Expected empty result, got rows=%d orders=%d",
			result.RowsRead, len(result.Orders))
	}
}
