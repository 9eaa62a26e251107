package warehouse

import (
	"strings"
	"testing"
)

func TestBucketForBoundaries(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{0, "<100"},
		{99.99, "<100"},
		{100, "100-199"},
		{199.99, "100-199"},
		{200, "200-299"},
		{299.99, "200-299"},
		{300, "300-499"},
		{499.99, "300-499"},
		{500, "500+"},
		{12345.67, "500+"},
	}

	for _, tt := range tests {
		if got := BucketFor(tt.price); got != tt.want {
			t.Errorf("BucketFor(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestBucketForTotalAndExclusive(t *testing.T) {
	// Every non-null price maps to exactly one bucket.
	for price := 0.0; price < 1000; price += 0.5 {
		matches := 0
		for _, b := range PriceBuckets {
			inLower := price >= b.Min
			inUpper := b.Max < 0 || price < b.Max
			if inLower && inUpper {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("Price %v matches %d buckets, want exactly 1", price, matches)
		}
	}
}

func TestBucketsAreContiguous(t *testing.T) {
	for i := 1; i < len(PriceBuckets); i++ {
		if PriceBuckets[i].Min != PriceBuckets[i-1].Max {
			t.Errorf("Gap between bucket %q and %q", PriceBuckets[i-1].Label,
				PriceBuckets[i].Label)
		}
	}
	last := PriceBuckets[len(PriceBuckets)-1]
	if last.Max >= 0 {
		t.Error("Last bucket must be unbounded")
	}
}

func TestPriceBucketCase(t *testing.T) {
	sql := priceBucketCase()

	if !strings.HasPrefix(sql, "CASE") || !strings.HasSuffix(sql, "END") {
		t.Errorf("Malformed CASE expression: %s", sql)
	}
	// One WHEN per bounded bucket, the unbounded one becomes ELSE
	if got := strings.Count(sql, "WHEN"); got != len(PriceBuckets)-1 {
		t.Errorf("Expected %d WHEN clauses, got %d", len(PriceBuckets)-1, got)
	}
	if !strings.Contains(sql, "ELSE '500+'") {
		t.Errorf("Expected ELSE clause for the unbounded bucket: %s", sql)
	}
	for _, b := range PriceBuckets {
		if !strings.Contains(sql, "'"+b.Label+"'") {
			t.Errorf("Bucket %q missing from CASE expression", b.Label)
		}
	}
}
