package datagen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tastetrail/tastetrail-etl/internal/pipeline"
)

func TestSeederWritesRequestedRows(t *testing.T) {
	var buf bytes.Buffer
	s := NewSeeder(SeedOptions{Rows: 50, Seed: 1})

	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 51 { // header + 50 rows
		t.Fatalf("Expected 51 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "State,City,OrderDate") {
		t.Errorf("Unexpected header: %q", lines[0])
	}
}

func TestSeederReproducibleWithSeed(t *testing.T) {
	var a, b bytes.Buffer
	if err := NewSeeder(SeedOptions{Rows: 20, Seed: 42}).Write(&a); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := NewSeeder(SeedOptions{Rows: 20, Seed: 42}).Write(&b); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if a.String() != b.String() {
		t.Error("Same seed must produce identical output")
	}
}

func TestSeederOutputFeedsPipeline(t *testing.T) {
	var buf bytes.Buffer
	s := NewSeeder(SeedOptions{Rows: 200, Seed: 7, DirtyFraction: 0.3})

	if err := s.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	result, err := pipeline.Run(bytes.NewReader(buf.Bytes()), ',')
	if err != nil {
		t.Fatalf("Pipeline run over seeded data failed: %v", err)
	}

	if result.Stats.RowsRead != 200 {
		t.Errorf("Expected 200 rows read, got %d", result.Stats.RowsRead)
	}
	// Clean rows all parse; dirty rows are nulls/whitespace/duplicates,
	// none of which are structural rejects.
	if result.Stats.RowsRejected != 0 {
		t.Errorf("Seeded data should never be rejected, got %d rejects",
			result.Stats.RowsRejected)
	}
	if result.Stats.CleanCount > result.Stats.RawCount {
		t.Error("Cleaned set must not exceed raw set")
	}
	// With a 0.3 dirty fraction over 200 rows, duplicates are certain.
	if result.Stats.DuplicatesRemoved == 0 {
		t.Error("Expected seeded duplicates to collapse")
	}
}
