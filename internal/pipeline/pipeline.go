package pipeline

import (
	"io"
)

// Stats aggregates the accounting of a full pipeline run.
type Stats struct {
	RowsRead          int
	RowsRejected      int
	RawCount          int
	CleanCount        int
	DuplicatesRemoved int
	Facts             FactStats
}

// Result is the output of a full in-memory pipeline run: every intermediate
// set is kept so the caller can stage, load and report on all of them.
type Result struct {
	Raw     []RawOrder
	Rejects []RejectedRow
	Profile Profile
	Cleaned []Order
	Dims    *Dimensions
	Facts   []Fact
	Stats   Stats
}

// Run executes the stages in order over a raw export: ingest, profile,
// deduplicate, normalize, build dimensions, build facts. Each stage takes its
// input explicitly; no stage mutates the raw set.
func Run(input io.Reader, delimiter rune) (*Result, error) {
	read, err := Read(input, delimiter)
	if err != nil {
		return nil, err
	}

	profile := ProfileRows(read.Orders)
	profile.Log()

	dedup := Deduplicate(read.Orders)
	Normalize(dedup.Cleaned)

	dims := BuildDimensions(dedup.Cleaned)
	facts, factStats := BuildFacts(dedup.Cleaned, dims)

	return &Result{
		Raw:     read.Orders,
		Rejects: read.Rejects,
		Profile: profile,
		Cleaned: dedup.Cleaned,
		Dims:    dims,
		Facts:   facts,
		Stats: Stats{
			RowsRead:          read.RowsRead,
			RowsRejected:      len(read.Rejects),
			RawCount:          len(read.Orders),
			CleanCount:        len(dedup.Cleaned),
			DuplicatesRemoved: dedup.Removed,
			Facts:             factStats,
		},
	}, nil
}
