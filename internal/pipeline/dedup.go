package pipeline

import (
	"github.com/tastetrail/tastetrail-etl/internal/logging"
)

// DedupResult holds the cleaned set plus duplicate accounting.
type DedupResult struct {
	Cleaned []Order

	// Removed is the number of raw records discarded as duplicates.
	Removed int

	// DuplicateKeys is the number of canonical keys that had more than one
	// member.
	DuplicateKeys int
}

// Deduplicate groups raw records by canonical key and keeps exactly one
// representative per group: the member with the earliest OrderDate, breaking
// ties by source row order. The canonical key contains OrderDate, so members
// of a group always share a date and the winner is in practice the first row
// seen; the ordering rule is still applied explicitly so the contract holds
// if the key definition ever changes.
//
// The raw set is not modified. Cleaned records appear in first-seen key order.
func Deduplicate(orders []RawOrder) DedupResult {
	byKey := make(map[string]int, len(orders))
	reps := make([]RawOrder, 0, len(orders))
	members := make([]int, 0, len(orders))

	for _, o := range orders {
		key := canonicalKey(o)
		idx, seen := byKey[key]
		if !seen {
			byKey[key] = len(reps)
			reps = append(reps, o)
			members = append(members, 1)
			continue
		}
		members[idx]++
		if earlier(o, reps[idx]) {
			reps[idx] = o
		}
	}

	result := DedupResult{
		Cleaned: make([]Order, len(reps)),
		Removed: len(orders) - len(reps),
	}
	for i, r := range reps {
		result.Cleaned[i] = asOrder(r)
		if members[i] > 1 {
			result.DuplicateKeys++
			logging.Debug().
				Uint64("row_hash", result.Cleaned[i].RowHash).
				Int("members", members[i]).
				Msg("Collapsed duplicate group")
		}
	}

	logging.Info().
		Int("raw", len(orders)).
		Int("cleaned", len(result.Cleaned)).
		Int("removed", result.Removed).
		Int("duplicate_keys", result.DuplicateKeys).
		Msg("Deduplicated raw set")

	return result
}

// earlier reports whether a should replace b as the group representative:
// earlier OrderDate first, then lower source line. A nil date never beats a
// set one.
func earlier(a, b RawOrder) bool {
	switch {
	case a.OrderDate == nil && b.OrderDate == nil:
		return a.Line < b.Line
	case a.OrderDate == nil:
		return false
	case b.OrderDate == nil:
		return true
	case a.OrderDate.Equal(*b.OrderDate):
		return a.Line < b.Line
	default:
		return a.OrderDate.Before(*b.OrderDate)
	}
}
