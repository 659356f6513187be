package whoop

import (
	"sort"
	"time"
)

// Merge combines freshly fetched records with previously stored ones.
// Fresh records win on ID collisions, keyless records are always kept, and
// the result is sorted newest first by effective time.
func Merge(t DataType, fresh, existing []Record) []Record {
	seen := make(map[string]struct{}, len(fresh)+len(existing))
	merged := make([]Record, 0, len(fresh)+len(existing))

	for _, recs := range [][]Record{fresh, existing} {
		for _, r := range recs {
			key := r.Key(t)
			if key != "" {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			merged = append(merged, r)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].EffectiveTime().After(merged[j].EffectiveTime())
	})
	return merged
}

// LatestTime returns the newest effective time across records, or the zero
// time for an empty set.
func LatestTime(records []Record) time.Time {
	var latest time.Time
	for _, r := range records {
		if ts := r.EffectiveTime(); ts.After(latest) {
			latest = ts
		}
	}
	return latest
}
