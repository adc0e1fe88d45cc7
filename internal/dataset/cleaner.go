package dataset

import (
	"time"
)

// CleanStats counts what Clean changed in a dataset
type CleanStats struct {
	Input             int
	FilledMissing     int
	DroppedNegative   int
	DroppedBadDate    int
	DroppedDuplicates int
}

// Dropped returns the total number of rows removed
func (s CleanStats) Dropped() int {
	return s.DroppedNegative + s.DroppedBadDate + s.DroppedDuplicates
}

// Clean returns a new dataset with missing counts set to zero, negative
// counts and unparseable dates dropped, and exact duplicates removed.
// Record order is preserved. Clean is idempotent.
func Clean(ds Dataset) Dataset {
	cleaned, _ := CleanWithStats(ds)
	return cleaned
}

// CleanWithStats is Clean that also reports what was changed
func CleanWithStats(ds Dataset) (Dataset, CleanStats) {
	stats := CleanStats{Input: len(ds.Records)}
	seen := make(map[string]struct{}, len(ds.Records))
	out := make([]Record, 0, len(ds.Records))

	for _, rec := range ds.Records {
		if rec.CasesMissing || rec.DeathsMissing {
			stats.FilledMissing++
		}
		if rec.CasesMissing {
			rec.Cases = 0
			rec.CasesMissing = false
		}
		if rec.DeathsMissing {
			rec.Deaths = 0
			rec.DeathsMissing = false
		}

		if rec.Cases < 0 || rec.Deaths < 0 {
			stats.DroppedNegative++
			continue
		}

		date, err := time.Parse(DateLayout, rec.DateRep)
		if err != nil {
			stats.DroppedBadDate++
			continue
		}
		rec.Date = date

		key := rec.key()
		if _, dup := seen[key]; dup {
			stats.DroppedDuplicates++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}

	return Dataset{Records: out}, stats
}
