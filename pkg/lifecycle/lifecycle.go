// Package lifecycle derives a record's lifecycle status from elapsed
// wall-clock time. Statuses are never stored authoritatively for
// time-driven records; they are recomputed on every read.
package lifecycle

import "time"

// Threshold maps a status label to the minimum elapsed time at which it
// applies. Tables must be ordered by ascending After.
type Threshold struct {
	Status string
	After  time.Duration
}

// Minutes is a convenience constructor for threshold tables, which are
// usually written in whole minutes.
func Minutes(status string, m int) Threshold {
	return Threshold{Status: status, After: time.Duration(m) * time.Minute}
}

// Derive returns the last threshold whose After is <= now-createdAt.
// The result is monotonic: for a fixed createdAt, a later now never
// yields an earlier status.
//
// The second return is false when no status could be derived (zero
// createdAt, empty table, or elapsed time before the first threshold);
// callers should keep the record's last persisted status in that case.
func Derive(createdAt, now time.Time, table []Threshold) (string, bool) {
	if createdAt.IsZero() || len(table) == 0 {
		return "", false
	}

	elapsed := now.Sub(createdAt)

	status := ""
	found := false
	for _, t := range table {
		if t.After <= elapsed {
			status = t.Status
			found = true
		}
	}
	return status, found
}
