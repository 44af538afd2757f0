package weather

import "time"

// PickForecast selects the forecast entry closest to the target without
// passing it: among entries with Timestamp <= target, the one with the
// maximum timestamp wins. When the target precedes every entry there is no
// preview; the function never extrapolates to a later point.
func PickForecast(entries []Entry, target time.Time) (*Entry, bool) {
	var best *Entry
	for i := range entries {
		e := &entries[i]
		if e.Timestamp.After(target) {
			continue
		}
		if best == nil || e.Timestamp.After(best.Timestamp) {
			best = e
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}
