package weather

import (
	"testing"
	"time"
)

func entryAt(t time.Time) Entry {
	return Entry{Timestamp: t, TempC: 20}
}

func TestPickForecastLatestNotAfterTarget(t *testing.T) {
	t1 := time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(3 * time.Hour)
	t3 := t1.Add(6 * time.Hour)
	entries := []Entry{entryAt(t1), entryAt(t2), entryAt(t3)}

	// Target between t2 and t3 picks t2, never t3.
	got, ok := PickForecast(entries, t2.Add(time.Hour))
	if !ok {
		t.Fatal("expected a forecast")
	}
	if !got.Timestamp.Equal(t2) {
		t.Fatalf("got %v, want %v", got.Timestamp, t2)
	}

	// Exact boundary: an entry at the target counts.
	got, ok = PickForecast(entries, t3)
	if !ok || !got.Timestamp.Equal(t3) {
		t.Fatalf("got %v ok=%v, want %v", got, ok, t3)
	}
}

func TestPickForecastBeforeFirstEntry(t *testing.T) {
	t1 := time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC)
	entries := []Entry{entryAt(t1), entryAt(t1.Add(3 * time.Hour))}

	// Target before every entry: no preview, never extrapolate.
	if got, ok := PickForecast(entries, t1.Add(-time.Minute)); ok {
		t.Fatalf("expected no forecast, got %v", got.Timestamp)
	}
}

func TestPickForecastEmpty(t *testing.T) {
	if _, ok := PickForecast(nil, time.Now()); ok {
		t.Fatal("expected no forecast from empty entries")
	}
}

func TestPickForecastUnorderedEntries(t *testing.T) {
	t1 := time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(3 * time.Hour)
	entries := []Entry{entryAt(t2), entryAt(t1)}

	got, ok := PickForecast(entries, t2.Add(time.Hour))
	if !ok || !got.Timestamp.Equal(t2) {
		t.Fatalf("order of entries must not matter: got %v ok=%v", got, ok)
	}
}
