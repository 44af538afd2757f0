package dateparse

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC) // a Tuesday

func TestParseExactDate(t *testing.T) {
	got, err := ParseDateTimeFrom("2026-09-12", testNow)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseDateWithTime(t *testing.T) {
	got, err := ParseDateTimeFrom("2026-09-12 18:30", testNow)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got.Hour() != 18 || got.Minute() != 30 {
		t.Fatalf("got %v, want 18:30", got)
	}
}

func TestParseKeywords(t *testing.T) {
	today, err := ParseDateTimeFrom("today", testNow)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if today.Day() != 25 || today.Hour() != 0 {
		t.Fatalf("got %v, want midnight today", today)
	}

	tomorrow, err := ParseDateTimeFrom("tomorrow 09:00", testNow)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tomorrow.Day() != 26 || tomorrow.Hour() != 9 {
		t.Fatalf("got %v, want tomorrow 09:00", tomorrow)
	}
}

func TestParseRelativeOffsets(t *testing.T) {
	in7, err := ParseDateTimeFrom("+7d", testNow)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if in7.Day() != 1 || in7.Month() != time.September {
		t.Fatalf("got %v, want Sep 1", in7)
	}

	in2w, err := ParseDateTimeFrom("+2w", testNow)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if in2w.Day() != 8 || in2w.Month() != time.September {
		t.Fatalf("got %v, want Sep 8", in2w)
	}
}

func TestParseWeekdayName(t *testing.T) {
	// testNow is a Tuesday; "saturday" is 4 days out.
	sat, err := ParseDateTimeFrom("saturday", testNow)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sat.Weekday() != time.Saturday || sat.Day() != 29 {
		t.Fatalf("got %v, want Sat Aug 29", sat)
	}

	// The same weekday as "now" means next week, not today.
	tue, err := ParseDateTimeFrom("tuesday", testNow)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tue.Day() != 1 || tue.Month() != time.September {
		t.Fatalf("got %v, want Tue Sep 1", tue)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "someday", "2026-13-40", "+0d", "12:99 today"} {
		if _, err := ParseDateTimeFrom(in, testNow); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}
