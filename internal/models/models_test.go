package models

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"120.00", 12000, false},
		{"120", 12000, false},
		{"9.5", 950, false},
		{"0.99", 99, false},
		{"0", 0, false},
		{".50", 50, false},
		{"1500.75", 150075, false},
		{"-5.00", 0, true},
		{"1.234", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"1.-5", 0, true},
		{"1.+5", 0, true},
		{"+1.5", 0, true},
		{"1,50", 0, true},
		{"1. 5", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{12000, "120.00"},
		{950, "9.50"},
		{99, "0.99"},
		{0, "0.00"},
		{-150, "-1.50"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeGuestStatus(t *testing.T) {
	cases := []struct {
		in   string
		want GuestStatus
	}{
		{"confirmed", GuestConfirmed},
		{"accepted", GuestConfirmed},
		{"YES", GuestConfirmed},
		{"declined", GuestRefused},
		{"no", GuestRefused},
		{"refused", GuestRefused},
		{" Pending ", GuestPending},
	}
	for _, tc := range cases {
		if got := NormalizeGuestStatus(tc.in); got != tc.want {
			t.Errorf("NormalizeGuestStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if IsValidGuestStatus(NormalizeGuestStatus("maybe")) {
		t.Error("unknown status must not normalize to a valid one")
	}
}

func TestParseTaskStatus(t *testing.T) {
	cases := []struct {
		in   string
		want TaskStatus
	}{
		{"pending", TaskPending},
		{"0", TaskPending},
		{"in_progress", TaskInProgress},
		{"in-progress", TaskInProgress},
		{"1", TaskInProgress},
		{"done", TaskCompleted},
		{"completed", TaskCompleted},
		{"2", TaskCompleted},
	}
	for _, tc := range cases {
		got, err := ParseTaskStatus(tc.in)
		if err != nil {
			t.Errorf("ParseTaskStatus(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTaskStatus(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseTaskStatus("later"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestTaskStatusString(t *testing.T) {
	if TaskPending.String() != "pending" || TaskInProgress.String() != "in_progress" || TaskCompleted.String() != "completed" {
		t.Error("status names drifted from their canonical forms")
	}
	if !IsValidTaskStatus(TaskPending) || IsValidTaskStatus(TaskStatus(3)) {
		t.Error("IsValidTaskStatus accepts the wrong set")
	}
}

func TestCommittedCents(t *testing.T) {
	totals := TaskTotals{PendingCents: 3000, InProgressCents: 1550, CompletedCents: 999}
	if got := totals.CommittedCents(); got != 5549 {
		t.Fatalf("got %d, want 5549", got)
	}
}
