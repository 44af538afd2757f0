package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GuestStatus represents a guest's RSVP state
type GuestStatus string

const (
	GuestPending   GuestStatus = "pending"
	GuestConfirmed GuestStatus = "confirmed"
	GuestRefused   GuestStatus = "refused"
)

// TaskStatus represents a task's progress state
type TaskStatus int

const (
	TaskPending    TaskStatus = 0
	TaskInProgress TaskStatus = 1
	TaskCompleted  TaskStatus = 2
)

// Event represents a planned event owned by one user
type Event struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	StartsAt    time.Time        `json:"starts_at"`
	Location    string           `json:"location,omitempty"`
	BudgetCents int64            `json:"budget_cents"`
	OwnerUID    string           `json:"owner_uid"`
	ImageRef    string           `json:"image_ref,omitempty"`
	Weather     *WeatherSnapshot `json:"weather,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// WeatherSnapshot is a forecast preview captured at save time.
// It is a denormalized cache of the weather API response, not live data.
type WeatherSnapshot struct {
	TempC       float64   `json:"temp_c"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	Humidity    int       `json:"humidity"`
	WindKph     float64   `json:"wind_kph"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Guest represents an invited guest of an event
type Guest struct {
	ID          string      `json:"id"`
	EventID     string      `json:"event_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email,omitempty"`
	Phone       string      `json:"phone,omitempty"`
	Status      GuestStatus `json:"status"`
	ProviderUID string      `json:"provider_uid,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Task represents a budgeted task under an event
type Task struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AmountCents int64      `json:"amount_cents"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// User represents an account keyed by the identity provider's UID
type User struct {
	UID       string    `json:"uid"`
	FullName  string    `json:"full_name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	PhotoRef  string    `json:"photo_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notification is a local-only read model for the in-app dropdown.
// Notifications are never mirrored remotely.
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	EventID   string    `json:"event_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskTotals holds per-event task aggregates computed at the storage layer
type TaskTotals struct {
	PendingCount    int
	InProgressCount int
	CompletedCount  int
	PendingCents    int64
	InProgressCents int64
	CompletedCents  int64
}

// CommittedCents is the sum of task amounts over all statuses
func (t TaskTotals) CommittedCents() int64 {
	return t.PendingCents + t.InProgressCents + t.CompletedCents
}

// TotalCount is the number of tasks across all statuses
func (t TaskTotals) TotalCount() int {
	return t.PendingCount + t.InProgressCount + t.CompletedCount
}

// BudgetUsedPercent returns completed spend as a percentage of the budget.
// Pending and in-progress amounts are commitments, not spend, so they do not
// count here. A zero budget yields 0 rather than dividing by zero.
func (t TaskTotals) BudgetUsedPercent(budgetCents int64) float64 {
	if budgetCents <= 0 {
		return 0
	}
	return float64(t.CompletedCents) / float64(budgetCents) * 100
}

// IsValidGuestStatus checks if a guest status is valid
func IsValidGuestStatus(s GuestStatus) bool {
	switch s {
	case GuestPending, GuestConfirmed, GuestRefused:
		return true
	}
	return false
}

// NormalizeGuestStatus converts alternate status names to canonical form
// Accepts: "accepted"/"yes" as aliases for confirmed, "declined"/"no" for refused
func NormalizeGuestStatus(s string) GuestStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accepted", "yes":
		return GuestConfirmed
	case "declined", "no":
		return GuestRefused
	default:
		return GuestStatus(strings.ToLower(strings.TrimSpace(s)))
	}
}

// IsValidTaskStatus checks if a task status is valid
func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// ParseTaskStatus accepts status names and their numeric codes
// ("pending"/"0", "in_progress"/"1", "completed"/"done"/"2")
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "0":
		return TaskPending, nil
	case "in_progress", "in-progress", "progress", "1":
		return TaskInProgress, nil
	case "completed", "done", "2":
		return TaskCompleted, nil
	}
	return 0, fmt.Errorf("invalid task status: %s (valid: pending, in_progress, completed)", s)
}

// String returns the canonical status name
func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskInProgress:
		return "in_progress"
	case TaskCompleted:
		return "completed"
	}
	return strconv.Itoa(int(s))
}

// ParseAmount converts a decimal money string like "120.00" or "9.5" to cents.
// Negative amounts are rejected at this boundary.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("amount must be non-negative: %s", s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	// ParseInt alone would let signs through in either part ("1.-5", "+1.5").
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("invalid amount: %s", s)
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %s", s)
	}
	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		cents = int64(frac[0]-'0') * 10
	case 2:
		cents = int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	default:
		return 0, fmt.Errorf("invalid amount (max two decimal places): %s", s)
	}
	return w*100 + cents, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatAmount renders cents as a decimal money string like "120.00"
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
