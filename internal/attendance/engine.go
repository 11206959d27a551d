package attendance

import (
	"errors"
	"sort"
	"time"
)

// Event types for attendance logs.
const (
	TypeEntry = "ENTRY"
	TypeExit  = "EXIT"
)

// ErrDailyLimit is returned when a person scans a third time in one day after
// a completed ENTRY+EXIT pair.
var ErrDailyLimit = errors.New("attendance: daily limit reached, already checked out today")

// ErrRoleNotAllowed is returned when the resolved person's role cannot log
// attendance at a gate.
var ErrRoleNotAllowed = errors.New("attendance: role not allowed at gate")

// Log is one immutable attendance event. Name, Dept, Year and RollNumber are
// denormalized from the person record so dashboards filter without joins.
type Log struct {
	ID         string    `json:"id"`
	PersonID   string    `json:"person_id"`
	Role       string    `json:"role"`
	Type       string    `json:"type"`
	GateID     string    `json:"gate_id"`
	Timestamp  time.Time `json:"timestamp"`
	Date       string    `json:"date"`
	Name       string    `json:"name"`
	Dept       string    `json:"dept"`
	Year       string    `json:"year"`
	RollNumber string    `json:"roll_number"`
}

// Alert records a rejected scan.
type Alert struct {
	ID        string    `json:"id"`
	PersonID  string    `json:"person_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
}

// Decision classifies the next scan for a person.
type Decision int

const (
	DecideEntry Decision = iota
	DecideExit
	DecideReject
)

// LocalDate renders the calendar date string used for the midnight reset.
// The recorder's local timezone is deliberate: the day flips at local
// midnight, not UTC.
func LocalDate(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// Latest returns the most recent log by timestamp, sorting in memory rather
// than trusting storage order. Returns nil for an empty history.
func Latest(logs []Log) *Log {
	if len(logs) == 0 {
		return nil
	}
	sorted := make([]Log, len(logs))
	copy(sorted, logs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return &sorted[0]
}

// Decide implements the entry/exit state transition: with no log today the
// scan is an ENTRY; after a same-day ENTRY it is an EXIT; after a same-day
// EXIT it is rejected. A log from a prior date always resets to ENTRY.
func Decide(last *Log, now time.Time) Decision {
	if last == nil || last.Date != LocalDate(now) {
		return DecideEntry
	}
	if last.Type == TypeEntry {
		return DecideExit
	}
	return DecideReject
}
