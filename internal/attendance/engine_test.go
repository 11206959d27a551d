package attendance

import (
	"testing"
	"time"
)

func TestDecide(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	today := LocalDate(now)
	yesterday := LocalDate(now.AddDate(0, 0, -1))

	cases := []struct {
		name string
		last *Log
		want Decision
	}{
		{"no history", nil, DecideEntry},
		{"entry today", &Log{Type: TypeEntry, Date: today}, DecideExit},
		{"exit today", &Log{Type: TypeExit, Date: today}, DecideReject},
		{"entry yesterday", &Log{Type: TypeEntry, Date: yesterday}, DecideEntry},
		{"exit yesterday", &Log{Type: TypeExit, Date: yesterday}, DecideEntry},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Decide(c.last, now); got != c.want {
				t.Errorf("Decide = %v, want %v", got, c.want)
			}
		})
	}
}

func TestDecideAlternates(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	if d := Decide(nil, now); d != DecideEntry {
		t.Fatalf("first scan: got %v, want entry", d)
	}
	entry := &Log{Type: TypeEntry, Date: LocalDate(now)}

	later := now.Add(6 * time.Hour)
	if d := Decide(entry, later); d != DecideExit {
		t.Fatalf("second scan: got %v, want exit", d)
	}
	exit := &Log{Type: TypeExit, Date: LocalDate(later)}

	if d := Decide(exit, later.Add(time.Hour)); d != DecideReject {
		t.Fatalf("third scan: got %v, want reject", d)
	}

	// Midnight resets the cycle.
	tomorrow := now.AddDate(0, 0, 1)
	if d := Decide(exit, tomorrow); d != DecideEntry {
		t.Fatalf("next day: got %v, want entry", d)
	}
}

func TestLatest(t *testing.T) {
	if Latest(nil) != nil {
		t.Fatal("empty history should yield nil")
	}

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	logs := []Log{
		{ID: "a", Timestamp: base},
		{ID: "c", Timestamp: base.Add(2 * time.Hour)},
		{ID: "b", Timestamp: base.Add(time.Hour)},
	}
	got := Latest(logs)
	if got == nil || got.ID != "c" {
		t.Fatalf("Latest picked %+v, want id c", got)
	}
	// Input order must be untouched.
	if logs[0].ID != "a" || logs[1].ID != "c" {
		t.Error("Latest mutated its input")
	}
}

func TestLocalDate(t *testing.T) {
	ts := time.Date(2026, 1, 5, 23, 59, 0, 0, time.Local)
	if got := LocalDate(ts); got != "2026-01-05" {
		t.Errorf("LocalDate = %q, want 2026-01-05", got)
	}
}
