// Package academic owns the global academic structure, faculty assignments
// and class timetables.
package academic

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates a missing structure, assignment or timetable.
var ErrNotFound = errors.New("academic: not found")

// ErrVersionConflict indicates a write against a stale version of the
// structure or a timetable. The caller should re-read and retry.
var ErrVersionConflict = errors.New("academic: version conflict")

// Subject is one catalog entry in the structure document.
type Subject struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Year   int    `json:"year"`
}

// Structure is the singleton configuration enumerating valid branches, years,
// sections and subjects. Version guards concurrent coordinator edits.
type Structure struct {
	Branches  []string  `json:"branches"`
	Years     []int     `json:"years"`
	Sections  []string  `json:"sections"`
	Subjects  []Subject `json:"subjects"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultStructure seeds the database on first read.
func DefaultStructure() Structure {
	return Structure{
		Branches: []string{"CSE", "ECE", "EEE", "MECH", "CIVIL", "IT", "AIDS"},
		Years:    []int{1, 2, 3, 4},
		Sections: []string{"A", "B", "C", "D"},
		Subjects: []Subject{
			{Code: "CS201", Name: "Data Structures", Branch: "CSE", Year: 2},
			{Code: "CS202", Name: "DBMS", Branch: "CSE", Year: 2},
			{Code: "EC301", Name: "VLSI Design", Branch: "ECE", Year: 3},
		},
	}
}

// HasBranch reports whether branch is part of the structure.
func (s Structure) HasBranch(branch string) bool {
	for _, b := range s.Branches {
		if b == branch {
			return true
		}
	}
	return false
}

// HasYear reports whether year is part of the structure.
func (s Structure) HasYear(year int) bool {
	for _, y := range s.Years {
		if y == year {
			return true
		}
	}
	return false
}

// HasSection reports whether section is part of the structure.
func (s Structure) HasSection(section string) bool {
	for _, sec := range s.Sections {
		if sec == section {
			return true
		}
	}
	return false
}

// Assignment binds a faculty member to a (branch, year, section, subject)
// class context. Year stays a string because import sources deliver both
// "3" and 3; comparisons go through YearNumber.
type Assignment struct {
	ID           string    `json:"id"`
	FacultyID    string    `json:"faculty_id"`
	FacultyName  string    `json:"faculty_name"`
	Branch       string    `json:"branch"`
	Year         string    `json:"year"`
	Section      string    `json:"section"`
	SubjectCode  string    `json:"subject_code"`
	SubjectName  string    `json:"subject_name"`
	AcademicYear string    `json:"academic_year"`
	AssignedBy   string    `json:"assigned_by"`
	AssignedAt   time.Time `json:"assigned_at"`
	Active       bool      `json:"active"`
}

// Slot is one timetable entry: a time range bound to a subject and a faculty
// member. FacultyID stays empty for unmapped (TBA) slots.
type Slot struct {
	Time        string `json:"time"`
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	FacultyID   string `json:"faculty_id"`
	FacultyName string `json:"faculty_name"`
}

// Timetable holds the day-of-week schedule for one class. A save fully
// replaces the schedule; Version surfaces clobbering between coordinators.
type Timetable struct {
	ID        string            `json:"id"`
	Branch    string            `json:"branch"`
	Year      int               `json:"year"`
	Section   string            `json:"section"`
	Schedule  map[string][]Slot `json:"schedule"`
	Version   int               `json:"version"`
	UpdatedBy string            `json:"updated_by"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TimetableID builds the document key, e.g. CSE_4_A.
func TimetableID(branch string, year int, section string) string {
	return fmt.Sprintf("%s_%d_%s", branch, year, section)
}
