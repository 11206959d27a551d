package academic

import (
	"context"
	"strconv"
	"strings"
)

// YearNumber extracts the numeric year from loosely-typed input: "3", "3rd"
// and " 3 " all yield 3. ok is false when no leading digits exist.
func YearNumber(v string) (int, bool) {
	v = strings.TrimSpace(v)
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FilterClass narrows branch-wide assignments to one class. The year match is
// numeric (tolerating string vs number storage) and the section match is
// exact.
func FilterClass(all []Assignment, year, section string) []Assignment {
	want, ok := YearNumber(year)
	if !ok {
		return nil
	}
	var out []Assignment
	for _, a := range all {
		got, ok := YearNumber(a.Year)
		if ok && got == want && a.Section == section {
			out = append(out, a)
		}
	}
	return out
}

// Suggest finds the assignment covering a subject code, used to pre-fill the
// faculty field when a coordinator edits a timetable slot. ok is false when
// the slot is unmapped and must stay TBA.
func Suggest(assignments []Assignment, subjectCode string) (Assignment, bool) {
	for _, a := range assignments {
		if a.SubjectCode == subjectCode {
			return a, true
		}
	}
	return Assignment{}, false
}

// AssignmentSource is the storage the resolver reads branch assignments from.
type AssignmentSource interface {
	AssignmentsByBranch(ctx context.Context, branch string) ([]Assignment, error)
}

// Resolver answers class-level assignment queries over a broad branch fetch.
type Resolver struct {
	src AssignmentSource
}

// NewResolver creates a resolver over an assignment source.
func NewResolver(src AssignmentSource) *Resolver {
	return &Resolver{src: src}
}

// ClassAssignments fetches the active assignments for a branch server-side
// and filters to the class in memory.
func (r *Resolver) ClassAssignments(ctx context.Context, branch, year, section string) ([]Assignment, error) {
	all, err := r.src.AssignmentsByBranch(ctx, branch)
	if err != nil {
		return nil, err
	}
	return FilterClass(all, year, section), nil
}
