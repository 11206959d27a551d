package academic

import (
	"context"
	"testing"
)

func TestYearNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{"3rd", 3, true},
		{" 2 ", 2, true},
		{"10", 10, true},
		{"third", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := YearNumber(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("YearNumber(%q) = %d,%v want %d,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestFilterClass(t *testing.T) {
	all := []Assignment{
		{ID: "1", Year: "3", Section: "A"},
		{ID: "2", Year: "3rd", Section: "A"},
		{ID: "3", Year: "3", Section: "B"},
		{ID: "4", Year: "2", Section: "A"},
	}

	got := FilterClass(all, "3", "A")
	if len(got) != 2 {
		t.Fatalf("kept %d assignments, want 2 (numeric year tolerance)", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("kept %v", got)
	}

	if got := FilterClass(all, "bogus", "A"); got != nil {
		t.Error("unparseable year should match nothing")
	}
}

func TestSuggest(t *testing.T) {
	assignments := []Assignment{
		{SubjectCode: "CS201", FacultyID: "FAC01", FacultyName: "Dr. Rao"},
		{SubjectCode: "CS202", FacultyID: "FAC02", FacultyName: "Dr. Iyer"},
	}

	a, ok := Suggest(assignments, "CS202")
	if !ok || a.FacultyID != "FAC02" {
		t.Errorf("Suggest = %+v,%v", a, ok)
	}
	if _, ok := Suggest(assignments, "EC301"); ok {
		t.Error("unmapped subject must report ok=false")
	}
}

type fakeAssignmentSource struct {
	byBranch map[string][]Assignment
}

func (f *fakeAssignmentSource) AssignmentsByBranch(_ context.Context, branch string) ([]Assignment, error) {
	return f.byBranch[branch], nil
}

func TestClassAssignments(t *testing.T) {
	src := &fakeAssignmentSource{byBranch: map[string][]Assignment{
		"CSE": {
			{ID: "1", Branch: "CSE", Year: "3", Section: "A"},
			{ID: "2", Branch: "CSE", Year: "3", Section: "B"},
		},
	}}

	got, err := NewResolver(src).ClassAssignments(context.Background(), "CSE", "3rd", "A")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("got %v", got)
	}
}

func TestTimetableID(t *testing.T) {
	if id := TimetableID("CSE", 4, "A"); id != "CSE_4_A" {
		t.Errorf("TimetableID = %q, want CSE_4_A", id)
	}
}

func TestStructureLookups(t *testing.T) {
	s := DefaultStructure()
	if !s.HasBranch("CSE") || s.HasBranch("XYZ") {
		t.Error("HasBranch misbehaves")
	}
	if !s.HasYear(4) || s.HasYear(7) {
		t.Error("HasYear misbehaves")
	}
	if !s.HasSection("A") || s.HasSection("Z") {
		t.Error("HasSection misbehaves")
	}
}
