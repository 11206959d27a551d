package identity

import (
	"context"
	"strings"
	"testing"

	"campusgate/internal/academic"
)

func importStructure() academic.Structure {
	return academic.Structure{
		Branches: []string{"CSE", "ECE", "AID"},
		Years:    []int{1, 2, 3, 4},
		Sections: []string{"A", "B"},
	}
}

func TestValidateStudentRow(t *testing.T) {
	s := importStructure()

	t.Run("valid row with alias headers", func(t *testing.T) {
		res := ValidateStudentRow(Row{
			"RollNO": "23CS002",
			"Branch": "AID",
			"year":   "2",
			"Name":   "Kiran",
		}, s)
		if !res.Valid() {
			t.Fatalf("unexpected errors: %v", res.Errors)
		}
		if res.Person.ID != "23CS002" || res.Person.Dept != "AID" {
			t.Errorf("person = %+v", res.Person)
		}
		if res.Person.Section != "A" {
			t.Errorf("section default = %q, want A", res.Person.Section)
		}
		if res.Person.BarcodeID != "23CS002" {
			t.Errorf("barcode fallback = %q, want roll number", res.Person.BarcodeID)
		}
	})

	t.Run("unknown branch", func(t *testing.T) {
		res := ValidateStudentRow(Row{"RollNO": "23CS003", "Branch": "XYZ"}, s)
		if res.Valid() {
			t.Fatal("row with unknown branch must be invalid")
		}
		found := false
		for _, e := range res.Errors {
			if strings.Contains(e, "Invalid Branch 'XYZ'") {
				found = true
			}
		}
		if !found {
			t.Errorf("errors = %v, want Invalid Branch", res.Errors)
		}
	})

	t.Run("missing roll number", func(t *testing.T) {
		res := ValidateStudentRow(Row{"Branch": "CSE"}, s)
		if res.Valid() {
			t.Fatal("row without roll number must be invalid")
		}
		if res.Errors[0] != "Missing Roll Number" {
			t.Errorf("errors = %v", res.Errors)
		}
	})

	t.Run("numeric cells from spreadsheet export", func(t *testing.T) {
		res := ValidateStudentRow(Row{"RollNO": 23004, "Branch": "CSE", "year": 3}, s)
		if !res.Valid() {
			t.Fatalf("unexpected errors: %v", res.Errors)
		}
		if res.Person.ID != "23004" || res.Person.Year != "3" {
			t.Errorf("person = %+v", res.Person)
		}
	})

	t.Run("year outside structure", func(t *testing.T) {
		res := ValidateStudentRow(Row{"RollNO": "23CS005", "Branch": "CSE", "year": "7"}, s)
		if res.Valid() {
			t.Fatal("row with year 7 must be invalid")
		}
	})
}

func TestValidateFacultyRow(t *testing.T) {
	s := importStructure()

	res := ValidateFacultyRow(Row{"Faculty Id": "FAC01", "Department": "ECE", "Name": "Dr. Rao"}, s)
	if !res.Valid() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.Person.Designation != "Staff" {
		t.Errorf("designation default = %q, want Staff", res.Person.Designation)
	}

	res = ValidateFacultyRow(Row{"Department": "ECE"}, s)
	if res.Valid() || res.Errors[0] != "Missing Faculty ID" {
		t.Errorf("errors = %v", res.Errors)
	}

	res = ValidateFacultyRow(Row{"Faculty Id": "FAC02", "Department": "NOPE"}, s)
	if res.Valid() {
		t.Fatal("unknown department must be invalid")
	}
}

type fakeImportStore struct {
	studentBatches [][]Person
	facultyBatches [][]Person
}

func (f *fakeImportStore) UpsertStudents(_ context.Context, students []Person) error {
	f.studentBatches = append(f.studentBatches, students)
	return nil
}

func (f *fakeImportStore) UpsertFaculty(_ context.Context, members []Person) error {
	f.facultyBatches = append(f.facultyBatches, members)
	return nil
}

func TestImportPartialSuccess(t *testing.T) {
	store := &fakeImportStore{}
	imp := NewImporter(store, 2)

	rows := []Row{
		{"RollNO": "23CS001", "Branch": "CSE"},
		{"RollNO": "23CS002", "Branch": "AID"},
		{"RollNO": "23CS003", "Branch": "XYZ"}, // invalid, skipped
		{"RollNO": "23CS004", "Branch": "ECE"},
	}
	stats, results, err := imp.Import(context.Background(), rows, ImportStudents, importStructure())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if stats.Total != 4 || stats.Imported != 3 || stats.Skipped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(results) != 4 {
		t.Errorf("got %d results, want one per row", len(results))
	}
	// Chunk size 2 means 3 valid rows land in 2 batches.
	if len(store.studentBatches) != 2 {
		t.Errorf("got %d batches, want 2", len(store.studentBatches))
	}
}

func TestPreviewWritesNothing(t *testing.T) {
	store := &fakeImportStore{}
	imp := NewImporter(store, 400)

	results := imp.Preview([]Row{{"RollNO": "23CS001", "Branch": "CSE"}}, ImportStudents, importStructure())
	if len(results) != 1 || !results[0].Valid() {
		t.Fatalf("results = %+v", results)
	}
	if len(store.studentBatches) != 0 {
		t.Error("preview must not write")
	}
}
