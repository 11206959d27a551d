package identity

import (
	"context"
	"fmt"

	"campusgate/internal/academic"
)

// ImportKind selects the target profile collection for a bulk import.
type ImportKind string

const (
	ImportStudents ImportKind = "students"
	ImportFaculty  ImportKind = "faculty"
)

// Row is one loosely-typed record from a source spreadsheet. Header names
// vary per source; field() folds the known aliases.
type Row map[string]any

// RowResult is the per-row outcome of validation: the normalized profile plus
// any data-quality errors. Raw import key names never travel past this point.
type RowResult struct {
	Raw    Row      `json:"raw"`
	Person Person   `json:"person"`
	Errors []string `json:"errors"`
}

// Valid reports whether the row may be imported.
func (r RowResult) Valid() bool { return len(r.Errors) == 0 }

// ImportStats summarizes an executed import.
type ImportStats struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// field returns the first non-empty value among the header aliases,
// stringified (spreadsheet exports deliver numbers for some columns).
func field(row Row, keys ...string) string {
	for _, k := range keys {
		v, ok := row[k]
		if !ok || v == nil {
			continue
		}
		s := fmt.Sprint(v)
		if s != "" {
			return s
		}
	}
	return ""
}

// ValidateStudentRow normalizes one student row and validates it against the
// academic structure. Invalid rows report every problem found, not just the
// first.
func ValidateStudentRow(row Row, s academic.Structure) RowResult {
	res := RowResult{Raw: row}

	roll := field(row, "RollNO", "rollNumber", "Roll Number", "id")
	if roll == "" {
		res.Errors = append(res.Errors, "Missing Roll Number")
	}
	dept := field(row, "Branch", "dept", "Department")
	if dept == "" {
		dept = "N/A"
	}
	year := field(row, "year", "Year")
	if year == "" {
		year = "N/A"
	}
	section := field(row, "Section", "section", "Sec")
	if section == "" {
		section = "A"
	}

	if dept != "N/A" && !s.HasBranch(dept) {
		res.Errors = append(res.Errors, fmt.Sprintf("Invalid Branch '%s'", dept))
	}
	if n, ok := academic.YearNumber(year); ok && !s.HasYear(n) {
		res.Errors = append(res.Errors, fmt.Sprintf("Invalid Year '%s'", year))
	}
	if !s.HasSection(section) {
		res.Errors = append(res.Errors, fmt.Sprintf("Invalid Section '%s'", section))
	}

	barcode := field(row, "Bio Metric Code", "barcodeId")
	if barcode == "" {
		barcode = roll
	}
	res.Person = Person{
		ID:           roll,
		Role:         RoleStudent,
		Name:         orUnknown(field(row, "Name", "name")),
		Email:        field(row, "Email", "email"),
		Dept:         dept,
		Year:         year,
		Section:      section,
		Mobile:       orNA(field(row, "Mobile No", "mobile")),
		BarcodeID:    barcode,
		ParentMobile: orNA(field(row, "Parent No", "parentMobile")),
		MentorID:     orNA(field(row, "Mentor No", "mentorId")),
	}
	return res
}

// ValidateFacultyRow normalizes one faculty row and validates it against the
// academic structure.
func ValidateFacultyRow(row Row, s academic.Structure) RowResult {
	res := RowResult{Raw: row}

	fid := field(row, "Faculty Id", "facultyId", "ID")
	if fid == "" {
		res.Errors = append(res.Errors, "Missing Faculty ID")
	}
	dept := field(row, "Department", "dept")
	if dept == "" {
		dept = "N/A"
	}
	if dept != "N/A" && !s.HasBranch(dept) {
		res.Errors = append(res.Errors, fmt.Sprintf("Invalid Dept '%s'", dept))
	}

	barcode := field(row, "Bio Metric Code", "barcodeId")
	if barcode == "" {
		barcode = fid
	}
	designation := field(row, "Designation")
	if designation == "" {
		designation = "Staff"
	}
	res.Person = Person{
		ID:          fid,
		Role:        RoleFaculty,
		Name:        orUnknown(field(row, "Name", "name")),
		Email:       field(row, "Email", "email"),
		Dept:        dept,
		Designation: designation,
		Mobile:      orNA(field(row, "Mobile No", "mobile")),
		BarcodeID:   barcode,
	}
	return res
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// ImportStore is the storage the importer writes validated chunks through.
type ImportStore interface {
	UpsertStudents(ctx context.Context, students []Person) error
	UpsertFaculty(ctx context.Context, members []Person) error
}

// Importer runs the preview/execute bulk-import flow.
type Importer struct {
	store ImportStore
	chunk int
}

// NewImporter creates an importer writing chunks of chunkSize rows per batch.
func NewImporter(store ImportStore, chunkSize int) *Importer {
	if chunkSize <= 0 {
		chunkSize = 400
	}
	return &Importer{store: store, chunk: chunkSize}
}

// Preview validates every row without writing anything. The caller shows the
// per-row errors before committing.
func (i *Importer) Preview(rows []Row, kind ImportKind, s academic.Structure) []RowResult {
	out := make([]RowResult, 0, len(rows))
	for _, row := range rows {
		if kind == ImportFaculty {
			out = append(out, ValidateFacultyRow(row, s))
		} else {
			out = append(out, ValidateStudentRow(row, s))
		}
	}
	return out
}

// Import validates and writes. Valid rows import in fixed-size chunks;
// invalid rows are skipped and reported back. Partial success is by design.
func (i *Importer) Import(ctx context.Context, rows []Row, kind ImportKind, s academic.Structure) (ImportStats, []RowResult, error) {
	results := i.Preview(rows, kind, s)

	var valid []Person
	for _, r := range results {
		if r.Valid() {
			valid = append(valid, r.Person)
		}
	}

	stats := ImportStats{Total: len(results), Skipped: len(results) - len(valid)}
	for start := 0; start < len(valid); start += i.chunk {
		end := start + i.chunk
		if end > len(valid) {
			end = len(valid)
		}
		chunk := valid[start:end]
		var err error
		if kind == ImportFaculty {
			err = i.store.UpsertFaculty(ctx, chunk)
		} else {
			err = i.store.UpsertStudents(ctx, chunk)
		}
		if err != nil {
			return stats, results, err
		}
		stats.Imported += len(chunk)
	}
	return stats, results, nil
}
