package academic

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const structureID = "main"

// Repository persists academic data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetStructure returns the singleton structure document, seeding the default
// one on first read.
func (r *Repository) GetStructure(ctx context.Context) (Structure, error) {
	s, err := r.readStructure(ctx)
	if err == nil || !errors.Is(err, sql.ErrNoRows) {
		return s, err
	}

	seed := DefaultStructure()
	branches, years, sections, subjects, err := marshalStructure(seed)
	if err != nil {
		return Structure{}, err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO academic_structure (id, branches, years, sections, subjects, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, NOW())
		ON CONFLICT (id) DO NOTHING
	`, structureID, branches, years, sections, subjects)
	if err != nil {
		return Structure{}, err
	}
	return r.readStructure(ctx)
}

func (r *Repository) readStructure(ctx context.Context) (Structure, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT branches, years, sections, subjects, version, updated_at
		FROM academic_structure WHERE id = $1
	`, structureID)

	var branches, years, sections, subjects []byte
	var s Structure
	if err := row.Scan(&branches, &years, &sections, &subjects, &s.Version, &s.UpdatedAt); err != nil {
		return Structure{}, err
	}
	if err := json.Unmarshal(branches, &s.Branches); err != nil {
		return Structure{}, err
	}
	if err := json.Unmarshal(years, &s.Years); err != nil {
		return Structure{}, err
	}
	if err := json.Unmarshal(sections, &s.Sections); err != nil {
		return Structure{}, err
	}
	if err := json.Unmarshal(subjects, &s.Subjects); err != nil {
		return Structure{}, err
	}
	return s, nil
}

// UpdateStructure replaces the structure document. The write is conditional
// on expectedVersion so concurrent coordinator edits surface as
// ErrVersionConflict instead of a silent overwrite.
func (r *Repository) UpdateStructure(ctx context.Context, s Structure, expectedVersion int) error {
	branches, years, sections, subjects, err := marshalStructure(s)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE academic_structure
		SET branches = $2, years = $3, sections = $4, subjects = $5,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $6
	`, structureID, branches, years, sections, subjects, expectedVersion)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

func marshalStructure(s Structure) (branches, years, sections, subjects []byte, err error) {
	if branches, err = json.Marshal(s.Branches); err != nil {
		return
	}
	if years, err = json.Marshal(s.Years); err != nil {
		return
	}
	if sections, err = json.Marshal(s.Sections); err != nil {
		return
	}
	subjects, err = json.Marshal(s.Subjects)
	return
}

// CreateAssignment writes a new faculty assignment. Multiple assignments may
// reference the same faculty or subject (theory + lab).
func (r *Repository) CreateAssignment(ctx context.Context, a Assignment) (Assignment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	a.Active = true
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO faculty_assignments
		(id, faculty_id, faculty_name, branch, year, section, subject_code, subject_name,
		 academic_year, assigned_by, assigned_at, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, a.ID, a.FacultyID, a.FacultyName, a.Branch, a.Year, a.Section,
		a.SubjectCode, a.SubjectName, a.AcademicYear, a.AssignedBy, a.AssignedAt, a.Active)
	if err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// DeleteAssignment removes an assignment. Deletion is hard; the active flag
// is not used as a soft delete.
func (r *Repository) DeleteAssignment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM faculty_assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignmentsByFaculty returns the active assignments for one faculty member
// ("my classes" view).
func (r *Repository) AssignmentsByFaculty(ctx context.Context, facultyID string) ([]Assignment, error) {
	return r.queryAssignments(ctx, `
		SELECT id, faculty_id, faculty_name, branch, year, section, subject_code, subject_name,
		       academic_year, assigned_by, assigned_at, active
		FROM faculty_assignments
		WHERE faculty_id = $1 AND active ORDER BY assigned_at
	`, facultyID)
}

// AssignmentsByBranch returns all active assignments for a branch. Class
// filtering happens in memory at the resolver.
func (r *Repository) AssignmentsByBranch(ctx context.Context, branch string) ([]Assignment, error) {
	return r.queryAssignments(ctx, `
		SELECT id, faculty_id, faculty_name, branch, year, section, subject_code, subject_name,
		       academic_year, assigned_by, assigned_at, active
		FROM faculty_assignments
		WHERE branch = $1 AND active ORDER BY assigned_at
	`, branch)
}

func (r *Repository) queryAssignments(ctx context.Context, q string, args ...any) ([]Assignment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.FacultyID, &a.FacultyName, &a.Branch, &a.Year, &a.Section,
			&a.SubjectCode, &a.SubjectName, &a.AcademicYear, &a.AssignedBy, &a.AssignedAt, &a.Active); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveTimetable fully replaces the schedule for one class key. A brand-new
// timetable starts at version 1; replacing an existing one requires the
// version the caller last read, otherwise ErrVersionConflict.
func (r *Repository) SaveTimetable(ctx context.Context, t Timetable, expectedVersion int) error {
	schedule, err := json.Marshal(t.Schedule)
	if err != nil {
		return err
	}
	id := TimetableID(t.Branch, t.Year, t.Section)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO timetables (id, branch, year, section, schedule, version, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			schedule = EXCLUDED.schedule,
			version = timetables.version + 1,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		WHERE timetables.version = $7
	`, id, t.Branch, t.Year, t.Section, schedule, t.UpdatedBy, expectedVersion)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

// GetTimetable returns the schedule for one class key, or nil when none has
// been saved yet.
func (r *Repository) GetTimetable(ctx context.Context, branch string, year int, section string) (*Timetable, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, branch, year, section, schedule, version, updated_by, updated_at
		FROM timetables WHERE id = $1
	`, TimetableID(branch, year, section))

	var t Timetable
	var schedule []byte
	if err := row.Scan(&t.ID, &t.Branch, &t.Year, &t.Section, &schedule, &t.Version, &t.UpdatedBy, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(schedule, &t.Schedule); err != nil {
		return nil, err
	}
	return &t, nil
}
