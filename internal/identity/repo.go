package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository persists person records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// AccountByID returns the users-table row for an account ID, or nil when the
// account has never been activated.
func (r *Repository) AccountByID(ctx context.Context, accountID string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT account_id, role, name, email
		FROM users WHERE account_id = $1
	`, accountID)
	var a Account
	if err := row.Scan(&a.AccountID, &a.Role, &a.Name, &a.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// InsertAccount writes the account-to-role mapping created at activation.
func (r *Repository) InsertAccount(ctx context.Context, a Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (account_id, role, name, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO NOTHING
	`, a.AccountID, a.Role, a.Name, a.Email)
	return err
}

const studentColumns = `roll_number, name, email, dept, department_group, year, section,
	mobile, barcode_id, parent_mobile, mentor_id, account_id, claimed`

func (r *Repository) scanStudent(row *sql.Row) (*Person, error) {
	var p Person
	var group, mentor sql.NullString
	var accountID sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Dept, &group, &p.Year, &p.Section,
		&p.Mobile, &p.BarcodeID, &p.ParentMobile, &mentor, &accountID, &p.Claimed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Role = RoleStudent
	p.AccountID = accountID.String
	p.MentorID = mentor.String
	return &p, nil
}

// StudentByRoll looks a student up by roll number (the primary key).
func (r *Repository) StudentByRoll(ctx context.Context, roll string) (*Person, error) {
	return r.scanStudent(r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE roll_number = $1`, roll))
}

// StudentByAccountID looks a student up by the linked account ID.
func (r *Repository) StudentByAccountID(ctx context.Context, accountID string) (*Person, error) {
	return r.scanStudent(r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE account_id = $1`, accountID))
}

// StudentByEmail looks a student up by email.
func (r *Repository) StudentByEmail(ctx context.Context, email string) (*Person, error) {
	return r.scanStudent(r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE email = $1`, email))
}

const facultyColumns = `faculty_id, name, email, dept, designation, mobile, barcode_id,
	account_id, claimed`

func (r *Repository) scanFaculty(row *sql.Row) (*Person, error) {
	var p Person
	var accountID sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Dept, &p.Designation, &p.Mobile,
		&p.BarcodeID, &accountID, &p.Claimed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Role = RoleFaculty
	p.AccountID = accountID.String
	return &p, nil
}

// FacultyByID looks a faculty member up by faculty ID (the primary key).
func (r *Repository) FacultyByID(ctx context.Context, id string) (*Person, error) {
	return r.scanFaculty(r.db.QueryRowContext(ctx,
		`SELECT `+facultyColumns+` FROM faculty WHERE faculty_id = $1`, id))
}

// FacultyByAccountID looks a faculty member up by the linked account ID.
func (r *Repository) FacultyByAccountID(ctx context.Context, accountID string) (*Person, error) {
	return r.scanFaculty(r.db.QueryRowContext(ctx,
		`SELECT `+facultyColumns+` FROM faculty WHERE account_id = $1`, accountID))
}

// FacultyByEmail looks a faculty member up by email.
func (r *Repository) FacultyByEmail(ctx context.Context, email string) (*Person, error) {
	return r.scanFaculty(r.db.QueryRowContext(ctx,
		`SELECT `+facultyColumns+` FROM faculty WHERE email = $1`, email))
}

// ListStudents returns all student profiles. Branch/section filtering happens
// in memory at the caller with the dept normalizer; data volumes are hundreds
// of rows.
func (r *Repository) ListStudents(ctx context.Context) ([]Person, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studentColumns+` FROM students ORDER BY roll_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Person
	for rows.Next() {
		var p Person
		var group, mentor, accountID sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Dept, &group, &p.Year, &p.Section,
			&p.Mobile, &p.BarcodeID, &p.ParentMobile, &mentor, &accountID, &p.Claimed); err != nil {
			return nil, err
		}
		p.Role = RoleStudent
		p.AccountID = accountID.String
		p.MentorID = mentor.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// Claim links a profile to an external account ID and creates the users row,
// all in one transaction. The profile must exist and must not be claimed yet.
func (r *Repository) Claim(ctx context.Context, role Role, domainID, accountID, email string) (*Person, error) {
	table := profileTable(role)
	key := profileKeyColumn(role)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var name, profileEmail string
	var claimed bool
	q := fmt.Sprintf(`SELECT name, email, claimed FROM %s WHERE %s = $1 FOR UPDATE`, table, key)
	if err := tx.QueryRowContext(ctx, q, domainID).Scan(&name, &profileEmail, &claimed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if claimed {
		return nil, ErrAlreadyClaimed
	}

	upd := fmt.Sprintf(`UPDATE %s SET account_id = $1, claimed = TRUE WHERE %s = $2`, table, key)
	if _, err := tx.ExecContext(ctx, upd, accountID, domainID); err != nil {
		return nil, err
	}
	if email == "" {
		email = profileEmail
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (account_id, role, name, email)
		VALUES ($1, $2, $3, $4)
	`, accountID, role, name, email); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Person{ID: domainID, AccountID: accountID, Role: role, Name: name, Email: email, Claimed: true}, nil
}

func profileKeyColumn(r Role) string {
	switch r {
	case RoleStudent:
		return "roll_number"
	case RoleFaculty:
		return "faculty_id"
	default:
		return "person_id"
	}
}

// UpsertStudents writes a chunk of imported student profiles, overwriting any
// existing row with the same roll number.
func (r *Repository) UpsertStudents(ctx context.Context, students []Person) error {
	if len(students) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO students
		(roll_number, name, email, dept, department_group, year, section, mobile, barcode_id, parent_mobile, mentor_id, claimed)
		VALUES `)
	args := make([]any, 0, len(students)*12)
	for i, s := range students {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 12
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11, base+12)
		args = append(args, s.ID, s.Name, s.Email, s.Dept, s.Dept, s.Year, s.Section,
			s.Mobile, s.BarcodeID, s.ParentMobile, s.MentorID, false)
	}
	sb.WriteString(` ON CONFLICT (roll_number) DO UPDATE SET
		name = EXCLUDED.name, email = EXCLUDED.email, dept = EXCLUDED.dept,
		department_group = EXCLUDED.department_group, year = EXCLUDED.year,
		section = EXCLUDED.section, mobile = EXCLUDED.mobile,
		barcode_id = EXCLUDED.barcode_id, parent_mobile = EXCLUDED.parent_mobile`)
	_, err := r.db.ExecContext(ctx, sb.String(), args...)
	return err
}

// UpsertFaculty writes a chunk of imported faculty profiles.
func (r *Repository) UpsertFaculty(ctx context.Context, members []Person) error {
	if len(members) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO faculty
		(faculty_id, name, email, dept, designation, mobile, barcode_id, claimed)
		VALUES `)
	args := make([]any, 0, len(members)*8)
	for i, f := range members {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 8
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)
		args = append(args, f.ID, f.Name, f.Email, f.Dept, f.Designation, f.Mobile, f.BarcodeID, false)
	}
	sb.WriteString(` ON CONFLICT (faculty_id) DO UPDATE SET
		name = EXCLUDED.name, email = EXCLUDED.email, dept = EXCLUDED.dept,
		designation = EXCLUDED.designation, mobile = EXCLUDED.mobile,
		barcode_id = EXCLUDED.barcode_id`)
	_, err := r.db.ExecContext(ctx, sb.String(), args...)
	return err
}
