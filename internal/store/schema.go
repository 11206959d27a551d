package store

import "database/sql"

// Migrate creates the campus gate tables when they do not exist yet. DDL is
// idempotent so every binary can run it at startup.
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		account_id  TEXT PRIMARY KEY,
		role        TEXT NOT NULL,
		name        TEXT NOT NULL DEFAULT '',
		email       TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS students (
		roll_number       TEXT PRIMARY KEY,
		name              TEXT NOT NULL DEFAULT 'Unknown',
		email             TEXT NOT NULL DEFAULT '',
		dept              TEXT NOT NULL DEFAULT 'N/A',
		department_group  TEXT NOT NULL DEFAULT '',
		year              TEXT NOT NULL DEFAULT 'N/A',
		section           TEXT NOT NULL DEFAULT 'A',
		mobile            TEXT NOT NULL DEFAULT 'N/A',
		parent_mobile     TEXT NOT NULL DEFAULT 'N/A',
		mentor_id         TEXT,
		barcode_id        TEXT NOT NULL DEFAULT '',
		claimed           BOOLEAN NOT NULL DEFAULT FALSE,
		account_id        TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_students_account ON students(account_id);
	CREATE INDEX IF NOT EXISTS idx_students_email   ON students(email);

	CREATE TABLE IF NOT EXISTS faculty (
		faculty_id   TEXT PRIMARY KEY,
		name         TEXT NOT NULL DEFAULT 'Unknown',
		email        TEXT NOT NULL DEFAULT '',
		dept         TEXT NOT NULL DEFAULT 'N/A',
		designation  TEXT NOT NULL DEFAULT 'Staff',
		mobile       TEXT NOT NULL DEFAULT 'N/A',
		barcode_id   TEXT NOT NULL DEFAULT '',
		claimed      BOOLEAN NOT NULL DEFAULT FALSE,
		account_id   TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_faculty_account ON faculty(account_id);
	CREATE INDEX IF NOT EXISTS idx_faculty_email   ON faculty(email);

	CREATE TABLE IF NOT EXISTS hods (
		person_id   TEXT PRIMARY KEY,
		name        TEXT NOT NULL DEFAULT 'Unknown',
		email       TEXT NOT NULL DEFAULT '',
		dept        TEXT NOT NULL DEFAULT 'N/A',
		claimed     BOOLEAN NOT NULL DEFAULT FALSE,
		account_id  TEXT
	);

	CREATE TABLE IF NOT EXISTS coordinators (
		person_id   TEXT PRIMARY KEY,
		name        TEXT NOT NULL DEFAULT 'Unknown',
		email       TEXT NOT NULL DEFAULT '',
		dept        TEXT NOT NULL DEFAULT 'N/A',
		claimed     BOOLEAN NOT NULL DEFAULT FALSE,
		account_id  TEXT
	);

	CREATE TABLE IF NOT EXISTS security (
		person_id   TEXT PRIMARY KEY,
		name        TEXT NOT NULL DEFAULT 'Unknown',
		email       TEXT NOT NULL DEFAULT '',
		dept        TEXT NOT NULL DEFAULT 'N/A',
		claimed     BOOLEAN NOT NULL DEFAULT FALSE,
		account_id  TEXT
	);

	CREATE TABLE IF NOT EXISTS attendance_logs (
		id           TEXT PRIMARY KEY,
		person_id    TEXT NOT NULL,
		role         TEXT NOT NULL,
		type         TEXT NOT NULL,
		gate_id      TEXT NOT NULL DEFAULT '',
		ts           TIMESTAMPTZ NOT NULL,
		log_date     TEXT NOT NULL,
		name         TEXT NOT NULL DEFAULT 'Unknown',
		dept         TEXT NOT NULL DEFAULT 'N/A',
		year         TEXT NOT NULL DEFAULT 'N/A',
		roll_number  TEXT NOT NULL DEFAULT 'N/A'
	);
	CREATE INDEX IF NOT EXISTS idx_logs_person ON attendance_logs(person_id);
	CREATE INDEX IF NOT EXISTS idx_logs_date   ON attendance_logs(log_date);

	CREATE TABLE IF NOT EXISTS security_alerts (
		id          TEXT PRIMARY KEY,
		person_id   TEXT NOT NULL,
		name        TEXT NOT NULL DEFAULT 'Unknown',
		type        TEXT NOT NULL,
		reason      TEXT NOT NULL,
		ts          TIMESTAMPTZ NOT NULL,
		alert_date  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_alerts_ts ON security_alerts(ts);

	CREATE TABLE IF NOT EXISTS academic_structure (
		id          TEXT PRIMARY KEY,
		branches    JSONB NOT NULL,
		years       JSONB NOT NULL,
		sections    JSONB NOT NULL,
		subjects    JSONB NOT NULL,
		version     INTEGER NOT NULL DEFAULT 1,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS faculty_assignments (
		id             TEXT PRIMARY KEY,
		faculty_id     TEXT NOT NULL,
		faculty_name   TEXT NOT NULL DEFAULT '',
		branch         TEXT NOT NULL,
		year           TEXT NOT NULL,
		section        TEXT NOT NULL,
		subject_code   TEXT NOT NULL,
		subject_name   TEXT NOT NULL DEFAULT '',
		academic_year  TEXT NOT NULL DEFAULT '',
		assigned_by    TEXT NOT NULL DEFAULT '',
		assigned_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		active         BOOLEAN NOT NULL DEFAULT TRUE
	);
	CREATE INDEX IF NOT EXISTS idx_assignments_faculty ON faculty_assignments(faculty_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_branch  ON faculty_assignments(branch);

	CREATE TABLE IF NOT EXISTS timetables (
		id          TEXT PRIMARY KEY,
		branch      TEXT NOT NULL,
		year        INTEGER NOT NULL,
		section     TEXT NOT NULL,
		schedule    JSONB NOT NULL,
		version     INTEGER NOT NULL DEFAULT 1,
		updated_by  TEXT NOT NULL DEFAULT '',
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		message      TEXT NOT NULL,
		sender_id    TEXT NOT NULL,
		sender_role  TEXT NOT NULL,
		target_role  TEXT NOT NULL,
		target_dept  TEXT NOT NULL DEFAULT '',
		ts           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_ts ON notifications(ts);

	CREATE TABLE IF NOT EXISTS settings (
		id           TEXT PRIMARY KEY,
		entry_start  TEXT NOT NULL,
		entry_end    TEXT NOT NULL,
		exit_start   TEXT NOT NULL,
		exit_end     TEXT NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	_, err := db.Exec(schema)
	return err
}
