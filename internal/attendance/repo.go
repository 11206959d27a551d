package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Repository persists attendance logs and security alerts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const logColumns = `id, person_id, role, type, gate_id, ts, log_date, name, dept, year, roll_number`

// AppendScan decides and appends one attendance event atomically. The
// transaction holds a per-person advisory lock, so two near-simultaneous
// scans of the same badge cannot both read "no entry today" and both write
// ENTRY. On rejection nothing is written and DecideReject is returned; the
// alert is the caller's follow-up effect.
func (r *Repository) AppendScan(ctx context.Context, candidate Log) (Log, Decision, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Log{}, DecideReject, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, candidate.PersonID); err != nil {
		return Log{}, DecideReject, err
	}

	rows, err := tx.QueryContext(ctx, `SELECT `+logColumns+` FROM attendance_logs WHERE person_id = $1`, candidate.PersonID)
	if err != nil {
		return Log{}, DecideReject, err
	}
	history, err := scanLogs(rows)
	if err != nil {
		return Log{}, DecideReject, err
	}

	decision := Decide(Latest(history), candidate.Timestamp)
	if decision == DecideReject {
		return Log{}, DecideReject, nil
	}

	candidate.Type = TypeEntry
	if decision == DecideExit {
		candidate.Type = TypeExit
	}
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	candidate.Date = LocalDate(candidate.Timestamp)

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO attendance_logs (`+logColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, candidate.ID, candidate.PersonID, candidate.Role, candidate.Type, candidate.GateID,
		candidate.Timestamp, candidate.Date, candidate.Name, candidate.Dept, candidate.Year,
		candidate.RollNumber); err != nil {
		return Log{}, DecideReject, err
	}
	if err := tx.Commit(); err != nil {
		return Log{}, DecideReject, err
	}
	return candidate, decision, nil
}

// InsertAlert records a rejected scan. Alerts live outside the scan
// transaction; losing one on a crash is acceptable, losing a log is not.
func (r *Repository) InsertAlert(ctx context.Context, a Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	if a.Date == "" {
		a.Date = LocalDate(a.Timestamp)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO security_alerts (id, person_id, name, type, reason, ts, alert_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, a.ID, a.PersonID, a.Name, a.Type, a.Reason, a.Timestamp, a.Date)
	return err
}

// LogsByPerson returns a person's full history, newest first.
func (r *Repository) LogsByPerson(ctx context.Context, personID string) ([]Log, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+logColumns+` FROM attendance_logs
		WHERE person_id = $1 ORDER BY ts DESC
	`, personID)
	if err != nil {
		return nil, err
	}
	return scanLogs(rows)
}

// LogsByDate returns all logs for one calendar date, newest first. Department
// scoping happens in memory at the caller via the dept normalizer.
func (r *Repository) LogsByDate(ctx context.Context, date string) ([]Log, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+logColumns+` FROM attendance_logs
		WHERE log_date = $1 ORDER BY ts DESC
	`, date)
	if err != nil {
		return nil, err
	}
	return scanLogs(rows)
}

// LogsInRange returns logs between two date strings inclusive, for trend
// charts.
func (r *Repository) LogsInRange(ctx context.Context, from, to string) ([]Log, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+logColumns+` FROM attendance_logs
		WHERE log_date >= $1 AND log_date <= $2 ORDER BY ts DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	return scanLogs(rows)
}

// ListAlerts returns recent security alerts.
func (r *Repository) ListAlerts(ctx context.Context, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, person_id, name, type, reason, ts, alert_date
		FROM security_alerts ORDER BY ts DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.PersonID, &a.Name, &a.Type, &a.Reason, &a.Timestamp, &a.Date); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PurgeLogs deletes every attendance log. Administrative reset only.
func (r *Repository) PurgeLogs(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance_logs`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanLogs(rows *sql.Rows) ([]Log, error) {
	defer rows.Close()
	var out []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.PersonID, &l.Role, &l.Type, &l.GateID, &l.Timestamp,
			&l.Date, &l.Name, &l.Dept, &l.Year, &l.RollNumber); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
