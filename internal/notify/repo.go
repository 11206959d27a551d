package notify

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Repository persists notifications in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes one broadcast notification.
func (r *Repository) Insert(ctx context.Context, n Notification) (Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, title, message, sender_id, sender_role, target_role, target_dept, ts)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, n.ID, n.Title, n.Message, n.SenderID, n.SenderRole, n.TargetRole, n.TargetDept, n.Timestamp)
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

// ListForRole returns the newest notifications addressed to a role or to all.
func (r *Repository) ListForRole(ctx context.Context, role string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, message, sender_id, sender_role, target_role, target_dept, ts
		FROM notifications
		WHERE target_role IN ($1, 'all')
		ORDER BY ts DESC LIMIT $2
	`, role, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.SenderID, &n.SenderRole,
			&n.TargetRole, &n.TargetDept, &n.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// DeleteBySender removes a notification if senderID created it.
func (r *Repository) DeleteBySender(ctx context.Context, id, senderID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM notifications WHERE id = $1 AND sender_id = $2
	`, id, senderID)
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
