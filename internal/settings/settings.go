// Package settings stores the global gate rules. The time windows are
// persisted and editable but not yet consulted by the scan path; enforcement
// is an unfinished feature carried over as-is.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const rulesID = "global_rules"

// GateRules holds the allowed entry and exit windows as HH:MM strings.
type GateRules struct {
	EntryStart string    `json:"entry_start"`
	EntryEnd   string    `json:"entry_end"`
	ExitStart  string    `json:"exit_start"`
	ExitEnd    string    `json:"exit_end"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultRules seeds the row on first read.
func DefaultRules() GateRules {
	return GateRules{
		EntryStart: "07:00",
		EntryEnd:   "10:00",
		ExitStart:  "15:00",
		ExitEnd:    "19:00",
	}
}

// Repository persists gate rules in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the global rules, seeding defaults when missing.
func (r *Repository) Get(ctx context.Context) (GateRules, error) {
	rules, err := r.read(ctx)
	if err == nil || !errors.Is(err, sql.ErrNoRows) {
		return rules, err
	}

	seed := DefaultRules()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (id, entry_start, entry_end, exit_start, exit_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO NOTHING
	`, rulesID, seed.EntryStart, seed.EntryEnd, seed.ExitStart, seed.ExitEnd)
	if err != nil {
		return GateRules{}, err
	}
	return r.read(ctx)
}

func (r *Repository) read(ctx context.Context) (GateRules, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT entry_start, entry_end, exit_start, exit_end, updated_at
		FROM settings WHERE id = $1
	`, rulesID)
	var g GateRules
	err := row.Scan(&g.EntryStart, &g.EntryEnd, &g.ExitStart, &g.ExitEnd, &g.UpdatedAt)
	return g, err
}

// Put replaces the global rules.
func (r *Repository) Put(ctx context.Context, g GateRules) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, entry_start, entry_end, exit_start, exit_end, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			entry_start = EXCLUDED.entry_start, entry_end = EXCLUDED.entry_end,
			exit_start = EXCLUDED.exit_start, exit_end = EXCLUDED.exit_end,
			updated_at = NOW()
	`, rulesID, g.EntryStart, g.EntryEnd, g.ExitStart, g.ExitEnd)
	return err
}
