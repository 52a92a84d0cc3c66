// Go-coded schema migrations. Order is defined by the list below; every
// step is idempotent, so the whole list is safe to run on every boot.
// schema_version is created by the runner before the first step.
package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DB is the subset of pgxpool.Pool the migrations use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Runner applies migrations in order.
type Runner struct {
	db     DB
	logger *zap.Logger
}

func NewRunner(db DB, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{db: db, logger: logger}
}

type migration struct {
	Version int
	Name    string
	Up      func(ctx context.Context, db DB, logger *zap.Logger) error
}

// Order matters.
var migrations = []migration{
	{Version: 1, Name: "create_categories", Up: UpCategories},
	{Version: 2, Name: "create_businesses", Up: UpBusinesses},
	{Version: 3, Name: "businesses_profile_columns", Up: UpBusinessProfileColumns},
	{Version: 4, Name: "businesses_indexes", Up: UpBusinessIndexes},
}

// Up runs every migration and records it in schema_version.
func (r *Runner) Up(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return fmt.Errorf("schema_version: %w", err)
	}

	for _, m := range migrations {
		if err := m.Up(ctx, r.db, r.logger); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := r.db.Exec(ctx, `
			INSERT INTO schema_version (version, name) VALUES ($1, $2)
			ON CONFLICT (version) DO NOTHING
		`, m.Version, m.Name); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		r.logger.Info("migration applied", zap.Int("version", m.Version), zap.String("name", m.Name))
	}
	return nil
}

// Applied is a row of schema_version.
type Applied struct {
	Version int
	Name    string
}

// Applied lists the recorded migrations ordered by version.
func (r *Runner) Applied(ctx context.Context) ([]Applied, error) {
	rows, err := r.db.Query(ctx, `SELECT version, name FROM schema_version ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Applied
	for rows.Next() {
		var a Applied
		if err := rows.Scan(&a.Version, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Pending returns the names of known migrations missing from applied.
func Pending(applied []Applied) []string {
	seen := make(map[int]bool, len(applied))
	for _, a := range applied {
		seen[a.Version] = true
	}
	var out []string
	for _, m := range migrations {
		if !seen[m.Version] {
			out = append(out, m.Name)
		}
	}
	return out
}
