package migrations

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bizdir/backend/internal/catalog"
)

// 1: categories, seeded from the built-in catalog
func UpCategories(ctx context.Context, db DB, _ *zap.Logger) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS categories (
			slug       TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			sort_order SMALLINT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}
	entries, err := catalog.DefaultEntries()
	if err != nil {
		return err
	}
	for i, e := range entries {
		_, err := db.Exec(ctx, `
			INSERT INTO categories (slug, name, sort_order) VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO NOTHING
		`, e.Slug, e.Name, i+1)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", e.Slug, err)
		}
	}
	return nil
}

// 2: businesses (initial shape, profile columns come in 3)
func UpBusinesses(ctx context.Context, db DB, _ *zap.Logger) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS businesses (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			slug        TEXT NOT NULL,
			name        TEXT NOT NULL,
			locality    TEXT NOT NULL,
			category    TEXT NOT NULL,
			description TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (locality, slug)
		)
	`)
	return err
}

// profileColumns are added one guard at a time; existing columns are left as-is.
var profileColumns = []struct {
	Name string
	Type string
}{
	{"phone", "TEXT"},
	{"website", "TEXT"},
	{"email", "TEXT"},
	{"address", "TEXT"},
	{"image_url", "TEXT"},
	{"opening_hours", "TEXT"},
	{"rating", "DOUBLE PRECISION"},
	{"verified", "BOOLEAN NOT NULL DEFAULT false"},
}

// 3: profile columns for databases created before they existed
func UpBusinessProfileColumns(ctx context.Context, db DB, logger *zap.Logger) error {
	for _, c := range profileColumns {
		q := fmt.Sprintf(`ALTER TABLE businesses ADD COLUMN IF NOT EXISTS %s %s`, c.Name, c.Type)
		if _, err := db.Exec(ctx, q); err != nil {
			return fmt.Errorf("column %s: %w", c.Name, err)
		}
		logger.Debug("column ensured", zap.String("table", "businesses"), zap.String("column", c.Name))
	}
	return nil
}

// 4: listing and lookup indexes
func UpBusinessIndexes(ctx context.Context, db DB, _ *zap.Logger) error {
	for _, q := range []string{
		`CREATE INDEX IF NOT EXISTS idx_businesses_locality_category ON businesses (locality, category)`,
		`CREATE INDEX IF NOT EXISTS idx_businesses_category ON businesses (category)`,
	} {
		if _, err := db.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
