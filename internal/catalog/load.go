package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var embeddedYAML []byte

type document struct {
	Categories []Entry `yaml:"categories"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(embeddedYAML)
}

// DefaultEntries returns the built-in entries, used to seed the categories table.
func DefaultEntries() ([]Entry, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Entries(), nil
}

// Parse decodes a YAML document of the form `categories: [{slug, name}]`.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return FromEntries(doc.Categories)
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Querier is the subset of pgxpool.Pool used by LoadPostgres.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadPostgres reads the catalog from the categories table.
func LoadPostgres(ctx context.Context, db Querier) (*Catalog, error) {
	rows, err := db.Query(ctx, `SELECT slug, name FROM categories ORDER BY sort_order, slug`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Slug, &e.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return FromEntries(entries)
}
