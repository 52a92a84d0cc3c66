package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bizdir/backend/internal/catalog"
	"github.com/bizdir/backend/internal/config"
	"github.com/bizdir/backend/internal/db"
	"github.com/bizdir/backend/internal/migrations"
	"github.com/bizdir/backend/internal/redis"
)

// Infra holds the long-lived connections and the category catalog.
type Infra struct {
	PG      *pgxpool.Pool
	Redis   *goredis.Client
	Catalog *catalog.Catalog
}

// New connects Postgres, runs the Go migrations when enabled, connects Redis
// and loads the catalog. Everything opened so far is closed on error.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Infra, error) {
	pool, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	inf := &Infra{PG: pool}

	if cfg.MigrateOnStart {
		if err := migrations.NewRunner(pool, logger).Up(ctx); err != nil {
			inf.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		inf.Close()
		return nil, err
	}
	inf.Redis = rdb

	cat, err := LoadCatalog(ctx, cfg.Catalog, pool)
	if err != nil {
		inf.Close()
		return nil, err
	}
	inf.Catalog = cat

	logger.Info("infra ready",
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.Int("categories", cat.Len()),
		zap.Bool("migrated", cfg.MigrateOnStart),
	)
	return inf, nil
}

// LoadCatalog reads the category catalog from the configured source.
func LoadCatalog(ctx context.Context, cfg config.Catalog, q catalog.Querier) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	switch cfg.Source {
	case config.CatalogSourceFile:
		cat, err = catalog.LoadFile(cfg.Path)
	case config.CatalogSourceDB:
		cat, err = catalog.LoadPostgres(ctx, q)
	case config.CatalogSourceEmbedded, "":
		cat, err = catalog.Default()
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog (%s): %w", cfg.Source, err)
	}
	return cat, nil
}

func (i *Infra) Close() {
	if i == nil {
		return
	}
	if i.PG != nil {
		i.PG.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
}
