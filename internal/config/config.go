// Application configuration, env-only (secrets never live in the repository).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	AppEnv   string
	Server   Server
	Postgres Postgres
	Redis    Redis
	Security Security
	Catalog  Catalog
	Cache    Cache

	MigrateOnStart bool
}

// Server holds HTTP listener settings.
type Server struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowOrigins    []string
}

// Postgres holds the DSN and pool limits.
type Postgres struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// Redis is used for rate limiting and the listing cache.
type Redis struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Security covers the admin token key and the per-IP request limit.
type Security struct {
	AdminJWTSecret string
	AdminTokenTTL  time.Duration
	RateLimitRPS   int
}

// Catalog selects where category slugs are loaded from.
type Catalog struct {
	Source string // embedded | file | db
	Path   string
}

type Cache struct {
	ListingTTL time.Duration
}

const (
	CatalogSourceEmbedded = "embedded"
	CatalogSourceFile     = "file"
	CatalogSourceDB       = "db"
)

// Load reads the config from env; DATABASE_URL and ADMIN_JWT_SECRET are required.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "production"),
		Server: Server{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowOrigins:    getList("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Postgres: Postgres{
			DSN:             getEnv("DATABASE_URL", ""),
			MaxConns:        int32(getInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:        int32(getInt("POSTGRES_MIN_CONNS", 2)),
			MaxConnLifetime: getDuration("POSTGRES_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getDuration("POSTGRES_MAX_CONN_IDLE_TIME", 30*time.Minute),
			ConnectTimeout:  getDuration("POSTGRES_CONNECT_TIMEOUT", 5*time.Second),
		},
		Redis: Redis{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getInt("REDIS_DB", 0),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Security: Security{
			AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
			AdminTokenTTL:  getDuration("ADMIN_TOKEN_TTL", 24*time.Hour),
			RateLimitRPS:   getInt("RATE_LIMIT_RPS", 50),
		},
		Catalog: Catalog{
			Source: strings.ToLower(getEnv("CATEGORY_CATALOG_SOURCE", CatalogSourceEmbedded)),
			Path:   getEnv("CATEGORY_CATALOG_PATH", ""),
		},
		Cache: Cache{
			ListingTTL: getDuration("LISTING_CACHE_TTL", 5*time.Minute),
		},
		MigrateOnStart: getBool("MIGRATE_ON_START", true),
	}
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Security.AdminJWTSecret == "" {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET is required")
	}
	switch cfg.Catalog.Source {
	case CatalogSourceEmbedded, CatalogSourceDB:
	case CatalogSourceFile:
		if cfg.Catalog.Path == "" {
			return nil, fmt.Errorf("CATEGORY_CATALOG_PATH is required when CATEGORY_CATALOG_SOURCE=file")
		}
	default:
		return nil, fmt.Errorf("invalid CATEGORY_CATALOG_SOURCE %q (allowed: embedded, file, db)", cfg.Catalog.Source)
	}
	return cfg, nil
}

// IsLocal reports whether the process runs in a developer environment.
func (c *Config) IsLocal() bool {
	return c.AppEnv == "local"
}

// getEnv returns the env value or def.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getInt parses an integer from env or returns def.
func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// getBool treats 1/true/yes as true and 0/false/no as false.
func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return def
}

// getDuration parses a duration from env or returns def.
func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
