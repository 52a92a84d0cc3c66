package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/bizdir/backend/internal/config"
	"github.com/bizdir/backend/internal/db"
	"github.com/bizdir/backend/internal/migrations"
)

func main() {
	if _, err := config.LoadDotEnvUp(8); err != nil {
		fmt.Fprintln(os.Stderr, "env file:", err)
		os.Exit(2)
	}

	var (
		engine    = flag.String("engine", "go", "go|sql")
		direction = flag.String("direction", "up", "up|down (sql engine only)")
		steps     = flag.Int("steps", 0, "number of steps, 0 = all (sql engine only)")
		status    = flag.Bool("status", false, "print applied and pending migrations (go engine only)")
	)
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(2)
	}

	switch *engine {
	case "go":
		if err := runGo(dsn, *status); err != nil {
			fmt.Fprintln(os.Stderr, "migration error:", err)
			os.Exit(1)
		}
	case "sql":
		m, err := migrations.NewSQL(dsn)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer m.Close()
		if err := migrations.RunSQL(m, *direction, *steps); err != nil {
			fmt.Fprintln(os.Stderr, "migration error:", err)
			os.Exit(1)
		}
		fmt.Println("migrations:", *direction, "ok")
	default:
		fmt.Fprintln(os.Stderr, "invalid -engine, must be go|sql")
		os.Exit(2)
	}
}

func runGo(dsn string, status bool) error {
	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPostgres(ctx, config.Postgres{DSN: dsn})
	if err != nil {
		return err
	}
	defer pool.Close()

	runner := migrations.NewRunner(pool, logger)
	if !status {
		if err := runner.Up(ctx); err != nil {
			return err
		}
	}
	applied, err := runner.Applied(ctx)
	if err != nil {
		return err
	}
	for _, a := range applied {
		fmt.Printf("applied  %03d %s\n", a.Version, a.Name)
	}
	for _, name := range migrations.Pending(applied) {
		fmt.Printf("pending      %s\n", name)
	}
	return nil
}
