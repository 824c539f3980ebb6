package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/vendalytics/vendalytics/internal/config"
	"github.com/vendalytics/vendalytics/internal/logger"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	dir := flag.String("dir", "./migrations", "Directory containing migration SQL files")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatalw("Failed to read migrations directory", "dir", *dir, "error", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if *dryRun {
		logger.Info("Dry run mode - printing migration SQL without executing")
		for _, name := range names {
			sqlBytes, err := os.ReadFile(filepath.Join(*dir, name))
			if err != nil {
				logger.Fatalw("Failed to read migration", "file", name, "error", err)
			}
			fmt.Printf("-- %s\n%s\n", name, sqlBytes)
		}
		return
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := sqlx.Connect("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Running database migrations...")
	for _, name := range names {
		sqlBytes, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			logger.Fatalw("Failed to read migration", "file", name, "error", err)
		}
		if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
			logger.Fatalw("Migration failed", "file", name, "error", err)
		}
		logger.Infow("Applied migration", "file", name)
	}

	fmt.Println("Migration process completed")
}
