package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/config"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/utils"
)

func main() {
	var (
		configPath    string
		migrationsDir string
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&migrationsDir, "dir", "migrations", "Path to migrations directory")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)

	if cfg.Database.URL == "" {
		logger.Error("database url is required")
		os.Exit(1)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		logger.Error("open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Error("configure goose", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger.Info("applying migrations", slog.String("dir", migrationsDir))
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		logger.Error("apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")
}
