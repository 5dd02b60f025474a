package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	"loara/internal/config"
	"loara/internal/database"
	"loara/internal/logger"
	"loara/internal/server"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Setup(cfg.LogLevel, cfg.IsProduction())

	db, err := openDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("Failed to open database: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	srv, err := server.New(cfg, db)
	if err != nil {
		logger.Log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.WithFields(logrus.Fields{"port": cfg.Port, "database": db != nil}).Info("server starting")
	if err := srv.Start(ctx); err != nil {
		logger.Log.Fatalf("Server failed: %v", err)
	}
	logger.Log.Info("server stopped")
}

// openDatabase returns nil when no database is configured. An unreachable
// database is only logged, the readiness probe reports it.
func openDatabase(url string) (*sql.DB, error) {
	if url == "" {
		return nil, nil
	}

	db, err := database.NewConnection(url)
	if err == nil {
		return db, nil
	}
	logger.WithFields(logrus.Fields{"error": err}).Warn("database unreachable at startup")

	return database.Open(url)
}
