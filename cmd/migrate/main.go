package main

import (
	"taskagotchi/internal/config" // Configuration
	"taskagotchi/internal/db"     // Database

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if err := db.SeedCatalog(gdb); err != nil {
		logrus.Fatalf("catalog seed failed: %v", err)
	}
	logrus.WithField("driver", cfg.DBDriver).Info("Migration and catalog seed complete")
}
