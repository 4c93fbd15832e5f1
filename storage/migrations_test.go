package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrations(t *testing.T) {
	tempDir := t.TempDir()

	storage := NewSQLiteStorage(tempDir)
	err := storage.Initialize()
	if err != nil {
		t.Fatalf("Failed to initialize storage: %v", err)
	}
	defer storage.Close()

	version, err := storage.GetDatabaseVersion()
	if err != nil {
		t.Fatalf("Failed to get database version: %v", err)
	}

	if version < 2 {
		t.Errorf("Expected database version >= 2, got %d", version)
	}

	db, err := storage.GetDB()
	if err != nil {
		t.Fatalf("Failed to get database: %v", err)
	}

	for _, want := range []string{"movies", "series", "episodes"} {
		var tableName string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", want).Scan(&tableName)
		if err != nil {
			t.Fatalf("Table %s was not created: %v", want, err)
		}
	}

	// Running migrations again must be a no-op.
	err = storage.RunMigrations()
	if err != nil {
		t.Fatalf("Failed to run migrations again: %v", err)
	}

	newVersion, err := storage.GetDatabaseVersion()
	if err != nil {
		t.Fatalf("Failed to get database version after re-running migrations: %v", err)
	}

	if newVersion < version {
		t.Errorf("Database version went backwards: %d -> %d", version, newVersion)
	}
}

func TestMigrationManager(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	migrationManager := NewMigrationManager(db, DriverSQLite)
	err = migrationManager.Initialize()
	if err != nil {
		t.Fatalf("Failed to initialize migration manager: %v", err)
	}

	version, err := migrationManager.Version()
	if err != nil {
		t.Fatalf("Failed to get initial version: %v", err)
	}

	if version != 0 {
		t.Errorf("Expected initial version 0, got %d", version)
	}

	err = migrationManager.Up()
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	version, err = migrationManager.Version()
	if err != nil {
		t.Fatalf("Failed to get version after migrations: %v", err)
	}

	if version != 2 {
		t.Errorf("Expected version 2 after migrations, got %d", version)
	}

	// Rolling back the genre migration leaves the tables in place.
	err = migrationManager.Down()
	if err != nil {
		t.Fatalf("Failed to rollback migration: %v", err)
	}

	newVersion, err := migrationManager.Version()
	if err != nil {
		t.Fatalf("Failed to get version after rollback: %v", err)
	}

	if newVersion >= version {
		t.Errorf("Expected version to decrease after rollback: %d -> %d", version, newVersion)
	}

	if _, err := db.Exec("SELECT genre FROM movies"); err == nil {
		t.Errorf("Expected genre column to be dropped after rollback")
	}

	err = migrationManager.Reset()
	if err != nil {
		t.Fatalf("Failed to reset database: %v", err)
	}

	version, err = migrationManager.Version()
	if err != nil {
		t.Fatalf("Failed to get version after reset: %v", err)
	}
	if version != 0 {
		t.Errorf("Expected version 0 after reset, got %d", version)
	}
}
