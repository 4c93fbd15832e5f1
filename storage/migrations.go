package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"log"
	"path"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var embedMigrations embed.FS

// MigrationManager applies the embedded schema migrations for one SQL dialect.
type MigrationManager struct {
	db      *sql.DB
	dialect string
}

func NewMigrationManager(db *sql.DB, dialect string) *MigrationManager {
	return &MigrationManager{db: db, dialect: dialect}
}

func (m *MigrationManager) dir() string {
	return path.Join("migrations", m.dialect)
}

func (m *MigrationManager) Initialize() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return nil
}

func (m *MigrationManager) Up() error {
	if err := goose.Up(m.db, m.dir()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed successfully")
	return nil
}

func (m *MigrationManager) Down() error {
	if err := goose.Down(m.db, m.dir()); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	log.Println("Database migration rolled back successfully")
	return nil
}

func (m *MigrationManager) Status() error {
	if err := goose.Status(m.db, m.dir()); err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	return nil
}

func (m *MigrationManager) Version() (int64, error) {
	version, err := goose.GetDBVersion(m.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get database version: %w", err)
	}
	return version, nil
}

func (m *MigrationManager) Reset() error {
	if err := goose.Reset(m.db, m.dir()); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	log.Println("Database reset completed successfully")
	return nil
}
