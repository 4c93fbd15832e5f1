package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"cine-catalog/catalog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// SQLStorage persists the catalog in SQLite or MySQL through database/sql.
type SQLStorage struct {
	db       *sql.DB
	driver   string
	dsn      string
	dataPath string
}

type StorageInterface interface {
	Ping(ctx context.Context) error

	CreateMovie(ctx context.Context, m catalog.Movie) (catalog.Movie, error)
	GetMovie(ctx context.Context, id int64) (catalog.Movie, error)
	ListMovies(ctx context.Context, f catalog.Filter) ([]catalog.Movie, error)
	UpdateMovie(ctx context.Context, id int64, in catalog.MovieInput) (catalog.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error

	CreateSerie(ctx context.Context, s catalog.Serie) (catalog.Serie, error)
	GetSerie(ctx context.Context, id int64) (catalog.Serie, error)
	ListSeries(ctx context.Context, f catalog.Filter) ([]catalog.Serie, error)
	UpdateSerie(ctx context.Context, id int64, in catalog.SerieInput) (catalog.Serie, error)
	DeleteSerie(ctx context.Context, id int64) error

	CreateEpisode(ctx context.Context, e catalog.Episode) (catalog.Episode, error)
	GetEpisode(ctx context.Context, id int64) (catalog.Episode, error)
	ListEpisodes(ctx context.Context, serieID int64) ([]catalog.Episode, error)
	UpdateEpisode(ctx context.Context, id int64, in catalog.EpisodeInput) (catalog.Episode, error)
	DeleteEpisode(ctx context.Context, id int64) error

	Close() error
}

var _ StorageInterface = (*SQLStorage)(nil)

// New returns an uninitialized storage for the given driver.
func New(driver, dataPath, dsn string) (*SQLStorage, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteStorage(dataPath), nil
	case DriverMySQL:
		if dsn == "" {
			return nil, errors.New("mysql driver requires a DSN")
		}
		return NewMySQLStorage(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}
}

func NewSQLiteStorage(dataPath string) *SQLStorage {
	dbPath := filepath.Join(dataPath, "cine_catalog.db")
	return &SQLStorage{
		driver:   DriverSQLite,
		dsn:      dbPath + "?_foreign_keys=on&_busy_timeout=5000",
		dataPath: dataPath,
	}
}

func NewMySQLStorage(dsn string) *SQLStorage {
	return &SQLStorage{
		driver: DriverMySQL,
		dsn:    dsn,
	}
}

func (s *SQLStorage) Driver() string {
	return s.driver
}

// Open connects to the database without touching the schema.
func (s *SQLStorage) Open() error {
	if s.driver == DriverSQLite {
		if err := os.MkdirAll(s.dataPath, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	_, err := s.GetDB()
	return err
}

// Initialize opens the database and applies pending migrations.
func (s *SQLStorage) Initialize() error {
	if err := s.Open(); err != nil {
		return err
	}

	migrationManager := NewMigrationManager(s.db, s.driver)
	if err := migrationManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if err := migrationManager.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Printf("%s database initialized", s.driver)
	return nil
}

func (s *SQLStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLStorage) GetDB() (*sql.DB, error) {
	if s.db == nil {
		db, err := sql.Open(s.driver, s.dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if s.driver == DriverSQLite {
			// One writer at a time keeps SQLite from returning SQLITE_BUSY.
			db.SetMaxOpenConns(1)
		}
		s.db = db
	}
	return s.db, nil
}

func (s *SQLStorage) Ping(ctx context.Context) error {
	if s.db == nil {
		return &catalog.StorageError{Op: "ping database", Err: errors.New("database not initialized")}
	}
	if err := s.db.PingContext(ctx); err != nil {
		return &catalog.StorageError{Op: "ping database", Err: err}
	}
	return nil
}

func (s *SQLStorage) GetStats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)

	for _, table := range []string{"movies", "series", "episodes"} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to get %s count: %w", table, err)
		}
		stats[table] = n
	}
	stats["total"] = stats["movies"] + stats["series"]

	return stats, nil
}

// forUpdate locks the selected row on engines that support row locks.
func (s *SQLStorage) forUpdate() string {
	if s.driver == DriverMySQL {
		return " FOR UPDATE"
	}
	return ""
}

// withTx runs fn in a transaction. Domain errors pass through untouched and
// everything else is reported as a StorageError for op.
func (s *SQLStorage) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &catalog.StorageError{Op: op, Err: err}
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return storageError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return &catalog.StorageError{Op: op, Err: err}
	}
	return nil
}

func storageError(op string, err error) error {
	var verr *catalog.ValidationError
	var serr *catalog.StorageError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrNotFound), errors.As(err, &verr), errors.As(err, &serr):
		return err
	default:
		return &catalog.StorageError{Op: op, Err: err}
	}
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, catalog.ErrNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// Migration management methods
func (s *SQLStorage) GetMigrationManager() *MigrationManager {
	return NewMigrationManager(s.db, s.driver)
}

func (s *SQLStorage) GetDatabaseVersion() (int64, error) {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return 0, err
	}
	return migrationManager.Version()
}

func (s *SQLStorage) RunMigrations() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Up()
}

func (s *SQLStorage) RollbackMigration() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Down()
}

func (s *SQLStorage) ResetDatabase() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Reset()
}
