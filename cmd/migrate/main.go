package main

import (
	"cine-catalog/storage"
	"fmt"
	"log"

	"github.com/alecthomas/kong"
	_ "github.com/joho/godotenv/autoload"
)

type cli struct {
	Data   string `help:"Path to the SQLite database directory." default:"./data" env:"DATA_PATH"`
	Driver string `help:"Database driver." enum:"sqlite3,mysql" default:"sqlite3" env:"DB_DRIVER"`
	DSN    string `help:"MySQL DSN, required with --driver=mysql." env:"MYSQL_DSN"`

	Up      upCmd      `cmd:"" default:"1" help:"Apply all pending migrations."`
	Down    downCmd    `cmd:"" help:"Roll back the latest migration."`
	Status  statusCmd  `cmd:"" help:"Print the status of every migration."`
	Version versionCmd `cmd:"" help:"Print the current schema version."`
	Reset   resetCmd   `cmd:"" help:"Roll back all migrations."`
}

type upCmd struct{}

func (upCmd) Run(s *storage.SQLStorage) error {
	if err := s.RunMigrations(); err != nil {
		return err
	}
	fmt.Println("Migrations completed successfully")
	return nil
}

type downCmd struct{}

func (downCmd) Run(s *storage.SQLStorage) error {
	if err := s.RollbackMigration(); err != nil {
		return err
	}
	fmt.Println("Migration rolled back successfully")
	return nil
}

type statusCmd struct{}

func (statusCmd) Run(s *storage.SQLStorage) error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Status()
}

type versionCmd struct{}

func (versionCmd) Run(s *storage.SQLStorage) error {
	version, err := s.GetDatabaseVersion()
	if err != nil {
		return err
	}
	fmt.Printf("Database version: %d\n", version)
	return nil
}

type resetCmd struct{}

func (resetCmd) Run(s *storage.SQLStorage) error {
	if err := s.ResetDatabase(); err != nil {
		return err
	}
	fmt.Println("Database reset completed successfully")
	return nil
}

func main() {
	var args cli
	ctx := kong.Parse(&args,
		kong.Name("migrate"),
		kong.Description("Manage the cine-catalog database schema."),
		kong.UsageOnError(),
	)

	s, err := storage.New(args.Driver, args.Data, args.DSN)
	if err != nil {
		log.Fatalf("Failed to create storage: %v", err)
	}
	// Open without migrating so status and down see the real state.
	if err := s.Open(); err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	ctx.FatalIfErrorf(ctx.Run(s))
}
