package main

import (
	"cine-catalog/api"
	"cine-catalog/config"
	"cine-catalog/storage"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Cine Catalog API...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	store, err := storage.New(cfg.DBDriver, cfg.DataPath, cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to create storage: %v", err)
	}
	if err := store.Initialize(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	displayDatabaseStats(store)

	app := api.NewApp(cfg, store)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			log.Printf("HTTP server stopped: %v", err)
			select {
			case quit <- syscall.SIGTERM:
			default:
			}
		}
	}()
	log.Printf("HTTP listening on :%s", cfg.HTTPPort)

	sig := <-quit
	log.Printf("Received signal %s, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Application exiting")
}

// displayDatabaseStats logs record counts at startup.
func displayDatabaseStats(db *storage.SQLStorage) {
	stats, err := db.GetStats(context.Background())
	if err != nil {
		log.Printf("Error getting database stats: %v", err)
		return
	}

	log.Printf("Catalog: %d movies, %d series, %d episodes", stats["movies"], stats["series"], stats["episodes"])
}
