// Package main provides the entry point for the session relay server.
// The relay accepts session snapshots pushed by the GM daemon and serves
// the latest one to read-only player views.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/arenagm/companion/internal/appinfo"
	"github.com/arenagm/companion/internal/config"
	"github.com/arenagm/companion/internal/relay"
	"github.com/arenagm/companion/internal/version"
)

func main() {
	// .env is optional and only read if present in the working directory.
	_ = godotenv.Load()
	cfg, _ := config.LoadConfig()
	cfg = config.ApplyEnvOverrides(cfg)

	port := flag.Int("port", cfg.RelayPort, "HTTP server port")
	dbFlag := flag.String("db", "", "session database path (default: data dir)")
	flag.Parse()

	dbPath := *dbFlag
	if dbPath == "" {
		dataDir, err := config.EnsureDataDir()
		if err != nil {
			log.Fatalf("Failed to ensure data directory: %v", err)
		}
		dbPath = filepath.Join(dataDir, appinfo.RelayDatabaseFileName)
	}

	store, err := relay.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open session database: %v", err)
	}
	defer store.Close()

	// The relay always binds all interfaces; it exists to be reachable.
	addr := fmt.Sprintf("0.0.0.0:%d", *port)
	server := relay.NewServer(addr, store)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)

	go func() {
		log.Printf("Starting %s relay v%s on %s", appinfo.AppName, version.String(), addr)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-done:
		log.Println("Shutting down...")
	case err := <-errCh:
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
