// Package main provides the entry point for the Arena GM Companion daemon.
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

	"github.com/arenagm/companion/internal/api"
	"github.com/arenagm/companion/internal/appinfo"
	"github.com/arenagm/companion/internal/cloudsync"
	"github.com/arenagm/companion/internal/config"
	"github.com/arenagm/companion/internal/localstore"
	"github.com/arenagm/companion/internal/session"
	"github.com/arenagm/companion/internal/singleinstance"
	"github.com/arenagm/companion/internal/version"
)

func main() {
	// 1. Single instance check (Windows: mutex, other: no-op)
	release, ok, err := singleinstance.AcquireLock()
	if err != nil {
		log.Fatalf("Failed to acquire lock: %v", err)
	}
	if !ok {
		log.Println("Another instance is already running")
		os.Exit(1)
	}
	defer release()

	// 2. Load configuration (corrupt config falls back to defaults with warning).
	// .env is optional and only read if present in the working directory.
	_ = godotenv.Load()
	cfg, _ := config.LoadConfig()
	cfg = config.ApplyEnvOverrides(cfg)

	secrets, secretsStatus, err := config.LoadSecrets()
	if err != nil {
		log.Printf("Warning: %v", err)
	}

	// 3. Ensure LAN auth credentials if LAN mode is enabled
	updated, generatedPw, err := config.EnsureLanAuth(&secrets, cfg.LanEnabled)
	if err != nil {
		log.Fatalf("Failed to ensure LAN auth: %v", err)
	}

	// Only save if loaded successfully or file was missing (prevent overwrite on fallback)
	if updated && secretsStatus != config.SecretsFallback {
		if err := config.SaveSecrets(secrets); err != nil {
			log.Fatalf("Failed to save secrets: %v", err)
		}
		if generatedPw != "" {
			// Write password to file instead of logging
			pwPath, err := config.WritePasswordFile(secrets.BasicAuthUsername, generatedPw)
			if err != nil {
				log.Printf("Warning: failed to write password file: %v", err)
				// Fallback to log output if file write fails
				log.Println("=== GENERATED BASIC AUTH CREDENTIALS ===")
				log.Printf("Username: %s", secrets.BasicAuthUsername)
				log.Printf("Password: %s", generatedPw)
				log.Println("=========================================")
			} else {
				log.Println("=== BASIC AUTH CREDENTIALS GENERATED ===")
				log.Printf("Credentials saved to: %s", pwPath)
				log.Println("Delete this file after saving the credentials!")
				log.Println("=========================================")
			}
		}
	} else if updated && secretsStatus == config.SecretsFallback {
		log.Println("WARNING: Secrets file has errors; new credentials not saved to avoid data loss")
		log.Println("Please fix or delete secrets.json and restart")
	}

	// 4. Parse flags (port can override config)
	port := flag.Int("port", cfg.Port, "HTTP server port")
	flag.Parse()

	// 5. Open the local document store
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		log.Fatalf("Failed to ensure data directory: %v", err)
	}
	dbPath := filepath.Join(dataDir, appinfo.DatabaseFileName)
	db, err := localstore.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// 6. Create cancellable context for background workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 7. Wire the cloud pusher if a relay is configured
	var pusher *cloudsync.Pusher
	if cfg.RelayURL != "" {
		sender := cloudsync.NewHTTPSender(cfg.RelayURL)
		pusher = cloudsync.NewPusher(sender,
			cloudsync.WithPushDebounce(time.Duration(cfg.PushDebounceMs)*time.Millisecond),
		)
		go pusher.Run(ctx)
		log.Printf("Relay replication enabled: %s", cfg.RelayURL)
	} else {
		log.Println("Relay URL not configured, replication disabled")
	}

	// 8. Create the session store; every mutation feeds the pusher
	storeOpts := []session.StoreOption{session.WithSaver(db)}
	if pusher != nil {
		storeOpts = append(storeOpts, session.WithOnChange(pusher.Schedule))
	}
	store := session.NewStore(storeOpts...)

	// 9. Load the persisted session, if any
	if err := store.Hydrate(ctx); err != nil {
		log.Printf("Warning: hydration failed: %v", err)
	}
	if store.HasSession() {
		log.Println("Restored previous session")
	}

	// 10. Determine bind address
	host := "127.0.0.1"
	if cfg.LanEnabled {
		host = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", host, *port)

	// Build server options
	serverOpts := []api.ServerOption{
		api.WithVersion(version.String()),
	}

	// Enable Basic Auth and rate limiting for LAN mode
	if cfg.LanEnabled {
		serverOpts = append(serverOpts,
			api.WithBasicAuth(secrets.BasicAuthUsername, secrets.BasicAuthPassword.Value()),
			api.WithRateLimiter(api.NewRateLimiter(api.DefaultRateLimiterConfig())),
		)
		log.Println("Basic Auth enabled for LAN mode")
	}

	server := api.NewServer(addr, store, serverOpts...)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Error channel for server errors
	errCh := make(chan error, 1)

	go func() {
		log.Printf("Starting %s v%s on %s", appinfo.AppName, version.String(), addr)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case <-done:
		log.Println("Shutting down...")
	case err := <-errCh:
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}

	// Cancel background workers first
	cancel()

	// Stop pusher gracefully (best-effort flush of the pending snapshot)
	if pusher != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := pusher.Stop(stopCtx); err != nil {
			log.Printf("Pusher stop error: %v", err)
		}
		stopCancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
