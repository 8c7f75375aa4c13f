//go:build integration

// Package integration provides end-to-end tests wiring the GM companion,
// the relay, and the player view sync path over real HTTP and SQLite.
package integration

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/arenagm/companion/internal/api"
	"github.com/arenagm/companion/internal/cloudsync"
	"github.com/arenagm/companion/internal/localstore"
	"github.com/arenagm/companion/internal/relay"
	"github.com/arenagm/companion/internal/session"
)

// TestRelay is a relay server backed by a real SQLite store, exposed
// over httptest.
type TestRelay struct {
	Server *httptest.Server
	Store  *relay.Store
}

// NewTestRelay starts a relay over a temp database. Cleanup is registered
// on t.
func NewTestRelay(t *testing.T) *TestRelay {
	t.Helper()

	st, err := relay.Open(filepath.Join(t.TempDir(), "relay.sqlite"))
	if err != nil {
		t.Fatalf("open relay store: %v", err)
	}
	srv := relay.NewServer("127.0.0.1:0", st)
	ts := httptest.NewServer(srv.Handler())

	t.Cleanup(func() {
		ts.Close()
		st.Close()
	})
	return &TestRelay{Server: ts, Store: st}
}

// TestApp is a full GM companion: API server, session store, local
// persistence, and a pusher wired to a relay.
type TestApp struct {
	Server *httptest.Server
	Store  *session.Store
	Pusher *cloudsync.Pusher
}

type testAppConfig struct {
	relayURL     string
	pushDebounce time.Duration
	authEnabled  bool
	username     string
	password     string
}

// TestAppOption configures a TestApp.
type TestAppOption func(*testAppConfig)

// WithRelay points the app's pusher at a relay base URL.
func WithRelay(url string) TestAppOption {
	return func(cfg *testAppConfig) { cfg.relayURL = url }
}

// WithAuth enables basic auth on the app's API.
func WithAuth(username, password string) TestAppOption {
	return func(cfg *testAppConfig) {
		cfg.authEnabled = true
		cfg.username = username
		cfg.password = password
	}
}

// NewTestApp creates a GM companion with all dependencies wired up.
// Cleanup is registered on t.
func NewTestApp(t *testing.T, opts ...TestAppOption) *TestApp {
	t.Helper()

	cfg := &testAppConfig{pushDebounce: 20 * time.Millisecond}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := localstore.Open(filepath.Join(t.TempDir(), "companion.sqlite"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}

	app := &TestApp{}
	storeOpts := []session.StoreOption{session.WithSaver(db)}

	ctx, cancel := context.WithCancel(context.Background())
	if cfg.relayURL != "" {
		sender := cloudsync.NewHTTPSender(cfg.relayURL)
		app.Pusher = cloudsync.NewPusher(sender, cloudsync.WithPushDebounce(cfg.pushDebounce))
		go app.Pusher.Run(ctx)
		storeOpts = append(storeOpts, session.WithOnChange(app.Pusher.Schedule))
	}

	app.Store = session.NewStore(storeOpts...)
	if err := app.Store.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	serverOpts := []api.ServerOption{}
	if cfg.authEnabled {
		serverOpts = append(serverOpts, api.WithBasicAuth(cfg.username, cfg.password))
	}
	apiSrv := api.NewServer("127.0.0.1:0", app.Store, serverOpts...)
	app.Server = httptest.NewServer(apiSrv.Handler())

	t.Cleanup(func() {
		app.Server.Close()
		if app.Pusher != nil {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
			app.Pusher.Stop(stopCtx)
			stopCancel()
		}
		cancel()
		db.Close()
	})
	return app
}

// URL returns the app's API base URL.
func (a *TestApp) URL() string {
	return a.Server.URL
}
