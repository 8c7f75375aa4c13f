package cloudsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/arenagm/companion/internal/game"
)

// DefaultPollInterval is how often a player view polls the relay.
const DefaultPollInterval = 3 * time.Second

// SnapshotFunc receives each polled snapshot. A nil session means the
// relay has nothing yet; the consumer replaces its view wholesale either
// way.
type SnapshotFunc func(s *game.Session)

// Puller polls the relay's read endpoint on a fixed interval and hands
// whatever it receives to the snapshot callback. There is no push-based
// invalidation and no coupling to the writer's freshness.
type Puller struct {
	baseURL  string
	client   *http.Client
	interval time.Duration
	onSnap   SnapshotFunc
	logger   *slog.Logger

	// inFlight guards against overlapping requests: a tick is skipped
	// while the previous request is unresolved.
	inFlight atomic.Bool
}

// PullerOption configures a Puller.
type PullerOption func(*Puller)

// WithPollInterval sets the polling cadence.
func WithPollInterval(d time.Duration) PullerOption {
	return func(p *Puller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithPullerHTTPClient sets a custom HTTP client.
func WithPullerHTTPClient(client *http.Client) PullerOption {
	return func(p *Puller) { p.client = client }
}

// WithPullerLogger sets the logger.
func WithPullerLogger(logger *slog.Logger) PullerOption {
	return func(p *Puller) { p.logger = logger }
}

// NewPuller creates a Puller targeting the relay at baseURL.
func NewPuller(baseURL string, onSnap SnapshotFunc, opts ...PullerOption) *Puller {
	p := &Puller{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		interval: DefaultPollInterval,
		onSnap:   onSnap,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is cancelled. The first poll happens immediately.
// Poll failures are logged and the tick dropped; the next tick tries
// again with no backoff.
func (p *Puller) Run(ctx context.Context) {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Puller) poll(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("previous poll still in flight, skipping tick")
		return
	}
	defer p.inFlight.Store(false)

	s, err := p.FetchOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("poll failed", "error", err)
		return
	}

	if p.onSnap != nil {
		p.onSnap(s)
	}
}

// FetchOnce performs a single pull and returns the decoded session, or
// nil if the relay has none.
func (p *Puller) FetchOnce(ctx context.Context) (*game.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/session", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pull session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("pull session: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Session *game.Session `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return body.Session, nil
}
