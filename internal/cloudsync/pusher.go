package cloudsync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/arenagm/companion/internal/game"
)

// DefaultPushDebounce is the delay between a mutation and its upload.
// Another mutation inside the window restarts the timer, so only the
// latest state within a burst is actually sent.
const DefaultPushDebounce = 500 * time.Millisecond

// Pusher replicates the session to the relay after local mutations.
// It keeps a single-slot "latest pending payload" rather than a queue:
// replication is whole-document last-writer-wins, so intermediate states
// carry no information.
//
// A failed push is dropped; the next mutation's push carries the latest
// state anyway. There is no retry with backoff.
type Pusher struct {
	sender    Sender
	afterFunc AfterFunc
	delay     time.Duration
	logger    *slog.Logger

	flushCh chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}

	// internal state (protected by mu)
	mu      sync.Mutex
	pending *game.Session
	timer   TimerHandle

	stopOnce sync.Once
}

// PusherOption configures a Pusher.
type PusherOption func(*Pusher)

// WithAfterFunc sets the timer function (for testing).
func WithAfterFunc(af AfterFunc) PusherOption {
	return func(p *Pusher) { p.afterFunc = af }
}

// WithPushDebounce sets the debounce window.
func WithPushDebounce(d time.Duration) PusherOption {
	return func(p *Pusher) {
		if d > 0 {
			p.delay = d
		}
	}
}

// WithPusherLogger sets the logger.
func WithPusherLogger(logger *slog.Logger) PusherOption {
	return func(p *Pusher) { p.logger = logger }
}

// NewPusher creates a Pusher. Call Run to start the upload loop.
func NewPusher(sender Sender, opts ...PusherOption) *Pusher {
	p := &Pusher{
		sender:    sender,
		afterFunc: DefaultAfterFunc,
		delay:     DefaultPushDebounce,
		logger:    slog.Default(),
		flushCh:   make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Schedule records s as the latest payload and (re)starts the debounce
// timer. A nil session cancels any pending upload: a cleared session is
// never pushed. Safe to call from any goroutine; this is the store's
// change hook.
func (p *Pusher) Schedule(s *game.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	if s == nil {
		p.pending = nil
		return
	}

	p.pending = s
	p.timer = p.afterFunc(p.delay, p.triggerFlush)
}

func (p *Pusher) triggerFlush() {
	select {
	case p.flushCh <- struct{}{}:
	default:
	}
}

// Run starts the upload loop. Blocks until Stop is called or ctx is
// cancelled.
func (p *Pusher) Run(ctx context.Context) {
	defer close(p.doneCh)

	for {
		select {
		case <-p.flushCh:
			p.flush(ctx)

		case <-p.stopCh:
			// Best-effort flush of whatever is pending
			p.flush(ctx)
			return

		case <-ctx.Done():
			p.flush(context.Background())
			return
		}
	}
}

func (p *Pusher) flush(ctx context.Context) {
	p.mu.Lock()
	s := p.pending
	p.pending = nil
	p.timer = nil
	p.mu.Unlock()

	if s == nil {
		return
	}

	if err := p.sender.Push(ctx, s); err != nil {
		// Dropped on purpose; the next mutation carries newer state.
		p.logger.Warn("session push failed", "session_id", s.ID, "error", err)
	}
}

// Stop stops the pusher after a best-effort final flush. Waits for the
// run loop to finish or until ctx is cancelled. Safe to call multiple
// times.
func (p *Pusher) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})

	select {
	case <-p.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports whether an upload is waiting (for testing).
func (p *Pusher) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}
