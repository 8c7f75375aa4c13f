package cloudsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arenagm/companion/internal/game"
)

// FakeTimerHandle implements TimerHandle for testing.
type FakeTimerHandle struct {
	mu      sync.Mutex
	stopped bool
	onFire  func()
}

func (h *FakeTimerHandle) Stop() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	stopped := !h.stopped
	h.stopped = true
	return stopped
}

func (h *FakeTimerHandle) Fire() {
	h.mu.Lock()
	stopped := h.stopped
	onFire := h.onFire
	h.mu.Unlock()

	if !stopped && onFire != nil {
		onFire()
	}
}

// FakeTimerFactory creates fake timers for testing.
type FakeTimerFactory struct {
	mu      sync.Mutex
	handles []*FakeTimerHandle
}

func (f *FakeTimerFactory) AfterFunc() AfterFunc {
	return func(d time.Duration, fn func()) TimerHandle {
		h := &FakeTimerHandle{onFire: fn}
		f.mu.Lock()
		f.handles = append(f.handles, h)
		f.mu.Unlock()
		return h
	}
}

func (f *FakeTimerFactory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

func (f *FakeTimerFactory) LastHandle() *FakeTimerHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.handles) == 0 {
		return nil
	}
	return f.handles[len(f.handles)-1]
}

// MockSender implements Sender for testing.
type MockSender struct {
	mu     sync.Mutex
	pushes []*game.Session
	err    error
	pushCh chan struct{}
}

func NewMockSender() *MockSender {
	return &MockSender{pushCh: make(chan struct{}, 16)}
}

func (m *MockSender) Push(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	m.pushes = append(m.pushes, s)
	err := m.err
	m.mu.Unlock()

	select {
	case m.pushCh <- struct{}{}:
	default:
	}
	return err
}

func (m *MockSender) Pushes() []*game.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*game.Session(nil), m.pushes...)
}

func (m *MockSender) WaitForPush(t *testing.T) {
	t.Helper()
	select {
	case <-m.pushCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a push")
	}
}

func TestPusher_DebounceCoalescesBurst(t *testing.T) {
	factory := &FakeTimerFactory{}
	sender := NewMockSender()
	p := NewPusher(sender, WithAfterFunc(factory.AfterFunc()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	// Three rapid mutations: each reschedules, only the last survives.
	s1 := &game.Session{ID: "s", Name: "v1"}
	s2 := &game.Session{ID: "s", Name: "v2"}
	s3 := &game.Session{ID: "s", Name: "v3"}
	p.Schedule(s1)
	p.Schedule(s2)
	p.Schedule(s3)

	if factory.Count() != 3 {
		t.Fatalf("each Schedule should arm a fresh timer, got %d", factory.Count())
	}

	factory.LastHandle().Fire()
	sender.WaitForPush(t)

	pushes := sender.Pushes()
	if len(pushes) != 1 {
		t.Fatalf("burst should collapse into one push, got %d", len(pushes))
	}
	if pushes[0].Name != "v3" {
		t.Errorf("pushed %q, want the latest state v3", pushes[0].Name)
	}
}

func TestPusher_EarlierTimersAreDead(t *testing.T) {
	factory := &FakeTimerFactory{}
	sender := NewMockSender()
	p := NewPusher(sender, WithAfterFunc(factory.AfterFunc()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	p.Schedule(&game.Session{ID: "s", Name: "v1"})
	p.Schedule(&game.Session{ID: "s", Name: "v2"})

	// Firing the first (stopped) timer must not push anything.
	factory.mu.Lock()
	first := factory.handles[0]
	factory.mu.Unlock()
	first.Fire()

	time.Sleep(50 * time.Millisecond)
	if len(sender.Pushes()) != 0 {
		t.Error("a cancelled timer must not trigger a push")
	}
}

func TestPusher_NilCancelsPending(t *testing.T) {
	factory := &FakeTimerFactory{}
	sender := NewMockSender()
	p := NewPusher(sender, WithAfterFunc(factory.AfterFunc()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	p.Schedule(&game.Session{ID: "s"})
	if !p.Pending() {
		t.Fatal("schedule should leave a payload pending")
	}

	// Session cleared: nothing must reach the relay.
	p.Schedule(nil)
	if p.Pending() {
		t.Error("nil schedule should drop the pending payload")
	}

	factory.LastHandle().Fire()
	time.Sleep(50 * time.Millisecond)
	if len(sender.Pushes()) != 0 {
		t.Error("a cleared session must never be pushed")
	}
}

func TestPusher_FailedPushIsDropped(t *testing.T) {
	factory := &FakeTimerFactory{}
	sender := NewMockSender()
	sender.err = errors.New("relay unreachable")
	p := NewPusher(sender, WithAfterFunc(factory.AfterFunc()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	p.Schedule(&game.Session{ID: "s", Name: "v1"})
	factory.LastHandle().Fire()
	sender.WaitForPush(t)

	// No retry: one attempt, then silence until the next mutation.
	time.Sleep(50 * time.Millisecond)
	if got := len(sender.Pushes()); got != 1 {
		t.Errorf("failed push should not retry, got %d attempts", got)
	}
	if p.Pending() {
		t.Error("failed payload should not be re-queued")
	}

	// The next mutation pushes fine.
	sender.mu.Lock()
	sender.err = nil
	sender.mu.Unlock()

	p.Schedule(&game.Session{ID: "s", Name: "v2"})
	factory.LastHandle().Fire()
	sender.WaitForPush(t)

	pushes := sender.Pushes()
	if len(pushes) != 2 || pushes[1].Name != "v2" {
		t.Errorf("next mutation should push the newer state, got %d pushes", len(pushes))
	}
}

func TestPusher_StopFlushesPending(t *testing.T) {
	factory := &FakeTimerFactory{}
	sender := NewMockSender()
	p := NewPusher(sender, WithAfterFunc(factory.AfterFunc()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	// Pending payload whose timer never fires.
	p.Schedule(&game.Session{ID: "s", Name: "final"})

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	pushes := sender.Pushes()
	if len(pushes) != 1 || pushes[0].Name != "final" {
		t.Errorf("stop should best-effort flush the pending payload, got %d pushes", len(pushes))
	}
}

func TestPusher_StopIsIdempotent(t *testing.T) {
	p := NewPusher(NewMockSender())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()

	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestPusher_RealTimerEndToEnd(t *testing.T) {
	// One pass through the real time.AfterFunc path with a tiny window.
	sender := NewMockSender()
	p := NewPusher(sender, WithPushDebounce(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	p.Schedule(&game.Session{ID: "s", Name: "real"})
	sender.WaitForPush(t)

	pushes := sender.Pushes()
	if len(pushes) != 1 || pushes[0].Name != "real" {
		t.Errorf("unexpected pushes: %d", len(pushes))
	}
}
