package cloudsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/arenagm/companion/internal/game"
)

// Sender abstracts the upload of a session snapshot for testing.
type Sender interface {
	// Push uploads the whole session document. The relay upserts by
	// session id, last writer wins.
	Push(ctx context.Context, s *game.Session) error
}

// HTTPSender pushes sessions to the relay's POST /api/session endpoint.
type HTTPSender struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// SenderOption configures an HTTPSender.
type SenderOption func(*HTTPSender)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) SenderOption {
	return func(s *HTTPSender) { s.client = client }
}

// WithSenderLogger sets the logger.
func WithSenderLogger(logger *slog.Logger) SenderOption {
	return func(s *HTTPSender) { s.logger = logger }
}

// NewHTTPSender creates a sender targeting the relay at baseURL.
func NewHTTPSender(baseURL string, opts ...SenderOption) *HTTPSender {
	s := &HTTPSender{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push implements Sender.
func (s *HTTPSender) Push(ctx context.Context, sess *game.Session) error {
	body, err := json.Marshal(map[string]*game.Session{"session": sess})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/session", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("push session: %w", err)
	}
	defer resp.Body.Close()

	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push session: unexpected status %d", resp.StatusCode)
	}

	s.logger.Debug("session pushed", "session_id", sess.ID, "status", resp.StatusCode)
	return nil
}
