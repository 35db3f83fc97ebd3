package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"
	"xtopay-checkout/internal/pkg/logger"
)

const signatureHeader = "X-Xtopay-Signature"

type Config struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

// Sender delivers outcome events to the merchant's webhook endpoint, signed
// with HMAC-SHA256 over the raw body.
type Sender struct {
	config *Config
	http   *http.Client
}

func Setup(cfg *Config) *Sender {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Sender{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *Sender) Enabled() bool {
	return s.config.URL != ""
}

// Sign computes the hex HMAC-SHA256 signature for a payload.
func (s *Sender) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(s.config.Secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Send posts the payload to the configured URL. A non-2xx response is an
// error so the caller's retry policy applies.
func (s *Sender) Send(ctx context.Context, payload []byte) error {
	if !s.Enabled() {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signatureHeader, s.Sign(payload))

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned HTTP %d", resp.StatusCode)
	}

	logger.Debug.Printf("Webhook delivered to %s", s.config.URL)
	return nil
}
