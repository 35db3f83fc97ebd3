package kairos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/logger"
)

const (
	defaultBaseURL = "https://api.kairosafrika.com/v1"

	// Send template: these are the vendor-side policies for every code we
	// request. Expiry and attempt counting are enforced by the vendor, not
	// locally.
	pinLength      = 4
	expiryMinutes  = 3
	maxRetries     = 3
	senderID       = "Xtopay"
	messageWording = "Your verification code is {code}, it expires in {amount} {duration}"
)

type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

type IKairos interface {
	GenerateOTP(ctx context.Context, recipient string) (map[string]any, error)
	ValidateOTP(ctx context.Context, code, recipient string) (map[string]any, error)
}

// KairosClient talks to the Kairos OTP vendor. It holds no per-request
// state; the vendor is the sole source of truth for code validity and
// attempt counts.
type KairosClient struct {
	config *Config
	http   *http.Client
}

func Setup(cfg *Config) *KairosClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &KairosClient{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Recipient string       `json:"recipient"`
	From      string       `json:"from"`
	Message   string       `json:"message"`
	PinLength int          `json:"pinLength"`
	PinType   string       `json:"pinType"`
	Expiry    expiryPolicy `json:"expiry"`
	MaxRetry  int          `json:"maxAmountOfValidationRetries"`
}

type expiryPolicy struct {
	Amount   int    `json:"amount"`
	Duration string `json:"duration"`
}

type validateRequest struct {
	Code      string `json:"code"`
	Recipient string `json:"recipient"`
}

// GenerateOTP asks the vendor to issue a 4-digit numeric code to recipient.
// Returns the vendor's response body on success.
func (k *KairosClient) GenerateOTP(ctx context.Context, recipient string) (map[string]any, error) {
	body := generateRequest{
		Recipient: recipient,
		From:      senderID,
		Message:   messageWording,
		PinLength: pinLength,
		PinType:   "NUMERIC",
		Expiry:    expiryPolicy{Amount: expiryMinutes, Duration: "minutes"},
		MaxRetry:  maxRetries,
	}

	return k.post(ctx, "/external/generate/otp", body)
}

// ValidateOTP forwards a code/recipient pair to the vendor's validate
// endpoint. The recipient must already be in international format.
func (k *KairosClient) ValidateOTP(ctx context.Context, code, recipient string) (map[string]any, error) {
	return k.post(ctx, "/external/validate/otp", validateRequest{Code: code, Recipient: recipient})
}

func (k *KairosClient) post(ctx context.Context, path string, payload any) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode kairos request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.config.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to build kairos request: %w", err)
	}
	req.Header.Set("x-api-key", k.config.APIKey)
	req.Header.Set("x-api-secret", k.config.APISecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.http.Do(req)
	if err != nil {
		logger.Error.Printf("kairos request to %s failed: %v", path, err)
		return nil, &types.UpstreamError{StatusCode: http.StatusBadGateway, Message: "OTP vendor unreachable", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.UpstreamError{StatusCode: resp.StatusCode, Message: "failed to read OTP vendor response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warning.Printf("kairos %s returned %d: %s", path, resp.StatusCode, string(data))
		return nil, &types.UpstreamError{StatusCode: resp.StatusCode, Message: "OTP vendor request unsuccessful"}
	}

	var parsed map[string]any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, &types.UpstreamError{StatusCode: resp.StatusCode, Message: "unexpected OTP vendor response shape", Err: err}
		}
	}

	return parsed, nil
}
