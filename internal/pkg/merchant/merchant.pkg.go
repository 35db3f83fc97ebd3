package merchant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/logger"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type IMerchant interface {
	FetchDetails(ctx context.Context, sessionID string) (*CheckoutDetails, error)
}

// MerchantClient reads checkout session details from the merchant API. The
// API owns the data; this client only normalizes and validates the shape.
type MerchantClient struct {
	config *Config
	http   *http.Client
}

func Setup(cfg *Config) *MerchantClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &MerchantClient{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
	}
}

// CheckoutDetails is the merchant display data for one session id.
type CheckoutDetails struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	BusinessName  string  `json:"businessName"`
	BusinessEmail string  `json:"businessEmail,omitempty"`
	LogoURL       string  `json:"logoUrl,omitempty"`
}

type detailsEnvelope struct {
	Data *struct {
		Amount        json.Number `json:"amount"`
		Currency      string      `json:"currency"`
		BusinessName  string      `json:"businessName"`
		BusinessEmail string      `json:"businessEmail"`
		LogoURL       string      `json:"logoUrl"`
	} `json:"data"`
}

// FetchDetails issues the single read for a page view. Any failure is a
// DetailsError: the caller must render an error state and must not proceed
// to method selection.
func (m *MerchantClient) FetchDetails(ctx context.Context, sessionID string) (*CheckoutDetails, error) {
	url := fmt.Sprintf("%s/checkout/details/%s", m.config.BaseURL, sessionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &types.DetailsError{Message: "failed to build details request", Err: err}
	}

	resp, err := m.http.Do(req)
	if err != nil {
		logger.Error.Printf("checkout details fetch for %s failed: %v", sessionID, err)
		return nil, &types.DetailsError{Message: "failed to load payment details", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.DetailsError{Message: "failed to read payment details", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.DetailsError{Message: fmt.Sprintf("details API returned HTTP %d", resp.StatusCode)}
	}

	var envelope detailsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &types.DetailsError{Message: "invalid details response", Err: err}
	}
	if envelope.Data == nil {
		return nil, &types.DetailsError{Message: "invalid response structure - missing data"}
	}
	if envelope.Data.Amount == "" || envelope.Data.BusinessName == "" {
		return nil, &types.DetailsError{Message: "missing required payment details"}
	}

	amount, err := envelope.Data.Amount.Float64()
	if err != nil {
		return nil, &types.DetailsError{Message: "invalid amount format", Err: err}
	}

	currency := envelope.Data.Currency
	if currency == "" {
		currency = "GHS"
	}

	return &CheckoutDetails{
		Amount:        amount,
		Currency:      currency,
		BusinessName:  envelope.Data.BusinessName,
		BusinessEmail: envelope.Data.BusinessEmail,
		LogoURL:       envelope.Data.LogoURL,
	}, nil
}
