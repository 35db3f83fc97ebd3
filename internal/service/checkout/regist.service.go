package checkout

import (
	"context"
	"sync"
	"time"
	"xtopay-checkout/internal/common/enum"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/merchant"
	"xtopay-checkout/internal/pkg/redis"
	otpService "xtopay-checkout/internal/service/otp"
	paymentService "xtopay-checkout/internal/service/payment"
)

// Config carries the flow timers so tests can shorten them.
type Config struct {
	ResendCooldown  time.Duration
	AutoDismiss     time.Duration
	DetailsCacheTTL time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		ResendCooldown:  30 * time.Second,
		AutoDismiss:     10 * time.Second,
		DetailsCacheTTL: 5 * time.Minute,
	}
}

// flow is the server-held state for one checkout page view. All access goes
// through the owning service with the flow's mutex held.
type flow struct {
	mu         sync.Mutex
	id         string
	sessionID  string
	state      enum.FlowStateEnum
	details    *merchant.CheckoutDetails
	detailsErr string

	method  enum.PaymentMethodEnum
	network enum.MomoNetworkEnum
	phone   string

	busy         bool
	resendAt     time.Time
	terminal     *paymentService.OutcomeView
	dismissTimer *time.Timer
	createdAt    time.Time
}

type Service struct {
	ctx      context.Context
	config   *Config
	merchant merchant.IMerchant
	cache    redis.IRedis
	otp      otpService.IService
	payment  paymentService.IService

	mu    sync.RWMutex
	flows map[string]*flow
}

type IService interface {
	Start(sessionID string) *types.Response
	Get(flowID string) *types.Response
	SelectMethod(flowID string, method enum.PaymentMethodEnum) *types.Response
	Back(flowID string) *types.Response
	Submit(flowID string, input *paymentService.MethodInput) *types.Response
	VerifyOTP(flowID, code string) *types.Response
	ResendOTP(flowID string) *types.Response
	Retry(flowID string) *types.Response
	Close(flowID string) *types.Response
	End(flowID string) *types.Response
}

// NewService builds the checkout orchestrator. cache may be nil, in which
// case every Start fetches details from the merchant API.
func NewService(ctx context.Context, cfg *Config, merchantClient merchant.IMerchant, cache redis.IRedis, otp otpService.IService, payment paymentService.IService) IService {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Service{
		ctx:      ctx,
		config:   cfg,
		merchant: merchantClient,
		cache:    cache,
		otp:      otp,
		payment:  payment,
		flows:    make(map[string]*flow),
	}
}

// Request/Response DTOs

type StartRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type SelectMethodRequest struct {
	Method enum.PaymentMethodEnum `json:"method" binding:"required,enum"`
}

type VerifyOTPRequest struct {
	Code string `json:"code" binding:"required,otp_code"`
}

// FlowView is the orchestrator state as rendered to the page.
type FlowView struct {
	ID                string                      `json:"id"`
	SessionID         string                      `json:"session_id"`
	State             enum.FlowStateEnum          `json:"state"`
	Details           *DetailsView                `json:"details,omitempty"`
	DetailsError      string                      `json:"details_error,omitempty"`
	Method            enum.PaymentMethodEnum      `json:"method,omitempty"`
	MethodComingSoon  bool                        `json:"method_coming_soon,omitempty"`
	Busy              bool                        `json:"busy"`
	ResendAvailableIn int                         `json:"resend_available_in,omitempty"`
	Terminal          *paymentService.OutcomeView `json:"terminal,omitempty"`
}

type DetailsView struct {
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	FormattedAmount string  `json:"formatted_amount"`
	BusinessName    string  `json:"business_name"`
	BusinessEmail   string  `json:"business_email,omitempty"`
	LogoURL         string  `json:"logo_url,omitempty"`
}
