package payment

import (
	"context"
	"xtopay-checkout/internal/common/enum"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/gateway"
	"xtopay-checkout/internal/pkg/rabbitmq"
	"xtopay-checkout/internal/repository"
)

// OutcomeQueue carries terminal outcomes to the webhook worker.
const OutcomeQueue = "checkout:outcome"

type IPublisher interface {
	Publish(queueName, pattern string, msg *rabbitmq.Message) error
}

type Service struct {
	ctx       context.Context
	rp        repository.IRepository
	gateway   gateway.IGateway
	publisher IPublisher
}

type IService interface {
	ValidateInput(method enum.PaymentMethodEnum, input *MethodInput) error
	InitiateMomo(req *MomoInitiateRequest) *types.Response
	Charge(req *ChargeInput) (*OutcomeView, error)
	ListAttempts(sessionID, cursor string, limit int) *types.Response
}

// NewService wires the per-method validators, the simulated gateway and the
// attempt ledger. publisher may be nil when outcome events are disabled.
func NewService(ctx context.Context, rp repository.IRepository, gw gateway.IGateway, publisher IPublisher) IService {
	return &Service{
		ctx:       ctx,
		rp:        rp,
		gateway:   gw,
		publisher: publisher,
	}
}

// Request/Response DTOs

// MethodInput is the union of per-method form fields. Only the fields for
// the selected method are read.
type MethodInput struct {
	// Card
	HolderName string `json:"holder_name"`
	CardNumber string `json:"card_number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	// Mobile money
	Network     enum.MomoNetworkEnum `json:"network"`
	PhoneNumber string               `json:"phone_number"`
	// Wallet
	Provider      string `json:"provider"`
	AccountNumber string `json:"account_number"`
}

type MomoInitiateRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Network     string `json:"network"`
	OTP         string `json:"otp"`
}

type MomoInitiateResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
}

type ChargeInput struct {
	SessionID    string
	Method       enum.PaymentMethodEnum
	Network      enum.MomoNetworkEnum
	Reference    string
	Amount       float64
	Currency     string
	BusinessName string
}

// OutcomeView is the terminal status panel content.
type OutcomeView struct {
	Outcome       enum.OutcomeEnum `json:"outcome"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Action        string           `json:"action"`
	TransactionID string           `json:"transaction_id,omitempty"`
	AttemptID     string           `json:"attempt_id,omitempty"`
}

// AttemptPage is one page of a session's attempt history.
type AttemptPage struct {
	Attempts   []AttemptView `json:"attempts"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type AttemptView struct {
	ID              string  `json:"id"`
	SessionID       string  `json:"session_id"`
	Method          string  `json:"method"`
	Network         string  `json:"network,omitempty"`
	MaskedReference string  `json:"masked_reference"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
	Outcome         string  `json:"outcome,omitempty"`
	TransactionID   string  `json:"transaction_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// OutcomeEvent is the message body published to OutcomeQueue.
type OutcomeEvent struct {
	AttemptID     string  `json:"attempt_id"`
	SessionID     string  `json:"session_id"`
	Method        string  `json:"method"`
	Outcome       string  `json:"outcome"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	BusinessName  string  `json:"business_name"`
	TransactionID string  `json:"transaction_id,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}
