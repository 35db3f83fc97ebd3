package payment

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"
	"xtopay-checkout/internal/common/enum"
	"xtopay-checkout/internal/common/models"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/gateway"
	"xtopay-checkout/internal/pkg/helper"
	"xtopay-checkout/internal/pkg/logger"
	"xtopay-checkout/internal/pkg/rabbitmq"
	paymentRepo "xtopay-checkout/internal/repository/payment"

	"github.com/samber/lo"
)

var (
	cardNumberRegex    = regexp.MustCompile(`^\d{13,19}$`)
	cardExpiryRegex    = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVRegex       = regexp.MustCompile(`^\d{3,4}$`)
	walletXtopayRegex  = regexp.MustCompile(`^\d{8}$`)
	walletGenericRegex = regexp.MustCompile(`^0\d{9}$`)
)

// ValidateInput applies the selected method's form rules. A nil return means
// the form may signal "initiated"; any failure keeps the form in place and no
// network call is made. Placeholder methods never validate.
func (s *Service) ValidateInput(method enum.PaymentMethodEnum, input *MethodInput) error {
	if method.IsPlaceholder() {
		return &types.ValidationError{Field: "method", Message: fmt.Sprintf("%s is coming soon", method.ToString())}
	}

	switch method {
	case enum.METHOD_CARD:
		return s.validateCard(input)
	case enum.METHOD_MOBILE_MONEY:
		return s.validateMomo(input)
	case enum.METHOD_WALLET:
		return s.validateWallet(input)
	}
	return &types.ValidationError{Field: "method", Message: "Unknown payment method"}
}

func (s *Service) validateCard(input *MethodInput) error {
	if input.HolderName == "" {
		return &types.ValidationError{Field: "holder_name", Message: "Cardholder name is required"}
	}
	if !cardNumberRegex.MatchString(helper.StripCardSpaces(input.CardNumber)) {
		return &types.ValidationError{Field: "card_number", Message: "Please enter a valid card number"}
	}
	if !cardExpiryRegex.MatchString(input.Expiry) {
		return &types.ValidationError{Field: "expiry", Message: "Expiry must be in MM/YY format"}
	}
	if !cardCVVRegex.MatchString(input.CVV) {
		return &types.ValidationError{Field: "cvv", Message: "Please enter a valid CVV"}
	}
	return nil
}

func (s *Service) validateMomo(input *MethodInput) error {
	if !input.Network.IsValid() {
		return &types.ValidationError{Field: "network", Message: "Please select a mobile money network"}
	}
	if input.PhoneNumber == "" {
		return &types.ValidationError{Field: "phone_number", Message: "Phone number is required"}
	}
	if helper.DigitsOnly(input.PhoneNumber) != input.PhoneNumber {
		return &types.ValidationError{Field: "phone_number", Message: "Phone number must contain digits only"}
	}
	return nil
}

func (s *Service) validateWallet(input *MethodInput) error {
	if input.Provider == "Xtopay" {
		if !walletXtopayRegex.MatchString(input.AccountNumber) {
			return &types.ValidationError{Field: "account_number", Message: "Please enter a valid 8-digit Xtopay account number"}
		}
		return nil
	}
	if !walletGenericRegex.MatchString(input.AccountNumber) {
		return &types.ValidationError{Field: "account_number", Message: "Please enter a valid 10-digit phone number starting with 0"}
	}
	return nil
}

// InitiateMomo keeps the original wire contract of the simulated momo
// initiation endpoint: required-field check, then a simulated charge. The
// attempt is recorded even though no session details are known at this layer.
func (s *Service) InitiateMomo(req *MomoInitiateRequest) *types.Response {
	if req.PhoneNumber == "" || req.Network == "" || req.OTP == "" {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Missing required fields",
			Error:   &types.ValidationError{Field: "phoneNumber", Message: "Missing required fields"},
		})
	}

	result, err := s.gateway.Charge(s.ctx, &gateway.ChargeRequest{
		Method:    enum.METHOD_MOBILE_MONEY,
		Reference: helper.MaskPhone(req.PhoneNumber),
	})
	if err != nil {
		logger.Error.Printf("Simulated momo charge failed: %v", err)
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
			Error:   err,
		})
	}

	if result.Outcome != enum.OUTCOME_SUCCESS {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Payment failed - OTP verification unsuccessful",
			Data:    MomoInitiateResponse{Success: false, Message: "Payment failed - OTP verification unsuccessful"},
			Error:   fmt.Errorf("simulated outcome: %s", result.Outcome.ToString()),
		})
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: result.Message,
		Data: MomoInitiateResponse{
			Success:       true,
			Message:       "Payment completed successfully",
			TransactionID: result.TransactionID,
		},
	})
}

// Charge records a pending attempt, runs the simulated gateway, persists the
// terminal outcome and publishes it for webhook delivery. The returned view
// is what the status panel renders.
func (s *Service) Charge(req *ChargeInput) (*OutcomeView, error) {
	attempt := &models.PaymentAttempt{
		SessionID:       req.SessionID,
		Method:          req.Method,
		Network:         req.Network.ToString(),
		MaskedReference: req.Reference,
		Amount:          req.Amount,
		Currency:        req.Currency,
		BusinessName:    req.BusinessName,
		Status:          "pending",
	}
	if err := s.rp.Payment.Create(s.ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	result, err := s.gateway.Charge(s.ctx, &gateway.ChargeRequest{
		SessionID: req.SessionID,
		Method:    req.Method,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Reference: req.Reference,
	})
	if err != nil {
		s.completeAttempt(attempt.ID, "error", "", err.Error(), "")
		return nil, fmt.Errorf("gateway charge failed: %w", err)
	}

	failureReason := ""
	if result.Outcome != enum.OUTCOME_SUCCESS {
		failureReason = result.Message
	}
	s.completeAttempt(attempt.ID, "completed", result.Outcome.ToString(), failureReason, result.TransactionID)

	s.publishOutcome(attempt.ID, req, result)

	view := presentOutcome(result.Outcome)
	view.TransactionID = result.TransactionID
	view.AttemptID = attempt.ID
	return view, nil
}

func (s *Service) completeAttempt(id, status, outcome, failureReason, transactionID string) {
	now := time.Now()
	updates := map[string]any{
		"status":       status,
		"completed_at": &now,
	}
	if outcome != "" {
		updates["outcome"] = outcome
	}
	if failureReason != "" {
		updates["failure_reason"] = failureReason
	}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	if err := s.rp.Payment.UpdateStatus(s.ctx, id, updates); err != nil {
		logger.Error.Printf("Failed to update attempt %s: %v", id, err)
	}
}

func (s *Service) publishOutcome(attemptID string, req *ChargeInput, result *gateway.ChargeResult) {
	if s.publisher == nil {
		return
	}

	event := OutcomeEvent{
		AttemptID:     attemptID,
		SessionID:     req.SessionID,
		Method:        req.Method.ToString(),
		Outcome:       result.Outcome.ToString(),
		Amount:        req.Amount,
		Currency:      req.Currency,
		BusinessName:  req.BusinessName,
		TransactionID: result.TransactionID,
		OccurredAt:    time.Now().Format(time.RFC3339),
	}

	msg, err := rabbitmq.NewMessage(event, nil)
	if err != nil {
		logger.Error.Printf("Failed to build outcome event: %v", err)
		return
	}
	if err := s.publisher.Publish(OutcomeQueue, "checkout.outcome", msg); err != nil {
		logger.Error.Printf("Failed to publish outcome event for attempt %s: %v", attemptID, err)
	}
}

// ListAttempts pages through a session's attempt history, newest first. An
// invalid cursor is a client error; limits are clamped to [1, 100].
func (s *Service) ListAttempts(sessionID, cursor string, limit int) *types.Response {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	attempts, next, err := s.rp.Payment.ListPage(s.ctx, sessionID, limit, cursor)
	if err != nil {
		code := http.StatusInternalServerError
		msg := "Failed to list attempts"
		if errors.Is(err, paymentRepo.ErrInvalidCursor) {
			code = http.StatusBadRequest
			msg = "Invalid cursor"
		}
		return helper.ParseResponse(&types.Response{
			Code:    code,
			Message: msg,
			Error:   err,
		})
	}

	views := lo.Map(attempts, func(a models.PaymentAttempt, _ int) AttemptView {
		return AttemptView{
			ID:              a.ID,
			SessionID:       a.SessionID,
			Method:          a.Method.ToString(),
			Network:         a.Network,
			MaskedReference: a.MaskedReference,
			Amount:          a.Amount,
			Currency:        a.Currency,
			Status:          a.Status,
			Outcome:         a.Outcome,
			TransactionID:   a.TransactionID,
			CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		}
	})

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: AttemptPage{Attempts: views, NextCursor: next},
	})
}

// presentOutcome maps a terminal outcome to its status panel content.
func presentOutcome(outcome enum.OutcomeEnum) *OutcomeView {
	switch outcome {
	case enum.OUTCOME_SUCCESS:
		return &OutcomeView{
			Outcome:     outcome,
			Title:       "Payment Successful",
			Description: "Your payment has been processed successfully.",
			Action:      "Continue",
		}
	case enum.OUTCOME_INSUFFICIENT:
		return &OutcomeView{
			Outcome:     outcome,
			Title:       "Insufficient Funds",
			Description: "Your account balance is too low to complete this payment.",
			Action:      "Add Funds",
		}
	default:
		return &OutcomeView{
			Outcome:     enum.OUTCOME_FAILED,
			Title:       "Payment Failed",
			Description: "Your payment could not be completed. Please try again.",
			Action:      "Try Again",
		}
	}
}
