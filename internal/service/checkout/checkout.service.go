package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"xtopay-checkout/internal/common/enum"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/helper"
	"xtopay-checkout/internal/pkg/logger"
	"xtopay-checkout/internal/pkg/merchant"
	otpService "xtopay-checkout/internal/service/otp"
	paymentService "xtopay-checkout/internal/service/payment"

	"github.com/google/uuid"
)

const detailsCachePrefix = "checkout:details:"

// Start creates a flow for one page view and resolves its session details.
// A details failure is terminal for the view: the method list is never
// offered until a fresh Start.
func (s *Service) Start(sessionID string) *types.Response {
	f := &flow{
		id:        uuid.NewString(),
		sessionID: sessionID,
		state:     enum.STATE_LOADING_DETAILS,
		createdAt: time.Now(),
	}

	details, err := s.loadDetails(sessionID)
	if err != nil {
		var detailsErr *types.DetailsError
		msg := "Failed to load payment details"
		if errors.As(err, &detailsErr) {
			msg = detailsErr.Message
		}
		f.state = enum.STATE_DETAILS_ERROR
		f.detailsErr = msg
	} else {
		f.details = details
		f.state = enum.STATE_SELECTING_METHOD
	}

	s.mu.Lock()
	s.flows[f.id] = f
	s.mu.Unlock()

	return helper.ParseResponse(&types.Response{
		Code: http.StatusCreated,
		Data: s.view(f),
	})
}

func (s *Service) loadDetails(sessionID string) (*merchant.CheckoutDetails, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(detailsCachePrefix + sessionID); err == nil {
			var details merchant.CheckoutDetails
			if jsonErr := json.Unmarshal([]byte(raw), &details); jsonErr == nil {
				return &details, nil
			}
		}
	}

	details, err := s.merchant.FetchDetails(s.ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(detailsCachePrefix+sessionID, details, s.config.DetailsCacheTTL); err != nil {
			logger.Warning.Printf("Failed to cache details for %s: %v", sessionID, err)
		}
	}

	return details, nil
}

func (s *Service) Get(flowID string) *types.Response {
	f, resp := s.find(flowID)
	if resp != nil {
		return resp
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(f)})
}

func (s *Service) SelectMethod(flowID string, method enum.PaymentMethodEnum) *types.Response {
	f, resp := s.find(flowID)
	if resp != nil {
		return resp
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != enum.STATE_SELECTING_METHOD {
		return s.conflict(f, "Method selection is not available in the current state")
	}
	if !method.IsValid() {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Unknown payment method",
			Error:   &types.ValidationError{Field: "method", Message: "Unknown payment method"},
		})
	}

	f.method = method
	f.state = enum.STATE_COLLECTING_DETAILS

	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(f)})
}

// Back returns to method selection from a form or the OTP panel. Session
// details survive; transient method state does not.
func (s *Service) Back(flowID string) *types.Response {
	f, resp := s.find(flowID)
	if resp != nil {
		return resp
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.busy {
		return s.conflict(f, "A request is in progress")
	}
	if f.state != enum.STATE_COLLECTING_DETAILS && f.state != enum.STATE_AWAITING_OTP {
		return s.conflict(f, "Nothing to go back from")
	}

	s.resetToSelection(f)
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(f)})
}

// Submit runs the selected method's form. Mobile money sends an OTP and
// waits for verification; card and wallet go straight to the simulated
// charge. Exactly one submission may be in flight per flow.
func (s *Service) Submit(flowID string, input *paymentService.MethodInput) *types.Response {
	f, resp := s.find(flowID)
	if resp != nil {
		return resp
	}

	f.mu.Lock()
	if f.state != enum.STATE_COLLECTING_DETAILS {
		defer f.mu.Unlock()
		return s.conflict(f, "No form is being collected")
	}
	if f.busy {
		defer f.mu.Unlock()
		return s.conflict(f, "A request is in progress")
	}

	method := f.method
	if err := s.payment.ValidateInput(method, input); err != nil {
		defer f.mu.Unlock()
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			Error:   err,
		})
	}

	f.busy = true
	details := *f.details
	f.mu.Unlock()

	if method == enum.METHOD_MOBILE_MONEY {
		return s.submitMomo(f, input)
	}
	return s.submitDirect(f, method, input, &details)
}

func (s *Service) submitMomo(f *flow, input *paymentService.MethodInput) *types.Response {
	sendResp := s.otp.Send(&otpService.SendRequest{PhoneNumber: input.PhoneNumber})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if f.state != enum.STATE_COLLECTING_DETAILS {
		// Flow moved on (closed or ended) while the send was in flight;
		// drop the result.
		return s.conflict(f, "Flow state changed")
	}

	if sendResp.Code >= http.StatusBadRequest {
		return sendResp
	}

	f.phone = input.PhoneNumber
	f.network = input.Network
	f.state = enum.STATE_AWAITING_OTP
	f.resendAt = time.Now().Add(s.config.ResendCooldown)

	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(f)})
}

func (s *Service) submitDirect(f *flow, method enum.PaymentMethodEnum, input *paymentService.MethodInput, details *merchant.CheckoutDetails) *types.Response {
	reference := input.AccountNumber
	if method == enum.METHOD_CARD {
		reference = helper.MaskPAN(input.CardNumber)
	} else {
		reference = helper.MaskPhone(reference)
	}

	view, err := s.payment.Charge(&paymentService.ChargeInput{
		SessionID:    f.sessionID,
		Method:       method,
		Reference:    reference,
		Amount:       details.Amount,
		Currency:     details.Currency,
		BusinessName: details.BusinessName,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		logger.Error.Printf("Charge failed for flow %s: %v", f.id, err)
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to process payment",
			Error:   err,
		})
	}

	if f.state != enum.STATE_COLLECTING_DETAILS {
		return s.conflict(f, "Flow state changed")
	}

	s.enterTerminal(f, view)
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(f)})
}

// VerifyOTP relays the code and, on success, runs the simulated charge.
func (s *Service) VerifyOTP(flowID, code string) *types.Response {
	f, resp := s.find(flowID)
	if resp != nil {
		return resp
	}

	f.mu.Lock()
	if f.state != enum.STATE_AWAITING_OTP {
		defer f.mu.Unlock()
		return s.conflict(f, "No OTP verification in progress")
	}
	if f.busy {
		defer f.mu.Unlock()
		return s.conflict(f, "A request is in progress")
	}
	f.busy = true
	phone := f.phone
	network := f.network
	details := *f.details
	f.mu.Unlock()

	verifyResp := s.otp.Verify(&otpService.VerifyRequest{Code: code, PhoneNumber: phone})
	if verifyResp.Code >= http.StatusBadRequest {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.busy = false
		return verifyResp
	}

	view, err := s.payment.Charge(&paymentService.ChargeInput{
		SessionID:    f.sessionID,
		Method:       enum.METHOD_MOBILE_MONEY,
		Network:      network,
		Reference:    helper.MaskPhone(phone),
		Amount:       details.Amount,
		Currency:     details.Currency,
		BusinessName: details.BusinessName,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		logger.Error.Printf("Charge failed for flow %s: %v", f.id, err)
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to process payment",
			Error:   err,
		})
	}

	if f.state != enum.STATE_AWAITING_OTP {
		return s.conflict(f, "Flow state changed")
	}

	s.enterTerminal(f, view)
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(f)})
}

// ResendOTP re-sends the code once the cool-down has elapsed and re-arms
// the window on every successful send. A failed resend leaves the window
// untouched.
func (s *Service) ResendOTP(flowID string) *types.Response {
	f, resp := s.find(flowID)
	if resp != nil {
		return resp
	}

	f.mu.Lock()
	if f.state != enum.STATE_AWAITING_OTP {
		defer f.mu.Unlock()
		return s.conflict(f, "No OTP verification in progress")
	}
	if remaining := time.Until(f.resendAt); remaining > 0 {
		defer f.mu.Unlock()
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusTooManyRequests,
			Message: "Please wait before requesting another code",
			Data:    map[string]any{"resend_available_in": int(remaining.Seconds()) + 1},
		})
	}
	if f.busy {
		defer f.mu.Unlock()
		return s.conflict(f, "A request is in progress")
	}
	f.busy = true
	phone := f.phone
	f.mu.Unlock()

	sendResp := s.otp.Send(&otpService.SendRequest{PhoneNumber: phone})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if sendResp.Code >= http.StatusBadRequest {
		return sendResp
	}

	if f.state == enum.STATE_AWAITING_OTP {
		f.resendAt = time.Now().Add(s.config.ResendCooldown)
	}

	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(f)})
}

// Retry re-enters the step that produced a failed outcome: the OTP panel
// for mobile money, the form otherwise. Success outcomes cannot be retried.
func (s *Service) Retry(flowID string) *types.Response {
	f, resp := s.find(flowID)
	if resp != nil {
		return resp
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != enum.STATE_TERMINAL || f.terminal == nil {
		return s.conflict(f, "Nothing to retry")
	}
	if f.terminal.Outcome == enum.OUTCOME_SUCCESS {
		return s.conflict(f, "Payment already completed")
	}

	s.cancelDismiss(f)
	f.terminal = nil
	if f.method == enum.METHOD_MOBILE_MONEY && f.phone != "" {
		f.state = enum.STATE_AWAITING_OTP
	} else {
		f.state = enum.STATE_COLLECTING_DETAILS
	}

	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(f)})
}

// Close dismisses the current panel and returns to method selection without
// refetching session details.
func (s *Service) Close(flowID string) *types.Response {
	f, resp := s.find(flowID)
	if resp != nil {
		return resp
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == enum.STATE_SELECTING_METHOD || f.state == enum.STATE_DETAILS_ERROR {
		return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(f)})
	}
	if f.busy {
		return s.conflict(f, "A request is in progress")
	}

	s.resetToSelection(f)
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(f)})
}

// End tears the flow down, cancelling pending timers so nothing fires after
// the page is gone.
func (s *Service) End(flowID string) *types.Response {
	s.mu.Lock()
	f, ok := s.flows[flowID]
	if ok {
		delete(s.flows, flowID)
	}
	s.mu.Unlock()

	if !ok {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "Flow not found",
		})
	}

	f.mu.Lock()
	s.cancelDismiss(f)
	f.state = enum.STATE_TERMINAL
	f.mu.Unlock()

	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Message: "Flow ended"})
}

/*----------- internals -----------*/

func (s *Service) find(flowID string) (*flow, *types.Response) {
	s.mu.RLock()
	f, ok := s.flows[flowID]
	s.mu.RUnlock()

	if !ok {
		return nil, helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "Flow not found",
		})
	}
	return f, nil
}

func (s *Service) conflict(f *flow, msg string) *types.Response {
	return helper.ParseResponse(&types.Response{
		Code:    http.StatusConflict,
		Message: msg,
		Data:    s.view(f),
	})
}

// enterTerminal shows the outcome panel and arms the auto-dismiss timer.
// Caller holds f.mu.
func (s *Service) enterTerminal(f *flow, view *paymentService.OutcomeView) {
	f.state = enum.STATE_TERMINAL
	f.terminal = view

	s.cancelDismiss(f)
	f.dismissTimer = time.AfterFunc(s.config.AutoDismiss, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.state == enum.STATE_TERMINAL {
			s.resetToSelection(f)
		}
	})
}

// resetToSelection returns the flow to the method list. Caller holds f.mu.
func (s *Service) resetToSelection(f *flow) {
	s.cancelDismiss(f)
	f.state = enum.STATE_SELECTING_METHOD
	f.method = ""
	f.network = ""
	f.phone = ""
	f.terminal = nil
	f.busy = false
	f.resendAt = time.Time{}
}

// cancelDismiss stops a pending auto-dismiss. Caller holds f.mu.
func (s *Service) cancelDismiss(f *flow) {
	if f.dismissTimer != nil {
		f.dismissTimer.Stop()
		f.dismissTimer = nil
	}
}

// view renders the flow for the page. Caller holds f.mu (or exclusively
// owns f, as in Start).
func (s *Service) view(f *flow) *FlowView {
	v := &FlowView{
		ID:           f.id,
		SessionID:    f.sessionID,
		State:        f.state,
		DetailsError: f.detailsErr,
		Method:       f.method,
		Busy:         f.busy,
		Terminal:     f.terminal,
	}

	if f.details != nil {
		v.Details = &DetailsView{
			Amount:          f.details.Amount,
			Currency:        f.details.Currency,
			FormattedAmount: helper.FormatAmount(f.details.Currency, f.details.Amount),
			BusinessName:    f.details.BusinessName,
			BusinessEmail:   f.details.BusinessEmail,
			LogoURL:         f.details.LogoURL,
		}
	}
	if f.method != "" {
		v.MethodComingSoon = f.method.IsPlaceholder()
	}
	if f.state == enum.STATE_AWAITING_OTP {
		if remaining := time.Until(f.resendAt); remaining > 0 {
			v.ResendAvailableIn = int(remaining.Seconds()) + 1
		}
	}

	return v
}
