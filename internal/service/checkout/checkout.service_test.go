package checkout

import (
	"context"
	"net/http"
	"testing"
	"time"
	"xtopay-checkout/internal/common/enum"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/merchant"
	otpService "xtopay-checkout/internal/service/otp"
	paymentService "xtopay-checkout/internal/service/payment"
)

type fakeMerchant struct {
	fetches int
	err     error
	details *merchant.CheckoutDetails
}

func (f *fakeMerchant) FetchDetails(_ context.Context, _ string) (*merchant.CheckoutDetails, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

type fakeOTP struct {
	sends      []string
	verifies   []string
	sendResp   *types.Response
	verifyResp *types.Response
}

func (f *fakeOTP) Send(req *otpService.SendRequest) *types.Response {
	f.sends = append(f.sends, req.PhoneNumber)
	if f.sendResp != nil {
		return f.sendResp
	}
	return &types.Response{Code: http.StatusOK, Message: "OTP sent successfully"}
}

func (f *fakeOTP) Verify(req *otpService.VerifyRequest) *types.Response {
	f.verifies = append(f.verifies, req.Code)
	if f.verifyResp != nil {
		return f.verifyResp
	}
	return &types.Response{Code: http.StatusOK, Message: "OTP verified successfully"}
}

type fakePayment struct {
	validateErr error
	chargeView  *paymentService.OutcomeView
	charges     []*paymentService.ChargeInput
}

func (f *fakePayment) ValidateInput(_ enum.PaymentMethodEnum, _ *paymentService.MethodInput) error {
	return f.validateErr
}

func (f *fakePayment) InitiateMomo(_ *paymentService.MomoInitiateRequest) *types.Response {
	return &types.Response{Code: http.StatusOK}
}

func (f *fakePayment) Charge(req *paymentService.ChargeInput) (*paymentService.OutcomeView, error) {
	f.charges = append(f.charges, req)
	if f.chargeView != nil {
		return f.chargeView, nil
	}
	return &paymentService.OutcomeView{
		Outcome:       enum.OUTCOME_SUCCESS,
		Title:         "Payment Successful",
		Action:        "Continue",
		TransactionID: "txn_test1234",
	}, nil
}

func (f *fakePayment) ListAttempts(_, _ string, _ int) *types.Response {
	return &types.Response{Code: http.StatusOK}
}

func testDetails() *merchant.CheckoutDetails {
	return &merchant.CheckoutDetails{Amount: 125.5, Currency: "GHS", BusinessName: "Acme Ltd"}
}

type testDeps struct {
	merchant *fakeMerchant
	otp      *fakeOTP
	payment  *fakePayment
}

func newTestService(t *testing.T, cfg *Config, deps *testDeps) IService {
	t.Helper()
	if deps.merchant == nil {
		deps.merchant = &fakeMerchant{details: testDetails()}
	}
	if deps.otp == nil {
		deps.otp = &fakeOTP{}
	}
	if deps.payment == nil {
		deps.payment = &fakePayment{}
	}
	return NewService(context.Background(), cfg, deps.merchant, nil, deps.otp, deps.payment)
}

func startFlow(t *testing.T, svc IService) *FlowView {
	t.Helper()
	resp := svc.Start("sess-1")
	if resp.Code != http.StatusCreated {
		t.Fatalf("Start code = %d", resp.Code)
	}
	view, ok := resp.Data.(*FlowView)
	if !ok {
		t.Fatalf("Start data type = %T", resp.Data)
	}
	return view
}

func flowView(t *testing.T, resp *types.Response) *FlowView {
	t.Helper()
	view, ok := resp.Data.(*FlowView)
	if !ok {
		t.Fatalf("data type = %T", resp.Data)
	}
	return view
}

func TestStartResolvesDetails(t *testing.T) {
	deps := &testDeps{}
	svc := newTestService(t, nil, deps)

	view := startFlow(t, svc)
	if view.State != enum.STATE_SELECTING_METHOD {
		t.Errorf("state = %s", view.State)
	}
	if view.Details == nil || view.Details.FormattedAmount != "GHS 125.50" {
		t.Errorf("details = %+v", view.Details)
	}
	if deps.merchant.fetches != 1 {
		t.Errorf("fetches = %d", deps.merchant.fetches)
	}
}

func TestDetailsFailureBlocksMethodSelection(t *testing.T) {
	deps := &testDeps{merchant: &fakeMerchant{err: &types.DetailsError{Message: "missing required payment details"}}}
	svc := newTestService(t, nil, deps)

	view := startFlow(t, svc)
	if view.State != enum.STATE_DETAILS_ERROR {
		t.Fatalf("state = %s", view.State)
	}
	if view.DetailsError != "missing required payment details" {
		t.Errorf("details error = %q", view.DetailsError)
	}

	resp := svc.SelectMethod(view.ID, enum.METHOD_CARD)
	if resp.Code != http.StatusConflict {
		t.Errorf("SelectMethod after details failure: code = %d, want 409", resp.Code)
	}
}

func TestMobileMoneyJourney(t *testing.T) {
	deps := &testDeps{}
	svc := newTestService(t, nil, deps)
	view := startFlow(t, svc)

	resp := svc.SelectMethod(view.ID, enum.METHOD_MOBILE_MONEY)
	if resp.Code != http.StatusOK {
		t.Fatalf("SelectMethod code = %d", resp.Code)
	}
	if flowView(t, resp).State != enum.STATE_COLLECTING_DETAILS {
		t.Fatalf("state after select = %s", flowView(t, resp).State)
	}

	resp = svc.Submit(view.ID, &paymentService.MethodInput{Network: enum.NETWORK_MOMO, PhoneNumber: "0244123456"})
	if resp.Code != http.StatusOK {
		t.Fatalf("Submit code = %d: %s", resp.Code, resp.Message)
	}
	submitted := flowView(t, resp)
	if submitted.State != enum.STATE_AWAITING_OTP {
		t.Fatalf("state after submit = %s", submitted.State)
	}
	if submitted.ResendAvailableIn <= 0 {
		t.Error("resend window must be armed after the first send")
	}
	if len(deps.otp.sends) != 1 || deps.otp.sends[0] != "0244123456" {
		t.Errorf("otp sends = %v", deps.otp.sends)
	}

	resp = svc.VerifyOTP(view.ID, "1234")
	if resp.Code != http.StatusOK {
		t.Fatalf("VerifyOTP code = %d", resp.Code)
	}
	verified := flowView(t, resp)
	if verified.State != enum.STATE_TERMINAL {
		t.Fatalf("state after verify = %s", verified.State)
	}
	if verified.Terminal == nil || verified.Terminal.Title != "Payment Successful" {
		t.Errorf("terminal = %+v", verified.Terminal)
	}
	if verified.Busy {
		t.Error("busy flag must be released after the charge")
	}

	if len(deps.payment.charges) != 1 {
		t.Fatalf("charges = %d", len(deps.payment.charges))
	}
	charge := deps.payment.charges[0]
	if charge.Method != enum.METHOD_MOBILE_MONEY || charge.Reference != "********56" {
		t.Errorf("charge = %+v", charge)
	}
	if charge.Amount != 125.5 || charge.BusinessName != "Acme Ltd" {
		t.Errorf("charge details = %+v", charge)
	}
}

func TestVerifyFailureKeepsOTPPanel(t *testing.T) {
	deps := &testDeps{otp: &fakeOTP{verifyResp: &types.Response{Code: http.StatusBadRequest, Message: "Invalid OTP code"}}}
	svc := newTestService(t, nil, deps)
	view := startFlow(t, svc)

	svc.SelectMethod(view.ID, enum.METHOD_MOBILE_MONEY)
	svc.Submit(view.ID, &paymentService.MethodInput{Network: enum.NETWORK_MOMO, PhoneNumber: "0244123456"})

	resp := svc.VerifyOTP(view.ID, "0000")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", resp.Code)
	}
	if len(deps.payment.charges) != 0 {
		t.Error("failed verification must not charge")
	}

	current := flowView(t, svc.Get(view.ID))
	if current.State != enum.STATE_AWAITING_OTP {
		t.Errorf("state = %s, want awaitingOTP", current.State)
	}
	if current.Busy {
		t.Error("busy flag must be released after a failed verify")
	}
}

func TestResendCooldown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResendCooldown = 50 * time.Millisecond
	deps := &testDeps{}
	svc := newTestService(t, cfg, deps)
	view := startFlow(t, svc)

	svc.SelectMethod(view.ID, enum.METHOD_MOBILE_MONEY)
	svc.Submit(view.ID, &paymentService.MethodInput{Network: enum.NETWORK_MOMO, PhoneNumber: "0244123456"})

	resp := svc.ResendOTP(view.ID)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("resend inside cooldown: code = %d, want 429", resp.Code)
	}
	payload, ok := resp.Data.(map[string]any)
	if !ok || payload["resend_available_in"] == nil {
		t.Errorf("429 payload = %v", resp.Data)
	}
	if len(deps.otp.sends) != 1 {
		t.Errorf("sends = %d, cooldown must block the vendor call", len(deps.otp.sends))
	}

	time.Sleep(80 * time.Millisecond)

	resp = svc.ResendOTP(view.ID)
	if resp.Code != http.StatusOK {
		t.Fatalf("resend after cooldown: code = %d", resp.Code)
	}
	if len(deps.otp.sends) != 2 {
		t.Errorf("sends = %d", len(deps.otp.sends))
	}
	if flowView(t, resp).ResendAvailableIn <= 0 {
		t.Error("cooldown window must be re-armed after a successful resend")
	}
}

func TestCardSubmitChargesDirectly(t *testing.T) {
	deps := &testDeps{}
	svc := newTestService(t, nil, deps)
	view := startFlow(t, svc)

	svc.SelectMethod(view.ID, enum.METHOD_CARD)
	resp := svc.Submit(view.ID, &paymentService.MethodInput{
		HolderName: "Ama Mensah",
		CardNumber: "4242 4242 4242 4242",
		Expiry:     "09/27",
		CVV:        "123",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Submit code = %d", resp.Code)
	}
	if flowView(t, resp).State != enum.STATE_TERMINAL {
		t.Fatalf("state = %s", flowView(t, resp).State)
	}

	if len(deps.otp.sends) != 0 {
		t.Error("card payments must not send an OTP")
	}
	if len(deps.payment.charges) != 1 || deps.payment.charges[0].Reference != "**** 4242" {
		t.Errorf("charges = %+v", deps.payment.charges)
	}
}

func TestSubmitValidationFailureKeepsForm(t *testing.T) {
	deps := &testDeps{payment: &fakePayment{validateErr: &types.ValidationError{Field: "cvv", Message: "Please enter a valid CVV"}}}
	svc := newTestService(t, nil, deps)
	view := startFlow(t, svc)

	svc.SelectMethod(view.ID, enum.METHOD_CARD)
	resp := svc.Submit(view.ID, &paymentService.MethodInput{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", resp.Code)
	}
	if len(deps.payment.charges) != 0 {
		t.Error("validation failure must not charge")
	}

	current := flowView(t, svc.Get(view.ID))
	if current.State != enum.STATE_COLLECTING_DETAILS {
		t.Errorf("state = %s, form must stay in place", current.State)
	}
	if current.Busy {
		t.Error("busy flag must not leak on validation failure")
	}
}

func TestAutoDismissReturnsToSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoDismiss = 30 * time.Millisecond
	deps := &testDeps{}
	svc := newTestService(t, cfg, deps)
	view := startFlow(t, svc)

	svc.SelectMethod(view.ID, enum.METHOD_CARD)
	svc.Submit(view.ID, &paymentService.MethodInput{HolderName: "A", CardNumber: "4242424242424242", Expiry: "09/27", CVV: "123"})

	time.Sleep(100 * time.Millisecond)

	current := flowView(t, svc.Get(view.ID))
	if current.State != enum.STATE_SELECTING_METHOD {
		t.Errorf("state = %s, want selectingMethod after auto-dismiss", current.State)
	}
	if current.Terminal != nil {
		t.Error("terminal panel must be cleared")
	}
	if deps.merchant.fetches != 1 {
		t.Errorf("fetches = %d, dismiss must not refetch details", deps.merchant.fetches)
	}
}

func TestRetryAfterFailedMomoCharge(t *testing.T) {
	deps := &testDeps{payment: &fakePayment{chargeView: &paymentService.OutcomeView{
		Outcome: enum.OUTCOME_FAILED,
		Title:   "Payment Failed",
		Action:  "Try Again",
	}}}
	svc := newTestService(t, nil, deps)
	view := startFlow(t, svc)

	svc.SelectMethod(view.ID, enum.METHOD_MOBILE_MONEY)
	svc.Submit(view.ID, &paymentService.MethodInput{Network: enum.NETWORK_MOMO, PhoneNumber: "0244123456"})
	svc.VerifyOTP(view.ID, "1234")

	resp := svc.Retry(view.ID)
	if resp.Code != http.StatusOK {
		t.Fatalf("Retry code = %d", resp.Code)
	}
	if flowView(t, resp).State != enum.STATE_AWAITING_OTP {
		t.Errorf("state = %s, momo retry must return to the OTP panel", flowView(t, resp).State)
	}
}

func TestRetryRejectedAfterSuccess(t *testing.T) {
	deps := &testDeps{}
	svc := newTestService(t, nil, deps)
	view := startFlow(t, svc)

	svc.SelectMethod(view.ID, enum.METHOD_CARD)
	svc.Submit(view.ID, &paymentService.MethodInput{HolderName: "A", CardNumber: "4242424242424242", Expiry: "09/27", CVV: "123"})

	resp := svc.Retry(view.ID)
	if resp.Code != http.StatusConflict {
		t.Errorf("Retry after success: code = %d, want 409", resp.Code)
	}
}

func TestCloseReturnsToSelectionWithoutRefetch(t *testing.T) {
	deps := &testDeps{}
	svc := newTestService(t, nil, deps)
	view := startFlow(t, svc)

	svc.SelectMethod(view.ID, enum.METHOD_WALLET)
	resp := svc.Close(view.ID)
	if resp.Code != http.StatusOK {
		t.Fatalf("Close code = %d", resp.Code)
	}

	current := flowView(t, resp)
	if current.State != enum.STATE_SELECTING_METHOD {
		t.Errorf("state = %s", current.State)
	}
	if current.Details == nil {
		t.Error("details must survive a close")
	}
	if deps.merchant.fetches != 1 {
		t.Errorf("fetches = %d, close must not refetch", deps.merchant.fetches)
	}
}

func TestBackFromOTPClearsMethodState(t *testing.T) {
	deps := &testDeps{}
	svc := newTestService(t, nil, deps)
	view := startFlow(t, svc)

	svc.SelectMethod(view.ID, enum.METHOD_MOBILE_MONEY)
	svc.Submit(view.ID, &paymentService.MethodInput{Network: enum.NETWORK_MOMO, PhoneNumber: "0244123456"})

	resp := svc.Back(view.ID)
	if resp.Code != http.StatusOK {
		t.Fatalf("Back code = %d", resp.Code)
	}
	current := flowView(t, resp)
	if current.State != enum.STATE_SELECTING_METHOD || current.Method != "" {
		t.Errorf("view after back = %+v", current)
	}
}

func TestEndRemovesFlow(t *testing.T) {
	deps := &testDeps{}
	svc := newTestService(t, nil, deps)
	view := startFlow(t, svc)

	resp := svc.End(view.ID)
	if resp.Code != http.StatusOK {
		t.Fatalf("End code = %d", resp.Code)
	}

	if resp := svc.Get(view.ID); resp.Code != http.StatusNotFound {
		t.Errorf("Get after end: code = %d, want 404", resp.Code)
	}
	if resp := svc.End(view.ID); resp.Code != http.StatusNotFound {
		t.Errorf("double End: code = %d, want 404", resp.Code)
	}
}

func TestPlaceholderMethodSelectable(t *testing.T) {
	deps := &testDeps{}
	svc := newTestService(t, nil, deps)
	view := startFlow(t, svc)

	resp := svc.SelectMethod(view.ID, enum.METHOD_ECEDI)
	if resp.Code != http.StatusOK {
		t.Fatalf("SelectMethod code = %d", resp.Code)
	}
	if !flowView(t, resp).MethodComingSoon {
		t.Error("eCedi must be flagged as coming soon")
	}
}
