package otp

import (
	"context"
	"net/http"
	"testing"
	types "xtopay-checkout/internal/common/type"
)

type fakeKairos struct {
	generateCalls []string
	validateCalls [][2]string
	generateErr   error
	validateErr   error
}

func (f *fakeKairos) GenerateOTP(_ context.Context, recipient string) (map[string]any, error) {
	f.generateCalls = append(f.generateCalls, recipient)
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return map[string]any{"uniqueId": "abc"}, nil
}

func (f *fakeKairos) ValidateOTP(_ context.Context, code, recipient string) (map[string]any, error) {
	f.validateCalls = append(f.validateCalls, [2]string{code, recipient})
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return map[string]any{"valid": true}, nil
}

func newTestService(k *fakeKairos) IService {
	return NewService(context.Background(), k)
}

func TestSendRejectsMissingPhone(t *testing.T) {
	k := &fakeKairos{}
	resp := newTestService(k).Send(&SendRequest{})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", resp.Code)
	}
	if resp.Message != "Phone number is required" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(k.generateCalls) != 0 {
		t.Error("vendor must not be called on validation failure")
	}
}

func TestSendRejectsInvalidPhone(t *testing.T) {
	k := &fakeKairos{}
	resp := newTestService(k).Send(&SendRequest{PhoneNumber: "123456"})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", resp.Code)
	}
	if resp.Message != "Please enter a valid Ghanaian phone number" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(k.generateCalls) != 0 {
		t.Error("vendor must not be called on validation failure")
	}
}

func TestSendForwardsValidPhone(t *testing.T) {
	k := &fakeKairos{}
	resp := newTestService(k).Send(&SendRequest{PhoneNumber: "0244123456"})

	if resp.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", resp.Code)
	}
	if resp.Message != "OTP sent successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(k.generateCalls) != 1 || k.generateCalls[0] != "0244123456" {
		t.Errorf("generate calls = %v", k.generateCalls)
	}
}

func TestSendHoldsNoDedupState(t *testing.T) {
	k := &fakeKairos{}
	svc := newTestService(k)

	svc.Send(&SendRequest{PhoneNumber: "0244123456"})
	svc.Send(&SendRequest{PhoneNumber: "0244123456"})

	if len(k.generateCalls) != 2 {
		t.Errorf("expected two independent vendor calls, got %d", len(k.generateCalls))
	}
}

func TestSendMapsVendorFailureToGenericError(t *testing.T) {
	k := &fakeKairos{generateErr: &types.UpstreamError{StatusCode: 503, Message: "down"}}
	resp := newTestService(k).Send(&SendRequest{PhoneNumber: "0244123456"})

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", resp.Code)
	}
	if resp.Message != "Failed to send OTP. Please try again." {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestVerifyRejectsShortCodeBeforeVendorCall(t *testing.T) {
	k := &fakeKairos{}
	resp := newTestService(k).Verify(&VerifyRequest{Code: "12", PhoneNumber: "0244123456"})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", resp.Code)
	}
	if resp.Message != "Invalid verification code format" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(k.validateCalls) != 0 {
		t.Error("vendor must not be called for a malformed code")
	}
}

func TestVerifyRejectsInvalidPhone(t *testing.T) {
	k := &fakeKairos{}
	resp := newTestService(k).Verify(&VerifyRequest{Code: "1234", PhoneNumber: "123456"})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("code = %d, want 400", resp.Code)
	}
	if resp.Message != "Invalid phone number format" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(k.validateCalls) != 0 {
		t.Error("vendor must not be called for a malformed phone")
	}
}

func TestVerifyNormalizesPhoneBeforeForwarding(t *testing.T) {
	k := &fakeKairos{}
	resp := newTestService(k).Verify(&VerifyRequest{Code: "1234", PhoneNumber: "0244123456"})

	if resp.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", resp.Code)
	}
	if len(k.validateCalls) != 1 {
		t.Fatalf("validate calls = %d", len(k.validateCalls))
	}
	if k.validateCalls[0][1] != "233244123456" {
		t.Errorf("recipient = %s, want international format", k.validateCalls[0][1])
	}
}

func TestVerifyMapsVendorStatuses(t *testing.T) {
	cases := []struct {
		vendorStatus int
		wantCode     int
		wantMessage  string
	}{
		{http.StatusBadRequest, http.StatusBadRequest, "Invalid OTP code"},
		{http.StatusNotFound, http.StatusNotFound, "OTP expired or not found"},
		{http.StatusServiceUnavailable, http.StatusInternalServerError, "Failed to verify OTP"},
	}

	for _, tc := range cases {
		k := &fakeKairos{validateErr: &types.UpstreamError{StatusCode: tc.vendorStatus, Message: "vendor"}}
		resp := newTestService(k).Verify(&VerifyRequest{Code: "1234", PhoneNumber: "0244123456"})

		if resp.Code != tc.wantCode {
			t.Errorf("vendor %d: code = %d, want %d", tc.vendorStatus, resp.Code, tc.wantCode)
		}
		if resp.Message != tc.wantMessage {
			t.Errorf("vendor %d: message = %q, want %q", tc.vendorStatus, resp.Message, tc.wantMessage)
		}
	}
}
