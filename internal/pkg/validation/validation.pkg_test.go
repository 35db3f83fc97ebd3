package validation

import (
	"testing"
	checkoutService "xtopay-checkout/internal/service/checkout"

	"github.com/gin-gonic/gin/binding"
)

func setupBinding(t *testing.T) {
	t.Helper()
	if err := Setup(); err != nil {
		t.Fatalf("Setup() error: %v", err)
	}
}

func TestMethodBindingRejectsUnknownMethod(t *testing.T) {
	setupBinding(t)

	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"card", `{"method":"card"}`, false},
		{"mobile money", `{"method":"mobileMoney"}`, false},
		{"unknown method", `{"method":"cheque"}`, true},
		{"missing method", `{}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req checkoutService.SelectMethodRequest
			err := binding.JSON.BindBody([]byte(tc.body), &req)
			if (err != nil) != tc.wantErr {
				t.Errorf("BindBody(%s) error = %v, wantErr %v", tc.body, err, tc.wantErr)
			}
		})
	}
}

func TestVerifyCodeBindingEnforcesFormat(t *testing.T) {
	setupBinding(t)

	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"four digits", `{"code":"1234"}`, false},
		{"letters", `{"code":"12a4"}`, true},
		{"too long", `{"code":"12345"}`, true},
		{"missing code", `{}`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req checkoutService.VerifyOTPRequest
			err := binding.JSON.BindBody([]byte(tc.body), &req)
			if (err != nil) != tc.wantErr {
				t.Errorf("BindBody(%s) error = %v, wantErr %v", tc.body, err, tc.wantErr)
			}
		})
	}
}
