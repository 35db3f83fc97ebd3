package kairos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	types "xtopay-checkout/internal/common/type"
)

func TestGenerateOTPSendsCredentialsAndPolicy(t *testing.T) {
	var gotKey, gotSecret string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/external/generate/otp" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotKey = r.Header.Get("x-api-key")
		gotSecret = r.Header.Get("x-api-secret")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"uniqueId":"u-1"}`))
	}))
	defer srv.Close()

	client := Setup(&Config{BaseURL: srv.URL, APIKey: "key-1", APISecret: "secret-1"})
	data, err := client.GenerateOTP(context.Background(), "0244123456")
	if err != nil {
		t.Fatalf("GenerateOTP: %v", err)
	}

	if gotKey != "key-1" || gotSecret != "secret-1" {
		t.Errorf("credentials = %q / %q", gotKey, gotSecret)
	}
	if gotBody["recipient"] != "0244123456" {
		t.Errorf("recipient = %v", gotBody["recipient"])
	}
	if gotBody["from"] != "Xtopay" {
		t.Errorf("from = %v", gotBody["from"])
	}
	if gotBody["pinLength"] != float64(4) || gotBody["pinType"] != "NUMERIC" {
		t.Errorf("pin policy = %v / %v", gotBody["pinLength"], gotBody["pinType"])
	}
	if gotBody["maxAmountOfValidationRetries"] != float64(3) {
		t.Errorf("maxAmountOfValidationRetries = %v", gotBody["maxAmountOfValidationRetries"])
	}
	expiry, _ := gotBody["expiry"].(map[string]any)
	if expiry["amount"] != float64(3) || expiry["duration"] != "minutes" {
		t.Errorf("expiry = %v", expiry)
	}
	if data["uniqueId"] != "u-1" {
		t.Errorf("data = %v", data)
	}
}

func TestValidateOTPForwardsCodeAndRecipient(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/external/validate/otp" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"valid":true}`))
	}))
	defer srv.Close()

	client := Setup(&Config{BaseURL: srv.URL})
	if _, err := client.ValidateOTP(context.Background(), "1234", "233244123456"); err != nil {
		t.Fatalf("ValidateOTP: %v", err)
	}

	if gotBody["code"] != "1234" || gotBody["recipient"] != "233244123456" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestVendorErrorCarriesStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := Setup(&Config{BaseURL: srv.URL})
	_, err := client.ValidateOTP(context.Background(), "1234", "233244123456")
	if err == nil {
		t.Fatal("expected error for 404")
	}

	var upstream *types.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error type = %T", err)
	}
	if upstream.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", upstream.StatusCode)
	}
}

func TestUnreachableVendorIsBadGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := Setup(&Config{BaseURL: srv.URL})
	_, err := client.GenerateOTP(context.Background(), "0244123456")

	var upstream *types.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error type = %T", err)
	}
	if upstream.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d", upstream.StatusCode)
	}
}
