package embed

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func newTestService() IService {
	return NewService(context.Background(), "https://checkout.xtopay.com")
}

func openSession(t *testing.T) (IService, OpenResponse) {
	t.Helper()
	svc := newTestService()
	resp := svc.Open(&OpenRequest{
		PublicKey: "pk_test_123",
		Reference: "ref-001",
		Amount:    125.5,
		Customer:  Customer{Name: "Ama Mensah", Email: "ama@example.com"},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Open code = %d", resp.Code)
	}
	body, ok := resp.Data.(OpenResponse)
	if !ok {
		t.Fatalf("data type = %T", resp.Data)
	}
	return svc, body
}

func TestOpenBuildsCheckoutURL(t *testing.T) {
	_, body := openSession(t)

	if body.ID == "" || body.Token == "" || body.ExpiresAt == "" {
		t.Errorf("response = %+v", body)
	}
	if !strings.HasPrefix(body.CheckoutURL, "https://checkout.xtopay.com/pay/pk_test_123/ref-001?") {
		t.Errorf("checkout url = %s", body.CheckoutURL)
	}
	for _, param := range []string{"amount=125.50", "currency=GHS", "email=ama%40example.com"} {
		if !strings.Contains(body.CheckoutURL, param) {
			t.Errorf("checkout url missing %s: %s", param, body.CheckoutURL)
		}
	}
}

func TestOpenRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService()
	resp := svc.Open(&OpenRequest{
		PublicKey: "pk_test_123",
		Reference: "ref-001",
		Amount:    0,
		Customer:  Customer{Email: "ama@example.com"},
	})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", resp.Code)
	}
}

func TestCompleteConsumesSession(t *testing.T) {
	svc, body := openSession(t)

	resp := svc.Complete(&CompleteRequest{
		ID:       body.ID,
		Token:    body.Token,
		Response: map[string]any{"transactionId": "txn_abc123"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Complete code = %d: %s", resp.Code, resp.Message)
	}

	msg, ok := resp.Data.(CompletionMessage)
	if !ok {
		t.Fatalf("data type = %T", resp.Data)
	}
	if msg.Source != "xtopay" || msg.Status != "success" {
		t.Errorf("message = %+v", msg)
	}
	if msg.Response["transactionId"] != "txn_abc123" {
		t.Errorf("response payload = %v", msg.Response)
	}

	// The session is single-use.
	again := svc.Complete(&CompleteRequest{ID: body.ID, Token: body.Token})
	if again.Code != http.StatusNotFound {
		t.Errorf("second complete: code = %d, want 404", again.Code)
	}
}

func TestCompleteRejectsMismatchedToken(t *testing.T) {
	svc, first := openSession(t)

	other := svc.Open(&OpenRequest{
		PublicKey: "pk_test_456",
		Reference: "ref-002",
		Amount:    10,
		Customer:  Customer{Email: "kofi@example.com"},
	})
	otherBody := other.Data.(OpenResponse)

	resp := svc.Complete(&CompleteRequest{ID: first.ID, Token: otherBody.Token})
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", resp.Code)
	}
}

func TestCompleteRejectsGarbageToken(t *testing.T) {
	svc, body := openSession(t)

	resp := svc.Complete(&CompleteRequest{ID: body.ID, Token: "not-a-token"})
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", resp.Code)
	}
}

func TestCloseLifecycle(t *testing.T) {
	svc, body := openSession(t)

	if resp := svc.Close(body.ID); resp.Code != http.StatusOK {
		t.Errorf("Close code = %d", resp.Code)
	}
	if resp := svc.Close(body.ID); resp.Code != http.StatusNotFound {
		t.Errorf("double Close code = %d, want 404", resp.Code)
	}
	if resp := svc.Close("unknown"); resp.Code != http.StatusNotFound {
		t.Errorf("unknown Close code = %d, want 404", resp.Code)
	}
}
