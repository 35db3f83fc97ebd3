package embed

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/helper"
	"xtopay-checkout/internal/pkg/jwt"

	"github.com/google/uuid"
)

const messageSource = "xtopay"

// Open creates an embed session handle and the checkout URL the host page
// loads into its overlay.
func (s *Service) Open(req *OpenRequest) *types.Response {
	if req.Amount <= 0 {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Amount must be positive",
			Error:   &types.ValidationError{Field: "amount", Message: "Amount must be positive"},
		})
	}

	currency := req.Currency
	if currency == "" {
		currency = "GHS"
	}

	sess := &session{
		id:        uuid.NewString(),
		publicKey: req.PublicKey,
		reference: req.Reference,
		createdAt: time.Now(),
	}

	token, exp := jwt.GenerateEmbedToken(types.EmbedSessionData{
		ID:        sess.id,
		PublicKey: req.PublicKey,
		Reference: req.Reference,
	})
	if token == "" || exp == nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create embed session",
		})
	}
	sess.expiresAt = *exp

	query := url.Values{}
	query.Set("amount", fmt.Sprintf("%.2f", req.Amount))
	query.Set("currency", currency)
	query.Set("name", req.Customer.Name)
	query.Set("email", req.Customer.Email)
	checkoutURL := fmt.Sprintf("%s/pay/%s/%s?%s", s.baseURL, url.PathEscape(req.PublicKey), url.PathEscape(req.Reference), query.Encode())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return helper.ParseResponse(&types.Response{
		Code: http.StatusCreated,
		Data: OpenResponse{
			ID:          sess.id,
			Token:       token,
			CheckoutURL: checkoutURL,
			ExpiresAt:   sess.expiresAt.Format(time.RFC3339),
		},
	})
}

// Close destroys the session handle. Closing an unknown or already-closed
// session is a 404; the overlay teardown itself happens host-side.
func (s *Service) Close(id string) *types.Response {
	s.mu.Lock()
	_, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "Embed session not found",
		})
	}

	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Message: "Embed session closed"})
}

// Complete validates the session handle and produces the postMessage payload
// the host page relays to its listeners. The session is consumed.
func (s *Service) Complete(req *CompleteRequest) *types.Response {
	data, err := jwt.ValidateEmbedToken(req.Token)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnauthorized,
			Message: "Invalid embed session token",
			Error:   err,
		})
	}
	if data.ID != req.ID {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnauthorized,
			Message: "Token does not match embed session",
		})
	}

	s.mu.Lock()
	_, ok := s.sessions[req.ID]
	if ok {
		delete(s.sessions, req.ID)
	}
	s.mu.Unlock()

	if !ok {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "Embed session not found",
		})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: CompletionMessage{
			Source:   messageSource,
			Status:   "success",
			Response: req.Response,
		},
	})
}
