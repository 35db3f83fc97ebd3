package embed

import (
	"context"
	"sync"
	"time"
	types "xtopay-checkout/internal/common/type"
)

// Service manages embed overlay sessions. Each open produces an explicit,
// instance-scoped handle; there is no ambient global overlay state.
type Service struct {
	ctx     context.Context
	baseURL string

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	id        string
	publicKey string
	reference string
	createdAt time.Time
	expiresAt time.Time
}

type IService interface {
	Open(req *OpenRequest) *types.Response
	Close(id string) *types.Response
	Complete(req *CompleteRequest) *types.Response
}

func NewService(ctx context.Context, baseURL string) IService {
	return &Service{
		ctx:      ctx,
		baseURL:  baseURL,
		sessions: make(map[string]*session),
	}
}

// Request/Response DTOs

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required"`
}

type OpenRequest struct {
	PublicKey string   `json:"public_key" binding:"required"`
	Reference string   `json:"reference" binding:"required"`
	Amount    float64  `json:"amount" binding:"required"`
	Currency  string   `json:"currency"`
	Customer  Customer `json:"customer" binding:"required"`
}

type OpenResponse struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	CheckoutURL string `json:"checkout_url"`
	ExpiresAt   string `json:"expires_at"`
}

type CompleteRequest struct {
	ID       string         `json:"id" binding:"required"`
	Token    string         `json:"token" binding:"required"`
	Response map[string]any `json:"response"`
}

// CompletionMessage is the cross-window payload the host page receives on
// successful completion.
type CompletionMessage struct {
	Source   string         `json:"source"`
	Status   string         `json:"status"`
	Response map[string]any `json:"response"`
}
