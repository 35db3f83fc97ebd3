package otp

import (
	"context"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/kairos"
)

type Service struct {
	ctx    context.Context
	kairos kairos.IKairos
}

type IService interface {
	Send(req *SendRequest) *types.Response
	Verify(req *VerifyRequest) *types.Response
}

func NewService(ctx context.Context, kairosClient kairos.IKairos) IService {
	return &Service{
		ctx:    ctx,
		kairos: kairosClient,
	}
}

// Request/Response DTOs

type SendRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type VerifyRequest struct {
	Code        string `json:"code"`
	PhoneNumber string `json:"phoneNumber"`
}

type RelayResult struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}
