package otp

import (
	"context"
	"net/http"
	types "xtopay-checkout/internal/common/type"
	otpService "xtopay-checkout/internal/service/otp"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx        context.Context
	otpService otpService.IService
}

type IHandler interface {
	NewRoutes(e *gin.Engine)
}

func NewHandler(ctx context.Context, otpService otpService.IService) IHandler {
	return &Handler{
		ctx:        ctx,
		otpService: otpService,
	}
}

// The relay endpoints keep the checkout page's original wire contract:
// failures are `{error}` with the mapped status, successes are
// `{success, message, data}`. They bypass the send middleware the same way
// the webhook-style handlers do.

// SendOTP godoc
// @Summary      Send a verification code
// @Description  Validates the phone number and forwards a fixed-template send request to the OTP vendor
// @Tags         OTP
// @Accept       json
// @Produce      json
// @Param        request  body      otpService.SendRequest  true  "Send request"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /otp/send [post]
func (h *Handler) SendOTP(c *gin.Context) {
	var req otpService.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number is required"})
		return
	}

	h.relay(c, h.otpService.Send(&req))
}

// VerifyOTP godoc
// @Summary      Verify a code
// @Description  Validates code and phone formats, then forwards to the OTP vendor's validate endpoint
// @Tags         OTP
// @Accept       json
// @Produce      json
// @Param        request  body      otpService.VerifyRequest  true  "Verify request"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /otp/verify [post]
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req otpService.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both code and phone number are required"})
		return
	}

	h.relay(c, h.otpService.Verify(&req))
}

func (h *Handler) relay(c *gin.Context, resp *types.Response) {
	if resp.Code >= http.StatusBadRequest {
		c.JSON(resp.Code, gin.H{"error": resp.Message})
		return
	}

	result, _ := resp.Data.(otpService.RelayResult)
	c.JSON(resp.Code, gin.H{
		"success": true,
		"message": resp.Message,
		"data":    result.Data,
	})
}
