package otp

import (
	"github.com/gin-gonic/gin"
)

// NewRoutes mounts the relay at the root so the checkout page's original
// paths keep working.
func (h *Handler) NewRoutes(e *gin.Engine) {
	otp := e.Group("/otp")

	otp.POST("/send", h.SendOTP)
	otp.POST("/verify", h.VerifyOTP)
}
